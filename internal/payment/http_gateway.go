package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opengestu/validele-sub000/internal/order"
)

// HTTPGateway talks JSON to the mobile-money provider.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type initiateRequest struct {
	OrderID string          `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
	Method  string          `json:"method"`
	Phone   string          `json:"phone"`
}

type initiateResponse struct {
	PaymentURL string `json:"payment_url"`
	Reference  string `json:"reference"`
}

type refundRequest struct {
	OrderID string          `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason,omitempty"`
}

type payoutRequest struct {
	VendorID string          `json:"vendor_id"`
	OrderID  string          `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type statusResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

func (g *HTTPGateway) InitiatePayment(ctx context.Context, o *order.Order) (*Link, error) {
	var resp initiateResponse
	err := g.post(ctx, "/payments", initiateRequest{
		OrderID: o.ID,
		Amount:  o.TotalAmount,
		Method:  o.PaymentMethod,
		Phone:   o.BuyerPhone,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.PaymentURL == "" {
		return nil, fmt.Errorf("payment provider returned no payment url for order %s", o.ID)
	}
	return &Link{URL: resp.PaymentURL, ProviderRef: resp.Reference}, nil
}

func (g *HTTPGateway) RequestRefund(ctx context.Context, orderID string, amount decimal.Decimal, reason string) (*Result, error) {
	var resp statusResponse
	if err := g.post(ctx, "/refunds", refundRequest{OrderID: orderID, Amount: amount, Reason: reason}, &resp); err != nil {
		return nil, err
	}
	return resp.result()
}

func (g *HTTPGateway) RequestPayout(ctx context.Context, vendorID, orderID string, amount decimal.Decimal) (*Result, error) {
	var resp statusResponse
	if err := g.post(ctx, "/payouts", payoutRequest{VendorID: vendorID, OrderID: orderID, Amount: amount}, &resp); err != nil {
		return nil, err
	}
	return resp.result()
}

func (r statusResponse) result() (*Result, error) {
	status, err := order.NormalizeProviderStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("payment provider: %w", err)
	}
	return &Result{Status: status, ProviderRef: r.Reference, Message: r.Message}, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment provider %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("payment provider %s: failed to read response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("payment provider %s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("payment provider %s: failed to decode response: %w", path, err)
	}
	return nil
}
