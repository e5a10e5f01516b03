//go:generate mockgen -source ./gateway.go -destination=./mocks/gateway.go -package=mock_payment
package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/opengestu/validele-sub000/internal/order"
)

// Link is where the buyer completes a mobile-money payment.
type Link struct {
	URL         string `json:"payment_url"`
	ProviderRef string `json:"provider_ref"`
}

// Result is the provider's answer to a refund or payout request.
type Result struct {
	Status      order.TxStatus
	ProviderRef string
	Message     string
}

type Gateway interface {
	InitiatePayment(ctx context.Context, o *order.Order) (*Link, error)
	RequestRefund(ctx context.Context, orderID string, amount decimal.Decimal, reason string) (*Result, error)
	RequestPayout(ctx context.Context, vendorID, orderID string, amount decimal.Decimal) (*Result, error)
}
