package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/lifecycle"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/payment"
	"github.com/opengestu/validele-sub000/internal/proof"
)

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid value for 'limit' parameter")
		return 0, false
	}
	return limit, true
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (order.Session, bool) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return sess, ok
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var in lifecycle.NewOrder
	if !decodeBody(w, r, &in) {
		return
	}

	o, err := s.svc.CreateOrder(r.Context(), sess, in)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	o, err := s.svc.GetOrder(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	orders, err := s.svc.ListOrders(r.Context(), sess, limit)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleOrderQR(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	code, err := s.svc.ProofCode(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size > 1024 {
		size = 1024
	}
	png, err := proof.Render(code, size)
	if err != nil {
		s.logger.Error("Failed to render proof code", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to render code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	link, err := s.svc.InitiatePayment(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, link)
}

func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	o, err := s.svc.AwaitPayment(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	o, err := s.svc.TryClaim(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleStartDelivery(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	o, err := s.svc.StartDelivery(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.svc.Scan(r.Context(), sess, mux.Vars(r)["id"], req.Code)
	if err != nil {
		if errors.Is(err, order.ErrInvalidProof) {
			respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  order.UserMessage(order.ErrInvalidProof),
				Kind:   KindName(err),
				Reason: string(res.Reason),
			})
			return
		}
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	o, err := s.svc.ConfirmDelivery(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

type cancelResponse struct {
	Order       *order.Order       `json:"order"`
	Refund      *order.Transaction `json:"refund,omitempty"`
	RefundError string             `json:"refund_error,omitempty"`
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req lifecycle.CancelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := s.svc.Cancel(r.Context(), sess, mux.Vars(r)["id"], req)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	resp := cancelResponse{Order: out.Order, Refund: out.Refund}
	if out.RefundErr != nil {
		resp.RefundError = order.UserMessage(order.KindOf(out.RefundErr))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListClaimable(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	orders, err := s.svc.ListClaimable(r.Context(), sess, limit)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleResolveByCode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	o, err := s.svc.ResolveByCode(r.Context(), sess, r.URL.Query().Get("code"))
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleListPayouts(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	txs, err := s.svc.ListEligiblePayouts(r.Context(), sess, limit)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txs)
}

func (s *Server) handleApprovePayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	tx, err := s.svc.ApprovePayout(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

func (s *Server) handleRetryRefund(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	tx, err := s.svc.RetryRefund(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

// handlePaymentWebhook receives the provider's payment, refund and payout updates.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.validWebhookSecret(r) {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var cb payment.Callback
	if !decodeBody(w, r, &cb) {
		return
	}
	if err := cb.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := order.SystemSession("payment-webhook")
	var err error
	if cb.TxType() == order.TxPayment {
		_, err = s.svc.ConfirmPayment(r.Context(), sess, &cb)
	} else {
		_, err = s.svc.ApplySettlementCallback(r.Context(), sess, &cb)
	}
	if err != nil {
		s.logger.Warn("Payment webhook rejected",
			zap.String("kind", cb.Kind),
			zap.String("order_id", cb.OrderID),
			zap.Error(err),
		)
		respondLifecycleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}
