// Package settlement records the money side of the order lifecycle: the
// buyer's payment, the refund after a cancellation and the vendor payout
// after delivery. Progress lives on transactions; orders are never moved
// from here.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/metrics"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/payment"
	"github.com/opengestu/validele-sub000/internal/repository"
	"github.com/opengestu/validele-sub000/internal/storage"
)

type Service struct {
	txs     storage.TransactionRepository
	gateway payment.Gateway
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(txs storage.TransactionRepository, gateway payment.Gateway, logger *zap.Logger) *Service {
	return &Service{
		txs:     txs,
		gateway: gateway,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) newTx(o *order.Order, typ order.TxType, status order.TxStatus) *order.Transaction {
	now := s.now()
	return &order.Transaction{
		ID:        uuid.NewString(),
		OrderID:   o.ID,
		Type:      typ,
		Status:    status,
		Amount:    o.TotalAmount,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RecordPayment stores the outcome of a payment callback. A SUCCESSFUL payment
// is never downgraded by a late or repeated callback.
func (s *Service) RecordPayment(ctx context.Context, o *order.Order, status order.TxStatus, providerRef, message string) (*order.Transaction, error) {
	const op = "record_payment"

	tx := s.newTx(o, order.TxPayment, status)
	tx.ProviderRef = providerRef
	tx.Message = message

	stored, created, err := s.txs.CreateIfAbsent(ctx, tx)
	if err != nil {
		return nil, order.CollaboratorUnavailable(op, o.ID, err)
	}
	if created || stored.Status == order.TxSuccessful || stored.Status == status {
		return stored, nil
	}

	updated, err := s.txs.UpdateStatus(ctx, stored.ID, status, providerRef, message, s.now())
	if err != nil {
		return nil, order.CollaboratorUnavailable(op, o.ID, err)
	}
	return updated, nil
}

// SuccessfulPayment returns the order's payment when the provider confirmed it.
func (s *Service) SuccessfulPayment(ctx context.Context, orderID string) (*order.Transaction, bool, error) {
	tx, err := s.txs.Get(ctx, orderID, order.TxPayment)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return tx, tx.Status == order.TxSuccessful, nil
}

// MarkPayoutEligible creates the vendor payout awaiting approval. Calling it
// again for the same order returns the existing payout.
func (s *Service) MarkPayoutEligible(ctx context.Context, o *order.Order) (*order.Transaction, error) {
	stored, created, err := s.txs.CreateIfAbsent(ctx, s.newTx(o, order.TxPayout, order.TxPending))
	if err != nil {
		return nil, order.CollaboratorUnavailable("mark_payout_eligible", o.ID, err)
	}
	if created {
		s.logger.Info("Payout eligible", zap.String("order_id", o.ID), zap.String("vendor_id", o.VendorID))
	}
	return stored, nil
}

// Refund asks the provider to return the buyer's payment. Orders without a
// successful payment have nothing to refund and yield (nil, nil). A refund
// already accepted or pending is not requested twice; a FAILED one is reopened
// and requested again. A refund the provider rejects is returned together with
// an error.
func (s *Service) Refund(ctx context.Context, o *order.Order, reason string) (*order.Transaction, error) {
	const op = "refund"

	_, paid, err := s.SuccessfulPayment(ctx, o.ID)
	if err != nil {
		return nil, order.CollaboratorUnavailable(op, o.ID, err)
	}
	if !paid {
		return nil, nil
	}

	refund, created, err := s.txs.CreateIfAbsent(ctx, s.newTx(o, order.TxRefund, order.TxPending))
	if err != nil {
		return nil, order.CollaboratorUnavailable(op, o.ID, err)
	}
	if !created {
		if refund.Status != order.TxFailed {
			return refund, nil
		}
		reopened, err := s.txs.Reopen(ctx, refund.ID, s.now())
		if err != nil {
			if !errors.Is(err, order.ErrConditionFailed) {
				return nil, order.CollaboratorUnavailable(op, o.ID, err)
			}
			// A concurrent retry reopened it first.
			cur, err := s.txs.Get(ctx, o.ID, order.TxRefund)
			if err != nil {
				return nil, order.CollaboratorUnavailable(op, o.ID, err)
			}
			return cur, nil
		}
		refund = reopened
	}

	res, err := s.gateway.RequestRefund(ctx, o.ID, o.TotalAmount, reason)
	if err != nil {
		metrics.RefundsTotal.WithLabelValues(string(order.TxFailed)).Inc()
		failed, updErr := s.txs.UpdateStatus(ctx, refund.ID, order.TxFailed, "", err.Error(), s.now())
		if updErr != nil {
			s.logger.Error("Failed to record refund failure", zap.String("order_id", o.ID), zap.Error(updErr))
			failed = refund
		}
		return failed, order.CollaboratorUnavailable(op, o.ID, err)
	}

	metrics.RefundsTotal.WithLabelValues(string(res.Status)).Inc()
	updated, err := s.txs.UpdateStatus(ctx, refund.ID, res.Status, res.ProviderRef, res.Message, s.now())
	if err != nil {
		return refund, order.CollaboratorUnavailable(op, o.ID, err)
	}
	if res.Status == order.TxFailed {
		return updated, order.CollaboratorUnavailable(op, o.ID, rejection("refund", res.Message))
	}
	return updated, nil
}

// ApprovePayout releases the vendor payout. The conditional approved_at write
// decides between concurrent approvals, so the provider is asked once. A
// payout the provider does not accept loses its approval and is listed as
// eligible again. An accepted payout stays PENDING until the provider's
// callback.
func (s *Service) ApprovePayout(ctx context.Context, o *order.Order) (*order.Transaction, error) {
	const op = "approve_payout"

	payout, err := s.txs.Get(ctx, o.ID, order.TxPayout)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, order.DataInconsistency(op, o.ID, "no payout recorded for a %s order", o.Status)
		}
		return nil, order.CollaboratorUnavailable(op, o.ID, err)
	}
	if payout.ApprovedAt != nil {
		return payout, nil
	}

	approved, err := s.txs.MarkApproved(ctx, payout.ID, "", s.now())
	if err != nil {
		if errors.Is(err, order.ErrConditionFailed) {
			return s.txs.Get(ctx, o.ID, order.TxPayout)
		}
		return nil, order.CollaboratorUnavailable(op, o.ID, err)
	}

	res, err := s.gateway.RequestPayout(ctx, o.VendorID, o.ID, payout.Amount)
	if err != nil {
		return nil, s.releasePayout(ctx, op, o, approved, err)
	}
	if res.Status == order.TxFailed {
		return nil, s.releasePayout(ctx, op, o, approved, rejection("payout", res.Message))
	}

	metrics.PayoutsApprovedTotal.Inc()
	updated, err := s.txs.UpdateStatus(ctx, approved.ID, res.Status, res.ProviderRef, res.Message, s.now())
	if err != nil {
		return approved, order.CollaboratorUnavailable(op, o.ID, err)
	}
	return updated, nil
}

func (s *Service) releasePayout(ctx context.Context, op string, o *order.Order, payout *order.Transaction, cause error) error {
	if _, err := s.txs.ReleaseApproval(ctx, payout.ID, cause.Error(), s.now()); err != nil {
		s.logger.Error("Failed to release payout approval", zap.String("order_id", o.ID), zap.Error(err))
	}
	return order.CollaboratorUnavailable(op, o.ID, cause)
}

func rejection(kind, message string) error {
	if message == "" {
		return fmt.Errorf("%s rejected by provider", kind)
	}
	return fmt.Errorf("%s rejected by provider: %s", kind, message)
}

// ApplyCallback records a provider update for a refund or payout.
func (s *Service) ApplyCallback(ctx context.Context, cb *payment.Callback) (*order.Transaction, error) {
	const op = "settlement_callback"

	typ := cb.TxType()
	if typ != order.TxRefund && typ != order.TxPayout {
		return nil, order.InvalidArgument(op, "callback kind %q is not a settlement", cb.Kind)
	}
	status, err := cb.TxStatus()
	if err != nil {
		return nil, order.InvalidArgument(op, "%v", err)
	}

	tx, err := s.txs.Get(ctx, cb.OrderID, typ)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, order.NotFound(op, cb.OrderID)
		}
		return nil, order.CollaboratorUnavailable(op, cb.OrderID, err)
	}
	if tx.Status == order.TxSuccessful {
		return tx, nil
	}

	// A rejected payout goes back to the approval queue.
	if typ == order.TxPayout && status == order.TxFailed && tx.ApprovedAt != nil {
		released, err := s.txs.ReleaseApproval(ctx, tx.ID, cb.Message, s.now())
		if err == nil {
			return released, nil
		}
		if !errors.Is(err, order.ErrConditionFailed) {
			return nil, order.CollaboratorUnavailable(op, cb.OrderID, err)
		}
	}

	updated, err := s.txs.UpdateStatus(ctx, tx.ID, status, cb.ProviderRef, cb.Message, s.now())
	if err != nil {
		return nil, order.CollaboratorUnavailable(op, cb.OrderID, err)
	}
	return updated, nil
}

func (s *Service) ListEligiblePayouts(ctx context.Context, limit int) ([]*order.Transaction, error) {
	return s.txs.ListEligiblePayouts(ctx, limit)
}
