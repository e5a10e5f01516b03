package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/metrics"
	"github.com/opengestu/validele-sub000/internal/notification"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/payment"
)

var validate = validator.New()

type NewOrder struct {
	VendorID        string          `json:"vendor_id" validate:"required,max=64"`
	ProductID       string          `json:"product_id" validate:"required,max=64"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method" validate:"required,max=32"`
	DeliveryAddress string          `json:"delivery_address" validate:"required,max=512"`
	BuyerPhone      string          `json:"buyer_phone" validate:"required,max=32"`
}

func (n NewOrder) Validate() error {
	if err := validate.Struct(n); err != nil {
		return err
	}
	if !n.TotalAmount.IsPositive() {
		return fmt.Errorf("total_amount must be positive")
	}
	// Amounts are stored in minor units.
	if !n.TotalAmount.Equal(n.TotalAmount.Round(2)) {
		return fmt.Errorf("total_amount has more than 2 decimal places")
	}
	return nil
}

// CreateOrder stores a pending order for the calling buyer with fresh order
// and proof-of-delivery codes.
func (s *Service) CreateOrder(ctx context.Context, sess order.Session, in NewOrder) (*order.Order, error) {
	const op = "create_order"

	if err := requireRole(op, "", sess, order.RoleBuyer); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, order.InvalidArgument(op, "%v", err)
	}

	orderCode, err := order.NewOrderCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order code: %w", err)
	}
	proofCode, err := order.NewProofCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate proof code: %w", err)
	}

	now := s.now()
	o := &order.Order{
		ID:              uuid.NewString(),
		OrderCode:       orderCode,
		QRCode:          proofCode,
		BuyerID:         sess.ActorID,
		VendorID:        in.VendorID,
		ProductID:       in.ProductID,
		TotalAmount:     in.TotalAmount,
		PaymentMethod:   in.PaymentMethod,
		Status:          order.StatusPending,
		DeliveryAddress: in.DeliveryAddress,
		BuyerPhone:      in.BuyerPhone,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, s.failure(ctx, op, o.ID, err)
	}

	metrics.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created", zap.String("order_id", o.ID), zap.String("order_code", o.OrderCode))
	s.notify(ctx, notification.EventOrderCreated, o, "")
	return o, nil
}

// InitiatePayment asks the payment provider for a link the buyer can pay through.
// The order is not touched; only the provider's callback moves it to paid.
func (s *Service) InitiatePayment(ctx context.Context, sess order.Session, orderID string) (*payment.Link, error) {
	const op = "initiate_payment"

	if err := requireRole(op, orderID, sess, order.RoleBuyer); err != nil {
		return nil, err
	}
	o, err := s.load(ctx, op, orderID)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != sess.ActorID {
		return nil, order.Forbidden(op, orderID, "not the buyer of this order")
	}
	if o.Status != order.StatusPending {
		return nil, order.IllegalTransition(op, orderID, o.Status, order.StatusPaid)
	}

	link, err := s.gateway.InitiatePayment(ctx, o)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues(op).Inc()
		return nil, order.CollaboratorUnavailable(op, orderID, err)
	}
	if _, err := s.settlement.RecordPayment(ctx, o, order.TxPending, link.ProviderRef, ""); err != nil {
		s.logger.Warn("Failed to record pending payment", zap.String("order_id", orderID), zap.Error(err))
	}
	return link, nil
}

// ConfirmPayment applies the provider's payment callback. It is the only path
// from pending to paid and may be delivered more than once.
func (s *Service) ConfirmPayment(ctx context.Context, sess order.Session, cb *payment.Callback) (*order.Order, error) {
	const op = "confirm_payment"

	if err := requireRole(op, cb.OrderID, sess, order.RoleSystem); err != nil {
		return nil, err
	}
	if err := cb.Validate(); err != nil {
		return nil, order.InvalidArgument(op, "%v", err)
	}
	if cb.TxType() != order.TxPayment {
		return nil, order.InvalidArgument(op, "callback kind %q is not a payment", cb.Kind)
	}
	status, err := cb.TxStatus()
	if err != nil {
		return nil, order.InvalidArgument(op, "%v", err)
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	o, err := s.load(ctx, op, cb.OrderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.settlement.RecordPayment(ctx, o, status, cb.ProviderRef, cb.Message); err != nil {
		return nil, err
	}

	switch status {
	case order.TxSuccessful:
		if o.Status != order.StatusPending {
			return o, nil
		}
		now := s.now()
		paid, err := s.orders.Apply(ctx,
			order.Guard{ID: o.ID, From: []order.Status{order.StatusPending}, Courier: order.AnyCourier()},
			order.Patch{To: order.StatusPaid, PaymentConfirmedAt: &now, UpdatedAt: now},
		)
		if err != nil {
			if errors.Is(err, order.ErrConditionFailed) {
				// A concurrent delivery of the same callback won.
				return s.load(ctx, op, o.ID)
			}
			return nil, s.failure(ctx, op, o.ID, err)
		}
		s.committed(ctx, order.StatusPending, paid)
		s.notify(ctx, notification.EventPaymentConfirmed, paid, "")
		return paid, nil
	case order.TxFailed:
		if o.Status == order.StatusPending {
			s.notify(ctx, notification.EventPaymentFailed, o, cb.Message)
		}
	}
	return o, nil
}

// AwaitPayment polls the order until it leaves pending. It never writes: a
// buyer returning from the provider's page learns the outcome of the callback.
func (s *Service) AwaitPayment(ctx context.Context, sess order.Session, orderID string) (*order.Order, error) {
	const op = "await_payment"

	if err := requireRole(op, orderID, sess, order.RoleBuyer); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		o, err := s.load(ctx, op, orderID)
		if err != nil {
			return nil, err
		}
		if o.BuyerID != sess.ActorID {
			return nil, order.Forbidden(op, orderID, "not the buyer of this order")
		}
		if o.Status != order.StatusPending {
			return o, nil
		}
		if attempt >= s.cfg.PaymentPollMaxAttempts {
			return nil, order.CollaboratorUnavailable(op, orderID,
				fmt.Errorf("payment still pending after %d checks", attempt))
		}

		timer := time.NewTimer(s.cfg.PaymentPollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, order.Timeout(op, orderID, ctx.Err())
		case <-timer.C:
		}
	}
}

// ApplySettlementCallback records a refund or payout update from the provider.
func (s *Service) ApplySettlementCallback(ctx context.Context, sess order.Session, cb *payment.Callback) (*order.Transaction, error) {
	const op = "settlement_callback"

	if err := requireRole(op, cb.OrderID, sess, order.RoleSystem); err != nil {
		return nil, err
	}
	if err := cb.Validate(); err != nil {
		return nil, order.InvalidArgument(op, "%v", err)
	}

	tx, err := s.settlement.ApplyCallback(ctx, cb)
	if err != nil {
		return nil, err
	}
	if tx.Type == order.TxRefund && tx.Status == order.TxFailed {
		if o, err := s.load(ctx, op, cb.OrderID); err == nil {
			s.notify(ctx, notification.EventRefundFailed, o, tx.Message)
		}
	}
	return tx, nil
}
