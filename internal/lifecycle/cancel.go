package lifecycle

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/notification"
	"github.com/opengestu/validele-sub000/internal/order"
)

const maxCancelReason = 512

type CancelRequest struct {
	Reason string `json:"reason"`
	// Expected is the status the caller saw. Empty means the status read now.
	Expected order.Status `json:"expected_status,omitempty"`
}

// CancelOutcome reports a committed cancellation. RefundErr is set when the
// refund could not be requested; the order stays cancelled either way.
type CancelOutcome struct {
	Order     *order.Order       `json:"order"`
	Refund    *order.Transaction `json:"refund,omitempty"`
	RefundErr error              `json:"-"`
}

// Cancel cancels a paid, assigned or in-delivery order with a write guarded
// on the expected status, so a claim or delivery that lands first wins.
func (s *Service) Cancel(ctx context.Context, sess order.Session, orderID string, req CancelRequest) (*CancelOutcome, error) {
	const op = "cancel"

	if err := requireRole(op, orderID, sess, order.RoleBuyer, order.RoleOperator); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if len(reason) > maxCancelReason {
		return nil, order.InvalidArgument(op, "reason is longer than %d bytes", maxCancelReason)
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	o, err := s.load(ctx, op, orderID)
	if err != nil {
		return nil, err
	}
	if sess.Role == order.RoleBuyer && o.BuyerID != sess.ActorID {
		return nil, order.Forbidden(op, orderID, "not the buyer of this order")
	}

	from := req.Expected
	if from == "" {
		from = o.Status
	}
	if !from.Cancellable() {
		return nil, order.IllegalTransition(op, orderID, from, order.StatusCancelled)
	}

	now := s.now()
	cancelled, err := s.orders.Apply(ctx,
		order.Guard{ID: orderID, From: []order.Status{from}, Courier: order.AnyCourier()},
		order.Patch{To: order.StatusCancelled, CancelledAt: &now, CancelReason: &reason, UpdatedAt: now},
	)
	if err != nil {
		if !errors.Is(err, order.ErrConditionFailed) {
			return nil, s.failure(ctx, op, orderID, err)
		}
		cur, readErr := s.load(ctx, op, orderID)
		if readErr != nil {
			return nil, readErr
		}
		return nil, order.IllegalTransition(op, orderID, cur.Status, order.StatusCancelled)
	}

	s.committed(ctx, from, cancelled)
	s.notify(ctx, notification.EventCancelled, cancelled, reason)

	out := &CancelOutcome{Order: view(sess, cancelled)}
	out.Refund, out.RefundErr = s.settlement.Refund(context.WithoutCancel(ctx), cancelled, reason)
	if out.RefundErr != nil {
		s.logger.Error("Refund failed after cancellation", zap.String("order_id", orderID), zap.Error(out.RefundErr))
		s.notify(ctx, notification.EventRefundFailed, cancelled, reason)
	}
	return out, nil
}

// RetryRefund asks the provider again for the refund of a cancelled order
// whose earlier refund failed or was rejected. A refund already pending or
// settled is returned as is.
func (s *Service) RetryRefund(ctx context.Context, sess order.Session, orderID string) (*order.Transaction, error) {
	const op = "retry_refund"

	if err := requireRole(op, orderID, sess, order.RoleOperator); err != nil {
		return nil, err
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	o, err := s.load(ctx, op, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusCancelled {
		return nil, order.InvalidArgument(op, "order %s is %s; only cancelled orders are refunded", orderID, o.Status)
	}

	tx, err := s.settlement.Refund(context.WithoutCancel(ctx), o, o.CancelReason)
	if err != nil {
		s.logger.Error("Refund retry failed", zap.String("order_id", orderID), zap.String("operator", sess.ActorID), zap.Error(err))
		s.notify(ctx, notification.EventRefundFailed, o, o.CancelReason)
		return nil, err
	}
	if tx == nil {
		return nil, order.InvalidArgument(op, "order %s has no successful payment to refund", orderID)
	}
	s.logger.Info("Refund requested again",
		zap.String("order_id", orderID),
		zap.String("operator", sess.ActorID),
		zap.String("status", string(tx.Status)),
	)
	return tx, nil
}
