package lifecycle

import (
	"context"

	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/notification"
	"github.com/opengestu/validele-sub000/internal/order"
)

// ApprovePayout releases the vendor payout of a delivered order.
func (s *Service) ApprovePayout(ctx context.Context, sess order.Session, orderID string) (*order.Transaction, error) {
	const op = "approve_payout"

	if err := requireRole(op, orderID, sess, order.RoleOperator); err != nil {
		return nil, err
	}
	o, err := s.load(ctx, op, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusDelivered {
		return nil, order.InvalidArgument(op, "order %s is %s; only delivered orders are paid out", orderID, o.Status)
	}

	tx, err := s.settlement.ApprovePayout(ctx, o)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Payout approved",
		zap.String("order_id", orderID),
		zap.String("vendor_id", o.VendorID),
		zap.String("operator", sess.ActorID),
	)
	s.notify(ctx, notification.EventPayoutApproved, o, "")
	return tx, nil
}

func (s *Service) ListEligiblePayouts(ctx context.Context, sess order.Session, limit int) ([]*order.Transaction, error) {
	const op = "list_eligible_payouts"

	if err := requireRole(op, "", sess, order.RoleOperator); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.ClaimableLimit
	}
	txs, err := s.settlement.ListEligiblePayouts(ctx, limit)
	if err != nil {
		return nil, s.failure(ctx, op, "", err)
	}
	return txs, nil
}
