package lifecycle

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/metrics"
	"github.com/opengestu/validele-sub000/internal/notification"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/proof"
)

type proofSessions struct {
	mu        sync.Mutex
	byCourier map[string]*proof.Session
}

func newProofSessions() *proofSessions {
	return &proofSessions{byCourier: make(map[string]*proof.Session)}
}

func (p *proofSessions) get(courierID string) *proof.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.byCourier[courierID]
	if !ok {
		sess = proof.NewSession(courierID)
		p.byCourier[courierID] = sess
	}
	return sess
}

// StartDelivery moves an assigned order to in_delivery for its courier. A
// transport failure is retried once; success is reported only when the row
// is seen in_delivery for this courier.
func (s *Service) StartDelivery(ctx context.Context, sess order.Session, orderID string) (*order.Order, error) {
	const op = "start_delivery"

	if err := requireRole(op, orderID, sess, order.RoleCourier); err != nil {
		return nil, err
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	courier := sess.ActorID
	now := s.now()
	guard := order.Guard{ID: orderID, From: []order.Status{order.StatusAssigned}, Courier: order.CourierIs(courier)}
	patch := order.Patch{To: order.StatusInDelivery, UpdatedAt: now}

	o, err := s.orders.Apply(ctx, guard, patch)
	// Any outcome other than a lost guard may have landed this write.
	attempted := err == nil || !errors.Is(err, order.ErrConditionFailed)
	if err != nil && !errors.Is(err, order.ErrConditionFailed) && ctx.Err() == nil {
		s.logger.Warn("Start delivery write failed, retrying once", zap.String("order_id", orderID), zap.Error(err))
		o, err = s.orders.Apply(ctx, guard, patch)
	}

	if err != nil {
		cur, readErr := s.load(ctx, op, orderID)
		if readErr != nil {
			if errors.Is(err, order.ErrConditionFailed) {
				return nil, readErr
			}
			return nil, s.failure(ctx, op, orderID, err)
		}
		switch {
		case cur.Status == order.StatusInDelivery && cur.OwnedBy(courier):
			if !attempted {
				// Already started by an earlier request.
				return cur.Redacted(), nil
			}
			o = cur
		case !cur.OwnedBy(courier):
			return nil, order.Forbidden(op, orderID, "order is not assigned to this courier")
		case errors.Is(err, order.ErrConditionFailed):
			return nil, order.IllegalTransition(op, orderID, cur.Status, order.StatusInDelivery)
		default:
			return nil, s.failure(ctx, op, orderID, err)
		}
	}

	s.committed(ctx, order.StatusAssigned, o)
	s.notify(ctx, notification.EventDeliveryStarted, o, "")
	return o.Redacted(), nil
}

// Scan checks a scanned code against the order in the courier's scan session.
// Nothing is written; a valid result must be confirmed with ConfirmDelivery.
func (s *Service) Scan(ctx context.Context, sess order.Session, orderID, scanned string) (proof.Result, error) {
	const op = "scan"

	if err := requireRole(op, orderID, sess, order.RoleCourier); err != nil {
		return proof.Result{}, err
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	o, err := s.load(ctx, op, orderID)
	if err != nil {
		return proof.Result{}, err
	}

	res := s.proofs.get(sess.ActorID).Scan(o, scanned)
	metrics.ProofScansTotal.WithLabelValues(string(res.State)).Inc()
	if res.Order != nil {
		res.Order = res.Order.Redacted()
	}
	if res.State != proof.StateValid {
		s.logger.Info("Proof of delivery rejected",
			zap.String("order_id", orderID),
			zap.String("courier_id", sess.ActorID),
			zap.String("reason", string(res.Reason)),
		)
		return res, order.InvalidProof(op, orderID, "%s", res.Reason)
	}
	return res, nil
}

// ConfirmDelivery finalizes the delivery validated by the courier's last scan.
func (s *Service) ConfirmDelivery(ctx context.Context, sess order.Session, orderID string) (*order.Order, error) {
	if err := requireRole("confirm_delivery", orderID, sess, order.RoleCourier); err != nil {
		return nil, err
	}
	return s.ConfirmWithProof(ctx, sess, s.proofs.get(sess.ActorID), orderID)
}

// ConfirmWithProof moves the order from in_delivery to delivered when ps holds
// a valid scan of it. Confirming an order this courier already delivered
// returns it unchanged and triggers nothing.
func (s *Service) ConfirmWithProof(ctx context.Context, sess order.Session, ps *proof.Session, orderID string) (*order.Order, error) {
	const op = "confirm_delivery"

	if err := requireRole(op, orderID, sess, order.RoleCourier); err != nil {
		return nil, err
	}
	if ps == nil || ps.CourierID() != sess.ActorID {
		return nil, order.Forbidden(op, orderID, "scan session belongs to another courier")
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	courier := sess.ActorID
	if _, ok := ps.Confirmation(orderID); !ok {
		cur, err := s.load(ctx, op, orderID)
		if err != nil {
			return nil, err
		}
		if cur.Status == order.StatusDelivered && cur.OwnedBy(courier) {
			return cur.Redacted(), nil
		}
		return nil, order.InvalidProof(op, orderID, "scan the buyer's code before confirming")
	}

	now := s.now()
	o, err := s.orders.Apply(ctx,
		order.Guard{ID: orderID, From: []order.Status{order.StatusInDelivery}, Courier: order.CourierIs(courier)},
		order.Patch{To: order.StatusDelivered, DeliveredAt: &now, UpdatedAt: now},
	)
	if err != nil {
		if !errors.Is(err, order.ErrConditionFailed) {
			return nil, s.failure(ctx, op, orderID, err)
		}
		cur, readErr := s.load(ctx, op, orderID)
		if readErr != nil {
			return nil, readErr
		}
		switch {
		case cur.Status == order.StatusDelivered && cur.OwnedBy(courier):
			ps.Reset()
			return cur.Redacted(), nil
		case !cur.OwnedBy(courier):
			ps.Reset()
			return nil, order.Forbidden(op, orderID, "order is not assigned to this courier")
		default:
			ps.Reset()
			return nil, order.IllegalTransition(op, orderID, cur.Status, order.StatusDelivered)
		}
	}
	ps.Reset()

	s.committed(ctx, order.StatusInDelivery, o)
	if _, err := s.settlement.MarkPayoutEligible(context.WithoutCancel(ctx), o); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("mark_payout_eligible").Inc()
		s.logger.Error("Failed to mark payout eligible", zap.String("order_id", o.ID), zap.Error(err))
	}
	s.notify(ctx, notification.EventDelivered, o, "")
	return o.Redacted(), nil
}
