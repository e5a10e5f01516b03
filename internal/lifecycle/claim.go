package lifecycle

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/metrics"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/repository"
)

var resolvableStatuses = []order.Status{order.StatusPaid, order.StatusAssigned, order.StatusInDelivery}

// TryClaim gives a paid, unowned order to the calling courier. The store
// decides the race: of any number of concurrent claims exactly one wins and
// the rest get ErrClaimConflict. A pending, cancelled or unknown order is a
// conflict too; the courier must re-resolve the order before trying again.
func (s *Service) TryClaim(ctx context.Context, sess order.Session, orderID string) (*order.Order, error) {
	const op = "try_claim"

	if err := requireRole(op, orderID, sess, order.RoleCourier); err != nil {
		return nil, err
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	now := s.now()
	courier := sess.ActorID
	o, err := s.orders.Apply(ctx,
		order.Guard{ID: orderID, From: []order.Status{order.StatusPaid}, Courier: order.Unassigned()},
		order.Patch{To: order.StatusAssigned, DeliveryPersonID: &courier, AssignedAt: &now, UpdatedAt: now},
	)
	if err != nil {
		if errors.Is(err, order.ErrConditionFailed) {
			metrics.ClaimsTotal.WithLabelValues("conflict").Inc()
			return nil, order.ClaimConflict(op, orderID, "order is no longer claimable")
		}
		metrics.ClaimsTotal.WithLabelValues("error").Inc()
		return nil, s.failure(ctx, op, orderID, err)
	}
	if !o.OwnedBy(courier) {
		return nil, order.DataInconsistency(op, orderID, "claim committed for courier %q", o.Courier())
	}

	metrics.ClaimsTotal.WithLabelValues("won").Inc()
	s.logger.Info("Order claimed", zap.String("order_id", orderID), zap.String("courier_id", courier))
	s.committed(ctx, order.StatusPaid, o)
	return o.Redacted(), nil
}

// ListClaimable is advisory: it comes from the claimable cache when that is
// loaded and from the store otherwise.
func (s *Service) ListClaimable(ctx context.Context, sess order.Session, limit int) ([]*order.Order, error) {
	const op = "list_claimable"

	if err := requireRole(op, "", sess, order.RoleCourier, order.RoleOperator); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.cfg.ClaimableLimit {
		limit = s.cfg.ClaimableLimit
	}

	if s.claimable != nil {
		if orders, ok := s.claimable.List(limit); ok {
			return orders, nil
		}
	}

	orders, err := s.orders.ListClaimable(ctx, limit)
	if err != nil {
		return nil, s.failure(ctx, op, "", err)
	}
	out := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Redacted())
	}
	return out, nil
}

// ResolveByCode finds an order from a human-entered order code. Orders already
// owned by a courier resolve only for that courier.
func (s *Service) ResolveByCode(ctx context.Context, sess order.Session, code string) (*order.Order, error) {
	const op = "resolve_by_code"

	if err := requireRole(op, "", sess, order.RoleCourier); err != nil {
		return nil, err
	}
	normalized := order.NormalizeCode(code)
	if normalized == "" {
		return nil, order.InvalidArgument(op, "order code is empty")
	}

	o, err := s.orders.GetByCode(ctx, normalized, resolvableStatuses)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, order.NotFound(op, "")
		}
		return nil, s.failure(ctx, op, "", err)
	}
	if o.Status.CourierOwned() && !o.OwnedBy(sess.ActorID) {
		return nil, order.NotFound(op, "")
	}
	return o.Redacted(), nil
}
