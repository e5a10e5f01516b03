//go:generate mockgen -source ./service.go -destination=./mocks/service.go -package=mock_lifecycle
package lifecycle

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/metrics"
	"github.com/opengestu/validele-sub000/internal/notification"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/payment"
	"github.com/opengestu/validele-sub000/internal/repository"
	"github.com/opengestu/validele-sub000/internal/storage"
)

const defaultOperationTimeout = 30 * time.Second

type Dispatcher interface {
	Dispatch(ctx context.Context, ev notification.Event, o *order.Order, data notification.Context)
}

// ChangePublisher announces a committed order snapshot to other processes.
type ChangePublisher interface {
	Publish(ctx context.Context, o *order.Order) error
}

// ClaimableView is an advisory list of claimable orders. ok is false until the
// view has been loaded.
type ClaimableView interface {
	List(limit int) ([]*order.Order, bool)
}

type Settlement interface {
	RecordPayment(ctx context.Context, o *order.Order, status order.TxStatus, providerRef, message string) (*order.Transaction, error)
	MarkPayoutEligible(ctx context.Context, o *order.Order) (*order.Transaction, error)
	Refund(ctx context.Context, o *order.Order, reason string) (*order.Transaction, error)
	ApprovePayout(ctx context.Context, o *order.Order) (*order.Transaction, error)
	ApplyCallback(ctx context.Context, cb *payment.Callback) (*order.Transaction, error)
	ListEligiblePayouts(ctx context.Context, limit int) ([]*order.Transaction, error)
}

type Config struct {
	OperationTimeout       time.Duration
	PaymentPollInterval    time.Duration
	PaymentPollMaxAttempts int
	ClaimableLimit         int
}

type Deps struct {
	Orders     storage.OrderRepository
	Settlement Settlement
	Gateway    payment.Gateway
	Notifier   Dispatcher
	Changes    ChangePublisher
	Claimable  ClaimableView
}

// Service drives orders through their lifecycle. Every status change is a
// single conditional write; a failed precondition is reported, never retried.
type Service struct {
	orders     storage.OrderRepository
	settlement Settlement
	gateway    payment.Gateway
	notifier   Dispatcher
	changes    ChangePublisher
	claimable  ClaimableView
	proofs     *proofSessions
	cfg        Config
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(deps Deps, cfg Config, logger *zap.Logger) *Service {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = defaultOperationTimeout
	}
	if cfg.PaymentPollMaxAttempts <= 0 {
		cfg.PaymentPollMaxAttempts = 1
	}
	if cfg.ClaimableLimit <= 0 {
		cfg.ClaimableLimit = 50
	}
	return &Service{
		orders:     deps.Orders,
		settlement: deps.Settlement,
		gateway:    deps.Gateway,
		notifier:   deps.Notifier,
		changes:    deps.Changes,
		claimable:  deps.Claimable,
		proofs:     newProofSessions(),
		cfg:        cfg,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetOrder returns the order to one of its parties or an operator. Only the
// buyer sees the proof-of-delivery code.
func (s *Service) GetOrder(ctx context.Context, sess order.Session, orderID string) (*order.Order, error) {
	const op = "get_order"

	o, err := s.load(ctx, op, orderID)
	if err != nil {
		return nil, err
	}
	if !canView(sess, o) {
		return nil, order.Forbidden(op, orderID, "not a party of this order")
	}
	return view(sess, o), nil
}

// ListOrders lists the orders the caller is a party of, newest first.
func (s *Service) ListOrders(ctx context.Context, sess order.Session, limit int) ([]*order.Order, error) {
	const op = "list_orders"

	if err := requireRole(op, "", sess, order.RoleBuyer, order.RoleVendor, order.RoleCourier); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.ClaimableLimit
	}
	orders, err := s.orders.ListByParty(ctx, sess.Role, sess.ActorID, limit)
	if err != nil {
		return nil, s.failure(ctx, op, "", err)
	}
	out := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, view(sess, o))
	}
	return out, nil
}

// ProofCode returns the raw proof-of-delivery code for rendering to the buyer.
func (s *Service) ProofCode(ctx context.Context, sess order.Session, orderID string) (string, error) {
	const op = "proof_code"

	o, err := s.load(ctx, op, orderID)
	if err != nil {
		return "", err
	}
	if sess.Role != order.RoleBuyer || o.BuyerID != sess.ActorID {
		return "", order.Forbidden(op, orderID, "only the buyer can display the delivery code")
	}
	if o.Status.IsTerminal() {
		return "", order.IllegalTransition(op, orderID, o.Status, order.StatusDelivered)
	}
	return o.QRCode, nil
}

func (s *Service) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.OperationTimeout)
}

func (s *Service) load(ctx context.Context, op, orderID string) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, order.NotFound(op, orderID)
		}
		return nil, s.failure(ctx, op, orderID, err)
	}
	return o, nil
}

// failure classifies an unexpected store or collaborator error. A deadline is
// never reported as anything but a timeout: the write may or may not have landed.
func (s *Service) failure(ctx context.Context, op, orderID string, err error) error {
	var lifecycleErr *order.Error
	if errors.As(err, &lifecycleErr) {
		return err
	}
	metrics.OperationErrorsTotal.WithLabelValues(op).Inc()
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return order.Timeout(op, orderID, err)
	}
	s.logger.Error("Operation failed", zap.String("op", op), zap.String("order_id", orderID), zap.Error(err))
	return order.CollaboratorUnavailable(op, orderID, err)
}

// committed runs the side effects every successful transition shares.
func (s *Service) committed(ctx context.Context, from order.Status, o *order.Order) {
	metrics.TransitionsTotal.WithLabelValues(string(from), string(o.Status)).Inc()
	s.logger.Info("Order transitioned",
		zap.String("order_id", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
	)
	if s.changes == nil {
		return
	}
	if err := s.changes.Publish(context.WithoutCancel(ctx), o); err != nil {
		s.logger.Warn("Failed to publish order change", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (s *Service) notify(ctx context.Context, ev notification.Event, o *order.Order, reason string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Dispatch(ctx, ev, o, notification.Context{Reason: reason, At: s.now()})
}

func requireRole(op, orderID string, sess order.Session, roles ...order.Role) error {
	if sess.ActorID == "" {
		return order.Forbidden(op, orderID, "missing actor")
	}
	for _, r := range roles {
		if sess.Role == r {
			return nil
		}
	}
	return order.Forbidden(op, orderID, "role %q cannot perform this action", sess.Role)
}

func canView(sess order.Session, o *order.Order) bool {
	switch sess.Role {
	case order.RoleOperator, order.RoleSystem:
		return true
	case order.RoleBuyer:
		return o.BuyerID == sess.ActorID
	case order.RoleVendor:
		return o.VendorID == sess.ActorID
	case order.RoleCourier:
		return o.OwnedBy(sess.ActorID) || (o.Status == order.StatusPaid && o.DeliveryPersonID == nil)
	default:
		return false
	}
}

func view(sess order.Session, o *order.Order) *order.Order {
	if sess.Role == order.RoleBuyer && o.BuyerID == sess.ActorID {
		return o
	}
	return o.Redacted()
}
