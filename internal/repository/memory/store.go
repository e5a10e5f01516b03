// Package memory is a process-local row store with the same conditional-write
// contract as the postgres repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/repository"
	"github.com/opengestu/validele-sub000/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	orders map[string]*order.Order
	txs    map[txKey]*order.Transaction
}

type txKey struct {
	orderID string
	typ     order.TxType
}

func NewStore() *Store {
	return &Store{
		orders: make(map[string]*order.Order),
		txs:    make(map[txKey]*order.Transaction),
	}
}

func (s *Store) Orders() storage.OrderRepository {
	return &orderRepo{s: s}
}

func (s *Store) Transactions() storage.TransactionRepository {
	return &transactionRepo{s: s}
}

type orderRepo struct {
	s *Store
}

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	if o.DeliveryPersonID != nil {
		id := *o.DeliveryPersonID
		cp.DeliveryPersonID = &id
	}
	return &cp
}

func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[o.ID]; ok {
		return fmt.Errorf("order %s already exists", o.ID)
	}
	for _, existing := range r.s.orders {
		if existing.OrderCode == o.OrderCode || existing.QRCode == o.QRCode {
			return fmt.Errorf("order %s: duplicate code", o.ID)
		}
	}
	r.s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return cloneOrder(o), nil
}

func (r *orderRepo) GetByCode(ctx context.Context, code string, statuses []order.Status) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, o := range r.s.orders {
		if o.OrderCode != code {
			continue
		}
		for _, st := range statuses {
			if o.Status == st {
				return cloneOrder(o), nil
			}
		}
	}
	return nil, repository.ErrObjectNotFound
}

func (r *orderRepo) ListClaimable(ctx context.Context, limit int) ([]*order.Order, error) {
	return r.list(ctx, limit, false, func(o *order.Order) bool {
		return o.Status == order.StatusPaid && o.DeliveryPersonID == nil
	})
}

func (r *orderRepo) ListByParty(ctx context.Context, role order.Role, actorID string, limit int) ([]*order.Order, error) {
	var match func(o *order.Order) bool
	switch role {
	case order.RoleBuyer:
		match = func(o *order.Order) bool { return o.BuyerID == actorID }
	case order.RoleVendor:
		match = func(o *order.Order) bool { return o.VendorID == actorID }
	case order.RoleCourier:
		match = func(o *order.Order) bool { return o.OwnedBy(actorID) }
	default:
		return nil, fmt.Errorf("list by party: unsupported role %q", role)
	}
	return r.list(ctx, limit, true, match)
}

func (r *orderRepo) list(ctx context.Context, limit int, newestFirst bool, match func(o *order.Order) bool) ([]*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*order.Order, 0)
	for _, o := range r.s.orders {
		if match(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Apply is the compare-and-swap: the guard is checked and the patch written
// under one lock acquisition.
func (r *orderRepo) Apply(ctx context.Context, g order.Guard, p order.Patch) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[g.ID]
	if !ok || !g.Matches(o) {
		return nil, order.ErrConditionFailed
	}
	p.Apply(o)
	return cloneOrder(o), nil
}

type transactionRepo struct {
	s *Store
}

func (r *transactionRepo) CreateIfAbsent(ctx context.Context, t *order.Transaction) (*order.Transaction, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := txKey{orderID: t.OrderID, typ: t.Type}
	if existing, ok := r.s.txs[key]; ok {
		cp := *existing
		return &cp, false, nil
	}
	cp := *t
	r.s.txs[key] = &cp
	out := cp
	return &out, true, nil
}

func (r *transactionRepo) Get(ctx context.Context, orderID string, typ order.TxType) (*order.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.txs[txKey{orderID: orderID, typ: typ}]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *transactionRepo) byID(id string) *order.Transaction {
	for _, t := range r.s.txs {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *transactionRepo) UpdateStatus(ctx context.Context, id string, status order.TxStatus, providerRef, message string, at time.Time) (*order.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := r.byID(id)
	if t == nil {
		return nil, repository.ErrObjectNotFound
	}
	t.Status = status
	if providerRef != "" {
		t.ProviderRef = providerRef
	}
	t.Message = message
	t.UpdatedAt = at
	cp := *t
	return &cp, nil
}

func (r *transactionRepo) MarkApproved(ctx context.Context, id string, providerRef string, at time.Time) (*order.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := r.byID(id)
	if t == nil || t.ApprovedAt != nil {
		return nil, order.ErrConditionFailed
	}
	approved := at
	t.ApprovedAt = &approved
	if providerRef != "" {
		t.ProviderRef = providerRef
	}
	t.UpdatedAt = at
	cp := *t
	return &cp, nil
}

func (r *transactionRepo) ReleaseApproval(ctx context.Context, id string, message string, at time.Time) (*order.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := r.byID(id)
	if t == nil || t.ApprovedAt == nil || t.Status == order.TxSuccessful {
		return nil, order.ErrConditionFailed
	}
	t.ApprovedAt = nil
	t.Status = order.TxFailed
	t.Message = message
	t.UpdatedAt = at
	cp := *t
	return &cp, nil
}

func (r *transactionRepo) Reopen(ctx context.Context, id string, at time.Time) (*order.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := r.byID(id)
	if t == nil || t.Status != order.TxFailed {
		return nil, order.ErrConditionFailed
	}
	t.Status = order.TxPending
	t.UpdatedAt = at
	cp := *t
	return &cp, nil
}

func (r *transactionRepo) ListEligiblePayouts(ctx context.Context, limit int) ([]*order.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*order.Transaction, 0)
	for _, t := range r.s.txs {
		if t.Type == order.TxPayout && t.ApprovedAt == nil && (t.Status == order.TxPending || t.Status == order.TxFailed) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
