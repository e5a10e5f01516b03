package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/repository"
)

func seed(t *testing.T, s *Store, status order.Status) *order.Order {
	t.Helper()
	now := time.Now().UTC()
	o := &order.Order{
		ID:          "order-1",
		OrderCode:   "VLAB12CD",
		QRCode:      "K7QH3MZP9WXR",
		BuyerID:     "buyer-1",
		VendorID:    "vendor-1",
		TotalAmount: decimal.NewFromInt(100),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.Orders().Create(context.Background(), o))
	return o
}

func claim(courier string, at time.Time) (order.Guard, order.Patch) {
	return order.Guard{ID: "order-1", From: []order.Status{order.StatusPaid}, Courier: order.Unassigned()},
		order.Patch{To: order.StatusAssigned, DeliveryPersonID: &courier, AssignedAt: &at, UpdatedAt: at}
}

func TestApply_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	s := NewStore()
	seed(t, s, order.StatusPaid)
	repo := s.Orders()

	const couriers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)
	for i := 0; i < couriers; i++ {
		wg.Add(1)
		go func(courier string) {
			defer wg.Done()
			g, p := claim(courier, time.Now().UTC())
			_, err := repo.Apply(context.Background(), g, p)
			if err == nil {
				mu.Lock()
				winners = append(winners, courier)
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, order.ErrConditionFailed)
		}(fmt.Sprintf("courier-%d", i))
	}
	wg.Wait()

	require.Len(t, winners, 1)
	got, err := repo.GetByID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusAssigned, got.Status)
	assert.Equal(t, winners[0], got.Courier())
}

func TestApply_SetOnceTimestamps(t *testing.T) {
	s := NewStore()
	seed(t, s, order.StatusPaid)
	repo := s.Orders()

	first := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	g, p := claim("courier-a", first)
	_, err := repo.Apply(context.Background(), g, p)
	require.NoError(t, err)

	later := first.Add(time.Hour)
	o, err := repo.Apply(context.Background(),
		order.Guard{ID: "order-1", From: []order.Status{order.StatusAssigned}, Courier: order.CourierIs("courier-a")},
		order.Patch{To: order.StatusInDelivery, AssignedAt: &later, UpdatedAt: later})
	require.NoError(t, err)
	assert.Equal(t, first, *o.AssignedAt)
	assert.Equal(t, later, o.UpdatedAt)
}

func TestApply_ReturnsCopies(t *testing.T) {
	s := NewStore()
	seed(t, s, order.StatusPaid)

	o, err := s.Orders().GetByID(context.Background(), "order-1")
	require.NoError(t, err)
	o.Status = order.StatusDelivered

	again, err := s.Orders().GetByID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, again.Status)
}

func TestGetByCode(t *testing.T) {
	s := NewStore()
	seed(t, s, order.StatusPending)
	repo := s.Orders()

	_, err := repo.GetByCode(context.Background(), "VLAB12CD", []order.Status{order.StatusPaid})
	assert.True(t, errors.Is(err, repository.ErrObjectNotFound))

	o, err := repo.GetByCode(context.Background(), "VLAB12CD", []order.Status{order.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, "order-1", o.ID)
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Transactions()
	now := time.Now().UTC()

	tx := &order.Transaction{ID: "tx-1", OrderID: "order-1", Type: order.TxPayout, Status: order.TxPending, CreatedAt: now}
	_, created, err := repo.CreateIfAbsent(ctx, tx)
	require.NoError(t, err)
	assert.True(t, created)

	dup := *tx
	dup.ID = "tx-2"
	got, created, err := repo.CreateIfAbsent(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "tx-1", got.ID)

	eligible, err := repo.ListEligiblePayouts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, eligible, 1)

	_, err = repo.MarkApproved(ctx, "tx-1", "REF", now)
	require.NoError(t, err)
	_, err = repo.MarkApproved(ctx, "tx-1", "REF", now)
	assert.ErrorIs(t, err, order.ErrConditionFailed)

	eligible, err = repo.ListEligiblePayouts(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, eligible)

	released, err := repo.ReleaseApproval(ctx, "tx-1", "provider down", now)
	require.NoError(t, err)
	assert.Nil(t, released.ApprovedAt)
	assert.Equal(t, order.TxFailed, released.Status)
	_, err = repo.ReleaseApproval(ctx, "tx-1", "provider down", now)
	assert.ErrorIs(t, err, order.ErrConditionFailed)

	eligible, err = repo.ListEligiblePayouts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, order.TxFailed, eligible[0].Status)

	reopened, err := repo.Reopen(ctx, "tx-1", now)
	require.NoError(t, err)
	assert.Equal(t, order.TxPending, reopened.Status)
	_, err = repo.Reopen(ctx, "tx-1", now)
	assert.ErrorIs(t, err, order.ErrConditionFailed)
}
