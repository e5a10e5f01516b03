package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/order"
)

type loaderFunc func(ctx context.Context, limit int) ([]*order.Order, error)

func (f loaderFunc) ListClaimable(ctx context.Context, limit int) ([]*order.Order, error) {
	return f(ctx, limit)
}

func paidOrder(id string, at time.Time) *order.Order {
	return &order.Order{ID: id, QRCode: "SECRET", Status: order.StatusPaid, CreatedAt: at, UpdatedAt: at}
}

func TestClaimableCache_ColdUntilLoaded(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClaimableCache(loaderFunc(func(_ context.Context, limit int) ([]*order.Order, error) {
		assert.Equal(t, 50, limit)
		return []*order.Order{paidOrder("b", base.Add(time.Minute)), paidOrder("a", base)}, nil
	}), zap.NewNop())

	_, warm := c.List(10)
	assert.False(t, warm)

	require.NoError(t, c.LoadInitialData(context.Background(), 50))

	list, warm := c.List(10)
	require.True(t, warm)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Empty(t, list[0].QRCode, "cached orders never carry the proof secret")

	list, _ = c.List(1)
	assert.Len(t, list, 1)
}

func TestClaimableCache_LoadError(t *testing.T) {
	c := NewClaimableCache(loaderFunc(func(context.Context, int) ([]*order.Order, error) {
		return nil, errors.New("db down")
	}), zap.NewNop())

	assert.Error(t, c.LoadInitialData(context.Background(), 10))
	_, warm := c.List(10)
	assert.False(t, warm)
}

func TestClaimableCache_Apply(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClaimableCache(loaderFunc(func(context.Context, int) ([]*order.Order, error) { return nil, nil }), zap.NewNop())
	require.NoError(t, c.LoadInitialData(context.Background(), 10))

	paid := paidOrder("o1", base)
	c.Apply(paid)
	c.Apply(paid)
	assert.Equal(t, 1, c.Len())

	courier := "courier-1"
	assigned := *paid
	assigned.Status = order.StatusAssigned
	assigned.DeliveryPersonID = &courier
	assigned.UpdatedAt = base.Add(time.Second)
	c.Apply(&assigned)
	assert.Equal(t, 0, c.Len())

	// A late duplicate of the paid snapshot must not resurrect the order.
	c.Apply(paid)
	_, found := c.Get("o1")
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())

	c.Apply(paidOrder("o2", base))
	c.Delete("o2")
	assert.Equal(t, 0, c.Len())
}
