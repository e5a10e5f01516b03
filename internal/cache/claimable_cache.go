package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/metrics"
	"github.com/opengestu/validele-sub000/internal/order"
)

type ClaimableLoader interface {
	ListClaimable(ctx context.Context, limit int) ([]*order.Order, error)
}

// ClaimableCache is an advisory view of orders that are paid and unassigned.
// It may be stale; the claim itself is always decided by the store.
type ClaimableCache struct {
	mu      sync.RWMutex
	cache   map[string]*order.Order
	removed map[string]time.Time
	warm    bool
	repo    ClaimableLoader
	logger  *zap.Logger
}

func NewClaimableCache(repo ClaimableLoader, logger *zap.Logger) *ClaimableCache {
	return &ClaimableCache{
		cache:   make(map[string]*order.Order),
		removed: make(map[string]time.Time),
		repo:    repo,
		logger:  logger,
	}
}

func (c *ClaimableCache) LoadInitialData(ctx context.Context, limit int) error {
	c.logger.Info("Loading claimable orders into cache")
	orders, err := c.repo.ListClaimable(ctx, limit)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range orders {
		c.cache[o.ID] = o.Redacted()
	}
	c.warm = true
	metrics.ClaimableCacheItems.Set(float64(len(c.cache)))
	c.logger.Info("Claimable cache loaded", zap.Int("orders", len(c.cache)))
	return nil
}

// List returns up to limit cached orders, oldest first, and whether the cache
// has been loaded at all.
func (c *ClaimableCache) List(limit int) ([]*order.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.warm {
		return nil, false
	}

	out := make([]*order.Order, 0, len(c.cache))
	for _, o := range c.cache {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, true
}

func (c *ClaimableCache) Get(orderID string) (*order.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, found := c.cache[orderID]
	if !found {
		return nil, false
	}
	cp := *o
	return &cp, true
}

// Apply folds a change event into the cache. Duplicate and out-of-order
// events are tolerated: an order that left the claimable set is not re-added
// by an older snapshot.
func (c *ClaimableCache) Apply(o *order.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !isClaimable(o) {
		if _, found := c.cache[o.ID]; found {
			delete(c.cache, o.ID)
			c.logger.Debug("Cache: removed order", zap.String("order_id", o.ID), zap.String("status", string(o.Status)))
		}
		if prev, ok := c.removed[o.ID]; !ok || o.UpdatedAt.After(prev) {
			c.removed[o.ID] = o.UpdatedAt
		}
		metrics.ClaimableCacheItems.Set(float64(len(c.cache)))
		return
	}

	if gone, ok := c.removed[o.ID]; ok && !o.UpdatedAt.After(gone) {
		return
	}
	if cur, ok := c.cache[o.ID]; ok && cur.UpdatedAt.After(o.UpdatedAt) {
		return
	}
	c.cache[o.ID] = o.Redacted()
	metrics.ClaimableCacheItems.Set(float64(len(c.cache)))
}

func (c *ClaimableCache) Delete(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[orderID]; found {
		delete(c.cache, orderID)
		metrics.ClaimableCacheItems.Set(float64(len(c.cache)))
	}
}

func (c *ClaimableCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func isClaimable(o *order.Order) bool {
	return o.Status == order.StatusPaid && o.DeliveryPersonID == nil
}
