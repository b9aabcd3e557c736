package cache

import (
	"context"
	"time"

	"github.com/jonwraymond/cachekit/observe"
)

// InstrumentedCache wraps a Cache with hit/miss metrics. The tier name
// distinguishes the fast store from other tiers in the recorded
// attributes.
type InstrumentedCache struct {
	inner   Cache
	tier    string
	metrics observe.Metrics
}

// NewInstrumentedCache wraps inner, rejecting a nil inner cache with
// ErrNilCache. A nil metrics falls back to the no-op recorder.
func NewInstrumentedCache(inner Cache, tier string, metrics observe.Metrics) (*InstrumentedCache, error) {
	if inner == nil {
		return nil, ErrNilCache
	}
	if metrics == nil {
		metrics = observe.NopMetrics()
	}
	return &InstrumentedCache{inner: inner, tier: tier, metrics: metrics}, nil
}

// Get delegates and records the hit. Misses are not recorded here:
// only the Manager knows whether a fast-store miss becomes an overall
// miss, so it owns the miss counter.
func (c *InstrumentedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, ok := c.inner.Get(ctx, key)
	if ok {
		c.metrics.RecordHit(ctx, c.tier)
	}
	return value, ok
}

// Set delegates unchanged.
func (c *InstrumentedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, value, ttl)
}

// Delete delegates unchanged.
func (c *InstrumentedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Ensure InstrumentedCache implements Cache
var _ Cache = (*InstrumentedCache)(nil)
