package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache and memory telemetry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic; recording is best-effort.
type Metrics interface {
	// RecordHit records a cache hit on the given tier ("memory" or "disk").
	RecordHit(ctx context.Context, tier string)

	// RecordMiss records a cache miss across all tiers.
	RecordMiss(ctx context.Context)

	// RecordEviction records entries evicted from the fast store.
	RecordEviction(ctx context.Context, count int64)

	// RecordMaintenance records the outcome of one maintenance sweep.
	RecordMaintenance(ctx context.Context, expiredRemoved, corruptedRemoved int64)

	// RecordMemoryUsage records the current tracked memory usage.
	RecordMemoryUsage(ctx context.Context, bytes int64)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	hits        metric.Int64Counter
	misses      metric.Int64Counter
	evictions   metric.Int64Counter
	expired     metric.Int64Counter
	corrupted   metric.Int64Counter
	memoryUsage metric.Int64Gauge
}

// NewMetrics creates a Metrics instance recording through the given
// meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	hits, err := meter.Int64Counter(
		"cache.hits",
		metric.WithDescription("Cache hits by tier"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"cache.misses",
		metric.WithDescription("Cache misses across all tiers"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		"cache.evictions",
		metric.WithDescription("Entries evicted from the fast store"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	expired, err := meter.Int64Counter(
		"cache.maintenance.expired",
		metric.WithDescription("Expired entries removed by maintenance"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	corrupted, err := meter.Int64Counter(
		"cache.maintenance.corrupted",
		metric.WithDescription("Corrupted entries removed by maintenance"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	memoryUsage, err := meter.Int64Gauge(
		"memory.usage",
		metric.WithDescription("Tracked memory usage"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		hits:        hits,
		misses:      misses,
		evictions:   evictions,
		expired:     expired,
		corrupted:   corrupted,
		memoryUsage: memoryUsage,
	}, nil
}

func (m *metricsImpl) RecordHit(ctx context.Context, tier string) {
	m.hits.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", tier)))
}

func (m *metricsImpl) RecordMiss(ctx context.Context) {
	m.misses.Add(ctx, 1)
}

func (m *metricsImpl) RecordEviction(ctx context.Context, count int64) {
	if count > 0 {
		m.evictions.Add(ctx, count)
	}
}

func (m *metricsImpl) RecordMaintenance(ctx context.Context, expiredRemoved, corruptedRemoved int64) {
	if expiredRemoved > 0 {
		m.expired.Add(ctx, expiredRemoved)
	}
	if corruptedRemoved > 0 {
		m.corrupted.Add(ctx, corruptedRemoved)
	}
}

func (m *metricsImpl) RecordMemoryUsage(ctx context.Context, bytes int64) {
	m.memoryUsage.Record(ctx, bytes)
}

// nopMetrics discards everything.
type nopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }

func (nopMetrics) RecordHit(context.Context, string)               {}
func (nopMetrics) RecordMiss(context.Context)                      {}
func (nopMetrics) RecordEviction(context.Context, int64)           {}
func (nopMetrics) RecordMaintenance(context.Context, int64, int64) {}
func (nopMetrics) RecordMemoryUsage(context.Context, int64)        {}

// Ensure implementations satisfy Metrics.
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = nopMetrics{}
)
