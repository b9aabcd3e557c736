package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/cachekit/diskcache"
	"github.com/jonwraymond/cachekit/memory"
	"github.com/jonwraymond/cachekit/observe"
)

// allocPrefix namespaces fast-store entries in the memory manager's
// allocation table.
const allocPrefix = "cache:"

// Manager is the single entry point collaborators use. It composes
// the bounded fast store, the optional durable cache, and the memory
// manager, and owns the background maintenance loop. Construct it at
// the composition root and pass it down; there are no process-wide
// instances.
type Manager struct {
	cfg    Config
	policy Policy
	codec  Codec

	fast *LRUCache
	tier Cache // fast, possibly wrapped with instrumentation
	disk *diskcache.Cache
	mem  *memory.Manager

	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer

	group singleflight.Group

	cancel    context.CancelFunc
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
}

// Option customizes a Manager.
type Option func(*Manager)

// WithCodec sets the value codec. Default: CBORCodec.
func WithCodec(codec Codec) Option {
	return func(m *Manager) { m.codec = codec }
}

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(logger observe.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMetrics sets the metrics recorder. Default: no metrics.
func WithMetrics(metrics observe.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithTracer sets the tracer for maintenance sweeps. Default: no
// tracing.
func WithTracer(tracer observe.Tracer) Option {
	return func(m *Manager) { m.tracer = tracer }
}

// NewManager builds the cache stack from cfg: an LRU fast store of
// MemoryCacheSize entries, a durable cache at CacheDir when
// EnableDiskCache is set, and an internal memory manager sized from
// MaxMemoryUsage. The background maintenance loop starts immediately
// and runs until Close.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:     cfg,
		policy:  Policy{DefaultTTL: cfg.DefaultTTL, MaxTTL: cfg.MaxTTL},
		codec:   CBORCodec{},
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
		tracer:  observe.NopTracer(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithComponent("cache.manager")

	m.mem = memory.NewManager(memory.Config{
		MaxMemoryUsage:          cfg.MaxMemoryUsage,
		CleanupThresholdPercent: cfg.CleanupThresholdPercent,
		CleanupInterval:         cfg.CleanupInterval,
		TrackAllocations:        true,
		LargeFileThreshold:      cfg.LargeFileThreshold,
		StreamBufferSize:        cfg.StreamBufferSize,
	})

	m.fast = NewLRUCache(cfg.MemoryCacheSize, func(key string, _ int) {
		m.mem.Deallocate(allocPrefix + key)
		m.metrics.RecordEviction(context.Background(), 1)
	})
	tier, err := NewInstrumentedCache(m.fast, "memory", m.metrics)
	if err != nil {
		return nil, err
	}
	m.tier = tier

	if cfg.EnableDiskCache {
		disk, err := diskcache.Open(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		m.disk = disk
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.maintenanceLoop(ctx)

	return m, nil
}

// Memory returns the internal memory manager, for collaborators that
// need managed buffers.
func (m *Manager) Memory() *memory.Manager {
	return m.mem
}

// Set encodes value and writes it to the fast store and, when
// enabled, through to the durable cache. A non-positive ttl falls
// back to the configured default; zero default means no expiry.
// Fast-store admission is governed by the memory manager: a value the
// tracker rejects is still written through to disk.
func (m *Manager) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if err := ValidateKey(key); err != nil {
		return err
	}

	data, err := m.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSerialization, key, err)
	}
	ttl = m.policy.EffectiveTTL(ttl)

	if err := m.mem.Allocate(allocPrefix+key, int64(len(data)), memory.CategoryCache); err == nil {
		_ = m.tier.Set(ctx, key, data, ttl)
	} else {
		// Too large for the fast store's accounting; durable tier only.
		// Any previously cached value for the key must leave the fast
		// store, or reads would keep serving it over the new value.
		_ = m.tier.Delete(ctx, key)
		m.logger.Debug(ctx, "fast store admission rejected",
			observe.Field{Key: "cache_key", Value: key},
			observe.Field{Key: "size", Value: len(data)},
		)
	}

	if m.disk != nil {
		if err := m.disk.Set(key, data, ttl); err != nil {
			return err
		}
	}
	return nil
}

// Get looks key up in the fast store, then the durable cache,
// repopulating the fast store on a disk hit, and decodes the stored
// bytes into out (a non-nil pointer). Every failure mode - absent,
// expired, corrupt, undecodable - is a plain miss.
func (m *Manager) Get(ctx context.Context, key string, out any) bool {
	data, ok := m.getBytes(ctx, key)
	if !ok {
		return false
	}
	if err := m.codec.Unmarshal(data, out); err != nil {
		m.logger.Warn(ctx, "cached bytes failed to decode",
			observe.Field{Key: "cache_key", Value: key},
			observe.Field{Key: "codec", Value: m.codec.Name()},
		)
		return false
	}
	return true
}

func (m *Manager) getBytes(ctx context.Context, key string) ([]byte, bool) {
	if m.closed.Load() || ValidateKey(key) != nil {
		return nil, false
	}

	if data, ok := m.tier.Get(ctx, key); ok {
		m.mem.Touch(allocPrefix + key)
		return data, true
	}

	if m.disk == nil {
		m.metrics.RecordMiss(ctx)
		return nil, false
	}

	// Concurrent misses on the same key share one disk read.
	v, _, _ := m.group.Do(key, func() (any, error) {
		data, expiresAt, ok := m.disk.Entry(key)
		if !ok {
			return nil, nil
		}
		// Repopulate the fast store with the remaining TTL, under the
		// same admission rule as Set.
		var remaining time.Duration
		if expiresAt != nil {
			remaining = time.Until(*expiresAt)
			if remaining <= 0 {
				return nil, nil
			}
		}
		if err := m.mem.Allocate(allocPrefix+key, int64(len(data)), memory.CategoryCache); err == nil {
			_ = m.fast.Set(ctx, key, data, remaining)
		}
		return data, nil
	})

	data, ok := v.([]byte)
	if !ok || data == nil {
		m.metrics.RecordMiss(ctx)
		return nil, false
	}
	m.metrics.RecordHit(ctx, "disk")
	return data, true
}

// Delete removes key from both tiers. Idempotent.
func (m *Manager) Delete(ctx context.Context, key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if err := ValidateKey(key); err != nil {
		return err
	}

	_ = m.tier.Delete(ctx, key)
	if m.disk != nil {
		return m.disk.Delete(key)
	}
	return nil
}

// MemoryUsage returns the memory manager's tracked usage in bytes.
func (m *Manager) MemoryUsage() int64 {
	return m.mem.CurrentUsage()
}

// MemoryPressure returns the memory manager's pressure signal.
func (m *Manager) MemoryPressure() memory.Pressure {
	return m.mem.Pressure()
}

// ShouldStreamFile reports whether a payload of the given size should
// be streamed instead of buffered whole. Pure and monotonic in size.
func (m *Manager) ShouldStreamFile(size int64) bool {
	return size > m.cfg.LargeFileThreshold
}

// StreamBufferSize returns the configured chunk size for callers that
// take the streaming path.
func (m *Manager) StreamBufferSize() int {
	return m.cfg.StreamBufferSize
}

// DiskStats reports the durable cache's persisted entry set, or zeros
// when the durable cache is disabled.
func (m *Manager) DiskStats() (diskcache.Stats, error) {
	if m.disk == nil {
		return diskcache.Stats{}, nil
	}
	return m.disk.Stats()
}

// Maintenance runs one sweep immediately: durable-cache maintenance
// plus memory reclamation. The background loop calls this on every
// tick; collaborators may also trigger it by hand.
func (m *Manager) Maintenance(ctx context.Context) (diskcache.Report, error) {
	ctx, span := m.tracer.StartSpan(ctx, "cache.maintenance")

	var report diskcache.Report
	var err error
	if m.disk != nil {
		report, err = m.disk.Maintenance()
	}
	freed := m.mem.ForceCleanup()

	m.metrics.RecordMaintenance(ctx, int64(report.ExpiredRemoved), int64(report.CorruptedRemoved))
	m.metrics.RecordMemoryUsage(ctx, m.mem.CurrentUsage())

	if err != nil {
		m.logger.Error(ctx, "maintenance sweep failed",
			observe.Field{Key: "error", Value: err.Error()},
		)
	} else if report.ExpiredRemoved > 0 || report.CorruptedRemoved > 0 || freed > 0 {
		m.logger.Info(ctx, "maintenance sweep complete",
			observe.Field{Key: "expired_removed", Value: report.ExpiredRemoved},
			observe.Field{Key: "corrupted_removed", Value: report.CorruptedRemoved},
			observe.Field{Key: "memory_freed", Value: freed},
		)
	}

	m.tracer.EndSpan(span, err)
	return report, err
}

// maintenanceLoop ticks every CleanupInterval until the manager is
// closed. A tick that overlaps Close is either completed or abandoned
// before any deletion; per-entry deletions in the sweep are atomic
// either way.
func (m *Manager) maintenanceLoop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = m.Maintenance(ctx)
		}
	}
}

// Close stops the maintenance loop, waits for an in-flight sweep to
// finish, and rejects further operations with ErrClosed. Idempotent.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		m.cancel()
		<-m.done
	})
	return nil
}
