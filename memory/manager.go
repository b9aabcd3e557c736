package memory

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Allocation describes one tracked allocation. Snapshots returned by
// Allocations are copies; mutating them has no effect on the Manager.
type Allocation struct {
	Key         string
	Size        int64
	Category    Category
	CreatedAt   time.Time
	LastTouched time.Time
}

// Manager is the single source of truth for how much memory the
// process has deliberately earmarked. The usage counter and the
// allocation table are guarded by one mutex so concurrent
// Allocate/Deallocate calls are linearizable with respect to
// CurrentUsage.
type Manager struct {
	cfg Config

	mu      sync.Mutex
	records map[string]*record
	usage   int64

	bufSeq atomic.Uint64
}

type record struct {
	size        int64
	category    Category
	createdAt   time.Time
	lastTouched time.Time
}

// NewManager creates a Manager with the given configuration.
// Out-of-range config fields are clamped to defaults.
func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:     cfg.withDefaults(),
		records: make(map[string]*record),
	}
}

// Config returns the effective (clamped) configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// Allocate registers an allocation of size bytes under key. It fails
// with ErrCapacityExceeded only when size alone exceeds the configured
// ceiling; pushing cumulative usage past the cleanup threshold
// succeeds and merely escalates pressure. Registering a key that is
// already present replaces its record and adjusts usage by the
// difference.
func (m *Manager) Allocate(key string, size int64, category Category) error {
	if key == "" {
		return ErrInvalidKey
	}
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size > m.cfg.MaxMemoryUsage {
		return fmt.Errorf("%w: %d > %d", ErrCapacityExceeded, size, m.cfg.MaxMemoryUsage)
	}
	if !m.cfg.TrackAllocations {
		return nil
	}

	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.records[key]; ok {
		m.usage += size - prev.size
		prev.size = size
		prev.category = category
		prev.lastTouched = now
		return nil
	}

	m.records[key] = &record{
		size:        size,
		category:    category,
		createdAt:   now,
		lastTouched: now,
	}
	m.usage += size
	return nil
}

// Deallocate removes the allocation registered under key and returns
// the number of bytes freed. Unknown keys are a no-op returning 0.
func (m *Manager) Deallocate(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok {
		return 0
	}
	delete(m.records, key)
	m.usage -= rec.size
	return rec.size
}

// CurrentUsage returns the sum of all registered allocation sizes.
// The counter is maintained incrementally; this never scans buffers.
func (m *Manager) CurrentUsage() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage
}

// AllocationCount returns the number of registered allocations.
func (m *Manager) AllocationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Pressure returns the current pressure level. For a fixed
// configuration it is monotonic non-decreasing in CurrentUsage:
// Low below the cleanup threshold, Medium from the threshold up to
// 1.5x the threshold, High at or above that.
func (m *Manager) Pressure() Pressure {
	return m.pressureFor(m.CurrentUsage())
}

func (m *Manager) pressureFor(usage int64) Pressure {
	ratio := float64(usage) / float64(m.cfg.MaxMemoryUsage)
	high := m.cfg.CleanupThresholdPercent * 1.5
	if high > 1 {
		high = 1
	}
	switch {
	case ratio >= high:
		return PressureHigh
	case ratio >= m.cfg.CleanupThresholdPercent:
		return PressureMedium
	default:
		return PressureLow
	}
}

// Touch refreshes the last-touched time of the allocation under key,
// moving it to the back of the reclamation order. Unknown keys are a
// no-op.
func (m *Manager) Touch(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec, ok := m.records[key]; ok {
		rec.lastTouched = time.Now()
	}
}

// resize adjusts the size of an existing allocation, used by Buffer
// when its backing array grows. Unknown keys are a no-op.
func (m *Manager) resize(key string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok {
		return
	}
	m.usage += size - rec.size
	rec.size = size
	rec.lastTouched = time.Now()
}

// ForceCleanup frees reclaimable allocations, least recently touched
// first, until usage is at or below the cleanup threshold. It returns
// the total bytes freed; 0 is valid when usage is already below the
// threshold or nothing is reclaimable.
func (m *Manager) ForceCleanup() int64 {
	target := int64(m.cfg.CleanupThresholdPercent * float64(m.cfg.MaxMemoryUsage))

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.usage <= target {
		return 0
	}

	type candidate struct {
		key         string
		size        int64
		lastTouched time.Time
	}
	candidates := make([]candidate, 0, len(m.records))
	for key, rec := range m.records {
		if rec.category.Reclaimable() {
			candidates = append(candidates, candidate{key, rec.size, rec.lastTouched})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lastTouched.Before(candidates[j].lastTouched)
	})

	var freed int64
	for _, c := range candidates {
		if m.usage <= target {
			break
		}
		delete(m.records, c.key)
		m.usage -= c.size
		freed += c.size
	}
	return freed
}

// Allocations returns a snapshot of the allocation table, ordered by
// key for deterministic output.
func (m *Manager) Allocations() []Allocation {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Allocation, 0, len(m.records))
	for key, rec := range m.records {
		out = append(out, Allocation{
			Key:         key,
			Size:        rec.size,
			Category:    rec.category,
			CreatedAt:   rec.createdAt,
			LastTouched: rec.lastTouched,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ShouldStream reports whether a payload of the given size should be
// processed incrementally rather than buffered whole. Pure and
// monotonic in size.
func (m *Manager) ShouldStream(size int64) bool {
	return size > m.cfg.LargeFileThreshold
}
