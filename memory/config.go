package memory

import "time"

// Default configuration values.
const (
	DefaultMaxMemoryUsage     = 100 * 1024 * 1024 // 100 MiB
	DefaultCleanupThreshold   = 0.8
	DefaultCleanupInterval    = 5 * time.Minute
	DefaultLargeFileThreshold = 10 * 1024 * 1024 // 10 MiB
	DefaultStreamBufferSize   = 64 * 1024        // 64 KiB
)

// Config configures a Manager. It is immutable after construction;
// NewManager copies it and clamps out-of-range values to defaults.
type Config struct {
	// MaxMemoryUsage is the ceiling in bytes for tracked allocations.
	// A single allocation larger than this is rejected with
	// ErrCapacityExceeded.
	MaxMemoryUsage int64

	// CleanupThresholdPercent is the fraction of MaxMemoryUsage at
	// which pressure leaves Low and ForceCleanup starts reclaiming.
	// Value should be between 0 and 1. Default: 0.8 (80%)
	CleanupThresholdPercent float64

	// CleanupInterval is how often the owning composition root should
	// run reclamation. The Manager itself does not tick; it only
	// records the interval for its owner.
	CleanupInterval time.Duration

	// TrackAllocations enables the allocation table. When false,
	// Allocate still validates against the ceiling but registers
	// nothing, usage stays zero, and Deallocate always returns 0.
	TrackAllocations bool

	// LargeFileThreshold is the payload size above which callers
	// should stream instead of buffering whole.
	LargeFileThreshold int64

	// StreamBufferSize is the suggested chunk size for streaming
	// reads and writes.
	StreamBufferSize int
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		MaxMemoryUsage:          DefaultMaxMemoryUsage,
		CleanupThresholdPercent: DefaultCleanupThreshold,
		CleanupInterval:         DefaultCleanupInterval,
		TrackAllocations:        true,
		LargeFileThreshold:      DefaultLargeFileThreshold,
		StreamBufferSize:        DefaultStreamBufferSize,
	}
}

// withDefaults returns a copy of c with invalid fields clamped.
func (c Config) withDefaults() Config {
	if c.MaxMemoryUsage <= 0 {
		c.MaxMemoryUsage = DefaultMaxMemoryUsage
	}
	if c.CleanupThresholdPercent <= 0 || c.CleanupThresholdPercent > 1 {
		c.CleanupThresholdPercent = DefaultCleanupThreshold
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
	if c.LargeFileThreshold <= 0 {
		c.LargeFileThreshold = DefaultLargeFileThreshold
	}
	if c.StreamBufferSize <= 0 {
		c.StreamBufferSize = DefaultStreamBufferSize
	}
	return c
}

// Category classifies an allocation for reporting and reclamation.
type Category int

const (
	// CategoryCache covers memory attributable to cache entries.
	CategoryCache Category = iota

	// CategoryTemporaryBuffer covers short-lived working buffers.
	CategoryTemporaryBuffer

	// CategoryPinned covers allocations that ForceCleanup must never
	// reclaim.
	CategoryPinned
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryCache:
		return "cache"
	case CategoryTemporaryBuffer:
		return "temporary_buffer"
	case CategoryPinned:
		return "pinned"
	default:
		return "unknown"
	}
}

// Reclaimable reports whether ForceCleanup may free allocations in
// this category.
func (c Category) Reclaimable() bool {
	switch c {
	case CategoryCache, CategoryTemporaryBuffer:
		return true
	default:
		return false
	}
}

// Pressure is a qualitative signal of how close tracked usage is to
// the configured ceiling.
type Pressure int

const (
	// PressureLow means usage is below the cleanup threshold.
	PressureLow Pressure = iota
	// PressureMedium means usage has crossed the cleanup threshold.
	PressureMedium
	// PressureHigh means usage has crossed 1.5x the cleanup threshold.
	PressureHigh
)

// String returns the string representation of the pressure level.
func (p Pressure) String() string {
	switch p {
	case PressureLow:
		return "low"
	case PressureMedium:
		return "medium"
	case PressureHigh:
		return "high"
	default:
		return "unknown"
	}
}
