package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/cachekit/diskcache"
)

// DiskCheckerConfig configures the durable cache checker.
type DiskCheckerConfig struct {
	// MaxTotalSize is the total persisted size in bytes above which
	// the store reports degraded. Zero means no budget.
	MaxTotalSize int64
}

// DiskChecker inspects the durable cache. A store that cannot be
// scanned is unhealthy; one over its size budget is degraded; a
// readable one within budget is healthy.
type DiskChecker struct {
	cache  *diskcache.Cache
	config DiskCheckerConfig
}

// NewDiskChecker creates a checker over the given durable cache.
func NewDiskChecker(cache *diskcache.Cache, config ...DiskCheckerConfig) *DiskChecker {
	cfg := DiskCheckerConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	return &DiskChecker{cache: cache, config: cfg}
}

// Name returns the name of this checker.
func (d *DiskChecker) Name() string {
	return "disk"
}

// Check scans the durable cache directory and reports its contents.
func (d *DiskChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	stats, err := d.cache.Stats()
	if err != nil {
		return Unhealthy("cache directory unreadable", err)
	}

	details := map[string]any{
		"entry_count": stats.EntryCount,
		"total_size":  stats.TotalSize,
	}
	if d.config.MaxTotalSize > 0 {
		details["max_total_size"] = d.config.MaxTotalSize
		if stats.TotalSize > d.config.MaxTotalSize {
			return Degraded(
				fmt.Sprintf("cache over size budget: %d of %d bytes", stats.TotalSize, d.config.MaxTotalSize),
			).WithDetails(details)
		}
	}

	return Healthy(
		fmt.Sprintf("%d entries, %d bytes", stats.EntryCount, stats.TotalSize),
	).WithDetails(details)
}
