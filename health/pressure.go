package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/cachekit/memory"
)

// PressureChecker maps the memory manager's pressure signal onto
// health statuses: low pressure is healthy, medium is degraded, high
// is unhealthy.
type PressureChecker struct {
	mgr *memory.Manager
}

// NewPressureChecker creates a checker over the given memory manager.
func NewPressureChecker(mgr *memory.Manager) *PressureChecker {
	return &PressureChecker{mgr: mgr}
}

// Name returns the name of this checker.
func (p *PressureChecker) Name() string {
	return "memory"
}

// Check reports tracked memory usage and the current pressure level.
func (p *PressureChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	pressure := p.mgr.Pressure()
	usage := p.mgr.CurrentUsage()

	details := map[string]any{
		"usage_bytes": usage,
		"usage_mb":    float64(usage) / (1024 * 1024),
		"allocations": p.mgr.AllocationCount(),
		"pressure":    pressure.String(),
	}

	switch pressure {
	case memory.PressureHigh:
		return Unhealthy(
			fmt.Sprintf("memory pressure high: %d bytes tracked", usage),
			ErrCheckFailed,
		).WithDetails(details)
	case memory.PressureMedium:
		return Degraded(
			fmt.Sprintf("memory pressure elevated: %d bytes tracked", usage),
		).WithDetails(details)
	default:
		return Healthy(
			fmt.Sprintf("memory pressure normal: %d bytes tracked", usage),
		).WithDetails(details)
	}
}
