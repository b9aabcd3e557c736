package health

import (
	"context"
	"testing"

	"github.com/jonwraymond/cachekit/memory"
)

func newTrackedManager(t *testing.T) *memory.Manager {
	t.Helper()
	return memory.NewManager(memory.Config{
		MaxMemoryUsage:          1024,
		CleanupThresholdPercent: 0.5,
		TrackAllocations:        true,
	})
}

// TestPressureChecker verifies each pressure level maps to the right
// health status.
func TestPressureChecker(t *testing.T) {
	tests := []struct {
		name  string
		usage int64
		want  Status
	}{
		{"idle", 0, StatusHealthy},
		{"below threshold", 400, StatusHealthy},
		{"above threshold", 600, StatusDegraded},
		{"well above threshold", 800, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := newTrackedManager(t)
			if tt.usage > 0 {
				if err := mgr.Allocate("load", tt.usage, memory.CategoryCache); err != nil {
					t.Fatalf("Allocate() = %v", err)
				}
			}

			checker := NewPressureChecker(mgr)
			result := checker.Check(context.Background())

			if result.Status != tt.want {
				t.Errorf("Check() status = %v, want %v (message: %s)", result.Status, tt.want, result.Message)
			}
			if result.Details["usage_bytes"] != tt.usage {
				t.Errorf("usage_bytes = %v, want %d", result.Details["usage_bytes"], tt.usage)
			}
		})
	}
}

// TestPressureChecker_Name verifies the checker name.
func TestPressureChecker_Name(t *testing.T) {
	if got := NewPressureChecker(newTrackedManager(t)).Name(); got != "memory" {
		t.Errorf("Name() = %q, want memory", got)
	}
}

// TestPressureChecker_CancelledContext verifies cancellation short
// circuits the check.
func TestPressureChecker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewPressureChecker(newTrackedManager(t)).Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("Check(cancelled) = %v, want unhealthy", result.Status)
	}
}
