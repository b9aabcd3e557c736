package health

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jonwraymond/cachekit/diskcache"
)

// TestDiskChecker_Healthy verifies a readable store reports healthy
// with its entry set.
func TestDiskChecker_Healthy(t *testing.T) {
	cache, err := diskcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	if err := cache.Set("k", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set() = %v", err)
	}

	checker := NewDiskChecker(cache)
	if checker.Name() != "disk" {
		t.Errorf("Name() = %q, want disk", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Fatalf("Check() = %v (%s), want healthy", result.Status, result.Message)
	}
	if result.Details["entry_count"] != 1 {
		t.Errorf("entry_count = %v, want 1", result.Details["entry_count"])
	}
}

// TestDiskChecker_OverSizeBudget verifies the budget threshold.
func TestDiskChecker_OverSizeBudget(t *testing.T) {
	cache, err := diskcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	if err := cache.Set("big", make([]byte, 2048), 0); err != nil {
		t.Fatalf("Set() = %v", err)
	}

	checker := NewDiskChecker(cache, DiskCheckerConfig{MaxTotalSize: 1024})
	result := checker.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("Check() = %v (%s), want degraded", result.Status, result.Message)
	}

	within := NewDiskChecker(cache, DiskCheckerConfig{MaxTotalSize: 1 << 20})
	if got := within.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("Check() within budget = %v, want healthy", got.Status)
	}
}

// TestDiskChecker_UnreadableDirectory verifies a vanished directory
// reports unhealthy.
func TestDiskChecker_UnreadableDirectory(t *testing.T) {
	dir := t.TempDir()
	cache, err := diskcache.Open(dir)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("RemoveAll() = %v", err)
	}

	result := NewDiskChecker(cache).Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Check() = %v, want unhealthy", result.Status)
	}
	if result.Error == nil {
		t.Error("Check() error = nil, want scan error")
	}
}

// TestDiskChecker_CancelledContext verifies cancellation short
// circuits the check.
func TestDiskChecker_CancelledContext(t *testing.T) {
	cache, err := diskcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewDiskChecker(cache).Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("Check(cancelled) = %v, want unhealthy", result.Status)
	}
}
