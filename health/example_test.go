package health_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/cachekit/health"
	"github.com/jonwraymond/cachekit/memory"
)

func Example() {
	mgr := memory.NewManager(memory.Config{
		MaxMemoryUsage:          1024,
		CleanupThresholdPercent: 0.5,
		TrackAllocations:        true,
	})
	_ = mgr.Allocate("working-set", 600, memory.CategoryCache)

	agg := health.NewAggregator()
	agg.Register("memory", health.NewPressureChecker(mgr))

	results := agg.CheckAll(context.Background())
	fmt.Println(agg.OverallStatus(results))

	// Output:
	// degraded
}

func ExampleNewCheckerFunc() {
	checker := health.NewCheckerFunc("upstream", func(context.Context) health.Result {
		return health.Healthy("reachable")
	})

	result := checker.Check(context.Background())
	fmt.Println(checker.Name(), result.Status)

	// Output:
	// upstream healthy
}
