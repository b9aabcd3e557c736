// Package health provides health checking primitives for the cache
// stack.
//
// A Checker is any component that can report its health status. The
// Status type represents the health state: Healthy, Degraded, or
// Unhealthy. The package ships two concrete checkers: PressureChecker
// maps the memory manager's pressure signal onto health statuses, and
// DiskChecker inspects the durable cache's persisted entry set.
//
// # Basic Usage
//
//	check := health.NewPressureChecker(mgr.Memory())
//	result := check.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("memory critical: %s", result.Message)
//	}
//
// # Aggregating Health Checks
//
// Use Aggregator to combine multiple health checks into a single
// composite check:
//
//	agg := health.NewAggregator()
//	agg.Register("memory", health.NewPressureChecker(mgr.Memory()))
//	agg.Register("disk", health.NewDiskChecker(disk))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
package health
