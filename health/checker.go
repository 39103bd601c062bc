package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/safelaw/resilience"
)

// Status represents the health status of a component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a health check.
type Result struct {
	Status  Status
	Message string
	Details map[string]any
}

// Checker is the interface for health checks.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) Result
}

// BreakerSnapshotter exposes the circuit breaker state.
// *resilience.CircuitBreaker satisfies it.
type BreakerSnapshotter interface {
	Snapshot() resilience.Snapshot
}

// BreakerChecker reports the upstream circuit breaker state. The proxy is
// degraded, not down, while the circuit is open: cached responses and the
// trivial functions still work.
type BreakerChecker struct {
	breaker BreakerSnapshotter
}

// NewBreakerChecker creates a breaker health checker.
func NewBreakerChecker(breaker BreakerSnapshotter) *BreakerChecker {
	return &BreakerChecker{breaker: breaker}
}

// Name returns "breaker".
func (c *BreakerChecker) Name() string {
	return "breaker"
}

// Check reports the breaker state.
func (c *BreakerChecker) Check(_ context.Context) Result {
	snap := c.breaker.Snapshot()
	details := map[string]any{
		"state":                snap.State.String(),
		"consecutive_failures": snap.ConsecutiveFailures,
	}
	if !snap.OpenUntil.IsZero() {
		details["open_until"] = snap.OpenUntil.UTC().Format(time.RFC3339)
	}

	switch snap.State {
	case resilience.StateClosed:
		return Result{Status: StatusHealthy, Message: "upstream circuit closed", Details: details}
	case resilience.StateHalfOpen:
		return Result{Status: StatusDegraded, Message: "upstream circuit probing", Details: details}
	default:
		return Result{Status: StatusDegraded, Message: "upstream circuit open, serving cache only", Details: details}
	}
}

// EntryCounter exposes the live entry count. cache.Cache satisfies it.
type EntryCounter interface {
	Len() int
}

// CacheChecker reports query cache occupancy.
type CacheChecker struct {
	cache      EntryCounter
	maxEntries int
}

// NewCacheChecker creates a cache health checker. maxEntries is the
// configured cache bound, used for the occupancy detail.
func NewCacheChecker(cache EntryCounter, maxEntries int) *CacheChecker {
	return &CacheChecker{cache: cache, maxEntries: maxEntries}
}

// Name returns "cache".
func (c *CacheChecker) Name() string {
	return "cache"
}

// Check reports cache occupancy. The cache cannot fail; the check exists
// for operational visibility.
func (c *CacheChecker) Check(_ context.Context) Result {
	n := c.cache.Len()
	return Result{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("%d entries", n),
		Details: map[string]any{
			"entries":     n,
			"max_entries": c.maxEntries,
		},
	}
}

// Ensure the checkers implement Checker
var (
	_ Checker = (*BreakerChecker)(nil)
	_ Checker = (*CacheChecker)(nil)
)
