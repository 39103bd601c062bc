// Package resilience guards calls to the unreliable upstream search API.
//
// # Patterns
//
//   - Circuit Breaker: after repeated transport failures the circuit opens
//     and calls fail fast for a cooldown; afterwards a single probe decides
//     whether to close again. One breaker is shared process-wide.
//
//   - Retry: transient transport failures get up to three attempts with
//     exponential backoff and jitter. Upstream business errors and caller
//     mistakes are terminal.
//
//   - Timeout: each individual attempt is bounded; expiry counts as a
//     transport failure.
//
//   - Quota Guard: a token bucket that refuses calls locally before the
//     upstream's request quota is burned.
//
// # Usage
//
//	exec := resilience.NewExecutor(
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{})),
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})),
//	    resilience.WithTimeout(resilience.NewTimeout(resilience.TimeoutConfig{})),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    _, err := client.Search(ctx, params)
//	    return err
//	})
//
// Failure classification comes from the fault package: only errors that
// indicate upstream instability count toward the breaker or justify a
// retry; bad caller input never does.
package resilience
