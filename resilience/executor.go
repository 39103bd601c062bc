package resilience

import "context"

// Executor composes the resilience patterns guarding upstream calls.
type Executor struct {
	quota   *QuotaGuard
	retry   *Retry
	breaker *CircuitBreaker
	timeout *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithQuotaGuard adds the client-side quota guard.
func WithQuotaGuard(q *QuotaGuard) ExecutorOption {
	return func(e *Executor) {
		e.quota = q
	}
}

// WithRetry adds retry logic.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithCircuitBreaker adds the circuit breaker.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.breaker = cb
	}
}

// WithTimeout adds the per-attempt timeout.
func WithTimeout(t *Timeout) ExecutorOption {
	return func(e *Executor) {
		e.timeout = t
	}
}

// Breaker returns the configured circuit breaker, if any.
func (e *Executor) Breaker() *CircuitBreaker {
	return e.breaker
}

// Execute runs the operation through the configured patterns, composed as
// quota{ retry{ breaker{ timeout{ op }}}}:
//
//   - the quota guard refuses the whole call before any attempt;
//   - retry wraps the breaker so every attempt is checked and counted
//     individually, and an open circuit fails remaining attempts fast
//     (ErrCircuitOpen is not retryable, so the sequence ends there);
//   - the timeout bounds each individual attempt.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.breaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.breaker.Execute(ctx, inner)
		}
	}

	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	if e.quota != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.quota.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}

// DefaultExecutor builds the standard upstream policy: quota guard off,
// 3 attempts with exponential backoff, breaker at 5 failures with a 60s
// cooldown, 5s per-attempt timeout.
func DefaultExecutor() *Executor {
	return NewExecutor(
		WithRetry(NewRetry(RetryConfig{})),
		WithCircuitBreaker(NewCircuitBreaker(CircuitBreakerConfig{})),
		WithTimeout(NewTimeout(TimeoutConfig{})),
	)
}
