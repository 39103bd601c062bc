package resilience

import (
	"context"
	"sync"
	"time"
)

// QuotaGuardConfig configures the client-side upstream quota guard.
type QuotaGuardConfig struct {
	// RatePerSecond is how fast call budget refills.
	// Default: 10
	RatePerSecond float64

	// Burst is the maximum stored call budget.
	// Default: 20
	Burst int
}

// QuotaGuard is a token bucket that refuses calls before they reach the
// upstream once the local budget is spent. It protects the upstream's
// request quota; it does not retry or queue.
type QuotaGuard struct {
	config QuotaGuardConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewQuotaGuard creates a new quota guard.
func NewQuotaGuard(config QuotaGuardConfig) *QuotaGuard {
	if config.RatePerSecond <= 0 {
		config.RatePerSecond = 10
	}
	if config.Burst <= 0 {
		config.Burst = 20
	}

	return &QuotaGuard{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// Allow consumes one call from the budget, reporting whether the call may
// proceed.
func (q *QuotaGuard) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.refillLocked()
	if q.tokens >= 1 {
		q.tokens--
		return true
	}
	return false
}

// Execute runs the operation if the budget allows, otherwise fails fast
// with ErrQuotaExhausted without touching the upstream.
func (q *QuotaGuard) Execute(ctx context.Context, op func(context.Context) error) error {
	if !q.Allow() {
		return ErrQuotaExhausted
	}
	return op(ctx)
}

// Tokens returns the currently available call budget.
func (q *QuotaGuard) Tokens() float64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.refillLocked()
	return q.tokens
}

func (q *QuotaGuard) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(q.lastRefill)
	q.lastRefill = now

	q.tokens += elapsed.Seconds() * q.config.RatePerSecond
	if q.tokens > float64(q.config.Burst) {
		q.tokens = float64(q.config.Burst)
	}
}
