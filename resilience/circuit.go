package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonwraymond/safelaw/fault"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means upstream calls flow normally.
	StateClosed State = iota
	// StateOpen means calls fail fast until the cooldown passes.
	StateOpen
	// StateHalfOpen means one probe call is allowed through.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the breaker guarding upstream calls.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive counted failures
	// before the circuit opens. Default: 5
	FailureThreshold int

	// Cooldown is how long the circuit stays open before allowing a
	// probe. Default: 60 seconds
	Cooldown time.Duration

	// IsFailure decides whether an error counts toward the threshold.
	// Default: transport timeouts and upstream-instability faults count;
	// client-class errors do not.
	IsFailure func(err error) bool

	// OnStateChange is called on every state transition.
	OnStateChange func(from, to State)
}

// CircuitBreaker is the process-wide breaker shared by all requests.
// One instance guards the single upstream; it is not per-query-key.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu                  sync.Mutex
	state               State
	consecutiveFailures int
	openUntil           time.Time
	probing             bool
}

// defaultIsFailure counts upstream instability only. Per-attempt timeouts
// are transport failures; caller mistakes never trip the breaker.
func defaultIsFailure(err error) bool {
	return errors.Is(err, ErrTimeout) || fault.CountsTowardBreaker(err)
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 60 * time.Second
	}
	if config.IsFailure == nil {
		config.IsFailure = defaultIsFailure
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs one upstream attempt through the breaker. While open it
// fails fast with ErrCircuitOpen without invoking op.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeAttempt(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterAttempt(err)
	return err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Snapshot describes the breaker at one instant.
type Snapshot struct {
	State               State
	ConsecutiveFailures int
	OpenUntil           time.Time
}

// Snapshot returns the breaker's current counters. OpenUntil is the zero
// time while the circuit is closed.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	snap := Snapshot{
		State:               cb.currentStateLocked(),
		ConsecutiveFailures: cb.consecutiveFailures,
	}
	if snap.State != StateClosed {
		snap.OpenUntil = cb.openUntil
	}
	return snap
}

// Reset closes the circuit and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.consecutiveFailures = 0
	cb.openUntil = time.Time{}
	cb.probing = false
	cb.transitionLocked(StateClosed)
}

func (cb *CircuitBreaker) beforeAttempt() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.probing {
			return ErrCircuitOpen
		}
		cb.probing = true
	}
	return nil
}

func (cb *CircuitBreaker) afterAttempt(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	counted := cb.config.IsFailure(err)

	switch cb.state {
	case StateClosed:
		switch {
		case err == nil:
			cb.consecutiveFailures = 0
		case counted:
			cb.consecutiveFailures++
			if cb.consecutiveFailures >= cb.config.FailureThreshold {
				cb.openLocked()
			}
		}
		// A non-counted error is the caller's fault, not evidence either
		// way about the upstream: the streak stays as it is.

	case StateHalfOpen:
		cb.probing = false
		if counted {
			cb.openLocked()
			return
		}
		cb.consecutiveFailures = 0
		cb.openUntil = time.Time{}
		cb.transitionLocked(StateClosed)
	}
}

// openLocked opens the circuit and resets the counter so a later probe
// failure re-opens for a full cooldown.
func (cb *CircuitBreaker) openLocked() {
	cb.openUntil = time.Now().Add(cb.config.Cooldown)
	cb.consecutiveFailures = 0
	cb.transitionLocked(StateOpen)
}

// currentStateLocked flips an expired open circuit to half-open. Invariant:
// openUntil is strictly in the future whenever the state is open.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && !time.Now().Before(cb.openUntil) {
		cb.probing = false
		cb.transitionLocked(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}
