package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and the
	// upstream call was not attempted.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when a single upstream attempt exceeds the
	// per-attempt timeout. Counts as a transport failure.
	ErrTimeout = errors.New("resilience: upstream attempt timed out")

	// ErrQuotaExhausted is returned when the client-side quota guard
	// refuses the call before it reaches the upstream.
	ErrQuotaExhausted = errors.New("resilience: upstream quota guard refused the call")
)
