// Package fault defines the proxy's error taxonomy.
//
// Every error that can reach a caller is a classified *Error carrying a Kind,
// an HTTP-style severity, and a message that is safe to surface. Upstream
// result codes are mapped through a single authoritative table via
// ClassifyCode. The Retryable and CountsTowardBreaker predicates tell the
// resilience layer how each kind behaves.
package fault
