package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the proxy's stable taxonomy.
type Kind int

const (
	// KindInternal is an unexpected failure inside the proxy itself.
	KindInternal Kind = iota
	// KindBadRequest means the caller supplied missing or invalid arguments.
	KindBadRequest
	// KindUnauthorized means the upstream rejected the service key.
	KindUnauthorized
	// KindForbidden means the service key is expired or not permitted.
	KindForbidden
	// KindRateLimited means the upstream quota is exhausted.
	KindRateLimited
	// KindUpstreamUnavailable means transport failure, upstream 5xx, or an
	// open circuit breaker.
	KindUpstreamUnavailable
	// KindMalformedUpstream means the upstream payload was not the expected
	// envelope. Treated like unavailability for resilience purposes.
	KindMalformedUpstream
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindMalformedUpstream:
		return "malformed_upstream"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// HTTPStatus returns the HTTP-style severity for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamUnavailable, KindMalformedUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified proxy error. Message is safe to surface to callers;
// the wrapped cause is for logs only and may reference upstream details.
type Error struct {
	Kind    Kind
	Code    string // upstream result code, when one exists
	Message string
	cause   error
}

// New creates a classified error with a caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted caller-facing message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error wrapping an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("fault: %s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("fault: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the HTTP-style severity for the error.
func (e *Error) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// KindOf extracts the Kind from err. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// AsError converts err into a classified *Error, wrapping unclassified
// errors as internal so no raw cause text reaches callers.
func AsError(err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return Wrap(KindInternal, "internal error", err)
}

// Retryable reports whether the retry policy may attempt err again.
// Only transport-level unavailability qualifies; upstream business errors
// inside a successful response and caller mistakes are terminal.
func Retryable(err error) bool {
	return KindOf(err) == KindUpstreamUnavailable
}

// CountsTowardBreaker reports whether err indicates upstream instability.
// Client-class errors are the caller's fault and do not trip the breaker.
func CountsTowardBreaker(err error) bool {
	switch KindOf(err) {
	case KindUpstreamUnavailable, KindMalformedUpstream:
		return true
	default:
		return false
	}
}
