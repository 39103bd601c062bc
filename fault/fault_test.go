package fault

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBadRequest, "bad_request"},
		{KindUnauthorized, "unauthorized"},
		{KindForbidden, "forbidden"},
		{KindRateLimited, "rate_limited"},
		{KindUpstreamUnavailable, "upstream_unavailable"},
		{KindMalformedUpstream, "malformed_upstream"},
		{KindInternal, "internal"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindUpstreamUnavailable, http.StatusBadGateway},
		{KindMalformedUpstream, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.kind.HTTPStatus(); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindUpstreamUnavailable, "upstream unreachable", cause)

	if !errors.Is(err, cause) {
		t.Error("Wrap() should preserve the cause for errors.Is")
	}
}

func TestKindOf(t *testing.T) {
	err := New(KindRateLimited, "quota exceeded")
	wrapped := fmt.Errorf("calling upstream: %w", err)

	if got := KindOf(wrapped); got != KindRateLimited {
		t.Errorf("KindOf(wrapped) = %v, want rate_limited", got)
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("KindOf(plain) = %v, want internal", got)
	}
}

func TestAsError_WrapsUnclassified(t *testing.T) {
	cause := errors.New("nil pointer somewhere")
	fe := AsError(cause)

	if fe.Kind != KindInternal {
		t.Errorf("Kind = %v, want internal", fe.Kind)
	}
	// The caller-facing message must not leak the cause text.
	if fe.Message != "internal error" {
		t.Errorf("Message = %q, want generic internal message", fe.Message)
	}
}

func TestClassifyCode(t *testing.T) {
	tests := []struct {
		code string
		want Kind
	}{
		{"22", KindRateLimited},
		{"30", KindUnauthorized},
		{"31", KindForbidden},
		{"32", KindForbidden},
		{"10", KindBadRequest},
		{"11", KindBadRequest},
		{"12", KindUpstreamUnavailable},
		{"99", KindUpstreamUnavailable}, // unknown code
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := ClassifyCode(tt.code)
			if err.Kind != tt.want {
				t.Errorf("ClassifyCode(%q).Kind = %v, want %v", tt.code, err.Kind, tt.want)
			}
			if err.Code != tt.code {
				t.Errorf("ClassifyCode(%q).Code = %q", tt.code, err.Code)
			}
			if err.Message == "" {
				t.Errorf("ClassifyCode(%q) has empty message", tt.code)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindUpstreamUnavailable, true},
		{KindMalformedUpstream, false},
		{KindRateLimited, false},
		{KindBadRequest, false},
		{KindUnauthorized, false},
	}

	for _, tt := range tests {
		err := New(tt.kind, "x")
		if got := Retryable(err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestCountsTowardBreaker(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindUpstreamUnavailable, true},
		{KindMalformedUpstream, true},
		{KindBadRequest, false},
		{KindUnauthorized, false},
		{KindForbidden, false},
		{KindRateLimited, false},
		{KindInternal, false},
	}

	for _, tt := range tests {
		err := New(tt.kind, "x")
		if got := CountsTowardBreaker(err); got != tt.want {
			t.Errorf("CountsTowardBreaker(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
