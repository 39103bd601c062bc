package health

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonwraymond/safelaw/fault"
	"github.com/jonwraymond/safelaw/resilience"
)

func TestBreakerChecker(t *testing.T) {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 1,
		Cooldown:         time.Minute,
	})
	checker := NewBreakerChecker(cb)

	if got := checker.Check(context.Background()); got.Status != StatusHealthy {
		t.Fatalf("closed breaker: status = %v, want healthy", got.Status)
	}

	// Trip the breaker.
	_ = cb.Execute(context.Background(), func(context.Context) error {
		return fault.New(fault.KindUpstreamUnavailable, "down")
	})

	got := checker.Check(context.Background())
	if got.Status != StatusDegraded {
		t.Fatalf("open breaker: status = %v, want degraded", got.Status)
	}
	if got.Details["state"] != "open" {
		t.Errorf("state detail = %v, want open", got.Details["state"])
	}
	if _, ok := got.Details["open_until"]; !ok {
		t.Error("open breaker should report open_until")
	}
}

type fixedLen int

func (f fixedLen) Len() int { return int(f) }

func TestCacheChecker(t *testing.T) {
	checker := NewCacheChecker(fixedLen(7), 1024)

	got := checker.Check(context.Background())
	if got.Status != StatusHealthy {
		t.Fatalf("status = %v, want healthy", got.Status)
	}
	if got.Details["entries"] != 7 || got.Details["max_entries"] != 1024 {
		t.Errorf("details = %v", got.Details)
	}
}

type stubChecker struct {
	name   string
	result Result
}

func (s stubChecker) Name() string                 { return s.name }
func (s stubChecker) Check(context.Context) Result { return s.result }

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", map[string]Result{"a": {Status: StatusHealthy}}, StatusHealthy},
		{"one degraded", map[string]Result{"a": {Status: StatusHealthy}, "b": {Status: StatusDegraded}}, StatusDegraded},
		{"one unhealthy", map[string]Result{"a": {Status: StatusDegraded}, "b": {Status: StatusUnhealthy}}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandler(t *testing.T) {
	reg := NewRegistry(
		stubChecker{"breaker", Result{Status: StatusDegraded, Message: "upstream circuit open"}},
		stubChecker{"cache", Result{Status: StatusHealthy, Message: "3 entries"}},
	)

	rec := httptest.NewRecorder()
	Handler(reg)(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200 (degraded still serves)", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("overall = %q, want degraded", resp.Status)
	}
	if resp.Checks["breaker"].Status != "degraded" || resp.Checks["cache"].Status != "healthy" {
		t.Errorf("checks = %+v", resp.Checks)
	}
}

func TestHandler_Unhealthy(t *testing.T) {
	reg := NewRegistry(stubChecker{"down", Result{Status: StatusUnhealthy}})

	rec := httptest.NewRecorder()
	Handler(reg)(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != 503 {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest("GET", "/livez", nil))
	if rec.Code != 200 || rec.Body.String() != "OK" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}
