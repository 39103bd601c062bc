package observe

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			"missing service name",
			Config{},
			ErrMissingServiceName,
		},
		{
			"valid minimal",
			Config{ServiceName: "safelaw"},
			nil,
		},
		{
			"bad tracing exporter",
			Config{ServiceName: "safelaw", Tracing: TracingConfig{Enabled: true, Exporter: "zipkin"}},
			ErrInvalidTracingExporter,
		},
		{
			"bad sample pct",
			Config{ServiceName: "safelaw", Tracing: TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5}},
			ErrInvalidSamplePct,
		},
		{
			"bad metrics exporter",
			Config{ServiceName: "safelaw", Metrics: MetricsConfig{Enabled: true, Exporter: "statsd"}},
			ErrInvalidMetricsExporter,
		},
		{
			"bad log level",
			Config{ServiceName: "safelaw", Logging: LoggingConfig{Enabled: true, Level: "verbose"}},
			ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "safelaw"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(context.Background())

	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Error("disabled observer should still return usable noop primitives")
	}
}

func TestNewObserver_StdoutExporters(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "safelaw",
		Version:     "test",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "error"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := obs.Shutdown(shutdownCtx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestMetrics_RecordsWithoutPanic(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "safelaw",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(ctx)

	m, err := NewMetrics(obs.Meter())
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	m.RecordInvoke(ctx, "search_safety_law", 12*time.Millisecond, nil)
	m.RecordInvoke(ctx, "search_safety_law", 3*time.Millisecond, errors.New("boom"))
	m.RecordCache(ctx, true)
	m.RecordCache(ctx, false)
	m.RecordBreakerTransition(ctx, "closed", "open")
}

func TestNopMetricsAndTracer(t *testing.T) {
	ctx := context.Background()

	m := NopMetrics()
	m.RecordInvoke(ctx, "f", time.Millisecond, nil)
	m.RecordCache(ctx, true)
	m.RecordBreakerTransition(ctx, "a", "b")

	tr := NopTracer()
	sctx, span := tr.StartSpan(ctx, "search_safety_law", "req-1")
	if sctx == nil || span == nil {
		t.Fatal("NopTracer returned nils")
	}
	tr.EndSpan(span, errors.New("ignored"))
}
