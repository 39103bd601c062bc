package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/safelaw/cache"
	"github.com/jonwraymond/safelaw/fault"
	"github.com/jonwraymond/safelaw/normalize"
	"github.com/jonwraymond/safelaw/observe"
	"github.com/jonwraymond/safelaw/resilience"
	"github.com/jonwraymond/safelaw/resolve"
	"github.com/jonwraymond/safelaw/upstream"
)

// Function names the dispatcher recognizes.
const (
	FuncSearch    = "search_safety_law"
	FuncSummarize = "summarize_law_snippets"
	FuncPlan      = "generate_action_plan"
)

// SearchClient performs one upstream round trip. *upstream.Client is the
// production implementation.
type SearchClient interface {
	Search(ctx context.Context, p upstream.Params) (*upstream.Result, error)
}

// Config configures a Dispatcher. Client is required; everything else
// defaults to the standard pipeline.
type Config struct {
	// Client is the upstream search client.
	Client SearchClient

	// Executor guards upstream calls. Default: resilience.DefaultExecutor.
	Executor *resilience.Executor

	// Cache is the query cache. Default: in-memory with the default policy.
	Cache cache.Cache

	// Normalizer reconciles raw results. Default: the standard resolver.
	Normalizer *normalize.Normalizer

	// Logger, Metrics, Tracer default to no-ops.
	Logger  observe.Logger
	Metrics observe.Metrics
	Tracer  observe.Tracer

	// Now is the clock, overridable in tests. Default: time.Now.
	Now func() time.Time
}

// Dispatcher routes a named-function request to its handler. The cache and
// the executor's breaker are shared across all concurrent requests.
type Dispatcher struct {
	client     SearchClient
	exec       *resilience.Executor
	cache      cache.Cache
	normalizer *normalize.Normalizer
	logger     observe.Logger
	metrics    observe.Metrics
	tracer     observe.Tracer
	now        func() time.Time

	// group collapses concurrent identical cache-miss searches into one
	// upstream round trip.
	group singleflight.Group
}

// New creates a Dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Executor == nil {
		cfg.Executor = resilience.DefaultExecutor()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemoryCache(cache.DefaultPolicy())
	}
	if cfg.Normalizer == nil {
		cfg.Normalizer = normalize.NewNormalizer(resolve.NewResolver())
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopMetrics()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = observe.NopTracer()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Dispatcher{
		client:     cfg.Client,
		exec:       cfg.Executor,
		cache:      cfg.Cache,
		normalizer: cfg.Normalizer,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
		now:        cfg.Now,
	}, nil
}

// Breaker exposes the shared circuit breaker for health reporting.
func (d *Dispatcher) Breaker() *resilience.CircuitBreaker {
	return d.exec.Breaker()
}

// Handle routes one (functionName, arguments) request. The returned error,
// when non-nil, is always a classified *fault.Error safe to surface.
func (d *Dispatcher) Handle(ctx context.Context, functionName string, args map[string]any) (any, error) {
	requestID := uuid.NewString()
	logger := d.logger.With(
		observe.F("request.id", requestID),
		observe.F("function", functionName),
	)

	ctx, span := d.tracer.StartSpan(ctx, functionName, requestID)
	start := d.now()

	result, err := d.route(ctx, logger, functionName, args)

	duration := time.Since(start)
	d.tracer.EndSpan(span, err)
	d.metrics.RecordInvoke(ctx, functionName, duration, err)

	if err != nil {
		fe := fault.AsError(err)
		logger.Error(ctx, "function call failed",
			observe.F("kind", fe.Kind.String()),
			observe.F("status", fe.HTTPStatus()),
			observe.F("duration_ms", duration.Milliseconds()),
		)
		return nil, fe
	}

	logger.Info(ctx, "function call completed",
		observe.F("duration_ms", duration.Milliseconds()),
	)
	return result, nil
}

func (d *Dispatcher) route(ctx context.Context, logger observe.Logger, functionName string, args map[string]any) (any, error) {
	switch functionName {
	case FuncSearch:
		return d.handleSearch(ctx, logger, args)
	case FuncSummarize:
		return handleSummarize(args)
	case FuncPlan:
		return handlePlan(args)
	default:
		return nil, fault.Newf(fault.KindBadRequest, "unknown function %q", functionName)
	}
}
