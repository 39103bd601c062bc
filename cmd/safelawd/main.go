// Command safelawd runs the safety-law search proxy daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jonwraymond/safelaw/auth"
	"github.com/jonwraymond/safelaw/cache"
	"github.com/jonwraymond/safelaw/config"
	"github.com/jonwraymond/safelaw/dispatch"
	"github.com/jonwraymond/safelaw/health"
	"github.com/jonwraymond/safelaw/normalize"
	"github.com/jonwraymond/safelaw/observe"
	"github.com/jonwraymond/safelaw/resilience"
	"github.com/jonwraymond/safelaw/resolve"
	"github.com/jonwraymond/safelaw/server"
	"github.com/jonwraymond/safelaw/upstream"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "safelawd:", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "safelaw.yaml", "path to the configuration file")
	flag.Parse()

	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs, err := observe.NewObserver(ctx, cfg.Observe())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	logger := obs.Logger()
	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		return err
	}
	tracer := observe.NewTracer(obs.Tracer())

	exec := buildExecutor(ctx, cfg.Resilience, logger, metrics)

	queryCache := cache.NewMemoryCache(cache.Policy{
		TTL:        cfg.Cache.TTL.Std(),
		MaxEntries: cfg.Cache.MaxEntries,
	})

	dispatcher, err := dispatch.New(dispatch.Config{
		Client: upstream.NewClient(upstream.ClientConfig{
			BaseURL:    cfg.Upstream.BaseURL,
			ServiceKey: cfg.Upstream.ServiceKey,
		}),
		Executor:   exec,
		Cache:      queryCache,
		Normalizer: normalize.NewNormalizer(resolve.NewResolver()),
		Logger:     logger,
		Metrics:    metrics,
		Tracer:     tracer,
	})
	if err != nil {
		return err
	}

	maxEntries := cfg.Cache.MaxEntries
	if maxEntries <= 0 {
		maxEntries = cache.DefaultPolicy().MaxEntries
	}
	registry := health.NewRegistry(
		health.NewBreakerChecker(dispatcher.Breaker()),
		health.NewCacheChecker(queryCache, maxEntries),
	)

	srv, err := server.New(server.Config{
		Dispatcher: dispatcher,
		Auth:       buildAuthChain(cfg.Auth),
		Health:     registry,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", observe.F("addr", cfg.Server.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

// buildExecutor assembles the upstream call policy from configuration.
// Zero values fall through to the resilience package defaults.
func buildExecutor(ctx context.Context, cfg config.ResilienceConfig, logger observe.Logger, metrics observe.Metrics) *resilience.Executor {
	opts := []resilience.ExecutorOption{
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts:  cfg.RetryMaxAttempts,
			InitialDelay: cfg.RetryInitialDelay.Std(),
			MaxDelay:     cfg.RetryMaxDelay.Std(),
		})),
		resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: cfg.BreakerFailureThreshold,
			Cooldown:         cfg.BreakerCooldown.Std(),
			OnStateChange: func(from, to resilience.State) {
				logger.Warn(ctx, "circuit breaker transition",
					observe.F("from", from.String()),
					observe.F("to", to.String()),
				)
				metrics.RecordBreakerTransition(ctx, from.String(), to.String())
			},
		})),
		resilience.WithTimeout(resilience.NewTimeout(resilience.TimeoutConfig{
			Timeout: cfg.AttemptTimeout.Std(),
		})),
	}

	if cfg.DailyQuota > 0 {
		burst := cfg.DailyQuota / 100
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, resilience.WithQuotaGuard(resilience.NewQuotaGuard(resilience.QuotaGuardConfig{
			RatePerSecond: float64(cfg.DailyQuota) / (24 * 60 * 60),
			Burst:         burst,
		})))
	}

	return resilience.NewExecutor(opts...)
}

// buildAuthChain assembles caller authentication from configuration.
// No configured schemes means anonymous access.
func buildAuthChain(cfg config.AuthConfig) *auth.Chain {
	var authenticators []auth.Authenticator
	if len(cfg.APIKeys) > 0 {
		authenticators = append(authenticators, auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{
			Keys: cfg.APIKeys,
		}))
	}
	if cfg.BearerSecret != "" {
		authenticators = append(authenticators, auth.NewBearerAuthenticator(auth.BearerConfig{
			Secret: []byte(cfg.BearerSecret),
			Issuer: cfg.BearerIssuer,
		}))
	}
	return auth.NewChain(authenticators...)
}
