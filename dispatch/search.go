package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/jonwraymond/safelaw/cache"
	"github.com/jonwraymond/safelaw/fault"
	"github.com/jonwraymond/safelaw/normalize"
	"github.com/jonwraymond/safelaw/observe"
	"github.com/jonwraymond/safelaw/resilience"
	"github.com/jonwraymond/safelaw/upstream"
)

// handleSearch runs the search pipeline: coerce arguments, check the query
// cache, and on a miss go upstream through the resilience executor, then
// normalize and store.
func (d *Dispatcher) handleSearch(ctx context.Context, logger observe.Logger, args map[string]any) (any, error) {
	params, err := searchParams(args)
	if err != nil {
		return nil, err
	}

	key := cache.Key(params)

	if resp, ok := d.cache.Get(ctx, key); ok {
		d.metrics.RecordCache(ctx, true)
		logger.Debug(ctx, "query cache hit", observe.F("key", key))
		return resp, nil
	}
	d.metrics.RecordCache(ctx, false)

	// Concurrent identical misses share one upstream round trip.
	v, err, shared := d.group.Do(key, func() (any, error) {
		return d.fetchAndNormalize(ctx, key, params)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug(ctx, "search shared an in-flight upstream call", observe.F("key", key))
	}
	return v.(*normalize.Response), nil
}

// searchParams coerces the raw arguments into upstream parameters.
// searchValue is the only hard requirement; paging and category fall back
// to defaults when missing or unparseable.
func searchParams(args map[string]any) (upstream.Params, error) {
	searchValue := stringArg(args, "searchValue")
	if searchValue == "" {
		return upstream.Params{}, fault.New(fault.KindBadRequest, "searchValue is required")
	}

	category := coercePositive(args, "category", defaultCategory)
	if !validCategories[category] {
		return upstream.Params{}, fault.Newf(fault.KindBadRequest, "invalid category %d", category)
	}

	numOfRows := coercePositive(args, "numOfRows", defaultNumOfRows)
	if numOfRows > maxNumOfRows {
		numOfRows = maxNumOfRows
	}

	return upstream.Params{
		SearchValue: searchValue,
		Category:    category,
		PageNo:      coercePositive(args, "pageNo", defaultPageNo),
		NumOfRows:   numOfRows,
	}, nil
}

// fetchAndNormalize performs the guarded upstream call and caches the
// normalized result. Empty results pass through uncached.
//
// A timed-out attempt keeps running after the executor has moved on to the
// next one, so attempts hold their result locally and publish it under a
// mutex only on success. Execute returning nil guarantees some attempt
// published a non-nil result.
func (d *Dispatcher) fetchAndNormalize(ctx context.Context, key string, params upstream.Params) (*normalize.Response, error) {
	var (
		mu     sync.Mutex
		result *upstream.Result
	)

	err := d.exec.Execute(ctx, func(ctx context.Context) error {
		r, callErr := d.client.Search(ctx, params)
		if callErr != nil {
			return callErr
		}
		mu.Lock()
		result = r
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, classifyExecError(err)
	}

	mu.Lock()
	r := result
	mu.Unlock()

	resp := d.normalizer.Envelope(r, d.now())
	if cacheErr := d.cache.Set(ctx, key, resp); cacheErr != nil {
		// A cache failure must not fail the request.
		d.logger.Warn(ctx, "query cache store failed", observe.F("key", key))
	}
	return resp, nil
}

// classifyExecError maps resilience sentinels onto the fault taxonomy;
// classified upstream errors pass through untouched.
func classifyExecError(err error) error {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return fault.Wrap(fault.KindUpstreamUnavailable, "upstream temporarily unavailable", err)
	case errors.Is(err, resilience.ErrTimeout):
		return fault.Wrap(fault.KindUpstreamUnavailable, "upstream did not respond in time", err)
	case errors.Is(err, resilience.ErrQuotaExhausted):
		return fault.Wrap(fault.KindRateLimited, "request quota exhausted, try again later", err)
	default:
		return fault.AsError(err)
	}
}
