package cache

import (
	"context"
	"time"

	"github.com/jonwraymond/safelaw/normalize"
)

// Cache is the interface for the normalized-search-response cache.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns (nil, false) on miss or expiry.
// - Responses with zero items are never stored: a transient upstream
//   glitch must not be served as a cached empty result.
type Cache interface {
	// Get retrieves a cached response. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) (*normalize.Response, bool)

	// Set stores a response under the key with the policy TTL. Empty
	// responses are silently skipped.
	Set(ctx context.Context, key string, resp *normalize.Response) error

	// Len reports the number of live entries.
	Len() int
}

// Policy configures caching behavior.
type Policy struct {
	// TTL is how long an entry stays valid. If zero, DefaultPolicy's
	// TTL applies; a negative TTL disables caching.
	TTL time.Duration

	// MaxEntries bounds the cache size; the oldest insertion is evicted
	// first. If zero, DefaultPolicy's bound applies.
	MaxEntries int
}

// DefaultPolicy returns the default caching policy: 10 minute TTL,
// 1024 entries.
func DefaultPolicy() Policy {
	return Policy{
		TTL:        10 * time.Minute,
		MaxEntries: 1024,
	}
}

// normalized fills unset fields from the defaults.
func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.TTL == 0 {
		p.TTL = def.TTL
	}
	if p.MaxEntries <= 0 {
		p.MaxEntries = def.MaxEntries
	}
	return p
}
