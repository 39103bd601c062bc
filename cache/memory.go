package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/safelaw/normalize"
)

// MemoryCache is the in-memory query cache. Expiry is passive: entries are
// dropped when a Get finds them stale. A size bound with insertion-order
// eviction keeps memory flat under key churn.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	order   []string // insertion order, may contain deleted keys
	policy  Policy
}

type memoryEntry struct {
	resp      *normalize.Response
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache with the given policy.
func NewMemoryCache(policy Policy) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*memoryEntry),
		policy:  policy.normalized(),
	}
}

// Get retrieves a cached response. Returns (nil, false) on miss or expiry.
func (c *MemoryCache) Get(_ context.Context, key string) (*normalize.Response, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.resp, true
}

// Set stores a response. Empty responses are skipped so a transient
// zero-result upstream state is re-fetched on the next identical call.
func (c *MemoryCache) Set(_ context.Context, key string, resp *normalize.Response) error {
	if c.policy.TTL < 0 {
		return nil
	}
	if resp == nil || len(resp.Items) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.evictLocked()
		c.order = append(c.order, key)
	}
	c.entries[key] = &memoryEntry{
		resp:      resp,
		expiresAt: time.Now().Add(c.policy.TTL),
	}
	return nil
}

// Len reports the number of live entries, counting unexpired ones only.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	n := 0
	for _, entry := range c.entries {
		if !now.After(entry.expiresAt) {
			n++
		}
	}
	return n
}

// evictLocked makes room for one insertion. The order slice may reference
// keys already expired away; those are skipped for free.
func (c *MemoryCache) evictLocked() {
	for len(c.entries) >= c.policy.MaxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
