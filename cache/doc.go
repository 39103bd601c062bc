// Package cache is the TTL cache for normalized search responses, keyed by
// the query shape (searchValue, category, pageNo, numOfRows). Empty
// responses are never cached so transient upstream emptiness is retried.
package cache
