package cache

import "context"

// MemoryCache is a map-backed Cache. It is not safe for concurrent use.
type MemoryCache[V any] struct {
	entries map[string]V
	hits    int
	misses  int
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache[V any]() *MemoryCache[V] {
	return &MemoryCache[V]{entries: make(map[string]V)}
}

// Get retrieves a value from the cache. Returns (zero, false) on miss.
func (c *MemoryCache[V]) Get(_ context.Context, key string) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	v, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores value under key, replacing any existing entry.
func (c *MemoryCache[V]) Set(_ context.Context, key string, value V) error {
	if c == nil {
		return ErrNilCache
	}
	if c.entries == nil {
		c.entries = make(map[string]V)
	}
	c.entries[key] = value
	return nil
}

// Delete removes a value from the cache. Idempotent - no error on miss.
func (c *MemoryCache[V]) Delete(_ context.Context, key string) error {
	if c == nil {
		return ErrNilCache
	}
	delete(c.entries, key)
	return nil
}

// Len returns the number of entries.
func (c *MemoryCache[V]) Len() int {
	return len(c.entries)
}

// Stats returns lookup counters.
func (c *MemoryCache[V]) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// Ensure MemoryCache implements Cache
var _ Cache[string] = (*MemoryCache[string])(nil)
