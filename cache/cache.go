package cache

import (
	"context"
	"errors"
)

// Sentinel errors for cache operations.
var (
	ErrNilCache = errors.New("cache: cache is nil")
)

// Cache stores values by key.
//
// Contract:
// - Concurrency: single owner; implementations need not be safe for concurrent use.
// - Errors: Get never errors; it returns (zero, false) on miss.
// - Keys: at most one entry per key; Set replaces any previous entry.
type Cache[V any] interface {
	// Get retrieves a cached value. Returns (zero, false) on miss.
	Get(ctx context.Context, key string) (V, bool)

	// Set stores or replaces the value for key.
	Set(ctx context.Context, key string, value V) error

	// Delete removes a cached value. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error
}

// Stats counts cache lookups.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}
