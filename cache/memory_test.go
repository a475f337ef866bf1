package cache

import (
	"context"
	"testing"
)

func TestMemoryCache_GetSetDelete(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	// Test Get on empty cache
	val, ok := cache.Get(ctx, "nonexistent")
	if ok {
		t.Error("Get on empty cache should return ok=false")
	}
	if val != "" {
		t.Error("Get on empty cache should return zero value")
	}

	// Test Set
	if err := cache.Set(ctx, "secret/data/app", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Test Get after Set
	got, ok := cache.Get(ctx, "secret/data/app")
	if !ok {
		t.Error("Get after Set should return ok=true")
	}
	if got != "v1" {
		t.Errorf("Get returned %q, want %q", got, "v1")
	}

	// Test Delete
	if err := cache.Delete(ctx, "secret/data/app"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := cache.Get(ctx, "secret/data/app"); ok {
		t.Error("Get after Delete should return ok=false")
	}

	// Test Delete is idempotent (no error on non-existent key)
	if err := cache.Delete(ctx, "nonexistent"); err != nil {
		t.Errorf("Delete on non-existent key should not error, got: %v", err)
	}
}

func TestMemoryCache_SetReplaces(t *testing.T) {
	cache := NewMemoryCache[int]()
	ctx := context.Background()

	_ = cache.Set(ctx, "p", 1)
	_ = cache.Set(ctx, "p", 2)

	if cache.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", cache.Len())
	}
	if got, _ := cache.Get(ctx, "p"); got != 2 {
		t.Errorf("Get() = %d, want 2", got)
	}
}

func TestMemoryCache_EmptyKey(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	_ = cache.Set(ctx, "", "root")
	if got, ok := cache.Get(ctx, ""); !ok || got != "root" {
		t.Errorf("Get(\"\") = %q, %v; want root, true", got, ok)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	cache.Get(ctx, "a")
	_ = cache.Set(ctx, "a", "x")
	cache.Get(ctx, "a")
	cache.Get(ctx, "a")
	cache.Get(ctx, "b")

	want := Stats{Hits: 2, Misses: 2, Entries: 1}
	if got := cache.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}
