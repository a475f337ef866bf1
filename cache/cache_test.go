package cache

import (
	"context"
	"errors"
	"testing"
)

// TestCacheInterface_CompileCheck verifies the Cache interface contract.
// This is a compile-time check enforced by implementing a mock.
func TestCacheInterface_CompileCheck(t *testing.T) {
	var _ Cache[int] = (*mockCache)(nil)
}

// mockCache is a test double that implements Cache interface.
type mockCache struct{}

func (m *mockCache) Get(ctx context.Context, key string) (int, bool) {
	return 0, false
}

func (m *mockCache) Set(ctx context.Context, key string, value int) error {
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return nil
}

func TestNilCache(t *testing.T) {
	var c *MemoryCache[string]
	ctx := context.Background()

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get on nil cache should miss")
	}
	if err := c.Set(ctx, "k", "v"); !errors.Is(err, ErrNilCache) {
		t.Errorf("Set on nil cache = %v, want ErrNilCache", err)
	}
	if err := c.Delete(ctx, "k"); !errors.Is(err, ErrNilCache) {
		t.Errorf("Delete on nil cache = %v, want ErrNilCache", err)
	}
}
