package cache

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute, MaxItems: 10})
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	got, ok := c.Get(ctx, "a")
	if !ok || got.(int) != 1 {
		t.Fatalf("Get(a) = %v, %v, want 1, true", got, ok)
	}

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get(missing) returned ok")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute, MaxItems: 10})
	defer c.Close()
	ctx := context.Background()

	c.SetWithTTL(ctx, "a", 1, -time.Second)
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("expired entry still returned")
	}
}

func TestCacheEviction(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute, MaxItems: 2})
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Set(ctx, "c", 3)

	count := 0
	for _, key := range []string{"a", "b", "c"} {
		if _, ok := c.Get(ctx, key); ok {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected 2 entries after eviction, got %d", count)
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(Config{})
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	c.Delete(ctx, "a")
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("deleted entry still returned")
	}
}
