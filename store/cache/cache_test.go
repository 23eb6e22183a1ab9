package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	defer c.Close()

	c.Set(ctx, "k", "v")
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	defer c.Close()

	c.SetWithTTL(ctx, "k", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCacheDelete(t *testing.T) {
	ctx := context.Background()
	var evictedKey string
	c := New(Config{OnEviction: func(key string, _ any) {
		evictedKey = key
	}})
	defer c.Close()

	c.Set(ctx, "k", "v")
	c.Delete(ctx, "k")

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, "k", evictedKey)
}

func TestCacheMaxItems(t *testing.T) {
	ctx := context.Background()
	c := New(Config{MaxItems: 3})
	defer c.Close()

	for i := 0; i < 5; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), i)
	}

	count := 0
	for i := 0; i < 5; i++ {
		if _, ok := c.Get(ctx, fmt.Sprintf("k%d", i)); ok {
			count++
		}
	}
	assert.LessOrEqual(t, count, 3)
}

func TestCacheClear(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Clear(ctx)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestTieredCacheL1Only(t *testing.T) {
	ctx := context.Background()
	tc, err := NewTieredCache(&TieredCacheConfig{L1MaxItems: 10, L1TTL: time.Minute})
	require.NoError(t, err)
	defer tc.Close()

	tc.Set(ctx, "k", "v", time.Minute)
	got, ok := tc.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	tc.Delete(ctx, "k")
	_, ok = tc.Get(ctx, "k")
	assert.False(t, ok)
}
