package cache

import (
	"context"
	"time"
)

// TieredCache implements a two-tier caching strategy:
//   - L1: in-memory cache (fast, small, DEFAULT)
//   - L2: Redis cache (shared, OPTIONAL)
//
// L2 is auto-enabled when ASKDESK_CACHE_REDIS_ADDR is set. A single-instance
// deployment works fine with just L1.
type TieredCache struct {
	l1        *Cache
	l2        *RedisCache
	l2Enabled bool
}

// TieredCacheConfig holds the configuration for the tiered cache.
type TieredCacheConfig struct {
	L1MaxItems int
	L1TTL      time.Duration
	L2TTL      time.Duration
	EnableL2   bool
}

// DefaultTieredConfig returns the default tiered cache configuration.
func DefaultTieredConfig() *TieredCacheConfig {
	return &TieredCacheConfig{
		L1MaxItems: 1000,
		L1TTL:      10 * time.Minute,
		L2TTL:      30 * time.Minute,
		EnableL2:   IsRedisEnabled(),
	}
}

// NewTieredCache creates a new tiered cache.
func NewTieredCache(config *TieredCacheConfig) (*TieredCache, error) {
	if config == nil {
		config = DefaultTieredConfig()
	}

	tc := &TieredCache{
		l1: New(Config{
			DefaultTTL:      config.L1TTL,
			CleanupInterval: time.Minute,
			MaxItems:        config.L1MaxItems,
		}),
	}

	if config.EnableL2 {
		l2, err := NewRedisCache(RedisConfigFromEnv())
		if err != nil {
			// Redis being down must not take the process with it.
			return tc, nil
		}
		tc.l2 = l2
		tc.l2Enabled = true
	}

	return tc, nil
}

// Get checks L1 first, then L2.
func (tc *TieredCache) Get(ctx context.Context, key string) (any, bool) {
	if value, ok := tc.l1.Get(ctx, key); ok {
		return value, true
	}
	if tc.l2Enabled {
		if value, ok := tc.l2.Get(ctx, key); ok {
			return value, true
		}
	}
	return nil, false
}

// Set writes through to both tiers.
func (tc *TieredCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	tc.l1.SetWithTTL(ctx, key, value, ttl)
	if tc.l2Enabled {
		tc.l2.SetWithTTL(ctx, key, value, ttl)
	}
}

// Delete removes a key from both tiers.
func (tc *TieredCache) Delete(ctx context.Context, key string) {
	tc.l1.Delete(ctx, key)
	if tc.l2Enabled {
		tc.l2.Delete(ctx, key)
	}
}

// Clear wipes both tiers.
func (tc *TieredCache) Clear(ctx context.Context) {
	tc.l1.Clear(ctx)
	if tc.l2Enabled {
		tc.l2.Clear(ctx)
	}
}

// Close releases both tiers.
func (tc *TieredCache) Close() {
	tc.l1.Close()
	if tc.l2Enabled {
		_ = tc.l2.Close()
	}
}
