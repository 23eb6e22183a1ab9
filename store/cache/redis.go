package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheConfig holds the Redis connection configuration.
type RedisCacheConfig struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	DefaultTTL   time.Duration
	PoolSize     int
	MinIdleConns int
}

// DefaultRedisConfig returns the default Redis configuration.
func DefaultRedisConfig() *RedisCacheConfig {
	return &RedisCacheConfig{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		KeyPrefix:    "askdesk:",
		DefaultTTL:   30 * time.Minute,
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// RedisConfigFromEnv creates Redis config from environment variables.
// Environment variables:
//   - ASKDESK_CACHE_REDIS_ADDR: Redis address (default: localhost:6379)
//   - ASKDESK_CACHE_REDIS_PASSWORD: Redis password (default: "")
//   - ASKDESK_CACHE_REDIS_PREFIX: Key prefix (default: "askdesk:")
func RedisConfigFromEnv() *RedisCacheConfig {
	config := DefaultRedisConfig()

	if addr := os.Getenv("ASKDESK_CACHE_REDIS_ADDR"); addr != "" {
		config.Addr = addr
	}
	if password := os.Getenv("ASKDESK_CACHE_REDIS_PASSWORD"); password != "" {
		config.Password = password
	}
	if prefix := os.Getenv("ASKDESK_CACHE_REDIS_PREFIX"); prefix != "" {
		config.KeyPrefix = prefix
	}

	return config
}

// IsRedisEnabled checks if Redis caching should be enabled based on environment.
// Returns true if ASKDESK_CACHE_REDIS_ADDR is set.
func IsRedisEnabled() bool {
	return os.Getenv("ASKDESK_CACHE_REDIS_ADDR") != ""
}

// RedisCache is the optional L2 cache. Values are stored as JSON; callers
// get back raw json.RawMessage and must decide how to interpret it, so the
// tiered cache only promotes L2 hits for types it knows how to decode.
type RedisCache struct {
	client *redis.Client
	config *RedisCacheConfig
}

// NewRedisCache connects to Redis and returns the L2 cache.
func NewRedisCache(config *RedisCacheConfig) (*RedisCache, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		config: config,
	}, nil
}

func (r *RedisCache) key(key string) string {
	return r.config.KeyPrefix + key
}

// Set stores a value with the default TTL.
func (r *RedisCache) Set(ctx context.Context, key string, value any) {
	r.SetWithTTL(ctx, key, value, r.config.DefaultTTL)
}

// SetWithTTL stores a value with an explicit TTL.
func (r *RedisCache) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	r.client.Set(ctx, r.key(key), data, ttl)
}

// Get returns the raw JSON payload for a key.
func (r *RedisCache) Get(ctx context.Context, key string) (any, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return json.RawMessage(data), true
}

// Delete removes a key.
func (r *RedisCache) Delete(ctx context.Context, key string) {
	r.client.Del(ctx, r.key(key))
}

// Clear removes all keys under the configured prefix.
func (r *RedisCache) Clear(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.config.KeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		r.client.Del(ctx, iter.Val())
	}
}

// Close closes the Redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
