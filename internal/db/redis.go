package db

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDB wraps the redis client used as a best-effort cache. A nil *RedisDB
// is valid and every method degrades to a no-op, so callers never branch on
// whether Redis is configured.
type RedisDB struct {
	client *redis.Client
}

// NewRedisDB connects to Redis. Returns nil (not an error) when the URL is
// empty or the server is unreachable; the cache is optional.
func NewRedisDB(ctx context.Context, redisURL string) *RedisDB {
	if redisURL == "" {
		log.Println("[Redis] No REDIS_URL configured, caching disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[Redis] ⚠️ Invalid REDIS_URL, caching disabled: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[Redis] ⚠️ Connection failed, caching disabled: %v", err)
		client.Close()
		return nil
	}

	log.Println("[Redis] ✅ Connected to Redis")
	return &RedisDB{client: client}
}

// Get returns the cached value, or "" on miss or when caching is disabled.
func (r *RedisDB) Get(ctx context.Context, key string) string {
	if r == nil {
		return ""
	}
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores a value with a TTL, best-effort.
func (r *RedisDB) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if r == nil {
		return
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[Redis] ⚠️ Set failed for %s: %v", key, err)
	}
}

// Healthy reports whether the cache connection is up.
func (r *RedisDB) Healthy(ctx context.Context) bool {
	if r == nil {
		return false
	}
	return r.client.Ping(ctx).Err() == nil
}

// Close releases the client.
func (r *RedisDB) Close() {
	if r != nil {
		r.client.Close()
	}
}
