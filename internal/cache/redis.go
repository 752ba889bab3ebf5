package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in redis so cache state survives restarts and is
// shared between API replicas and the worker.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedis builds a redis-backed cache. All keys are namespaced under prefix.
func NewRedis(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "silambam:cache:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Get fetches an entry.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			misses.Inc()
			return nil, false, nil
		}
		return nil, false, err
	}
	hits.Inc()
	return val, true, nil
}

// Set stores an entry with expiry.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// Delete invalidates entries.
func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.prefix + k
	}
	return r.client.Del(ctx, prefixed...).Err()
}
