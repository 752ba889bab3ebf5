package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the shared redis client used by the cache and queue backends.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts. clientName shows up in
// CLIENT LIST, telling the API and worker connections apart.
func NewRedis(addr, clientName string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		ClientName:   clientName,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		PoolSize:     10,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}
