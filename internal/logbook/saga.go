package logbook

import (
	"context"
	"time"

	"github.com/logesh2496/imayavarman-silambam/internal/cache"
)

// optimisticBatch is the snapshot/apply/revert/invalidate cycle around one
// cache key. revert restores the whole pre-mutation entry, never individual
// records; invalidate runs on every settle so the source of truth wins.
type optimisticBatch struct {
	cache    cache.Cache
	key      string
	ttl      time.Duration
	snapshot []byte
	had      bool
}

func newOptimisticBatch(c cache.Cache, key string, ttl time.Duration) *optimisticBatch {
	return &optimisticBatch{cache: c, key: key, ttl: ttl}
}

// begin captures the current cache entry.
func (b *optimisticBatch) begin(ctx context.Context) error {
	raw, ok, err := b.cache.Get(ctx, b.key)
	if err != nil {
		return err
	}
	b.snapshot, b.had = raw, ok
	return nil
}

// apply writes the speculative entry.
func (b *optimisticBatch) apply(ctx context.Context, value []byte) error {
	return b.cache.Set(ctx, b.key, value, b.ttl)
}

// revert restores the entry captured by begin.
func (b *optimisticBatch) revert(ctx context.Context) error {
	if !b.had {
		return b.cache.Delete(ctx, b.key)
	}
	return b.cache.Set(ctx, b.key, b.snapshot, b.ttl)
}

// invalidate drops the entry, forcing the next read through to storage.
func (b *optimisticBatch) invalidate(ctx context.Context) error {
	return b.cache.Delete(ctx, b.key)
}
