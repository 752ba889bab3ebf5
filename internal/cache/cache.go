// Package cache is the query cache between the HTTP layer and Postgres.
// Entries are JSON-encoded query results keyed by query shape; every mutation
// invalidates the keys it affects, and the bulk mark-all flow patches and
// restores entries directly.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "silambam_cache_hits_total",
		Help: "Number of cache lookups that found a live entry.",
	})
	misses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "silambam_cache_misses_total",
		Help: "Number of cache lookups that found nothing.",
	})
)

// Cache is the abstraction over different backends.
type Cache interface {
	// Get returns the entry for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores an entry. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete invalidates an entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, keys ...string) error
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is a mutex-guarded in-process cache for dev, tests and single-node
// deployments.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

// Get returns a copy of the stored value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || e.expired(time.Now()) {
		delete(m.entries, key)
		misses.Inc()
		return nil, false, nil
	}
	hits.Inc()
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set stores a copy of value.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	e := entry{value: stored}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Delete removes entries.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}
