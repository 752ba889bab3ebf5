// Package events carries entity-change notifications from the API to the
// worker. The worker uses them to keep derived-view cache entries warm.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQueueFull reports a dropped event. The memory queue is bounded and
// publishing never blocks a mutation; callers log the drop and move on.
var ErrQueueFull = errors.New("event queue full")

// Change event types.
const (
	TypeStudentCreated     = "student.created"
	TypeStudentUpdated     = "student.updated"
	TypeStudentDeleted     = "student.deleted"
	TypeDailyLogCreated    = "daily_log.created"
	TypeDailyLogDeleted    = "daily_log.deleted"
	TypeAchievementCreated = "achievement.created"
)

// Change describes one committed mutation.
type Change struct {
	Type      string    `json:"type"`
	EntityID  string    `json:"entity_id"`
	StudentID string    `json:"student_id,omitempty"`
	Date      time.Time `json:"date,omitempty"`
}

// Queue is the abstraction over different backends.
type Queue interface {
	Publish(ctx context.Context, ch Change) error
	Consume(ctx context.Context) (<-chan Change, error)
}

// InMemory is a minimal channel-backed queue for dev/testing.
type InMemory struct {
	ch chan Change
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(size int) *InMemory {
	return &InMemory{ch: make(chan Change, size)}
}

// Publish enqueues a change without blocking. When the buffer is full, for
// instance in an API process with no in-process consumer, the event is
// dropped and ErrQueueFull returned.
func (q *InMemory) Publish(_ context.Context, ch Change) error {
	select {
	case q.ch <- ch:
		return nil
	default:
		return ErrQueueFull
	}
}

// Consume returns a channel for workers.
func (q *InMemory) Consume(ctx context.Context) (<-chan Change, error) {
	out := make(chan Change)
	go func() {
		defer close(out)
		for {
			select {
			case ch := <-q.ch:
				out <- ch
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// RedisQueue implements a simple Redis list-backed queue.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue builds a queue using LPUSH/BRPOP semantics.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "silambam:changes"
	}
	return &RedisQueue{client: client, key: key}
}

// Publish enqueues a change as JSON.
func (q *RedisQueue) Publish(ctx context.Context, ch Change) error {
	body, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, body).Err()
}

// Consume streams changes using BRPOP.
func (q *RedisQueue) Consume(ctx context.Context) (<-chan Change, error) {
	out := make(chan Change)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if len(res) == 2 {
				var ch Change
				if err := json.Unmarshal([]byte(res[1]), &ch); err == nil {
					out <- ch
				}
			}
		}
	}()
	return out, nil
}
