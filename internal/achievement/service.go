package achievement

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/logesh2496/imayavarman-silambam/internal/cache"
	"github.com/logesh2496/imayavarman-silambam/internal/events"
)

// Service mediates achievement reads and mutations.
type Service struct {
	repo  Repository
	cache cache.Cache
	queue events.Queue
	log   *zap.Logger
	ttl   time.Duration
}

// NewService creates a service.
func NewService(repo Repository, c cache.Cache, q events.Queue, log *zap.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{repo: repo, cache: c, queue: q, log: log, ttl: ttl}
}

// ListByStudent returns a student's achievements, cached per student.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]Achievement, error) {
	key := cache.AchievementsKey(studentID)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var out []Achievement
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
	}

	achievements, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(achievements); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return achievements, nil
}

// Create validates and persists a new achievement.
func (s *Service) Create(ctx context.Context, in CreateInput) (Achievement, error) {
	if err := in.Validate(); err != nil {
		return Achievement{}, err
	}
	created, err := s.repo.Create(ctx, Achievement{
		StudentID:   in.StudentID,
		Level:       in.Level,
		Medal:       in.Medal,
		Description: in.Description,
	})
	if err != nil {
		return Achievement{}, err
	}
	if err := s.cache.Delete(ctx, cache.AchievementsKey(created.StudentID)); err != nil {
		s.log.Warn("cache invalidate failed", zap.Error(err))
	}
	if s.queue != nil {
		err := s.queue.Publish(ctx, events.Change{
			Type:      events.TypeAchievementCreated,
			EntityID:  created.ID,
			StudentID: created.StudentID,
		})
		if err != nil {
			s.log.Warn("event publish failed", zap.Error(err))
		}
	}
	return created, nil
}
