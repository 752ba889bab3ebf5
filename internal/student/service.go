package student

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/logesh2496/imayavarman-silambam/internal/apperr"
	"github.com/logesh2496/imayavarman-silambam/internal/cache"
	"github.com/logesh2496/imayavarman-silambam/internal/events"
)

// Service mediates student reads and mutations: reads go through the query
// cache, mutations invalidate it and publish change events.
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

// List returns all students, optionally filtered by a case-insensitive
// substring match on name. The unfiltered list is the cached unit; search
// terms filter it in memory.
func (s *Service) List(ctx context.Context, search string) ([]Student, error) {
	students, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return students, nil
	}
	needle := strings.ToLower(search)
	var out []Student
	for _, st := range students {
		if strings.Contains(strings.ToLower(st.Name), needle) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Service) listAll(ctx context.Context) ([]Student, error) {
	key := cache.StudentsKey()
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var out []Student
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
	}

	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(students); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return students, nil
}

// Get returns a student, or nil when absent. Absence is not an error.
func (s *Service) Get(ctx context.Context, id string) (*Student, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and persists a new student.
func (s *Service) Create(ctx context.Context, in CreateInput) (Student, error) {
	if err := in.Validate(); err != nil {
		return Student{}, err
	}
	created, err := s.repo.Create(ctx, Student{
		Name:          in.Name,
		CurrentLesson: in.CurrentLesson,
		Status:        in.Status,
		FeesPaid:      in.FeesPaid,
		ClassID:       in.ClassID,
	})
	if err != nil {
		return Student{}, err
	}
	s.invalidateLists(ctx)
	s.publish(ctx, events.Change{Type: events.TypeStudentCreated, EntityID: created.ID})
	return created, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Student, error) {
	if err := in.Validate(); err != nil {
		return Student{}, err
	}
	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Student{}, err
	}
	s.invalidateLists(ctx)
	s.publish(ctx, events.Change{Type: events.TypeStudentUpdated, EntityID: id})
	return updated, nil
}

// Delete removes a student. Logs and achievements referencing the student are
// intentionally left in place.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateLists(ctx)
	s.publish(ctx, events.Change{Type: events.TypeStudentDeleted, EntityID: id})
	return nil
}

// Exists reports whether a student id resolves to a record.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return st != nil, nil
}

// MustExist returns ErrNotFound when the student is absent.
func (s *Service) MustExist(ctx context.Context, id string) error {
	ok, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Service) invalidateLists(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.StudentsKey()); err != nil {
		s.log.Warn("cache invalidate failed", zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, ch events.Change) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Publish(ctx, ch); err != nil {
		s.log.Warn("event publish failed", zap.String("type", ch.Type), zap.Error(err))
	}
}
