package report

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/logesh2496/imayavarman-silambam/internal/cache"
	"github.com/logesh2496/imayavarman-silambam/internal/logbook"
	"github.com/logesh2496/imayavarman-silambam/internal/student"
)

// StudentSource lists the full roster.
type StudentSource interface {
	List(ctx context.Context) ([]student.Student, error)
}

// LogSource lists logs within an inclusive day window.
type LogSource interface {
	ListByRange(ctx context.Context, start, end time.Time) ([]logbook.DailyLog, error)
}

// Service loads and caches the monthly attendance matrix. The API serves
// matrix reads through it, and the worker uses it to re-warm the month a
// mutation touched.
type Service struct {
	students StudentSource
	logs     LogSource
	cache    cache.Cache
	log      *zap.Logger
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a service.
func NewService(students StudentSource, logs LogSource, c cache.Cache, log *zap.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{students: students, logs: logs, cache: c, log: log, ttl: ttl, now: time.Now}
}

// Month returns the attendance matrix for month's calendar month, cached per
// month.
func (s *Service) Month(ctx context.Context, month time.Time) (Matrix, error) {
	key := cache.MatrixKey(month)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var m Matrix
		if err := json.Unmarshal(raw, &m); err == nil {
			return m, nil
		}
	}
	return s.Rebuild(ctx, month)
}

// Rebuild computes the matrix from storage and refreshes the cache entry.
func (s *Service) Rebuild(ctx context.Context, month time.Time) (Matrix, error) {
	days := MonthRange(month, s.now())

	students, err := s.students.List(ctx)
	if err != nil {
		return Matrix{}, err
	}

	var logs []logbook.DailyLog
	if len(days) > 0 {
		logs, err = s.logs.ListByRange(ctx, days[0], days[len(days)-1])
		if err != nil {
			return Matrix{}, err
		}
	}

	m := BuildMatrix(students, logs, days)
	if m.Month == "" {
		m.Month = month.Format("2006-01")
	}
	if raw, err := json.Marshal(m); err == nil {
		if err := s.cache.Set(ctx, cache.MatrixKey(month), raw, s.ttl); err != nil {
			s.log.Warn("cache set failed", zap.Error(err))
		}
	}
	return m, nil
}
