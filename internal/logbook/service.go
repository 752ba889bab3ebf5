package logbook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/logesh2496/imayavarman-silambam/internal/cache"
	"github.com/logesh2496/imayavarman-silambam/internal/events"
	"github.com/logesh2496/imayavarman-silambam/internal/student"
)

// StudentSource lists students for the bulk mark-all flow.
type StudentSource interface {
	List(ctx context.Context) ([]student.Student, error)
}

// Service mediates log reads and mutations. Reads of hot queries go through
// the query cache; every mutation invalidates the keys it affects and
// publishes a change event.
type Service struct {
	repo     Repository
	students StudentSource
	cache    cache.Cache
	queue    events.Queue
	log      *zap.Logger
	ttl      time.Duration
}

// NewService creates a service.
func NewService(repo Repository, students StudentSource, c cache.Cache, q events.Queue, log *zap.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{repo: repo, students: students, cache: c, queue: q, log: log, ttl: ttl}
}

// ListByStudent returns a student's logs, most recent first.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]DailyLog, error) {
	key := cache.StudentLogsKey(studentID)
	if logs, ok := s.cached(ctx, key); ok {
		return logs, nil
	}
	logs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, logs)
	return logs, nil
}

// ListByDate returns all logs across students for one calendar day.
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]DailyLog, error) {
	key := cache.LogsByDateKey(date)
	if logs, ok := s.cached(ctx, key); ok {
		return logs, nil
	}
	logs, err := s.repo.ListByRange(ctx, date, date)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, logs)
	return logs, nil
}

// ListByRange returns all logs within the inclusive day window. Ranges are
// arbitrary, so results are not cached here; the matrix view caches at the
// report level instead.
func (s *Service) ListByRange(ctx context.Context, start, end time.Time) ([]DailyLog, error) {
	return s.repo.ListByRange(ctx, start, end)
}

// Create validates, defaults and persists a new log entry.
func (s *Service) Create(ctx context.Context, in CreateInput) (DailyLog, error) {
	if err := in.Validate(); err != nil {
		return DailyLog{}, err
	}
	l := DailyLog{
		StudentID:     in.StudentID,
		Attended:      true,
		LessonSummary: in.LessonSummary,
	}
	if in.Date != nil {
		l.Date = *in.Date
	}
	if in.Attended != nil {
		l.Attended = *in.Attended
	}
	created, err := s.repo.Create(ctx, l)
	if err != nil {
		return DailyLog{}, err
	}
	s.invalidateFor(ctx, created)
	s.publish(ctx, events.Change{
		Type:      events.TypeDailyLogCreated,
		EntityID:  created.ID,
		StudentID: created.StudentID,
		Date:      created.Date,
	})
	return created, nil
}

// Delete removes a log entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.invalidateFor(ctx, removed)
	s.publish(ctx, events.Change{
		Type:      events.TypeDailyLogDeleted,
		EntityID:  removed.ID,
		StudentID: removed.StudentID,
		Date:      removed.Date,
	})
	return nil
}

// MarkAllPresent creates a log for every student (within classID, when set)
// that has none for the given date. The cached date query is patched
// optimistically up front; any create failure rolls the whole batch back to
// the pre-mutation snapshot. The date key is always invalidated on settle so
// the next read comes from Postgres. Returns the number of logs created.
func (s *Service) MarkAllPresent(ctx context.Context, date time.Time, classID string) (int, error) {
	all, err := s.students.List(ctx)
	if err != nil {
		return 0, err
	}
	roster := all[:0:0]
	for _, st := range all {
		if classID == "" || st.ClassID == classID {
			roster = append(roster, st)
		}
	}

	logs, err := s.repo.ListByRange(ctx, date, date)
	if err != nil {
		return 0, err
	}
	present := make(map[string]bool, len(logs))
	for _, l := range logs {
		present[l.StudentID] = true
	}

	var missing []student.Student
	for _, st := range roster {
		if !present[st.ID] {
			missing = append(missing, st)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	batch := newOptimisticBatch(s.cache, cache.LogsByDateKey(date), s.ttl)
	if err := batch.begin(ctx); err != nil {
		s.log.Warn("cache snapshot failed", zap.Error(err))
	}

	patched := append([]DailyLog(nil), logs...)
	for _, st := range missing {
		patched = append(patched, DailyLog{
			ID:        uuid.NewString(), // temporary identity, replaced by the re-read
			StudentID: st.ID,
			Date:      date,
			Attended:  true,
		})
	}
	if raw, err := json.Marshal(patched); err == nil {
		if err := batch.apply(ctx, raw); err != nil {
			s.log.Warn("optimistic patch failed", zap.Error(err))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	created := make([]DailyLog, len(missing))
	for i, st := range missing {
		i, st := i, st
		g.Go(func() error {
			l, err := s.repo.Create(gctx, DailyLog{StudentID: st.ID, Date: date, Attended: true})
			if err != nil {
				return err
			}
			created[i] = l
			return nil
		})
	}
	createErr := g.Wait()

	if createErr != nil {
		// whole-batch rollback; per-record server-side successes are
		// reconciled by the forced re-read below
		if err := batch.revert(ctx); err != nil {
			s.log.Warn("optimistic rollback failed", zap.Error(err))
		}
	}
	if err := batch.invalidate(ctx); err != nil {
		s.log.Warn("cache invalidate failed", zap.Error(err))
	}

	keys := []string{cache.MatrixKey(date)}
	for _, st := range missing {
		keys = append(keys, cache.StudentLogsKey(st.ID))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("cache invalidate failed", zap.Error(err))
	}

	if createErr != nil {
		return 0, createErr
	}
	for _, l := range created {
		s.publish(ctx, events.Change{
			Type:      events.TypeDailyLogCreated,
			EntityID:  l.ID,
			StudentID: l.StudentID,
			Date:      l.Date,
		})
	}
	return len(created), nil
}

func (s *Service) cached(ctx context.Context, key string) ([]DailyLog, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var logs []DailyLog
	if err := json.Unmarshal(raw, &logs); err != nil {
		return nil, false
	}
	return logs, true
}

func (s *Service) store(ctx context.Context, key string, logs []DailyLog) {
	raw, err := json.Marshal(logs)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) invalidateFor(ctx context.Context, l DailyLog) {
	err := s.cache.Delete(ctx,
		cache.StudentLogsKey(l.StudentID),
		cache.LogsByDateKey(l.Date),
		cache.MatrixKey(l.Date),
	)
	if err != nil {
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
