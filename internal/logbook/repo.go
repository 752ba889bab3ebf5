package logbook

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/logesh2496/imayavarman-silambam/internal/apperr"
)

// Repository is the storage contract for daily logs.
type Repository interface {
	ListByStudent(ctx context.Context, studentID string) ([]DailyLog, error)
	ListByRange(ctx context.Context, start, end time.Time) ([]DailyLog, error)
	Create(ctx context.Context, l DailyLog) (DailyLog, error)
	Delete(ctx context.Context, id string) (DailyLog, error)
}

// PGRepository persists daily logs in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

// ListByStudent returns a student's logs, most recent first.
func (r *PGRepository) ListByStudent(ctx context.Context, studentID string) ([]DailyLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, date, attended, lesson_summary
		FROM daily_logs
		WHERE student_id = $1
		ORDER BY date DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLogs(rows)
}

// ListByRange returns all logs across students whose date falls within the
// inclusive window [StartOfDay(start), EndOfDay(end)].
func (r *PGRepository) ListByRange(ctx context.Context, start, end time.Time) ([]DailyLog, error) {
	from, to := DayWindow(start, end)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, date, attended, lesson_summary
		FROM daily_logs
		WHERE date >= $1 AND date <= $2
		ORDER BY date
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLogs(rows)
}

// Create writes a new log, defaulting date to now and attended to true.
func (r *PGRepository) Create(ctx context.Context, l DailyLog) (DailyLog, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Date.IsZero() {
		l.Date = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_logs (id, student_id, date, attended, lesson_summary)
		VALUES ($1,$2,$3,$4,$5)
	`, l.ID, l.StudentID, l.Date, l.Attended, l.LessonSummary)
	if err != nil {
		return DailyLog{}, err
	}
	return l, nil
}

// Delete removes a log and returns the removed record so callers can
// invalidate the queries it belonged to.
func (r *PGRepository) Delete(ctx context.Context, id string) (DailyLog, error) {
	row := r.db.QueryRowContext(ctx, `
		DELETE FROM daily_logs WHERE id = $1
		RETURNING id, student_id, date, attended, lesson_summary
	`, id)
	var l DailyLog
	if err := row.Scan(&l.ID, &l.StudentID, &l.Date, &l.Attended, &l.LessonSummary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DailyLog{}, apperr.ErrNotFound
		}
		return DailyLog{}, err
	}
	return l, nil
}

func scanLogs(rows *sql.Rows) ([]DailyLog, error) {
	var res []DailyLog
	for rows.Next() {
		var l DailyLog
		if err := rows.Scan(&l.ID, &l.StudentID, &l.Date, &l.Attended, &l.LessonSummary); err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}
