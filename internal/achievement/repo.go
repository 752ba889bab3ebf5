package achievement

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Repository is the storage contract for achievements.
type Repository interface {
	ListByStudent(ctx context.Context, studentID string) ([]Achievement, error)
	Create(ctx context.Context, a Achievement) (Achievement, error)
}

// PGRepository persists achievements in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

// ListByStudent returns a student's achievements.
func (r *PGRepository) ListByStudent(ctx context.Context, studentID string) ([]Achievement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, level, medal, description
		FROM achievements
		WHERE student_id = $1
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Achievement
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Level, &a.Medal, &a.Description); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// Create writes a new achievement.
func (r *PGRepository) Create(ctx context.Context, a Achievement) (Achievement, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO achievements (id, student_id, level, medal, description)
		VALUES ($1,$2,$3,$4,$5)
	`, a.ID, a.StudentID, a.Level, a.Medal, a.Description)
	if err != nil {
		return Achievement{}, err
	}
	return a, nil
}
