package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/logesh2496/imayavarman-silambam/internal/apperr"
)

// Repository is the storage contract for students.
type Repository interface {
	List(ctx context.Context) ([]Student, error)
	Get(ctx context.Context, id string) (*Student, error)
	Create(ctx context.Context, s Student) (Student, error)
	Update(ctx context.Context, id string, in UpdateInput) (Student, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository persists students in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

// List returns all students ordered by name.
func (r *PGRepository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, current_lesson, status, fees_paid, class_id
		FROM students
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name, &s.CurrentLesson, &s.Status, &s.FeesPaid, &s.ClassID); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// Get returns a single student, or nil when absent.
func (r *PGRepository) Get(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, current_lesson, status, fees_paid, class_id
		FROM students WHERE id = $1
	`, id)
	var s Student
	if err := row.Scan(&s.ID, &s.Name, &s.CurrentLesson, &s.Status, &s.FeesPaid, &s.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create writes a new student.
func (r *PGRepository) Create(ctx context.Context, s Student) (Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.ClassID == "" {
		s.ClassID = DefaultClassID
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, name, current_lesson, status, fees_paid, class_id)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, s.ID, s.Name, s.CurrentLesson, s.Status, s.FeesPaid, s.ClassID)
	if err != nil {
		return Student{}, err
	}
	return s, nil
}

// Update applies the provided fields and returns the updated record.
func (r *PGRepository) Update(ctx context.Context, id string, in UpdateInput) (Student, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.CurrentLesson != nil {
		add("current_lesson", *in.CurrentLesson)
	}
	if in.Status != nil {
		add("status", *in.Status)
	}
	if in.FeesPaid != nil {
		add("fees_paid", *in.FeesPaid)
	}
	if in.ClassID != nil {
		add("class_id", *in.ClassID)
	}

	if len(sets) == 0 {
		// nothing to change; behave like a read
		s, err := r.Get(ctx, id)
		if err != nil {
			return Student{}, err
		}
		if s == nil {
			return Student{}, apperr.ErrNotFound
		}
		return *s, nil
	}

	args = append(args, id)
	query := "UPDATE students SET " + strings.Join(sets, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING id, name, current_lesson, status, fees_paid, class_id", len(args))

	row := r.db.QueryRowContext(ctx, query, args...)
	var s Student
	if err := row.Scan(&s.ID, &s.Name, &s.CurrentLesson, &s.Status, &s.FeesPaid, &s.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, apperr.ErrNotFound
		}
		return Student{}, err
	}
	return s, nil
}

// Delete removes a student. Dependent logs and achievements are kept.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
