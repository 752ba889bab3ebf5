// Package student owns the root entity of the academy: student records and
// their lifecycle. Daily logs and achievements reference students by id but
// live in their own packages.
package student

import (
	"github.com/logesh2496/imayavarman-silambam/internal/apperr"
)

// Student statuses.
const (
	StatusActive    = "Active"
	StatusProbation = "Probation"
	StatusGraduated = "Graduated"
	StatusPaused    = "Paused"
)

// DefaultClassID is assigned when a student is created without a class.
const DefaultClassID = "Class 1"

// Student is a registered student.
type Student struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CurrentLesson string `json:"currentLesson"`
	Status        string `json:"status"`
	FeesPaid      bool   `json:"feesPaid"`
	ClassID       string `json:"classId"`
}

// CreateInput carries a new student record.
type CreateInput struct {
	Name          string `json:"name"`
	CurrentLesson string `json:"currentLesson"`
	Status        string `json:"status"`
	FeesPaid      bool   `json:"feesPaid"`
	ClassID       string `json:"classId"`
}

// UpdateInput carries a partial update; nil fields stay untouched.
type UpdateInput struct {
	Name          *string `json:"name"`
	CurrentLesson *string `json:"currentLesson"`
	Status        *string `json:"status"`
	FeesPaid      *bool   `json:"feesPaid"`
	ClassID       *string `json:"classId"`
}

func validStatus(s string) bool {
	switch s {
	case StatusActive, StatusProbation, StatusGraduated, StatusPaused:
		return true
	}
	return false
}

// Validate reports the first invalid field.
func (in CreateInput) Validate() error {
	if in.Name == "" {
		return apperr.NewValidation("name", "name is required")
	}
	if in.CurrentLesson == "" {
		return apperr.NewValidation("currentLesson", "current lesson is required")
	}
	if !validStatus(in.Status) {
		return apperr.NewValidation("status", "status must be one of Active, Probation, Graduated, Paused")
	}
	return nil
}

// Validate reports the first invalid provided field.
func (in UpdateInput) Validate() error {
	if in.Name != nil && *in.Name == "" {
		return apperr.NewValidation("name", "name must not be empty")
	}
	if in.CurrentLesson != nil && *in.CurrentLesson == "" {
		return apperr.NewValidation("currentLesson", "current lesson must not be empty")
	}
	if in.Status != nil && !validStatus(*in.Status) {
		return apperr.NewValidation("status", "status must be one of Active, Probation, Graduated, Paused")
	}
	return nil
}
