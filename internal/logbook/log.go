// Package logbook owns daily attendance logs: per-student history, calendar
// day and range queries, and the optimistic bulk mark-all-present flow.
package logbook

import (
	"time"

	"github.com/logesh2496/imayavarman-silambam/internal/apperr"
)

// DailyLog is one day's attendance/notes entry for one student. The data
// model does not prevent multiple logs per student per day; day-granular
// views dedupe by date.
type DailyLog struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	Date          time.Time `json:"date"`
	Attended      bool      `json:"attended"`
	LessonSummary string    `json:"lessonSummary"`
}

// CreateInput carries a new log entry. Date defaults to now and Attended to
// true when omitted.
type CreateInput struct {
	StudentID     string     `json:"studentId"`
	Date          *time.Time `json:"date"`
	Attended      *bool      `json:"attended"`
	LessonSummary string     `json:"lessonSummary"`
}

// Validate reports the first invalid field.
func (in CreateInput) Validate() error {
	if in.StudentID == "" {
		return apperr.NewValidation("studentId", "student id is required")
	}
	return nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// DayWindow expands [start, end] to the inclusive window
// [StartOfDay(start), EndOfDay(end)].
func DayWindow(start, end time.Time) (time.Time, time.Time) {
	return StartOfDay(start), EndOfDay(end)
}
