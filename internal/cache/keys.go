package cache

import (
	"time"
)

// Key builders. One logical query shape per key so mutations can invalidate
// exactly the reads they affect.

// StudentsKey covers the full student list query. Search terms filter the
// cached list in memory, so they share this key.
func StudentsKey() string {
	return "students:all"
}

// StudentLogsKey covers a single student's log history.
func StudentLogsKey(studentID string) string {
	return "logs:student:" + studentID
}

// LogsByDateKey covers the all-students log query for one calendar day.
func LogsByDateKey(date time.Time) string {
	return "logs:date:" + date.Format("2006-01-02")
}

// AchievementsKey covers a single student's achievements.
func AchievementsKey(studentID string) string {
	return "achievements:student:" + studentID
}

// MatrixKey covers the precomputed monthly attendance matrix.
func MatrixKey(month time.Time) string {
	return "report:matrix:" + month.Format("2006-01")
}
