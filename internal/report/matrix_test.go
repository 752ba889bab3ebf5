package report

import (
	"testing"
	"time"

	"github.com/logesh2496/imayavarman-silambam/internal/logbook"
	"github.com/logesh2496/imayavarman-silambam/internal/student"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthRange_PastMonthIsFull(t *testing.T) {
	now := day(2024, time.July, 15)
	days := MonthRange(day(2024, time.June, 1), now)

	if len(days) != 30 {
		t.Fatalf("expected 30 days for June, got %d", len(days))
	}
	if !days[0].Equal(day(2024, time.June, 1)) {
		t.Errorf("range should start on the 1st, got %v", days[0])
	}
	if !days[29].Equal(day(2024, time.June, 30)) {
		t.Errorf("range should end on the 30th, got %v", days[29])
	}
}

func TestMonthRange_CurrentMonthEndsToday(t *testing.T) {
	now := time.Date(2024, time.June, 10, 14, 30, 0, 0, time.UTC)
	days := MonthRange(day(2024, time.June, 1), now)

	if len(days) != 10 {
		t.Fatalf("expected 10 days through today, got %d", len(days))
	}
	if !days[len(days)-1].Equal(day(2024, time.June, 10)) {
		t.Errorf("range should end today, got %v", days[len(days)-1])
	}
}

func TestMonthRange_FutureMonthIsEmpty(t *testing.T) {
	now := day(2024, time.June, 10)
	if days := MonthRange(day(2024, time.July, 1), now); len(days) != 0 {
		t.Errorf("future month should yield no days, got %d", len(days))
	}
}

func TestBuildMatrix_PresenceIgnoresAttendedFlag(t *testing.T) {
	students := []student.Student{
		{ID: "s1", Name: "Alice", ClassID: "Class 1"},
	}
	logs := []logbook.DailyLog{
		{ID: "l1", StudentID: "s1", Date: day(2024, time.June, 3), Attended: false},
		{ID: "l2", StudentID: "s1", Date: day(2024, time.June, 5), Attended: true},
	}
	days := MonthRange(day(2024, time.June, 1), day(2024, time.July, 15))

	m := BuildMatrix(students, logs, days)
	if len(m.Classes) != 1 || len(m.Classes[0].Rows) != 1 {
		t.Fatalf("expected one class with one row, got %+v", m.Classes)
	}
	row := m.Classes[0].Rows[0]
	if row.PresentDays != 2 {
		t.Errorf("a log with attended=false still counts as presence; got presentDays=%d", row.PresentDays)
	}
	if !row.Present[2] || !row.Present[4] {
		t.Errorf("days 3 and 5 should be marked present: %v", row.Present)
	}
}

func TestBuildMatrix_DuplicateLogsCountOnce(t *testing.T) {
	students := []student.Student{{ID: "s1", Name: "Alice", ClassID: "Class 1"}}
	logs := []logbook.DailyLog{
		{ID: "l1", StudentID: "s1", Date: time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)},
		{ID: "l2", StudentID: "s1", Date: time.Date(2024, time.June, 3, 17, 0, 0, 0, time.UTC)},
	}
	days := MonthRange(day(2024, time.June, 1), day(2024, time.July, 15))

	m := BuildMatrix(students, logs, days)
	if got := m.Classes[0].Rows[0].PresentDays; got != 1 {
		t.Errorf("two logs on one day should count one present day, got %d", got)
	}
}

func TestBuildMatrix_NoLogsGivesZeroPercent(t *testing.T) {
	students := []student.Student{{ID: "s1", Name: "Alice", ClassID: "Class 1"}}
	days := MonthRange(day(2024, time.June, 1), day(2024, time.July, 15))

	m := BuildMatrix(students, nil, days)
	row := m.Classes[0].Rows[0]
	if row.PresentDays != 0 || row.Percentage != 0 {
		t.Errorf("expected 0 present days and 0%%, got %d and %d%%", row.PresentDays, row.Percentage)
	}
	if row.TotalDays != len(days) {
		t.Errorf("totalDays should be %d, got %d", len(days), row.TotalDays)
	}
}

func TestBuildMatrix_PercentageBounds(t *testing.T) {
	days := MonthRange(day(2024, time.June, 1), day(2024, time.July, 15))
	students := []student.Student{{ID: "s1", Name: "Alice", ClassID: "Class 1"}}
	var logs []logbook.DailyLog
	for _, d := range days {
		logs = append(logs, logbook.DailyLog{StudentID: "s1", Date: d})
	}

	m := BuildMatrix(students, logs, days)
	if got := m.Classes[0].Rows[0].Percentage; got != 100 {
		t.Errorf("full attendance should be 100%%, got %d", got)
	}

	// no days at all must not divide by zero
	empty := BuildMatrix(students, nil, nil)
	if got := empty.Classes[0].Rows[0].Percentage; got != 0 {
		t.Errorf("zero-length day range should give 0%%, got %d", got)
	}
}

func TestBuildMatrix_GroupsSortedByClassThenName(t *testing.T) {
	students := []student.Student{
		{ID: "s1", Name: "Zoe", ClassID: "Class 2"},
		{ID: "s2", Name: "Alice", ClassID: "Class 1"},
		{ID: "s3", Name: "Bob", ClassID: "Class 2"},
	}
	days := MonthRange(day(2024, time.June, 1), day(2024, time.July, 15))

	m := BuildMatrix(students, nil, days)
	if len(m.Classes) != 2 {
		t.Fatalf("expected 2 class groups, got %d", len(m.Classes))
	}
	if m.Classes[0].ClassID != "Class 1" || m.Classes[1].ClassID != "Class 2" {
		t.Errorf("class groups should be sorted: %+v", m.Classes)
	}
	rows := m.Classes[1].Rows
	if rows[0].Name != "Bob" || rows[1].Name != "Zoe" {
		t.Errorf("rows should be sorted by name: %+v", rows)
	}
}

func TestBuildMatrix_EmptyRoster(t *testing.T) {
	days := MonthRange(day(2024, time.June, 1), day(2024, time.July, 15))
	m := BuildMatrix(nil, nil, days)
	if len(m.Classes) != 0 {
		t.Errorf("empty roster should give no class groups, got %+v", m.Classes)
	}
}
