// Package report builds the derived views: the monthly student-by-day
// attendance matrix and the per-student medal tally. Builders are pure;
// Service adds loading and caching around them.
package report

import (
	"sort"
	"time"

	"github.com/logesh2496/imayavarman-silambam/internal/logbook"
	"github.com/logesh2496/imayavarman-silambam/internal/student"
)

const dayFormat = "2006-01-02"

// Row is one student's line in the matrix.
type Row struct {
	StudentID   string `json:"studentId"`
	Name        string `json:"name"`
	Present     []bool `json:"present"`
	PresentDays int    `json:"presentDays"`
	TotalDays   int    `json:"totalDays"`
	Percentage  int    `json:"percentage"`
}

// ClassGroup groups rows under one class label.
type ClassGroup struct {
	ClassID string `json:"classId"`
	Rows    []Row  `json:"rows"`
}

// Matrix is the monthly attendance grid grouped by class.
type Matrix struct {
	Month   string       `json:"month"`
	Days    []string     `json:"days"`
	Classes []ClassGroup `json:"classes"`
}

// MonthRange returns the days of month's calendar month, from the 1st through
// the last day, clamped to now's date when the month is the current one, so
// the range never includes future days. A month after now yields no days.
func MonthRange(month, now time.Time) []time.Time {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	end := start.AddDate(0, 1, -1)

	today := logbook.StartOfDay(now)
	if end.After(today) {
		end = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, month.Location())
	}

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// BuildMatrix computes the per-class presence grid. A student counts as
// present on a day when any log exists for that day, whatever its attended
// flag says.
func BuildMatrix(students []student.Student, logs []logbook.DailyLog, days []time.Time) Matrix {
	attendance := make(map[string]map[string]bool)
	for _, l := range logs {
		set, ok := attendance[l.StudentID]
		if !ok {
			set = make(map[string]bool)
			attendance[l.StudentID] = set
		}
		set[l.Date.Format(dayFormat)] = true
	}

	byClass := make(map[string][]student.Student)
	for _, st := range students {
		byClass[st.ClassID] = append(byClass[st.ClassID], st)
	}
	classIDs := make([]string, 0, len(byClass))
	for id := range byClass {
		classIDs = append(classIDs, id)
	}
	sort.Strings(classIDs)

	m := Matrix{Days: make([]string, len(days))}
	if len(days) > 0 {
		m.Month = days[0].Format("2006-01")
	}
	for i, d := range days {
		m.Days[i] = d.Format(dayFormat)
	}

	for _, classID := range classIDs {
		group := ClassGroup{ClassID: classID}
		for _, st := range byClass[classID] {
			row := Row{
				StudentID: st.ID,
				Name:      st.Name,
				Present:   make([]bool, len(days)),
				TotalDays: len(days),
			}
			for i, d := range days {
				if attendance[st.ID][d.Format(dayFormat)] {
					row.Present[i] = true
					row.PresentDays++
				}
			}
			if row.TotalDays > 0 {
				row.Percentage = int(float64(row.PresentDays)/float64(row.TotalDays)*100 + 0.5)
			}
			group.Rows = append(group.Rows, row)
		}
		sort.Slice(group.Rows, func(i, j int) bool { return group.Rows[i].Name < group.Rows[j].Name })
		m.Classes = append(m.Classes, group)
	}
	return m
}
