package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/logesh2496/imayavarman-silambam/internal/student"
)

// SeedDemoData inserts a handful of demo students when the roster is empty,
// so a fresh environment has something to show.
func SeedDemoData(ctx context.Context, students *student.Service, log *zap.Logger) error {
	existing, err := students.List(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	demo := []student.CreateInput{
		{Name: "Alice Johnson", CurrentLesson: "Chapter 3: Loops", Status: student.StatusActive, FeesPaid: true},
		{Name: "Bob Smith", CurrentLesson: "Chapter 1: Basics", Status: student.StatusProbation},
		{Name: "Charlie Brown", CurrentLesson: "Chapter 5: Arrays", Status: student.StatusActive, FeesPaid: true},
	}
	for _, in := range demo {
		if _, err := students.Create(ctx, in); err != nil {
			return err
		}
	}
	log.Info("seeded demo students", zap.Int("count", len(demo)))
	return nil
}
