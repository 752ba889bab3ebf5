package achievement

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/logesh2496/imayavarman-silambam/internal/apperr"
	"github.com/logesh2496/imayavarman-silambam/internal/cache"
)

type mockRepo struct {
	mu           sync.Mutex
	achievements []Achievement
}

func (m *mockRepo) ListByStudent(_ context.Context, studentID string) ([]Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []Achievement
	for _, a := range m.achievements {
		if a.StudentID == studentID {
			res = append(res, a)
		}
	}
	return res, nil
}

func (m *mockRepo) Create(_ context.Context, a Achievement) (Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	m.achievements = append(m.achievements, a)
	return a, nil
}

func newTestService() *Service {
	return NewService(&mockRepo{}, cache.NewMemory(), nil, zap.NewNop(), time.Minute)
}

func TestCreateInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		in        CreateInput
		wantField string
	}{
		{"valid", CreateInput{StudentID: "s1", Level: LevelState, Medal: MedalGold}, ""},
		{"missing student", CreateInput{Level: LevelState, Medal: MedalGold}, "studentId"},
		{"bad level", CreateInput{StudentID: "s1", Level: "Galactic", Medal: MedalGold}, "level"},
		{"empty level", CreateInput{StudentID: "s1", Medal: MedalGold}, "level"},
		{"bad medal", CreateInput{StudentID: "s1", Level: LevelDistrict, Medal: "Platinum"}, "medal"},
		{"empty medal", CreateInput{StudentID: "s1", Level: LevelDistrict}, "medal"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid input, got %v", err)
				}
				return
			}
			ve, ok := apperr.AsValidation(err)
			if !ok {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if ve.Field != tc.wantField {
				t.Errorf("expected field %q, got %q", tc.wantField, ve.Field)
			}
		})
	}
}

func TestCreate_ListRoundtrip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		StudentID:   "s1",
		Level:       LevelNational,
		Medal:       MedalSilver,
		Description: "national doubles final",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated id")
	}

	got, err := svc.ListByStudent(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Medal != MedalSilver {
		t.Errorf("unexpected achievements: %+v", got)
	}
}

func TestCreate_InvalidatesStudentCache(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	in := CreateInput{StudentID: "s1", Level: LevelDistrict, Medal: MedalBronze}
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got, _ := svc.ListByStudent(ctx, "s1"); len(got) != 1 {
		t.Fatalf("expected 1 achievement, got %d", len(got))
	}

	// a second create must not be hidden by the cached first read
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got, _ := svc.ListByStudent(ctx, "s1"); len(got) != 2 {
		t.Errorf("expected 2 achievements after second create, got %d", len(got))
	}
}
