package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/logesh2496/imayavarman-silambam/internal/achievement"
	"github.com/logesh2496/imayavarman-silambam/internal/apperr"
	"github.com/logesh2496/imayavarman-silambam/internal/cache"
	"github.com/logesh2496/imayavarman-silambam/internal/logbook"
	"github.com/logesh2496/imayavarman-silambam/internal/report"
	"github.com/logesh2496/imayavarman-silambam/internal/student"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStudentRepo struct {
	mu       sync.Mutex
	students map[string]student.Student
}

func (f *fakeStudentRepo) List(_ context.Context) ([]student.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []student.Student
	for _, st := range f.students {
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (f *fakeStudentRepo) Get(_ context.Context, id string) (*student.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (f *fakeStudentRepo) Create(_ context.Context, st student.Student) (student.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.ClassID == "" {
		st.ClassID = student.DefaultClassID
	}
	f.students[st.ID] = st
	return st, nil
}

func (f *fakeStudentRepo) Update(_ context.Context, id string, in student.UpdateInput) (student.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.students[id]
	if !ok {
		return student.Student{}, apperr.ErrNotFound
	}
	if in.Name != nil {
		st.Name = *in.Name
	}
	if in.CurrentLesson != nil {
		st.CurrentLesson = *in.CurrentLesson
	}
	if in.Status != nil {
		st.Status = *in.Status
	}
	if in.FeesPaid != nil {
		st.FeesPaid = *in.FeesPaid
	}
	if in.ClassID != nil {
		st.ClassID = *in.ClassID
	}
	f.students[id] = st
	return st, nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.students, id)
	return nil
}

type fakeLogRepo struct {
	mu   sync.Mutex
	logs map[string]logbook.DailyLog
}

func (f *fakeLogRepo) ListByStudent(_ context.Context, studentID string) ([]logbook.DailyLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []logbook.DailyLog
	for _, l := range f.logs {
		if l.StudentID == studentID {
			res = append(res, l)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.After(res[j].Date) })
	return res, nil
}

func (f *fakeLogRepo) ListByRange(_ context.Context, start, end time.Time) ([]logbook.DailyLog, error) {
	from, to := logbook.DayWindow(start, end)
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []logbook.DailyLog
	for _, l := range f.logs {
		if !l.Date.Before(from) && !l.Date.After(to) {
			res = append(res, l)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res, nil
}

func (f *fakeLogRepo) Create(_ context.Context, l logbook.DailyLog) (logbook.DailyLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Date.IsZero() {
		l.Date = time.Now().UTC()
	}
	f.logs[l.ID] = l
	return l, nil
}

func (f *fakeLogRepo) Delete(_ context.Context, id string) (logbook.DailyLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[id]
	if !ok {
		return logbook.DailyLog{}, apperr.ErrNotFound
	}
	delete(f.logs, id)
	return l, nil
}

type fakeAchievementRepo struct {
	mu           sync.Mutex
	achievements []achievement.Achievement
}

func (f *fakeAchievementRepo) ListByStudent(_ context.Context, studentID string) ([]achievement.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []achievement.Achievement
	for _, a := range f.achievements {
		if a.StudentID == studentID {
			res = append(res, a)
		}
	}
	return res, nil
}

func (f *fakeAchievementRepo) Create(_ context.Context, a achievement.Achievement) (achievement.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	f.achievements = append(f.achievements, a)
	return a, nil
}

func newTestRouter() (*gin.Engine, *fakeStudentRepo, *fakeLogRepo) {
	stRepo := &fakeStudentRepo{students: make(map[string]student.Student)}
	logRepo := &fakeLogRepo{logs: make(map[string]logbook.DailyLog)}
	achRepo := &fakeAchievementRepo{}

	c := cache.NewMemory()
	log := zap.NewNop()
	ttl := time.Minute

	h := NewHandlers(
		student.NewService(stRepo, c, nil, log, ttl),
		logbook.NewService(logRepo, stRepo, c, nil, log, ttl),
		achievement.NewService(achRepo, c, nil, log, ttl),
		report.NewService(stRepo, logRepo, c, log, ttl),
		log,
	)

	r := gin.New()
	h.Register(r)
	return r, stRepo, logRepo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func createTestStudent(t *testing.T, r *gin.Engine, name string) student.Student {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/students", gin.H{
		"name":          name,
		"currentLesson": "Chapter 1: Basics",
		"status":        student.StatusActive,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create student: status %d body %s", w.Code, w.Body.String())
	}
	return decode[student.Student](t, w)
}

func TestCreateStudent(t *testing.T) {
	r, _, _ := newTestRouter()

	st := createTestStudent(t, r, "Alice Johnson")
	if st.ID == "" {
		t.Error("expected a generated id")
	}
	if st.ClassID != student.DefaultClassID {
		t.Errorf("expected default class, got %q", st.ClassID)
	}
}

func TestCreateStudent_ValidationErrorNamesField(t *testing.T) {
	r, _, _ := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/students", gin.H{
		"currentLesson": "Chapter 1",
		"status":        student.StatusActive,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	body := decode[map[string]string](t, w)
	if body["field"] != "name" {
		t.Errorf("expected field name in %v", body)
	}
}

func TestGetStudent_UnknownIs404(t *testing.T) {
	r, _, _ := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/api/students/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	body := decode[map[string]string](t, w)
	if body["message"] != "Student not found" {
		t.Errorf("unexpected message: %v", body)
	}
}

func TestListStudents_Search(t *testing.T) {
	r, _, _ := newTestRouter()
	createTestStudent(t, r, "Alice Johnson")
	createTestStudent(t, r, "Bob Smith")

	w := doJSON(t, r, http.MethodGet, "/api/students?search=ali", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	got := decode[[]student.Student](t, w)
	if len(got) != 1 || got[0].Name != "Alice Johnson" {
		t.Errorf("unexpected result: %+v", got)
	}

	w = doJSON(t, r, http.MethodGet, "/api/students", nil)
	if got := decode[[]student.Student](t, w); len(got) != 2 {
		t.Errorf("expected 2 students, got %d", len(got))
	}
}

func TestUpdateStudent(t *testing.T) {
	r, _, _ := newTestRouter()
	st := createTestStudent(t, r, "Alice")

	w := doJSON(t, r, http.MethodPatch, "/api/students/"+st.ID, gin.H{
		"currentLesson": "Chapter 3: Loops",
		"feesPaid":      true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	got := decode[student.Student](t, w)
	if got.CurrentLesson != "Chapter 3: Loops" || !got.FeesPaid {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Name != "Alice" {
		t.Errorf("name should be untouched: %+v", got)
	}
}

func TestDeleteStudent(t *testing.T) {
	r, _, _ := newTestRouter()
	st := createTestStudent(t, r, "Alice")

	w := doJSON(t, r, http.MethodDelete, "/api/students/"+st.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/students/"+st.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted student should be 404, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/api/students/"+st.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete should be 404, got %d", w.Code)
	}
}

func TestStudentLogs(t *testing.T) {
	r, _, _ := newTestRouter()
	st := createTestStudent(t, r, "Alice")

	w := doJSON(t, r, http.MethodGet, "/api/students/missing/logs", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("logs for unknown student should be 404, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/students/"+st.ID+"/logs", gin.H{
		"date":          "2024-06-05T00:00:00Z",
		"lessonSummary": "footwork drills",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create log: status %d body %s", w.Code, w.Body.String())
	}
	created := decode[logbook.DailyLog](t, w)
	if !created.Attended {
		t.Error("attended should default to true")
	}

	w = doJSON(t, r, http.MethodGet, "/api/students/"+st.ID+"/logs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list logs: status %d", w.Code)
	}
	logs := decode[[]logbook.DailyLog](t, w)
	if len(logs) != 1 || logs[0].LessonSummary != "footwork drills" {
		t.Errorf("unexpected logs: %+v", logs)
	}
}

func TestListLogsByDate(t *testing.T) {
	r, _, _ := newTestRouter()
	st := createTestStudent(t, r, "Alice")
	doJSON(t, r, http.MethodPost, "/api/students/"+st.ID+"/logs", gin.H{
		"date": "2024-06-05T10:00:00Z",
	})

	w := doJSON(t, r, http.MethodGet, "/api/logs?date=2024-06-05", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if logs := decode[[]logbook.DailyLog](t, w); len(logs) != 1 {
		t.Errorf("expected 1 log, got %d", len(logs))
	}

	w = doJSON(t, r, http.MethodGet, "/api/logs?date=2024-06-06", nil)
	if logs := decode[[]logbook.DailyLog](t, w); len(logs) != 0 {
		t.Errorf("expected no logs on another day, got %d", len(logs))
	}
}

func TestListLogs_BadQuery(t *testing.T) {
	r, _, _ := newTestRouter()

	for _, path := range []string{
		"/api/logs",
		"/api/logs?date=notadate",
		"/api/logs?start=2024-06-01",
		"/api/logs?start=bad&end=2024-06-10",
	} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestDeleteLog(t *testing.T) {
	r, _, _ := newTestRouter()
	st := createTestStudent(t, r, "Alice")
	w := doJSON(t, r, http.MethodPost, "/api/students/"+st.ID+"/logs", gin.H{})
	created := decode[logbook.DailyLog](t, w)

	w = doJSON(t, r, http.MethodDelete, "/api/logs/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/api/logs/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete should be 404, got %d", w.Code)
	}
}

func TestAchievementsAndMedals(t *testing.T) {
	r, _, _ := newTestRouter()
	st := createTestStudent(t, r, "Alice")

	w := doJSON(t, r, http.MethodPost, "/api/students/"+st.ID+"/achievements", gin.H{
		"level": achievement.LevelState,
		"medal": "Platinum",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad medal should be 400, got %d", w.Code)
	}
	if body := decode[map[string]string](t, w); body["field"] != "medal" {
		t.Errorf("expected field medal in %v", body)
	}

	for _, medal := range []string{achievement.MedalGold, achievement.MedalGold, achievement.MedalBronze} {
		w = doJSON(t, r, http.MethodPost, "/api/students/"+st.ID+"/achievements", gin.H{
			"level": achievement.LevelState,
			"medal": medal,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create achievement: status %d body %s", w.Code, w.Body.String())
		}
	}

	w = doJSON(t, r, http.MethodGet, "/api/students/"+st.ID+"/achievements", nil)
	if got := decode[[]achievement.Achievement](t, w); len(got) != 3 {
		t.Errorf("expected 3 achievements, got %d", len(got))
	}

	w = doJSON(t, r, http.MethodGet, "/api/students/"+st.ID+"/medals", nil)
	tally := decode[report.MedalTally](t, w)
	if tally.Gold != 2 || tally.Silver != 0 || tally.Bronze != 1 {
		t.Errorf("unexpected tally: %+v", tally)
	}
}

func TestMarkAllPresent(t *testing.T) {
	r, _, logRepo := newTestRouter()
	createTestStudent(t, r, "Alice")
	createTestStudent(t, r, "Bob")

	w := doJSON(t, r, http.MethodPost, "/api/attendance/mark-all", gin.H{
		"date": "2024-06-05T00:00:00Z",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if body := decode[map[string]int](t, w); body["created"] != 2 {
		t.Errorf("expected 2 creates, got %v", body)
	}

	// idempotent on repeat
	w = doJSON(t, r, http.MethodPost, "/api/attendance/mark-all", gin.H{
		"date": "2024-06-05T00:00:00Z",
	})
	if body := decode[map[string]int](t, w); body["created"] != 0 {
		t.Errorf("repeat should create nothing, got %v", body)
	}
	if len(logRepo.logs) != 2 {
		t.Errorf("expected 2 logs in storage, got %d", len(logRepo.logs))
	}
}

func TestAttendanceMatrix(t *testing.T) {
	r, _, _ := newTestRouter()
	st := createTestStudent(t, r, "Alice")
	doJSON(t, r, http.MethodPost, "/api/students/"+st.ID+"/logs", gin.H{
		"date": "2024-06-05T00:00:00Z",
	})

	w := doJSON(t, r, http.MethodGet, "/api/attendance/matrix?month=2024-06", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	m := decode[report.Matrix](t, w)
	if m.Month != "2024-06" {
		t.Errorf("unexpected month: %q", m.Month)
	}
	if len(m.Classes) != 1 || m.Classes[0].Rows[0].PresentDays != 1 {
		t.Errorf("unexpected matrix: %+v", m.Classes)
	}

	w = doJSON(t, r, http.MethodGet, "/api/attendance/matrix?month=June", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid month should be 400, got %d", w.Code)
	}
}

func TestExportAttendanceMatrix(t *testing.T) {
	r, _, _ := newTestRouter()
	createTestStudent(t, r, "Alice")

	w := doJSON(t, r, http.MethodGet, "/api/attendance/matrix/export?month=2024-06", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %q", ct)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("expected a content disposition header")
	}
	if w.Body.Len() == 0 {
		t.Error("expected a non-empty workbook")
	}
}
