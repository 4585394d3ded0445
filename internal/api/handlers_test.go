package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/kopio/internal/api/shared"
	"github.com/phrazzld/kopio/internal/domain"
	"github.com/phrazzld/kopio/internal/domain/stats"
	"github.com/phrazzld/kopio/internal/events"
	"github.com/phrazzld/kopio/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter mounts the routes over a real planner service with no
// persistence handlers registered.
func newTestRouter(t *testing.T) (http.Handler, service.PlannerService) {
	t.Helper()
	svc, err := service.NewPlannerService(domain.Snapshot{}, events.NewInMemoryEventEmitter(nil), nil)
	require.NoError(t, err)
	return newRouterFor(svc), svc
}

func newRouterFor(planner service.PlannerService) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, planner, nil, nil)
	return r
}

// do sends a request with an optional JSON body and returns the recorder.
func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[shared.ErrorResponse](t, w).Error
}

func TestSubjectEndpoints(t *testing.T) {
	h, svc := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/subjects", CreateSubjectRequest{Name: "Analyse", Type: "maths"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	subject := decode[domain.Subject](t, w)
	assert.Equal(t, "Analyse", subject.Name)
	assert.Equal(t, domain.SubjectTypeMaths, subject.Type)

	w = do(t, h, http.MethodPost, "/api/subjects/from-template", CreateSubjectFromTemplateRequest{Type: "info", Name: "Algorithmique"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fromTemplate := decode[domain.Subject](t, w)
	assert.Equal(t, "🔢", fromTemplate.Icon)

	w = do(t, h, http.MethodPost, "/api/subjects/"+subject.ID+"/chapters", CreateChapterRequest{Name: "Intégrales", Difficulty: "difficile"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	chapter := decode[domain.Chapter](t, w)
	assert.Equal(t, domain.DifficultyDifficile, chapter.Difficulty)

	w = do(t, h, http.MethodPost, "/api/subjects/"+subject.ID+"/chapters/"+chapter.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[domain.Chapter](t, w).Completed)

	w = do(t, h, http.MethodGet, "/api/snapshot", nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[domain.Snapshot](t, w)
	assert.Len(t, snap.Subjects, 2)

	w = do(t, h, http.MethodDelete, "/api/subjects/"+subject.ID+"/chapters/"+chapter.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodDelete, "/api/subjects/"+fromTemplate.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, svc.Snapshot(context.Background()).Subjects, 1)

	w = do(t, h, http.MethodDelete, "/api/subjects/"+fromTemplate.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Subject not found", errorMessage(t, w))
}

func TestSubjectEndpoints_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		name    string
		method  string
		path    string
		body    interface{}
		status  int
		message string
	}{
		{"malformed json", http.MethodPost, "/api/subjects", `{"name":`, http.StatusBadRequest, "Invalid request format"},
		{"missing name", http.MethodPost, "/api/subjects", CreateSubjectRequest{Type: "maths"}, http.StatusBadRequest, "Invalid name: required field"},
		{"blank name", http.MethodPost, "/api/subjects", CreateSubjectRequest{Name: "   ", Type: "maths"}, http.StatusBadRequest, "Name cannot be empty"},
		{"unknown type", http.MethodPost, "/api/subjects", CreateSubjectRequest{Name: "Histoire", Type: "histoire"}, http.StatusBadRequest, "Invalid type: invalid value"},
		{"unknown template", http.MethodPost, "/api/subjects/from-template", CreateSubjectFromTemplateRequest{Type: "info", Name: "Astrologie"}, http.StatusBadRequest, "Unknown template"},
		{"chapter on missing subject", http.MethodPost, "/api/subjects/nope/chapters", CreateChapterRequest{Name: "x"}, http.StatusNotFound, "Subject not found"},
		{"bad difficulty", http.MethodPost, "/api/subjects/nope/chapters", CreateChapterRequest{Name: "x", Difficulty: "extreme"}, http.StatusBadRequest, "Invalid difficulty: invalid value"},
		{"toggle missing chapter", http.MethodPost, "/api/subjects/nope/chapters/c/toggle", nil, http.StatusNotFound, "Subject not found"},
		{"stats of missing subject", http.MethodGet, "/api/subjects/nope/stats", nil, http.StatusNotFound, "Subject not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.message, errorMessage(t, w))
		})
	}
}

func TestListTemplates(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/api/templates?category=physique", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Template](t, w), 5)

	w = do(t, h, http.MethodGet, "/api/templates?category=autre", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/templates", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSlotEndpoints(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/subjects", CreateSubjectRequest{Name: "Chimie organique", Type: "chimie"})
	require.Equal(t, http.StatusCreated, w.Code)
	subject := decode[domain.Subject](t, w)

	w = do(t, h, http.MethodPost, "/api/slots", SlotRequest{
		SubjectID: subject.ID,
		Date:      "2024-03-06",
		StartTime: "14:00",
		Duration:  90,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	slot := decode[domain.RevisionSlot](t, w)
	assert.Equal(t, domain.SlotTypeRevision, slot.Type, "type defaults to revision")
	assert.Equal(t, domain.PriorityNormale, slot.Priority, "priority defaults to normale")
	assert.True(t, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC).Equal(slot.Date))

	w = do(t, h, http.MethodPut, "/api/slots/"+slot.ID, SlotRequest{
		SubjectID: subject.ID,
		Date:      "2024-03-06T00:00:00.000Z",
		StartTime: "16:30",
		Duration:  45,
		Type:      "examen",
		Priority:  "haute",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.RevisionSlot](t, w)
	assert.Equal(t, slot.ID, updated.ID)
	assert.Equal(t, "16:30", updated.StartTime)

	w = do(t, h, http.MethodPost, "/api/slots/"+slot.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[domain.RevisionSlot](t, w).Completed)

	w = do(t, h, http.MethodGet, "/api/subjects/"+subject.ID+"/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	subjectStats := decode[SubjectStatsResponse](t, w)
	assert.Equal(t, 100.0, subjectStats.Stats.Progress)
	assert.InDelta(t, 0.75, subjectStats.Subject.CompletedHours, 1e-9)

	w = do(t, h, http.MethodGet, "/api/days/2024-03-06/slots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.RevisionSlot](t, w), 1)

	w = do(t, h, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[stats.Summary](t, w).Completed)

	w = do(t, h, http.MethodDelete, "/api/slots/"+slot.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodPost, "/api/slots/"+slot.ID+"/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Revision slot not found", errorMessage(t, w))
}

func TestSlotEndpoints_EditKeepsCompletion(t *testing.T) {
	h, svc := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/subjects", CreateSubjectRequest{Name: "Thermodynamique", Type: "physique"})
	require.Equal(t, http.StatusCreated, w.Code)
	subject := decode[domain.Subject](t, w)

	req := SlotRequest{SubjectID: subject.ID, Date: "2024-03-06", StartTime: "10:00", Duration: 60}
	w = do(t, h, http.MethodPost, "/api/slots", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	slot := decode[domain.RevisionSlot](t, w)
	assert.False(t, slot.Completed)

	w = do(t, h, http.MethodPost, "/api/slots/"+slot.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req.Notes = "relire le cours"
	req.Duration = 90
	w = do(t, h, http.MethodPut, "/api/slots/"+slot.ID, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[domain.RevisionSlot](t, w).Completed, "editing a done slot keeps it done")

	got, err := svc.Subject(context.Background(), subject.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got.CompletedHours, 1e-9)

	w = do(t, h, http.MethodPut, "/api/slots/"+slot.ID, `{"subjectId":"`+subject.ID+`","date":"2024-03-06","startTime":"10:00","duration":60,"completed":false}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "completion is not part of the slot form")
	assert.Equal(t, "Invalid request format", errorMessage(t, w))
}

func TestSlotEndpoints_TimestampInPlannerZone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	svc, err := service.NewPlannerService(domain.Snapshot{
		Subjects: []domain.Subject{{ID: "s", Name: "Analyse", Chapters: []domain.Chapter{}}},
	}, events.NewInMemoryEventEmitter(nil), nil)
	require.NoError(t, err)
	r := chi.NewRouter()
	RegisterRoutes(r, svc, nil, paris)

	w := do(t, r, http.MethodPost, "/api/slots", SlotRequest{
		SubjectID: "s",
		Date:      "2024-03-03T23:00:00.000Z",
		StartTime: "08:00",
		Duration:  30,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), decode[domain.RevisionSlot](t, w).Date)

	w = do(t, r, http.MethodGet, "/api/days/2024-03-04/slots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.RevisionSlot](t, w), 1)
}

func TestGetSubjectStats_UsesSubjectLookup(t *testing.T) {
	var snapshotCalls int
	mock := &MockPlannerService{
		SnapshotFn: func(context.Context) domain.Snapshot {
			snapshotCalls++
			return domain.Snapshot{}
		},
		SubjectFn: func(_ context.Context, id string) (domain.Subject, error) {
			if id != "s" {
				return domain.Subject{}, domain.ErrSubjectNotFound
			}
			return domain.Subject{ID: "s", Name: "Analyse", CompletedHours: 2}, nil
		},
		SubjectStatsFn: func(context.Context, string) (stats.Summary, error) {
			return stats.Summary{Total: 4, Completed: 1, Progress: 25}, nil
		},
	}
	h := newRouterFor(mock)

	w := do(t, h, http.MethodGet, "/api/subjects/s/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[SubjectStatsResponse](t, w)
	assert.Equal(t, "Analyse", resp.Subject.Name)
	assert.Equal(t, 25.0, resp.Stats.Progress)
	assert.Zero(t, snapshotCalls, "stats do not copy the whole planner")

	w = do(t, h, http.MethodGet, "/api/subjects/other/stats", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Subject not found", errorMessage(t, w))
}

func TestSlotEndpoints_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/subjects", CreateSubjectRequest{Name: "Optique", Type: "physique"})
	require.Equal(t, http.StatusCreated, w.Code)
	subject := decode[domain.Subject](t, w)

	valid := func() SlotRequest {
		return SlotRequest{SubjectID: subject.ID, Date: "2024-03-06", StartTime: "09:00", Duration: 60}
	}

	tests := []struct {
		name    string
		mutate  func(*SlotRequest)
		message string
	}{
		{"duration not a multiple of 15", func(r *SlotRequest) { r.Duration = 50 }, "Invalid duration: must be a multiple of 15 minutes"},
		{"duration below 15", func(r *SlotRequest) { r.Duration = -15 }, "Invalid duration: too small"},
		{"bad start time", func(r *SlotRequest) { r.StartTime = "25:00" }, "Invalid startTime: must be HH:MM"},
		{"bad date", func(r *SlotRequest) { r.Date = "06/03/2024" }, "Invalid date: must be a date (YYYY-MM-DD)"},
		{"bad priority", func(r *SlotRequest) { r.Priority = "urgent" }, "Invalid priority: invalid value"},
		{"unknown subject", func(r *SlotRequest) { r.SubjectID = "nope" }, "Invalid subjectId: unknown subject"},
		{"unknown chapter", func(r *SlotRequest) { r.ChapterID = "nope" }, "Invalid chapterId: unknown chapter"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid()
			tc.mutate(&req)
			w := do(t, h, http.MethodPost, "/api/slots", req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.message, errorMessage(t, w))
		})
	}
}

func TestGetWeek(t *testing.T) {
	snap := domain.Snapshot{
		Subjects: []domain.Subject{{ID: "s", Name: "Analyse"}},
		Slots: []domain.RevisionSlot{
			{ID: "late", SubjectID: "s", Date: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), StartTime: "18:00", Duration: 30},
			{ID: "early", SubjectID: "s", Date: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), StartTime: "08:00", Duration: 30},
		},
	}
	mock := &MockPlannerService{SnapshotFn: func(context.Context) domain.Snapshot { return snap }}

	t.Run("explicit date", func(t *testing.T) {
		w := do(t, newRouterFor(mock), http.MethodGet, "/api/week?date=2024-03-06", nil)
		require.Equal(t, http.StatusOK, w.Code)

		week := decode[WeekResponse](t, w)
		assert.Equal(t, "2024-03-04", week.Start)
		assert.Equal(t, "2024-03-10", week.End)
		require.Len(t, week.Days, 7)
		require.Len(t, week.Days[6].Slots, 2)
		assert.Equal(t, "early", week.Days[6].Slots[0].ID)
	})

	t.Run("defaults to the current week", func(t *testing.T) {
		handler := NewStatsHandler(mock, func() time.Time {
			return time.Date(2024, time.March, 13, 15, 0, 0, 0, time.UTC)
		}, nil)
		w := httptest.NewRecorder()
		handler.GetWeek(w, httptest.NewRequest(http.MethodGet, "/api/week", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2024-03-11", decode[WeekResponse](t, w).Start)
	})

	t.Run("today is counted in the planner time zone", func(t *testing.T) {
		paris, err := time.LoadLocation("Europe/Paris")
		require.NoError(t, err)
		// Sunday 23:30 UTC is already Monday in Paris.
		handler := NewStatsHandler(mock, func() time.Time {
			return time.Date(2024, time.March, 10, 23, 30, 0, 0, time.UTC)
		}, paris)
		w := httptest.NewRecorder()
		handler.GetWeek(w, httptest.NewRequest(http.MethodGet, "/api/week", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2024-03-11", decode[WeekResponse](t, w).Start)
	})

	t.Run("bad date", func(t *testing.T) {
		w := do(t, newRouterFor(mock), http.MethodGet, "/api/week?date=tomorrow", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandlers_ServiceFailure(t *testing.T) {
	boom := errors.New("redis: connection refused at 10.0.0.3:6379")
	mock := &MockPlannerService{
		SnapshotFn: func(context.Context) domain.Snapshot {
			return domain.Snapshot{Subjects: []domain.Subject{{ID: "s"}}}
		},
		AddSubjectFn: func(context.Context, string, domain.SubjectType) (domain.Subject, error) {
			return domain.Subject{}, boom
		},
		SaveSlotFn: func(context.Context, domain.SlotInput, string) (domain.RevisionSlot, error) {
			return domain.RevisionSlot{}, boom
		},
		DeleteSlotFn: func(context.Context, string) error { return boom },
	}
	h := newRouterFor(mock)

	tests := []struct {
		name    string
		method  string
		path    string
		body    interface{}
		message string
	}{
		{"create subject", http.MethodPost, "/api/subjects", CreateSubjectRequest{Name: "x", Type: "autre"}, "Failed to create subject"},
		{"save slot", http.MethodPost, "/api/slots", SlotRequest{SubjectID: "s", Date: "2024-03-04", StartTime: "10:00", Duration: 15}, "Failed to save revision slot"},
		{"delete slot", http.MethodDelete, "/api/slots/x", nil, "Failed to delete revision slot"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, tc.message, errorMessage(t, w))
			assert.NotContains(t, w.Body.String(), "10.0.0.3")
		})
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)
	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
