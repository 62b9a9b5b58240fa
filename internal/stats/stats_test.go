package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lecternhq/lectern/internal/docstore"
	"github.com/lecternhq/lectern/internal/generate"
)

// statsServer fakes the document store's ContentStats collection.
type statsServer struct {
	mu      sync.Mutex
	server  *httptest.Server
	docs    []map[string]any
	upserts []string
}

func newStatsServer(t *testing.T) *statsServer {
	t.Helper()
	s := &statsServer{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req docstore.GQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		resp := docstore.GQLResponse{Data: map[string]any{}}
		if strings.Contains(req.Query, "upsert_ContentStats") {
			s.upserts = append(s.upserts, req.Query)
			resp.Data["upsert_ContentStats"] = []any{map[string]any{"_docID": "stats-1"}}
		} else {
			list := make([]any, 0, len(s.docs))
			for _, d := range s.docs {
				list = append(list, d)
			}
			resp.Data["ContentStats"] = list
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *statsServer) upsertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.upserts)
}

func (s *statsServer) lastUpsert() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.upserts) == 0 {
		return ""
	}
	return s.upserts[len(s.upserts)-1]
}

func TestOutbox_Record(t *testing.T) {
	srv := newStatsServer(t)
	outbox := NewOutbox(docstore.NewClient(srv.server.URL), nil)
	outbox.now = func() time.Time {
		return time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	outbox.Start(ctx)

	outbox.Record("teacher-1", generate.TypeLessonPlan)
	outbox.Close()

	if srv.upsertCount() != 1 {
		t.Fatalf("upserts = %d, want 1", srv.upsertCount())
	}
	q := srv.lastUpsert()
	if !strings.Contains(q, "lesson_plans: 1") {
		t.Errorf("upsert did not increment lesson_plans: %s", q)
	}
	if !strings.Contains(q, `period: "2026-08"`) {
		t.Errorf("upsert missing monthly period: %s", q)
	}
}

func TestOutbox_IncrementsExistingCount(t *testing.T) {
	srv := newStatsServer(t)
	srv.docs = []map[string]any{{
		"_docID":       "stats-1",
		"period":       "2026-08",
		"lesson_plans": float64(4),
	}}
	outbox := NewOutbox(docstore.NewClient(srv.server.URL), nil)
	outbox.now = func() time.Time {
		return time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	}

	outbox.Start(context.Background())
	outbox.Record("teacher-1", generate.TypeLessonPlan)
	outbox.Close()

	if !strings.Contains(srv.lastUpsert(), "lesson_plans: 5") {
		t.Errorf("expected count 5, got: %s", srv.lastUpsert())
	}
}

func TestOutbox_DiscardNeverGoesNegative(t *testing.T) {
	srv := newStatsServer(t)
	outbox := NewOutbox(docstore.NewClient(srv.server.URL), nil)

	outbox.Start(context.Background())
	outbox.Discard("teacher-1", generate.TypeNotes)
	outbox.Close()

	if !strings.Contains(srv.lastUpsert(), "notes: 0") {
		t.Errorf("decrement from zero should clamp at 0: %s", srv.lastUpsert())
	}
}

func TestOutbox_StoreFailureIsAbsorbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	outbox := NewOutbox(docstore.NewClient(srv.URL), nil)
	outbox.Start(context.Background())
	outbox.Record("teacher-1", generate.TypeQuestionSet)
	outbox.Close()
}

func TestGet(t *testing.T) {
	srv := newStatsServer(t)
	srv.docs = []map[string]any{
		{"period": "2026-07", "lesson_plans": float64(2), "notes": float64(1)},
		{"period": "2026-08", "lesson_plans": float64(3), "question_sets": float64(4)},
	}

	summary, err := Get(context.Background(), docstore.NewClient(srv.server.URL), "teacher-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if summary.Totals.LessonPlans != 5 {
		t.Errorf("Totals.LessonPlans = %d", summary.Totals.LessonPlans)
	}
	if summary.Totals.QuestionSets != 4 {
		t.Errorf("Totals.QuestionSets = %d", summary.Totals.QuestionSets)
	}
	if summary.Totals.Notes != 1 {
		t.Errorf("Totals.Notes = %d", summary.Totals.Notes)
	}
	if len(summary.Periods) != 2 || summary.Periods[0].Period != "2026-08" {
		t.Errorf("Periods = %+v, want newest first", summary.Periods)
	}
}

func TestCounterField(t *testing.T) {
	for _, ct := range generate.ContentTypes {
		if counterField(ct) == "" {
			t.Errorf("no counter field for %s", ct)
		}
	}
	if counterField("poem") != "" {
		t.Error("unknown type should have no counter field")
	}
}
