package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lecternhq/lectern/internal/docstore"
)

// newMockStore returns a docstore client backed by a fake GraphQL server.
// The handler inspects the query and responds from the given documents.
func newMockStore(t *testing.T, docs []map[string]any) *docstore.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/graphql" {
			http.NotFound(w, r)
			return
		}

		var req docstore.GQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := docstore.GQLResponse{Data: map[string]any{}}
		switch {
		case strings.Contains(req.Query, "create_Resource"):
			resp.Data["create_Resource"] = []any{map[string]any{"_docID": "created-1"}}
		case strings.Contains(req.Query, "update_Resource"):
			resp.Data["update_Resource"] = []any{map[string]any{"_docID": "created-1"}}
		case strings.Contains(req.Query, "delete_Resource"):
			resp.Data["delete_Resource"] = []any{map[string]any{"_docID": "created-1"}}
		default:
			list := make([]any, 0, len(docs))
			for _, d := range docs {
				list = append(list, d)
			}
			resp.Data["Resource"] = list
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return docstore.NewClient(server.URL)
}

func TestStore_Create(t *testing.T) {
	store := NewStore(newMockStore(t, nil))

	r := &Resource{
		Title:    "Motion notes",
		FileName: "motion.pdf",
		Class:    "9",
		Subject:  "Physics",
		UserID:   "teacher-1",
	}

	docID, err := store.Create(context.Background(), r)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if docID != "created-1" {
		t.Errorf("docID = %s", docID)
	}
	if r.DocID != "created-1" {
		t.Error("Create should set DocID on the resource")
	}
	if r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		t.Error("Create should stamp timestamps")
	}
}

func TestStore_Get(t *testing.T) {
	docs := []map[string]any{{
		"_docID":     "res-1",
		"title":      "Motion notes",
		"file_name":  "motion.pdf",
		"file_size":  float64(1024),
		"page_count": float64(12),
		"class":      "9",
		"subject":    "Physics",
		"book":       "Physics 9",
		"chapter":    "Motion",
		"tags":       []any{"mechanics", "kinematics"},
		"user_id":    "teacher-1",
		"created_at": "2026-01-15T10:00:00Z",
	}}
	store := NewStore(newMockStore(t, docs))

	r, err := store.Get(context.Background(), "res-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if r.Title != "Motion notes" {
		t.Errorf("Title = %s", r.Title)
	}
	if r.PageCount != 12 {
		t.Errorf("PageCount = %d", r.PageCount)
	}
	if len(r.Tags) != 2 {
		t.Errorf("Tags = %v", r.Tags)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := NewStore(newMockStore(t, nil))

	_, err := store.Get(context.Background(), "missing-1")
	if !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestStore_RejectsUnsafeIDs(t *testing.T) {
	store := NewStore(newMockStore(t, nil))

	if _, err := store.Get(context.Background(), `x") { } evil`); err == nil {
		t.Error("expected error for unsafe ID")
	}
	if err := store.Delete(context.Background(), ""); err == nil {
		t.Error("expected error for empty ID")
	}
}

func TestStore_List(t *testing.T) {
	docs := []map[string]any{
		{"_docID": "r1", "title": "A", "class": "9", "subject": "Physics"},
		{"_docID": "r2", "title": "B", "class": "9", "subject": "Physics"},
	}
	store := NewStore(newMockStore(t, docs))

	resources, err := store.List(context.Background(), Filter{Class: "9", Subject: "Physics"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(resources) != 2 {
		t.Errorf("len = %d, want 2", len(resources))
	}
}
