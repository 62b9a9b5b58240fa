package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestCollector_Collect(t *testing.T) {
	docs := []map[string]any{
		{"_docID": "r1", "title": "Motion worksheet", "class": "9", "subject": "Physics", "chapter": "Motion"},
		{"_docID": "r2", "title": "Forces quiz", "class": "9", "subject": "Physics", "chapter": "Forces"},
		{"_docID": "r1", "title": "Motion worksheet", "class": "9", "subject": "Physics", "chapter": "Motion"}, // duplicate
	}
	c := NewCollector(NewStore(newMockStore(t, docs)))

	resources, err := c.Collect(context.Background(), CollectRequest{
		UserID:   "teacher-1",
		Class:    "9",
		Subject:  "Physics",
		Chapters: []string{"Motion", "Forces"},
	})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	// Union across chapters, deduplicated by document ID
	if len(resources) != 2 {
		t.Fatalf("len = %d, want 2 (deduplicated)", len(resources))
	}
	seen := map[string]bool{}
	for _, r := range resources {
		if seen[r.DocID] {
			t.Errorf("duplicate resource %s", r.DocID)
		}
		seen[r.DocID] = true
	}
}

func TestCollector_EmptyResultIsNotError(t *testing.T) {
	c := NewCollector(NewStore(newMockStore(t, nil)))

	resources, err := c.Collect(context.Background(), CollectRequest{
		Class:    "12",
		Subject:  "Latin",
		Chapters: []string{"Nope"},
	})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(resources) != 0 {
		t.Errorf("len = %d, want 0", len(resources))
	}
}

func TestCollector_Search(t *testing.T) {
	docs := []map[string]any{
		{"_docID": "r1", "title": "Motion worksheet", "description": "intro"},
		{"_docID": "r2", "title": "Forces quiz", "description": "Newton's laws"},
		{"_docID": "r3", "title": "Misc", "tags": []any{"newton"}},
	}
	c := NewCollector(NewStore(newMockStore(t, docs)))

	resources, err := c.Collect(context.Background(), CollectRequest{Search: "newton"})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(resources) != 2 {
		t.Errorf("len = %d, want 2 (description and tag match)", len(resources))
	}
}

func TestCollector_StoreUnreachable(t *testing.T) {
	// Point at a closed server
	client := newMockStore(t, nil)
	c := NewCollector(NewStore(client))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Collect(ctx, CollectRequest{Class: "9"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrStoreUnreachable) {
		t.Errorf("expected ErrStoreUnreachable, got %v", err)
	}
}
