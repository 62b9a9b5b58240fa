package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrStoreUnreachable is returned when resource collection fails because
// the document store cannot be queried.
var ErrStoreUnreachable = errors.New("document store unreachable")

// Collector gathers the resources that feed a generation request.
type Collector struct {
	store *Store
}

// NewCollector creates a resource collector over the given store.
func NewCollector(store *Store) *Collector {
	return &Collector{store: store}
}

// CollectRequest identifies the resources to gather.
type CollectRequest struct {
	UserID   string
	Class    string
	Subject  string
	Book     string
	Chapters []string
	// Search optionally narrows results by a case-insensitive substring
	// match over title, description, and tags.
	Search string
}

// Collect returns the union of resources across the requested chapters,
// deduplicated by document ID. An empty chapter list matches all chapters
// under the selection. An empty result is not an error.
func (c *Collector) Collect(ctx context.Context, req CollectRequest) ([]Resource, error) {
	f := Filter{
		UserID:  req.UserID,
		Class:   req.Class,
		Subject: req.Subject,
		Book:    req.Book,
	}
	if len(req.Chapters) == 1 {
		f.Chapter = req.Chapters[0]
	} else if len(req.Chapters) > 1 {
		f.Chapters = req.Chapters
	}

	resources, err := c.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}

	seen := make(map[string]bool, len(resources))
	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if seen[r.DocID] {
			continue
		}
		seen[r.DocID] = true
		if req.Search != "" && !matchesSearch(r, req.Search) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// matchesSearch reports whether a resource matches a search term.
// The store has no case-insensitive contains filter, so matching happens
// here after the query.
func matchesSearch(r Resource, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(r.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), term) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
