package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lecternhq/lectern/internal/docstore"
)

// ErrResourceNotFound is returned when a resource does not exist.
var ErrResourceNotFound = errors.New("resource not found")

// Store provides resource CRUD over the document store.
type Store struct {
	client *docstore.Client
}

// NewStore creates a resource store.
func NewStore(client *docstore.Client) *Store {
	return &Store{client: client}
}

// Create persists a new resource and returns its document ID.
func (s *Store) Create(ctx context.Context, r *Resource) (string, error) {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	docID, err := s.client.Create(ctx, Collection, r.toInput())
	if err != nil {
		return "", fmt.Errorf("failed to create resource: %w", err)
	}
	r.DocID = docID
	return docID, nil
}

// Get returns a resource by document ID.
func (s *Store) Get(ctx context.Context, docID string) (*Resource, error) {
	if err := docstore.ValidateID(docID); err != nil {
		return nil, err
	}

	resp, err := docstore.NewQuery(Collection).
		Filter("_docID", docID).
		Fields(resourceFields...).
		Execute(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if errMsg := resp.Error(); errMsg != "" {
		return nil, fmt.Errorf("graphql error: %s", errMsg)
	}

	docs := docstore.Docs(resp, Collection)
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, docID)
	}
	r := resourceFromDoc(docs[0])
	return &r, nil
}

// Update applies field updates to a resource.
func (s *Store) Update(ctx context.Context, docID string, fields map[string]any) error {
	if err := docstore.ValidateID(docID); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	if err := s.client.Update(ctx, Collection, docID, fields); err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	return nil
}

// Delete removes a resource record.
func (s *Store) Delete(ctx context.Context, docID string) error {
	if err := docstore.ValidateID(docID); err != nil {
		return err
	}
	if err := s.client.Delete(ctx, Collection, docID); err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	return nil
}

// Filter restricts a resource listing. Empty fields match everything.
// Class "all" behaves the same as an empty class.
type Filter struct {
	Class    string
	Subject  string
	Book     string
	Chapter  string
	Chapters []string
	UserID   string
}

// List returns resources matching the filter, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Resource, error) {
	q := docstore.NewQuery(Collection).Fields(resourceFields...)

	if f.Class != "" && f.Class != AllClasses {
		q.Filter("class", f.Class)
	}
	if f.Subject != "" {
		q.Filter("subject", f.Subject)
	}
	if f.Book != "" {
		q.Filter("book", f.Book)
	}
	if f.Chapter != "" {
		q.Filter("chapter", f.Chapter)
	}
	if len(f.Chapters) > 0 {
		q.FilterIn("chapter", f.Chapters)
	}
	if f.UserID != "" {
		q.Filter("user_id", f.UserID)
	}
	q.OrderBy("created_at", "DESC")

	resp, err := q.Execute(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if errMsg := resp.Error(); errMsg != "" {
		return nil, fmt.Errorf("graphql error: %s", errMsg)
	}

	docs := docstore.Docs(resp, Collection)
	resources := make([]Resource, 0, len(docs))
	for _, doc := range docs {
		resources = append(resources, resourceFromDoc(doc))
	}
	return resources, nil
}
