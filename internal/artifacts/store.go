// Package artifacts persists generated content to the document store,
// with retries and a local fallback so a generated artifact is never
// lost to a store outage.
package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/lecternhq/lectern/internal/docstore"
	"github.com/lecternhq/lectern/internal/generate"
	"github.com/lecternhq/lectern/internal/home"
)

const (
	saveAttempts = 3
	saveDelay    = 500 * time.Millisecond
)

// artifactFields are the fields fetched for artifact queries.
var artifactFields = []string{
	"_docID", "title", "subject", "class", "book", "chapters", "units_json",
	"system_prompt", "user_prompt", "user_id", "idempotency_key", "created_at",
}

// Store persists artifacts per content type.
type Store struct {
	client *docstore.Client
	home   *home.Dir
	logger *slog.Logger
}

// NewStore creates an artifact store. home may be nil to disable the
// local fallback.
func NewStore(client *docstore.Client, h *home.Dir, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, home: h, logger: logger}
}

// Save persists the artifact under its idempotency key. The write is
// retried; if the store stays unreachable the artifact is retained as a
// local file and the error returned so callers can log it. The caller
// keeps the in-memory artifact either way.
func (s *Store) Save(ctx context.Context, key string, a *generate.Artifact) (string, error) {
	input, err := toInput(key, a)
	if err != nil {
		return "", err
	}

	var docID string
	err = retry.Do(
		func() error {
			var createErr error
			docID, createErr = s.client.Create(ctx, a.Type.Collection(), input)
			return createErr
		},
		retry.Context(ctx),
		retry.Attempts(saveAttempts),
		retry.Delay(saveDelay),
	)
	if err != nil {
		if s.home != nil {
			if path, werr := s.retainLocally(key, a); werr != nil {
				s.logger.Error("failed to retain artifact locally", "error", werr)
			} else {
				s.logger.Warn("store unreachable, artifact retained locally",
					"type", a.Type, "path", path)
			}
		}
		return "", fmt.Errorf("failed to persist artifact: %w", err)
	}
	return docID, nil
}

// FindRecent returns an artifact saved under the key within the window,
// or nil when none exists.
func (s *Store) FindRecent(ctx context.Context, t generate.ContentType, key string, window time.Duration) (*generate.Artifact, error) {
	cutoff := time.Now().UTC().Add(-window).Format(time.RFC3339)

	resp, err := docstore.NewQuery(t.Collection()).
		Filter("idempotency_key", key).
		FilterGTE("created_at", cutoff).
		Fields(artifactFields...).
		OrderBy("created_at", "DESC").
		Limit(1).
		Execute(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("dedup query failed: %w", err)
	}
	if errMsg := resp.Error(); errMsg != "" {
		return nil, fmt.Errorf("graphql error: %s", errMsg)
	}

	docs := docstore.Docs(resp, t.Collection())
	if len(docs) == 0 {
		return nil, nil
	}
	return fromDoc(t, docs[0])
}

// Get returns an artifact by document ID.
func (s *Store) Get(ctx context.Context, t generate.ContentType, docID string) (*generate.Artifact, error) {
	if err := docstore.ValidateID(docID); err != nil {
		return nil, err
	}

	resp, err := docstore.NewQuery(t.Collection()).
		Filter("_docID", docID).
		Fields(artifactFields...).
		Execute(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if errMsg := resp.Error(); errMsg != "" {
		return nil, fmt.Errorf("graphql error: %s", errMsg)
	}

	docs := docstore.Docs(resp, t.Collection())
	if len(docs) == 0 {
		return nil, fmt.Errorf("artifact not found: %s", docID)
	}
	return fromDoc(t, docs[0])
}

// List returns a user's artifacts of one type, newest first.
func (s *Store) List(ctx context.Context, t generate.ContentType, userID string) ([]generate.Artifact, error) {
	q := docstore.NewQuery(t.Collection()).
		Fields(artifactFields...).
		OrderBy("created_at", "DESC")
	if userID != "" {
		q.Filter("user_id", userID)
	}

	resp, err := q.Execute(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if errMsg := resp.Error(); errMsg != "" {
		return nil, fmt.Errorf("graphql error: %s", errMsg)
	}

	docs := docstore.Docs(resp, t.Collection())
	artifacts := make([]generate.Artifact, 0, len(docs))
	for _, doc := range docs {
		a, err := fromDoc(t, doc)
		if err != nil {
			s.logger.Warn("skipping malformed artifact", "error", err)
			continue
		}
		artifacts = append(artifacts, *a)
	}
	return artifacts, nil
}

// Delete removes an artifact.
func (s *Store) Delete(ctx context.Context, t generate.ContentType, docID string) error {
	if err := docstore.ValidateID(docID); err != nil {
		return err
	}
	if err := s.client.Delete(ctx, t.Collection(), docID); err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}

// UpdateUnits replaces an artifact's units (and optionally its title).
func (s *Store) UpdateUnits(ctx context.Context, t generate.ContentType, docID string, title string, units []generate.Unit) error {
	if err := docstore.ValidateID(docID); err != nil {
		return err
	}

	unitsJSON, err := json.Marshal(units)
	if err != nil {
		return fmt.Errorf("failed to encode units: %w", err)
	}

	fields := map[string]any{"units_json": string(unitsJSON)}
	if title != "" {
		fields["title"] = title
	}
	if err := s.client.Update(ctx, t.Collection(), docID, fields); err != nil {
		return fmt.Errorf("failed to update artifact: %w", err)
	}
	return nil
}

// retainLocally writes the artifact to the unsynced directory.
func (s *Store) retainLocally(key string, a *generate.Artifact) (string, error) {
	record := localRecord{Key: key, Artifact: a}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.json", a.Type, uuid.NewString())
	path := s.home.UnsyncedPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// localRecord is the on-disk shape of a locally retained artifact.
type localRecord struct {
	Key      string             `json:"idempotency_key"`
	Artifact *generate.Artifact `json:"artifact"`
}

// ResyncUnsynced pushes locally retained artifacts back into the store.
// Files that sync successfully are removed. Returns the number synced.
func (s *Store) ResyncUnsynced(ctx context.Context) (int, error) {
	if s.home == nil {
		return 0, nil
	}

	entries, err := os.ReadDir(s.home.UnsyncedDir())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	synced := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := s.home.UnsyncedPath(entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("failed to read unsynced artifact", "path", path, "error", err)
			continue
		}
		var record localRecord
		if err := json.Unmarshal(data, &record); err != nil || record.Artifact == nil {
			s.logger.Warn("skipping malformed unsynced artifact", "path", path)
			continue
		}

		input, err := toInput(record.Key, record.Artifact)
		if err != nil {
			continue
		}
		if _, err := s.client.Create(ctx, record.Artifact.Type.Collection(), input); err != nil {
			s.logger.Warn("resync failed, keeping local copy", "path", path, "error", err)
			continue
		}
		if err := os.Remove(path); err != nil {
			s.logger.Warn("synced but failed to remove local copy", "path", path, "error", err)
		}
		synced++
	}

	if synced > 0 {
		s.logger.Info("resynced locally retained artifacts", "count", synced)
	}
	return synced, nil
}

// toInput converts an artifact to a document store input map.
func toInput(key string, a *generate.Artifact) (map[string]any, error) {
	unitsJSON, err := json.Marshal(a.Units)
	if err != nil {
		return nil, fmt.Errorf("failed to encode units: %w", err)
	}

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return map[string]any{
		"title":           a.Title,
		"subject":         a.Subject,
		"class":           a.Class,
		"book":            a.Book,
		"chapters":        a.Chapters,
		"units_json":      string(unitsJSON),
		"system_prompt":   a.SystemPrompt,
		"user_prompt":     a.UserPrompt,
		"user_id":         a.UserID,
		"idempotency_key": key,
		"created_at":      createdAt.UTC().Format(time.RFC3339),
	}, nil
}

// fromDoc converts a document store result into an artifact.
func fromDoc(t generate.ContentType, doc map[string]any) (*generate.Artifact, error) {
	a := &generate.Artifact{Type: t}

	if v, ok := doc["_docID"].(string); ok {
		a.DocID = v
	}
	if v, ok := doc["title"].(string); ok {
		a.Title = v
	}
	if v, ok := doc["subject"].(string); ok {
		a.Subject = v
	}
	if v, ok := doc["class"].(string); ok {
		a.Class = v
	}
	if v, ok := doc["book"].(string); ok {
		a.Book = v
	}
	if v, ok := doc["user_id"].(string); ok {
		a.UserID = v
	}
	if raw, ok := doc["chapters"].([]any); ok {
		for _, c := range raw {
			if s, ok := c.(string); ok {
				a.Chapters = append(a.Chapters, s)
			}
		}
	}
	if v, ok := doc["system_prompt"].(string); ok {
		a.SystemPrompt = v
	}
	if v, ok := doc["user_prompt"].(string); ok {
		a.UserPrompt = v
	}
	if v, ok := doc["created_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			a.CreatedAt = ts
		}
	}

	if v, ok := doc["units_json"].(string); ok && v != "" {
		units, err := decodeUnitsJSON(t, v)
		if err != nil {
			return nil, fmt.Errorf("malformed units_json: %w", err)
		}
		a.Units = units
	}
	return a, nil
}

// decodeUnitsJSON decodes a stored unit array. Older records wrapped the
// array in an object keyed by the content type's unit key; both shapes
// are accepted.
func decodeUnitsJSON(t generate.ContentType, raw string) ([]generate.Unit, error) {
	var units []generate.Unit
	if err := json.Unmarshal([]byte(raw), &units); err == nil {
		return units, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		return nil, err
	}
	for _, key := range []string{t.UnitKey(), "units"} {
		if inner, ok := wrapped[key]; ok {
			if err := json.Unmarshal(inner, &units); err != nil {
				return nil, err
			}
			return units, nil
		}
	}
	return nil, fmt.Errorf("no unit array found")
}
