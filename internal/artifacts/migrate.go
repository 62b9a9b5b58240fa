package artifacts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lecternhq/lectern/internal/docstore"
	"github.com/lecternhq/lectern/internal/generate"
)

// MigrateLegacy rewrites artifacts whose units_json still uses the old
// object-wrapped shape ({"sections": [...]}) to a bare unit array.
// Safe to run on every startup; already-migrated records are skipped.
// Returns the number of records rewritten.
func (s *Store) MigrateLegacy(ctx context.Context) (int, error) {
	migrated := 0
	for _, t := range generate.ContentTypes {
		n, err := s.migrateCollection(ctx, t)
		if err != nil {
			return migrated, fmt.Errorf("migration failed for %s: %w", t.Collection(), err)
		}
		migrated += n
	}
	if migrated > 0 {
		s.logger.Info("migrated legacy artifacts", "count", migrated)
	}
	return migrated, nil
}

func (s *Store) migrateCollection(ctx context.Context, t generate.ContentType) (int, error) {
	resp, err := docstore.NewQuery(t.Collection()).
		Fields("_docID", "units_json").
		Execute(ctx, s.client)
	if err != nil {
		return 0, err
	}
	if errMsg := resp.Error(); errMsg != "" {
		return 0, fmt.Errorf("graphql error: %s", errMsg)
	}

	migrated := 0
	for _, doc := range docstore.Docs(resp, t.Collection()) {
		docID, _ := doc["_docID"].(string)
		raw, _ := doc["units_json"].(string)
		if docID == "" || raw == "" {
			continue
		}

		// Bare arrays are already in the current shape.
		var bare []generate.Unit
		if err := json.Unmarshal([]byte(raw), &bare); err == nil {
			continue
		}

		units, err := decodeUnitsJSON(t, raw)
		if err != nil {
			s.logger.Warn("cannot migrate artifact", "doc_id", docID, "error", err)
			continue
		}

		unitsJSON, err := json.Marshal(units)
		if err != nil {
			continue
		}
		if err := s.client.Update(ctx, t.Collection(), docID, map[string]any{
			"units_json": string(unitsJSON),
		}); err != nil {
			return migrated, err
		}
		migrated++
	}
	return migrated, nil
}
