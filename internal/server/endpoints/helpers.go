// Package endpoints defines the HTTP API surface. Each endpoint pairs
// an HTTP route with a CLI command that calls it.
package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lecternhq/lectern/internal/generate"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// userID resolves the requesting user. Single-tenant installs run
// without auth, so an absent identity falls back to "local".
func userID(r *http.Request) string {
	if v := r.Header.Get("X-User-ID"); v != "" {
		return v
	}
	if v := r.URL.Query().Get("user_id"); v != "" {
		return v
	}
	return "local"
}

// contentTypeFromSlug maps a URL segment like "lesson-plan" to its
// content type.
func contentTypeFromSlug(slug string) (generate.ContentType, bool) {
	t := generate.ContentType(strings.ReplaceAll(slug, "-", "_"))
	if t.Valid() {
		return t, true
	}
	return "", false
}

// slugFor is the inverse of contentTypeFromSlug, used by CLI commands.
func slugFor(t generate.ContentType) string {
	return strings.ReplaceAll(string(t), "_", "-")
}
