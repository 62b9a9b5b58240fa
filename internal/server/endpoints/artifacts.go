package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/generate"
	"github.com/lecternhq/lectern/internal/svcctx"
)

// ListArtifactsResponse is the response for listing artifacts.
type ListArtifactsResponse struct {
	Artifacts []generate.Artifact `json:"artifacts"`
}

// ListArtifactsEndpoint handles GET /api/artifacts/{type}.
type ListArtifactsEndpoint struct{}

func (e *ListArtifactsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/artifacts/{type}", e.handler
}

func (e *ListArtifactsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List artifacts
//	@Description	List the caller's generated artifacts of one content type, newest first
//	@Tags			artifacts
//	@Produce		json
//	@Success		200	{object}	ListArtifactsResponse
//	@Failure		400	{object}	ErrorResponse
//	@Router			/api/artifacts/{type} [get]
func (e *ListArtifactsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.ArtifactsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "artifact store not initialized")
		return
	}

	t, ok := contentTypeFromSlug(r.PathValue("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown content type")
		return
	}

	artifacts, err := store.List(r.Context(), t, userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ListArtifactsResponse{Artifacts: artifacts})
}

func (e *ListArtifactsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list <type>",
		Short: "List generated artifacts (lesson-plan, question-set, presentation, notes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ListArtifactsResponse
			if err := client.Get(cmd.Context(), "/api/artifacts/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp.Artifacts)
		},
	}
}

// GetArtifactEndpoint handles GET /api/artifacts/{type}/{id}.
type GetArtifactEndpoint struct{}

func (e *GetArtifactEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/artifacts/{type}/{id}", e.handler
}

func (e *GetArtifactEndpoint) RequiresInit() bool { return true }

func (e *GetArtifactEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.ArtifactsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "artifact store not initialized")
		return
	}

	t, ok := contentTypeFromSlug(r.PathValue("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown content type")
		return
	}

	artifact, err := store.Get(r.Context(), t, r.PathValue("id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "artifact not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

func (e *GetArtifactEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <id>",
		Short: "Get a generated artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var artifact generate.Artifact
			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/artifacts/%s/%s", args[0], args[1]), &artifact); err != nil {
				return err
			}
			return api.Output(artifact)
		},
	}
}

// DeleteArtifactEndpoint handles DELETE /api/artifacts/{type}/{id}.
type DeleteArtifactEndpoint struct{}

func (e *DeleteArtifactEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/artifacts/{type}/{id}", e.handler
}

func (e *DeleteArtifactEndpoint) RequiresInit() bool { return true }

func (e *DeleteArtifactEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.ArtifactsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "artifact store not initialized")
		return
	}

	t, ok := contentTypeFromSlug(r.PathValue("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown content type")
		return
	}

	id := r.PathValue("id")
	artifact, err := store.Get(r.Context(), t, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "artifact not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := store.Delete(r.Context(), t, id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// A deleted artifact no longer counts toward usage.
	if outbox := svcctx.StatsFrom(r.Context()); outbox != nil {
		outbox.Discard(artifact.UserID, t)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteArtifactEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete a generated artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), fmt.Sprintf("/api/artifacts/%s/%s", args[0], args[1])); err != nil {
				return err
			}
			fmt.Println("Deleted")
			return nil
		},
	}
}

// UpdateUnitsRequest is the body for editing an artifact's units.
type UpdateUnitsRequest struct {
	Title string          `json:"title,omitempty"`
	Units []generate.Unit `json:"units"`
}

// UpdateUnitsEndpoint handles PATCH /api/artifacts/{type}/{id}/units.
// It replaces the unit list wholesale, so section add, edit, and delete
// are all one operation from the server's point of view.
type UpdateUnitsEndpoint struct{}

func (e *UpdateUnitsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PATCH", "/api/artifacts/{type}/{id}/units", e.handler
}

func (e *UpdateUnitsEndpoint) RequiresInit() bool { return true }

func (e *UpdateUnitsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.ArtifactsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "artifact store not initialized")
		return
	}

	t, ok := contentTypeFromSlug(r.PathValue("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown content type")
		return
	}

	var req UpdateUnitsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Units) == 0 {
		writeError(w, http.StatusBadRequest, "at least one unit is required")
		return
	}
	for i := range req.Units {
		req.Units[i].ID = i + 1
	}

	id := r.PathValue("id")
	if err := store.UpdateUnits(r.Context(), t, id, req.Title, req.Units); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	artifact, err := store.Get(r.Context(), t, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

func (e *UpdateUnitsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <type> <id> <units-json>",
		Short: "Replace an artifact's units with a JSON array",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var units []generate.Unit
			if err := json.Unmarshal([]byte(args[2]), &units); err != nil {
				return fmt.Errorf("invalid units JSON: %w", err)
			}
			client := api.NewClient(getServerURL())
			var artifact generate.Artifact
			path := fmt.Sprintf("/api/artifacts/%s/%s/units", args[0], args[1])
			if err := client.Patch(cmd.Context(), path, UpdateUnitsRequest{Units: units}, &artifact); err != nil {
				return err
			}
			return api.Output(artifact)
		},
	}
}
