package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/export"
	"github.com/lecternhq/lectern/internal/svcctx"
)

// ExportArtifactEndpoint handles GET /api/artifacts/{type}/{id}/export.
// The format query parameter selects markdown (default), docx, or pptx.
type ExportArtifactEndpoint struct{}

func (e *ExportArtifactEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/artifacts/{type}/{id}/export", e.handler
}

func (e *ExportArtifactEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Export an artifact
//	@Description	Download an artifact as Markdown, Word, or PowerPoint
//	@Tags			artifacts
//	@Produce		octet-stream
//	@Param			format	query	string	false	"markdown, docx, or pptx"
//	@Success		200
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/artifacts/{type}/{id}/export [get]
func (e *ExportArtifactEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
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

	data, err := export.Render(format, artifact)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := exportFilename(artifact.Title, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// exportFilename builds a safe download name from the artifact title.
func exportFilename(title string, format export.Format) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, title)
	if name == "" {
		name = "artifact"
	}
	return name + format.Extension()
}

func (e *ExportArtifactEndpoint) Command(getServerURL func() string) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export <type> <id>",
		Short: "Export an artifact to markdown, docx, or pptx",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			path := fmt.Sprintf("/api/artifacts/%s/%s/export?format=%s", args[0], args[1], f)
			data, err := client.GetRaw(cmd.Context(), path)
			if err != nil {
				return err
			}
			if output == "" {
				output = args[1] + f.Extension()
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Export format (markdown, docx, pptx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	return cmd
}
