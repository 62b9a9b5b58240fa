package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/filestore"
	"github.com/lecternhq/lectern/internal/svcctx"
)

// FileEndpoint handles GET /api/files/{name}, serving uploaded blobs.
type FileEndpoint struct{}

func (e *FileEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/files/{name}", e.handler
}

func (e *FileEndpoint) RequiresInit() bool { return true }

func (e *FileEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	files := svcctx.FilesFrom(r.Context())
	if files == nil {
		writeError(w, http.StatusServiceUnavailable, "file store not initialized")
		return
	}

	path, err := files.Path(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	http.ServeFile(w, r, path)
}

func (e *FileEndpoint) Command(getServerURL func() string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <name>",
		Short: "Download a resource file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, err := client.GetRaw(cmd.Context(), "/api/files/"+args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Base(args[0])
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Saved to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	return cmd
}
