package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/catalog"
	"github.com/lecternhq/lectern/internal/filestore"
	"github.com/lecternhq/lectern/internal/svcctx"
)

// UploadResourceResponse is the response for a resource upload.
type UploadResourceResponse struct {
	Resource catalog.Resource `json:"resource"`
}

// UploadResourceEndpoint handles POST /api/resources/upload.
type UploadResourceEndpoint struct{}

func (e *UploadResourceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/resources/upload", e.handler
}

func (e *UploadResourceEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Upload a curriculum resource
//	@Description	Upload a PDF (or other file) with its class/subject/book/chapter metadata
//	@Tags			resources
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Resource file"
//	@Param			title	formData	string	true	"Resource title"
//	@Param			subject	formData	string	true	"Subject"
//	@Param			book	formData	string	false	"Book"
//	@Param			chapter	formData	string	true	"Chapter"
//	@Success		201	{object}	UploadResourceResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		413	{object}	ErrorResponse
//	@Router			/api/resources/upload [post]
func (e *UploadResourceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	files := svcctx.FilesFrom(r.Context())
	store := svcctx.CatalogFrom(r.Context())
	if files == nil || store == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	saved, err := files.Save(header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, filestore.ErrTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
		case errors.Is(err, filestore.ErrInvalidPDF):
			writeError(w, http.StatusBadRequest, "file is not a readable PDF")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	res := &catalog.Resource{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		FileName:    saved.Name,
		FileURL:     "/api/files/" + saved.Name,
		FileType:    strings.TrimPrefix(filepath.Ext(saved.OriginalName), "."),
		FileSize:    saved.Size,
		PageCount:   saved.PageCount,
		Class:       r.FormValue("class"),
		Subject:     r.FormValue("subject"),
		Book:        r.FormValue("book"),
		Chapter:     r.FormValue("chapter"),
		UserID:      userID(r),
	}
	if tags := r.FormValue("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				res.Tags = append(res.Tags, tag)
			}
		}
	}
	if res.Title == "" {
		res.Title = saved.OriginalName
	}
	if res.Subject == "" || res.Chapter == "" {
		_ = files.Delete(saved.Name)
		writeError(w, http.StatusBadRequest, "subject and chapter are required")
		return
	}

	if _, err := store.Create(r.Context(), res); err != nil {
		_ = files.Delete(saved.Name)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, UploadResourceResponse{Resource: *res})
}

func (e *UploadResourceEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		title, description, class, subject, book, chapter, tags string
	)
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a curriculum resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			fields := map[string]string{
				"title":       title,
				"description": description,
				"class":       class,
				"subject":     subject,
				"book":        book,
				"chapter":     chapter,
				"tags":        tags,
			}
			var resp UploadResourceResponse
			if err := client.PostFile(cmd.Context(), "/api/resources/upload", "file", args[0], fields, &resp); err != nil {
				return err
			}
			fmt.Printf("Uploaded: %s (%s)\n", resp.Resource.Title, resp.Resource.DocID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Resource title (defaults to the file name)")
	cmd.Flags().StringVar(&description, "description", "", "Resource description")
	cmd.Flags().StringVar(&class, "class", "", "Class the resource belongs to")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&book, "book", "", "Book (optional)")
	cmd.Flags().StringVar(&chapter, "chapter", "", "Chapter")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.MarkFlagRequired("subject")
	cmd.MarkFlagRequired("chapter")
	return cmd
}
