package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/catalog"
	"github.com/lecternhq/lectern/internal/svcctx"
)

// ListResourcesResponse is the response for listing resources.
type ListResourcesResponse struct {
	Resources []catalog.Resource `json:"resources"`
}

// ListResourcesEndpoint handles GET /api/resources.
type ListResourcesEndpoint struct{}

func (e *ListResourcesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/resources", e.handler
}

func (e *ListResourcesEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List resources
//	@Description	List uploaded resources, optionally filtered by class, subject, book, or chapter
//	@Tags			resources
//	@Produce		json
//	@Param			class	query	string	false	"Class filter"
//	@Param			subject	query	string	false	"Subject filter"
//	@Param			book	query	string	false	"Book filter"
//	@Param			chapter	query	string	false	"Chapter filter"
//	@Success		200	{object}	ListResourcesResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/resources [get]
func (e *ListResourcesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not initialized")
		return
	}

	q := r.URL.Query()
	resources, err := store.List(r.Context(), catalog.Filter{
		Class:   q.Get("class"),
		Subject: q.Get("subject"),
		Book:    q.Get("book"),
		Chapter: q.Get("chapter"),
		UserID:  userID(r),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ListResourcesResponse{Resources: resources})
}

func (e *ListResourcesEndpoint) Command(getServerURL func() string) *cobra.Command {
	var class, subject, book, chapter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := fmt.Sprintf("/api/resources?class=%s&subject=%s&book=%s&chapter=%s",
				class, subject, book, chapter)
			var resp ListResourcesResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp.Resources)
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "Filter by class")
	cmd.Flags().StringVar(&subject, "subject", "", "Filter by subject")
	cmd.Flags().StringVar(&book, "book", "", "Filter by book")
	cmd.Flags().StringVar(&chapter, "chapter", "", "Filter by chapter")
	return cmd
}

// GetResourceEndpoint handles GET /api/resources/{id}.
type GetResourceEndpoint struct{}

func (e *GetResourceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/resources/{id}", e.handler
}

func (e *GetResourceEndpoint) RequiresInit() bool { return true }

func (e *GetResourceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not initialized")
		return
	}

	res, err := store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrResourceNotFound) {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *GetResourceEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a resource by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp catalog.Resource
			if err := client.Get(cmd.Context(), "/api/resources/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// UpdateResourceRequest is the body for updating resource metadata.
type UpdateResourceRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Class       *string  `json:"class,omitempty"`
	Subject     *string  `json:"subject,omitempty"`
	Book        *string  `json:"book,omitempty"`
	Chapter     *string  `json:"chapter,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateResourceEndpoint handles PATCH /api/resources/{id}.
type UpdateResourceEndpoint struct{}

func (e *UpdateResourceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PATCH", "/api/resources/{id}", e.handler
}

func (e *UpdateResourceEndpoint) RequiresInit() bool { return true }

func (e *UpdateResourceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not initialized")
		return
	}

	var req UpdateResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := map[string]any{}
	for key, v := range map[string]*string{
		"title":       req.Title,
		"description": req.Description,
		"class":       req.Class,
		"subject":     req.Subject,
		"book":        req.Book,
		"chapter":     req.Chapter,
	} {
		if v != nil {
			fields[key] = *v
		}
	}
	if req.Tags != nil {
		fields["tags"] = req.Tags
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	id := r.PathValue("id")
	if err := store.Update(r.Context(), id, fields); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res, err := store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *UpdateResourceEndpoint) Command(getServerURL func() string) *cobra.Command {
	var title, description, class, subject, book, chapter string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update resource metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := UpdateResourceRequest{}
			set := func(flag string, target **string, value string) {
				if cmd.Flags().Changed(flag) {
					*target = &value
				}
			}
			set("title", &req.Title, title)
			set("description", &req.Description, description)
			set("class", &req.Class, class)
			set("subject", &req.Subject, subject)
			set("book", &req.Book, book)
			set("chapter", &req.Chapter, chapter)

			client := api.NewClient(getServerURL())
			var resp catalog.Resource
			if err := client.Patch(cmd.Context(), "/api/resources/"+args[0], req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&class, "class", "", "New class")
	cmd.Flags().StringVar(&subject, "subject", "", "New subject")
	cmd.Flags().StringVar(&book, "book", "", "New book")
	cmd.Flags().StringVar(&chapter, "chapter", "", "New chapter")
	return cmd
}

// DeleteResourceEndpoint handles DELETE /api/resources/{id}.
type DeleteResourceEndpoint struct{}

func (e *DeleteResourceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/resources/{id}", e.handler
}

func (e *DeleteResourceEndpoint) RequiresInit() bool { return true }

func (e *DeleteResourceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogFrom(r.Context())
	files := svcctx.FilesFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not initialized")
		return
	}

	id := r.PathValue("id")
	res, err := store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrResourceNotFound) {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// The blob goes too; a dangling record is worse than a dangling file.
	if files != nil && res.FileName != "" {
		if err := files.Delete(res.FileName); err != nil {
			svcctx.LoggerFrom(r.Context()).Warn("failed to delete resource file",
				"file", res.FileName, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteResourceEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a resource and its file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/resources/"+args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted")
			return nil
		},
	}
}
