package endpoints

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/catalog"
	"github.com/lecternhq/lectern/internal/svcctx"
)

// FiltersEndpoint handles GET /api/filters. It returns the cascading
// filter options for the caller's uploaded resources: all classes,
// then subjects under the selected class, books under the subject, and
// chapters under the book.
type FiltersEndpoint struct{}

func (e *FiltersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/filters", e.handler
}

func (e *FiltersEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get filter options
//	@Description	Return class/subject/book/chapter options narrowed by the current selection
//	@Tags			filters
//	@Produce		json
//	@Param			class	query	string	false	"Selected class"
//	@Param			subject	query	string	false	"Selected subject"
//	@Param			book	query	string	false	"Selected book"
//	@Success		200	{object}	catalog.FilterOptions
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/filters [get]
func (e *FiltersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resolver := svcctx.ResolverFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "resolver not initialized")
		return
	}

	q := r.URL.Query()
	opts, err := resolver.Options(r.Context(), userID(r), catalog.Selection{
		Class:   q.Get("class"),
		Subject: q.Get("subject"),
		Book:    q.Get("book"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, opts)
}

func (e *FiltersEndpoint) Command(getServerURL func() string) *cobra.Command {
	var class, subject, book string
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Show filter options for your resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := fmt.Sprintf("/api/filters?class=%s&subject=%s&book=%s",
				url.QueryEscape(class), url.QueryEscape(subject), url.QueryEscape(book))
			var resp catalog.FilterOptions
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "Selected class")
	cmd.Flags().StringVar(&subject, "subject", "", "Selected subject")
	cmd.Flags().StringVar(&book, "book", "", "Selected book")
	return cmd
}
