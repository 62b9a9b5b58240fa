package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/stats"
	"github.com/lecternhq/lectern/internal/svcctx"
)

// StatsEndpoint handles GET /api/stats.
type StatsEndpoint struct{}

func (e *StatsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/stats", e.handler
}

func (e *StatsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get generation stats
//	@Description	Per-month and total counts of generated content for the caller
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	stats.Summary
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/stats [get]
func (e *StatsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	client := svcctx.StoreFrom(r.Context())
	if client == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	summary, err := stats.Get(r.Context(), client, userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (e *StatsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show content generation counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp stats.Summary
			if err := client.Get(cmd.Context(), "/api/stats", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
