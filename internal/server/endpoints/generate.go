package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/catalog"
	"github.com/lecternhq/lectern/internal/generate"
	"github.com/lecternhq/lectern/internal/providers"
	"github.com/lecternhq/lectern/internal/svcctx"
)

// GenerateRequest is the body for a generation request.
type GenerateRequest struct {
	Class    string   `json:"class,omitempty"`
	Subject  string   `json:"subject"`
	Book     string   `json:"book"`
	Chapters []string `json:"chapters"`

	LessonPlan   *generate.LessonPlanParams   `json:"lesson_plan,omitempty"`
	QuestionSet  *generate.QuestionSetParams  `json:"question_set,omitempty"`
	Presentation *generate.PresentationParams `json:"presentation,omitempty"`
	Notes        *generate.NotesParams        `json:"notes,omitempty"`
}

// GenerateEndpoint handles POST /api/generate/{type}. One instance is
// registered per content type.
type GenerateEndpoint struct {
	Type generate.ContentType
}

func (e *GenerateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/generate/" + slugFor(e.Type), e.handler
}

func (e *GenerateEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Generate content
//	@Description	Generate a lesson plan, question set, presentation, or notes for a curriculum selection
//	@Tags			generate
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GenerateRequest	true	"Curriculum selection and type-specific parameters"
//	@Success		200		{object}	generate.Artifact
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/generate/{type} [post]
func (e *GenerateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	pipeline := svcctx.PipelineFrom(r.Context())
	if pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "pipeline not initialized")
		return
	}

	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := &generate.Options{
		Type:         e.Type,
		UserID:       userID(r),
		Class:        req.Class,
		Subject:      req.Subject,
		Book:         req.Book,
		Chapters:     req.Chapters,
		LessonPlan:   req.LessonPlan,
		QuestionSet:  req.QuestionSet,
		Presentation: req.Presentation,
		Notes:        req.Notes,
	}

	artifact, err := pipeline.Generate(r.Context(), opts)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrStoreUnreachable):
			writeError(w, http.StatusServiceUnavailable, "resource store unreachable")
		case errors.Is(err, generate.ErrNoProviders):
			writeError(w, http.StatusServiceUnavailable, "no LLM providers configured")
		case providers.IsCredentialError(err):
			writeError(w, http.StatusBadGateway, err.Error())
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, artifact)
}

// isValidationError distinguishes bad requests from upstream failures.
func isValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "required") ||
		strings.Contains(msg, "unsupported content type") ||
		strings.Contains(msg, "cannot be blank")
}

func (e *GenerateEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		class, subject, book string
		chapters             []string
	)
	cmd := &cobra.Command{
		Use:   slugFor(e.Type),
		Short: fmt.Sprintf("Generate a %s", strings.ToLower(e.Type.Label())),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := GenerateRequest{
				Class:    class,
				Subject:  subject,
				Book:     book,
				Chapters: chapters,
			}
			client := api.NewClient(getServerURL())
			var artifact generate.Artifact
			if err := client.Post(cmd.Context(), "/api/generate/"+slugFor(e.Type), req, &artifact); err != nil {
				return err
			}
			return api.Output(artifact)
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "Class (omit or \"all\" for any)")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&book, "book", "", "Book (omit for any)")
	cmd.Flags().StringSliceVar(&chapters, "chapters", nil, "Chapters to cover")
	cmd.MarkFlagRequired("subject")
	cmd.MarkFlagRequired("chapters")
	return cmd
}
