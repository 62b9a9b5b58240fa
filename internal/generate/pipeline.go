package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lecternhq/lectern/internal/catalog"
	"github.com/lecternhq/lectern/internal/config"
	"github.com/lecternhq/lectern/internal/prompts"
	"github.com/lecternhq/lectern/internal/providers"
)

// ErrNoProviders is returned when no LLM provider is available.
var ErrNoProviders = errors.New("no LLM providers configured")

// ResourceCollector gathers the resources feeding a request.
type ResourceCollector interface {
	Collect(ctx context.Context, req catalog.CollectRequest) ([]catalog.Resource, error)
}

// ArtifactStore persists artifacts and serves the dedup window.
type ArtifactStore interface {
	// Save persists the artifact under its idempotency key and returns
	// the document ID.
	Save(ctx context.Context, key string, a *Artifact) (string, error)
	// FindRecent returns an artifact persisted under the key within the
	// window, or nil.
	FindRecent(ctx context.Context, t ContentType, key string, window time.Duration) (*Artifact, error)
}

// StatsRecorder counts successful generations per user.
type StatsRecorder interface {
	Record(userID string, t ContentType)
}

// Pipeline runs generation end to end.
type Pipeline struct {
	collector ResourceCollector
	registry  *providers.Registry
	artifacts ArtifactStore
	stats     StatsRecorder
	configMgr *config.Manager
	logger    *slog.Logger
}

// PipelineConfig wires the pipeline's dependencies. Stats is optional.
type PipelineConfig struct {
	Collector ResourceCollector
	Registry  *providers.Registry
	Artifacts ArtifactStore
	Stats     StatsRecorder
	ConfigMgr *config.Manager
	Logger    *slog.Logger
}

// NewPipeline creates a generation pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		collector: cfg.Collector,
		registry:  cfg.Registry,
		artifacts: cfg.Artifacts,
		stats:     cfg.Stats,
		configMgr: cfg.ConfigMgr,
		logger:    logger,
	}
}

// Generate runs the full pipeline for one request.
func (p *Pipeline) Generate(ctx context.Context, opts *Options) (*Artifact, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Class == catalog.AllClasses {
		opts.Class = ""
	}

	policy := p.policy()
	key := opts.IdempotencyKey()

	// Serve an identical recent request from the store instead of
	// generating again.
	if p.artifacts != nil && policy.DedupWindow > 0 {
		recent, err := p.artifacts.FindRecent(ctx, opts.Type, key, policy.DedupWindow)
		if err != nil {
			p.logger.Warn("dedup lookup failed", "error", err)
		} else if recent != nil {
			recent.Reused = true
			p.logger.Info("reusing recent artifact",
				"type", opts.Type, "doc_id", recent.DocID)
			return recent, nil
		}
	}

	resources, err := p.collector.Collect(ctx, catalog.CollectRequest{
		UserID:   opts.UserID,
		Class:    opts.Class,
		Subject:  opts.Subject,
		Book:     opts.Book,
		Chapters: opts.Chapters,
	})
	if err != nil {
		return nil, err
	}

	system, user, err := p.buildPrompts(opts, resources)
	if err != nil {
		return nil, err
	}

	artifact, err := p.callAndParse(ctx, opts, system, user, policy.LLMTimeout)
	if err != nil {
		return nil, err
	}

	p.persist(ctx, key, artifact)
	if p.stats != nil && artifact.Outcome != OutcomeDefaulted {
		p.stats.Record(opts.UserID, opts.Type)
	}
	return artifact, nil
}

// buildPrompts converts the request and collected resources into prompts.
func (p *Pipeline) buildPrompts(opts *Options, resources []catalog.Resource) (string, string, error) {
	in := prompts.Input{
		Class:    opts.Class,
		Subject:  opts.Subject,
		Book:     opts.Book,
		Chapters: opts.Chapters,
	}
	for _, r := range resources {
		in.Resources = append(in.Resources, prompts.ResourceRef{
			Title:       r.Title,
			Description: r.Description,
			Chapter:     r.Chapter,
			PageCount:   r.PageCount,
		})
	}
	if opts.LessonPlan != nil {
		in.LessonPlan = &prompts.LessonPlanInput{
			Format:              opts.LessonPlan.Format,
			ClassPeriods:        opts.LessonPlan.ClassPeriods,
			LearningObjectives:  opts.LessonPlan.LearningObjectives,
			AdditionalResources: opts.LessonPlan.AdditionalResources,
		}
	}
	if opts.QuestionSet != nil {
		in.QuestionSet = &prompts.QuestionSetInput{
			Difficulty:     opts.QuestionSet.Difficulty,
			Counts:         opts.QuestionSet.Counts,
			IncludeAnswers: opts.QuestionSet.IncludeAnswers,
		}
	}
	if opts.Presentation != nil {
		in.Presentation = &prompts.PresentationInput{
			SlideCount: opts.Presentation.SlideCount,
			Style:      opts.Presentation.Style,
		}
	}
	if opts.Notes != nil {
		in.Notes = &prompts.NotesInput{
			Format: opts.Notes.Format,
			Detail: opts.Notes.Detail,
		}
	}

	return prompts.Build(string(opts.Type), in)
}

// callAndParse tries each configured provider in order, then parses the
// first successful response. A model output that cannot be parsed, or a
// timeout reaching any provider, produces a defaulted artifact rather
// than an error; credential and provider-side errors propagate.
func (p *Pipeline) callAndParse(ctx context.Context, opts *Options, system, user string, timeout time.Duration) (*Artifact, error) {
	clients := p.registry.Order()
	if len(clients) == 0 {
		return nil, ErrNoProviders
	}

	req := &providers.CompletionRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		JSONMode:     true,
		Timeout:      timeout,
	}

	var result *providers.CompletionResult
	var lastErr error
	for _, client := range clients {
		callCtx := ctx
		var cancel context.CancelFunc
		if timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		result, lastErr = client.Complete(callCtx, req)
		if cancel != nil {
			cancel()
		}
		if lastErr == nil {
			break
		}
		p.logger.Warn("provider call failed",
			"provider", client.Name(), "error", lastErr)
	}

	if lastErr != nil {
		if providers.IsTransportError(lastErr) || errors.Is(lastErr, context.DeadlineExceeded) {
			p.logger.Warn("all providers timed out, building fallback artifact",
				"type", opts.Type)
			a := defaultArtifact(opts)
			a.SystemPrompt = system
			a.UserPrompt = user
			return a, nil
		}
		return nil, fmt.Errorf("generation failed: %w", lastErr)
	}

	parsed := Parse(opts.Type, result.Content)
	if parsed.Outcome == OutcomeDefaulted {
		p.logger.Warn("model output unusable, building fallback artifact",
			"type", opts.Type, "provider", result.Provider)
		a := defaultArtifact(opts)
		a.SystemPrompt = system
		a.UserPrompt = user
		return a, nil
	}

	title := parsed.Title
	if title == "" {
		title = DefaultTitle(opts.Subject, opts.Chapters)
	}

	return &Artifact{
		Type:         opts.Type,
		Title:        title,
		Class:        opts.Class,
		Subject:      opts.Subject,
		Book:         opts.Book,
		Chapters:     append([]string(nil), opts.Chapters...),
		Units:        parsed.Units,
		SystemPrompt: system,
		UserPrompt:   user,
		UserID:       opts.UserID,
		CreatedAt:    time.Now().UTC(),
		Outcome:      parsed.Outcome,
	}, nil
}

// persist saves the artifact. Persistence failures are logged, not
// returned: the caller still gets the generated content.
func (p *Pipeline) persist(ctx context.Context, key string, a *Artifact) {
	if p.artifacts == nil {
		return
	}
	docID, err := p.artifacts.Save(ctx, key, a)
	if err != nil {
		p.logger.Error("failed to persist artifact",
			"type", a.Type, "error", err)
		return
	}
	a.DocID = docID
}

// policy returns the active generation policy with defaults applied.
func (p *Pipeline) policy() config.PolicyCfg {
	policy := config.DefaultConfig().Policy
	if p.configMgr != nil {
		cfg := p.configMgr.Get()
		if cfg.Policy.DedupWindow > 0 {
			policy.DedupWindow = cfg.Policy.DedupWindow
		}
		if cfg.Policy.LLMTimeout > 0 {
			policy.LLMTimeout = cfg.Policy.LLMTimeout
		}
	}
	return policy
}
