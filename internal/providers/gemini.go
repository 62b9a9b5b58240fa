package providers

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"
)

const (
	GeminiClientName   = "gemini"
	defaultGeminiModel = "gemini-2.0-flash"
)

// GeminiClient implements LLMClient using the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	name        string
	model       string
	temperature float64
	maxTokens   int
}

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	Name        string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, &Error{
			Kind:     KindCredential,
			Provider: GeminiClientName,
			Message:  "API key is required",
		}
	}
	if cfg.Name == "" {
		cfg.Name = GeminiClientName
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &Error{
			Kind:     KindTransport,
			Provider: cfg.Name,
			Message:  err.Error(),
			Err:      err,
		}
	}

	return &GeminiClient{
		client:      client,
		name:        cfg.Name,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return c.name
}

// Complete sends a content generation request.
func (c *GeminiClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}

	genCfg := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if temp := pickFloat(req.Temperature, c.temperature); temp > 0 {
		genCfg.Temperature = genai.Ptr(float32(temp))
	}
	if tokens := pickInt(req.MaxTokens, c.maxTokens); tokens > 0 {
		genCfg.MaxOutputTokens = int32(tokens)
	}
	if req.JSONMode {
		genCfg.ResponseMIMEType = "application/json"
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.UserPrompt), genCfg)
	if err != nil {
		return nil, c.mapError(err)
	}

	result := &CompletionResult{
		Content:       resp.Text(),
		ExecutionTime: time.Since(start),
		Provider:      c.name,
		ModelUsed:     model,
	}
	if resp.UsageMetadata != nil {
		result.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		result.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return result, nil
}

// mapError classifies a Gemini SDK error.
func (c *GeminiClient) mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Kind:       kindForStatus(apiErr.Code),
			Provider:   c.name,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{
			Kind:     KindTransport,
			Provider: c.name,
			Message:  err.Error(),
			Err:      err,
		}
	}
	return &Error{
		Kind:     KindTransport,
		Provider: c.name,
		Message:  err.Error(),
		Err:      err,
	}
}
