package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	OpenAIClientName   = "openai"
	defaultOpenAIModel = "gpt-4o"
)

// OpenAIClient implements LLMClient using the OpenAI chat completions API.
type OpenAIClient struct {
	client      openai.Client
	name        string
	model       string
	temperature float64
	maxTokens   int
}

// OpenAIConfig configures the OpenAI client.
type OpenAIConfig struct {
	Name        string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, &Error{
			Kind:     KindCredential,
			Provider: OpenAIClientName,
			Message:  "API key is required",
		}
	}
	if cfg.Name == "" {
		cfg.Name = OpenAIClientName
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}

	return &OpenAIClient{
		client:      openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		name:        cfg.Name,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return c.name
}

// Complete sends a chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
	}

	if temp := pickFloat(req.Temperature, c.temperature); temp > 0 {
		params.Temperature = openai.Float(temp)
	}
	if tokens := pickInt(req.MaxTokens, c.maxTokens); tokens > 0 {
		params.MaxTokens = openai.Int(int64(tokens))
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	var opts []option.RequestOption
	if req.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(req.Timeout))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return nil, c.mapError(err)
	}

	if len(completion.Choices) == 0 {
		return nil, &Error{
			Kind:     KindProvider,
			Provider: c.name,
			Message:  "no choices in response",
		}
	}

	return &CompletionResult{
		Content:          completion.Choices[0].Message.Content,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
		ExecutionTime:    time.Since(start),
		Provider:         c.name,
		ModelUsed:        completion.Model,
	}, nil
}

// mapError classifies an OpenAI SDK error.
func (c *OpenAIClient) mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &Error{
			Kind:       kindForStatus(apiErr.StatusCode),
			Provider:   c.name,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{
			Kind:     KindTransport,
			Provider: c.name,
			Message:  fmt.Sprintf("request aborted: %v", err),
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

func pickFloat(reqVal, defVal float64) float64 {
	if reqVal > 0 {
		return reqVal
	}
	return defVal
}

func pickInt(reqVal, defVal int) int {
	if reqVal > 0 {
		return reqVal
	}
	return defVal
}
