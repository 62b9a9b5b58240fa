// Package providers holds the LLM clients used for content generation
// and the registry that instantiates them from configuration.
package providers

import (
	"context"
	"time"
)

// LLMClient is the interface for chat/completion requests.
type LLMClient interface {
	// Complete sends a completion request and returns the model output.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// CompletionRequest is a request to an LLM.
type CompletionRequest struct {
	// Prompts
	SystemPrompt string `json:"system_prompt"`
	UserPrompt   string `json:"user_prompt"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Timeout     time.Duration `json:"-"`

	// JSONMode asks the model to emit a JSON object.
	JSONMode bool `json:"json_mode,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// CompletionResult is the response from an LLM call.
type CompletionResult struct {
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`
}
