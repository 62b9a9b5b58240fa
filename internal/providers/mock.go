package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailKind     ErrorKind
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string

	// Respond computes the response from the request when set.
	// Takes precedence over ResponseText.
	Respond func(req *CompletionRequest) (string, error)

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Latency:      time.Millisecond,
		ResponseText: `{"title": "mock", "sections": []}`,
		FailKind:     KindProvider,
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Requests returns the number of requests received.
func (c *MockClient) Requests() int {
	return int(c.requestCount.Load())
}

// Complete sends a mock completion request.
func (c *MockClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	if c.ShouldFail {
		return nil, &Error{
			Kind:     c.FailKind,
			Provider: MockClientName,
			Message:  "mock client configured to fail",
		}
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return nil, &Error{
			Kind:     c.FailKind,
			Provider: MockClientName,
			Message:  fmt.Sprintf("mock client failed after %d requests", c.FailAfter),
		}
	}

	// Simulate latency
	select {
	case <-time.After(c.Latency):
	case <-ctx.Done():
		return nil, &Error{
			Kind:     KindTransport,
			Provider: MockClientName,
			Message:  ctx.Err().Error(),
			Err:      ctx.Err(),
		}
	}

	content := c.ResponseText
	if c.Respond != nil {
		var err error
		content, err = c.Respond(req)
		if err != nil {
			return nil, err
		}
	}

	promptTokens := (len(req.SystemPrompt) + len(req.UserPrompt)) / 4
	completionTokens := len(content) / 4

	return &CompletionResult{
		Content:          content,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		ExecutionTime:    time.Since(start),
		Provider:         MockClientName,
		ModelUsed:        req.Model,
	}, nil
}
