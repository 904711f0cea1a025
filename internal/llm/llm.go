package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrServiceUnavailable covers transport failures, rate limits and non-2xx
// responses from the completion service. The pipeline never retries it.
var ErrServiceUnavailable = errors.New("completion service unavailable")

// Message is one chat turn sent to the completion service.
type Message struct {
	Role    string
	Content string
}

// Params bound the completion request.
type Params struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// CompletionClient abstracts the external chat-completion service so the
// structuring engine can be tested against canned responses.
type CompletionClient interface {
	Complete(ctx context.Context, messages []Message, params Params) (string, error)
}

// PlaceholderClient is used when no provider is configured; every call fails
// as a service error.
type PlaceholderClient struct{}

// Complete always reports the service as unavailable.
func (PlaceholderClient) Complete(ctx context.Context, messages []Message, params Params) (string, error) {
	_ = ctx
	_ = messages
	_ = params
	return "", fmt.Errorf("%w: no completion provider configured", ErrServiceUnavailable)
}
