package ai

import (
	"context"
	"fmt"
	"strings"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry sent to a completion backend.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Options are per-call generation settings.
type Options struct {
	MaxTokens   int
	Temperature float32
}

// Completer defines the contract for chat completion backends.
// Implementations return the reply text; an empty string means the model produced nothing.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
	Name() string
}

// NewCompleter builds the backend selected by provider ("openai" or "gemini").
// An empty model picks the provider default.
func NewCompleter(ctx context.Context, provider, apiKey, model string) (Completer, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIProvider(apiKey, model), nil
	case "gemini":
		p, err := NewGeminiProvider(ctx, apiKey, model)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", provider)
	}
}
