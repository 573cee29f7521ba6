package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoContent means the endpoint answered successfully but the body had no
// choices[0].message.content.
var ErrNoContent = errors.New("llm: response has no message content")

type LLMClient interface {
	Ping(ctx context.Context) error
	Chat(ctx context.Context, prompt string) (string, error)
}

// Options shared by every provider.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

// New builds the client for provider ("http" or "openai").
func New(provider string, opts Options, timeout time.Duration) (LLMClient, error) {
	switch provider {
	case providerHTTP:
		c := NewOpenAIClient(opts)
		c.Timeout = timeout
		return c, nil
	case providerOpenAI:
		return NewSDKClient(opts, nil, timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
