package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ccastromar/backend-code-generator/internal/metrics"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const providerOpenAI = "openai"

// SDKClient is the same contract as OpenAIClient built on the official SDK.
// SDK retries are switched off so one submission is one request.
type SDKClient struct {
	client      openai.Client
	model       string
	temperature float64
	timeout     time.Duration
}

var _ LLMClient = (*SDKClient)(nil)

func NewSDKClient(opts Options, httpClient *http.Client, timeout time.Duration) *SDKClient {
	reqOpts := []option.RequestOption{
		option.WithBaseURL(opts.BaseURL),
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(httpClient))
	}
	return &SDKClient{
		client:      openai.NewClient(reqOpts...),
		model:       opts.Model,
		temperature: opts.Temperature,
		timeout:     timeout,
	}
}

func (c *SDKClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if _, err := c.client.Models.List(ctx); err != nil {
		metrics.LLMPings.Inc(map[string]string{"provider": providerOpenAI, "outcome": "error"})
		return fmt.Errorf("llm ping failed: %w", err)
	}
	metrics.LLMPings.Inc(map[string]string{"provider": providerOpenAI, "outcome": "ok"})
	return nil
}

func (c *SDKClient) Chat(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		c.observe("error", start)
		return "", fmt.Errorf("llm chat failed: %w", err)
	}

	if len(completion.Choices) == 0 || !completion.Choices[0].Message.JSON.Content.Valid() {
		c.observe("empty", start)
		return "", ErrNoContent
	}

	c.observe("ok", start)
	return completion.Choices[0].Message.Content, nil
}

func (c *SDKClient) observe(outcome string, start time.Time) {
	lbls := map[string]string{"provider": providerOpenAI, "outcome": outcome}
	metrics.LLMChats.Inc(lbls)
	metrics.LLMChatDur.Observe(lbls, time.Since(start).Seconds())
}
