package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ccastromar/backend-code-generator/internal/metrics"
)

const providerHTTP = "http"

// OpenAIClient speaks the OpenAI-compatible chat-completions protocol that
// local model servers expose, without any SDK in between.
type OpenAIClient struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	HTTP        *http.Client
	// Timeout bounds Chat; zero means no deadline.
	Timeout time.Duration
}

// Compile-time interface conformance
var _ LLMClient = (*OpenAIClient)(nil)

func NewOpenAIClient(opts Options) *OpenAIClient {
	return &OpenAIClient{
		BaseURL:     strings.TrimRight(opts.BaseURL, "/"),
		APIKey:      opts.APIKey,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		HTTP:        &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ping lists models; local servers answer it without loading one.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/models", nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.client().Do(req)
	if err != nil {
		metrics.LLMPings.Inc(map[string]string{"provider": providerHTTP, "outcome": "error"})
		return fmt.Errorf("llm ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		metrics.LLMPings.Inc(map[string]string{"provider": providerHTTP, "outcome": "error"})
		return fmt.Errorf("llm ping bad status: %d, body: %s", resp.StatusCode, string(b))
	}

	metrics.LLMPings.Inc(map[string]string{"provider": providerHTTP, "outcome": "ok"})
	return nil
}

// Chat sends prompt as the only user message and returns the first choice.
// Exactly one request is made.
func (c *OpenAIClient) Chat(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client().Do(req)
	if err != nil {
		c.observe("error", start)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		c.observe("error", start)
		return "", fmt.Errorf("llm chat failed: status %d, body: %s", resp.StatusCode, string(b))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.observe("error", start)
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message == nil || result.Choices[0].Message.Content == nil {
		c.observe("empty", start)
		return "", ErrNoContent
	}

	c.observe("ok", start)
	return *result.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) authorize(req *http.Request) {
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
}

func (c *OpenAIClient) client() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *OpenAIClient) observe(outcome string, start time.Time) {
	lbls := map[string]string{"provider": providerHTTP, "outcome": outcome}
	metrics.LLMChats.Inc(lbls)
	metrics.LLMChatDur.Observe(lbls, time.Since(start).Seconds())
}
