// Package generator turns the form inputs into one chat-completion request
// and maps the answer back onto the form.
package generator

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ccastromar/backend-code-generator/internal/config"
	"github.com/ccastromar/backend-code-generator/internal/form"
	"github.com/ccastromar/backend-code-generator/internal/llm"
	"github.com/ccastromar/backend-code-generator/internal/logx"
	"github.com/ccastromar/backend-code-generator/internal/metrics"
)

const (
	// FailureMessage is the only failure text users ever see.
	FailureMessage = "Failed to generate code. Please check your inputs and try again."
	// NoResponse replaces a completion that carried no content.
	NoResponse = "No response generated"
)

// GenerationError hides the cause behind FailureMessage; errors.Unwrap
// still reaches it for logging.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string { return FailureMessage }
func (e *GenerationError) Unwrap() error { return e.Cause }

type Generator interface {
	Generate(ctx context.Context, in form.Inputs) (string, error)
}

type Dispatcher struct {
	client llm.LLMClient
	prompt config.Prompt
}

var _ Generator = (*Dispatcher)(nil)

func NewDispatcher(client llm.LLMClient, prompt config.Prompt) *Dispatcher {
	return &Dispatcher{client: client, prompt: prompt}
}

// Generate performs exactly one completion call. Results are never cached,
// so identical inputs always produce a fresh request.
func (d *Dispatcher) Generate(ctx context.Context, in form.Inputs) (string, error) {
	log := logx.FromContext(ctx)
	timer := logx.Start("Generator", "chat")

	out, err := d.client.Chat(ctx, BuildPrompt(d.prompt, in))
	elapsed := timer.End()

	switch {
	case errors.Is(err, llm.ErrNoContent):
		metrics.Generations.Inc(map[string]string{"outcome": "placeholder"})
		log.Warn("completion carried no content", zap.Duration("elapsed", elapsed))
		return NoResponse, nil
	case err != nil:
		metrics.Generations.Inc(map[string]string{"outcome": "failed"})
		log.Error("code generation failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return "", &GenerationError{Cause: err}
	}

	metrics.Generations.Inc(map[string]string{"outcome": "success"})
	log.Info("code generated", zap.Int("output_length", len(out)), zap.Duration("elapsed", elapsed))
	return out, nil
}

// Apply records the outcome of Generate on st, which must be Loading.
// Every error becomes FailureMessage.
func Apply(st *form.State, out string, err error) error {
	if err != nil {
		return st.Reject(FailureMessage)
	}
	return st.Resolve(out)
}
