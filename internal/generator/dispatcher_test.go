package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccastromar/backend-code-generator/internal/config"
	"github.com/ccastromar/backend-code-generator/internal/form"
	"github.com/ccastromar/backend-code-generator/internal/llm"
)

type fakeLLM struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeLLM) Ping(ctx context.Context) error { return nil }

func (f *fakeLLM) Chat(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

var inputs = form.Inputs{TechStack: "Go", DBSchema: "users(id)", APIDesc: "GET /users"}

func TestGenerate_ReturnsContent(t *testing.T) {
	c := &fakeLLM{out: "X"}
	d := NewDispatcher(c, config.DefaultPrompt())

	out, err := d.Generate(context.Background(), inputs)
	require.NoError(t, err)
	require.Equal(t, "X", out)
	require.Len(t, c.prompts, 1)
	require.Equal(t, BuildPrompt(config.DefaultPrompt(), inputs), c.prompts[0])
}

func TestGenerate_NoContentBecomesPlaceholder(t *testing.T) {
	d := NewDispatcher(&fakeLLM{err: llm.ErrNoContent}, config.DefaultPrompt())

	out, err := d.Generate(context.Background(), inputs)
	require.NoError(t, err)
	require.Equal(t, "No response generated", out)
}

func TestGenerate_FailureHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:1234: connect: connection refused")
	d := NewDispatcher(&fakeLLM{err: cause}, config.DefaultPrompt())

	out, err := d.Generate(context.Background(), inputs)
	require.Empty(t, out)
	require.EqualError(t, err, "Failed to generate code. Please check your inputs and try again.")
	require.ErrorIs(t, err, cause)

	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
}

func TestGenerate_ResubmitIsIndependent(t *testing.T) {
	c := &fakeLLM{err: errors.New("down")}
	d := NewDispatcher(c, config.DefaultPrompt())

	_, err := d.Generate(context.Background(), inputs)
	require.Error(t, err)

	c.err, c.out = nil, "second"
	out, err := d.Generate(context.Background(), inputs)
	require.NoError(t, err)
	require.Equal(t, "second", out)
	require.Len(t, c.prompts, 2)
	require.Equal(t, c.prompts[0], c.prompts[1])
}

func TestApply_MapsOutcomeOntoState(t *testing.T) {
	st := &form.State{}
	st.SetInputs(inputs)

	_, err := st.Begin()
	require.NoError(t, err)
	require.NoError(t, Apply(st, "X", nil))
	require.Equal(t, form.Success, st.Status())
	require.Equal(t, "X", st.Output())
	require.False(t, st.Loading())

	_, err = st.Begin()
	require.NoError(t, err)
	require.NoError(t, Apply(st, "", context.DeadlineExceeded))
	require.Equal(t, form.Failed, st.Status())
	require.Equal(t, FailureMessage, st.ErrorMessage())
	require.Empty(t, st.Output())
	require.False(t, st.Loading())
}

func TestApply_RequiresLoading(t *testing.T) {
	st := &form.State{}
	require.ErrorIs(t, Apply(st, "X", nil), form.ErrNotLoading)
}
