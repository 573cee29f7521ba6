package app

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ccastromar/backend-code-generator/internal/config"
	"github.com/ccastromar/backend-code-generator/internal/generator"
	"github.com/ccastromar/backend-code-generator/internal/llm"
	"github.com/ccastromar/backend-code-generator/internal/logx"
	"github.com/ccastromar/backend-code-generator/internal/runtime"
	"github.com/ccastromar/backend-code-generator/internal/ui"
)

const version = "0.1.0"

type App struct {
	env    *config.EnvVars
	prompt config.Prompt
	llm    llm.LLMClient
	gen    *generator.Dispatcher
	ui     *ui.Store
	http   *HTTPServer

	// base outlives every request; generations run on it.
	base context.Context
	stop context.CancelFunc
}

func New(env *config.EnvVars) (*App, error) {
	logger, err := logx.Init(env.LogLevel, env.AppEnv)
	if err != nil {
		return nil, err
	}

	prompt, promptLoaded := config.DefaultPrompt(), true
	if env.PromptFile != "" {
		p, err := config.LoadPrompt(env.PromptFile)
		if err != nil {
			logx.Error("App", "prompt definition not loaded, using defaults: %v", err)
			promptLoaded = false
		} else {
			prompt = p
		}
	}

	llmClient, err := llm.New(env.LLMProvider, llm.Options{
		BaseURL:     env.LLMBaseURL,
		APIKey:      env.LLMApiKey,
		Model:       env.LLMModel,
		Temperature: env.LLMTemperature,
	}, env.LLMTimeout)
	if err != nil {
		return nil, err
	}

	rt := &runtime.Runtime{
		PromptLoaded: promptLoaded,
		LLMClient:    llmClient,
	}

	base, stop := context.WithCancel(context.Background())
	gen := generator.NewDispatcher(llmClient, prompt)

	store, err := ui.NewStore(base, gen, env.SessionTTL)
	if err != nil {
		stop()
		return nil, err
	}

	httpServer := NewHTTPServer(env, logger, store, rt)

	return &App{
		env:    env,
		prompt: prompt,
		llm:    llmClient,
		gen:    gen,
		ui:     store,
		http:   httpServer,
		base:   base,
		stop:   stop,
	}, nil
}

// Run serves HTTP until ctx is cancelled. Generations still in flight at
// shutdown are cancelled and awaited before Run returns.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.http.Start(gctx)
	})

	logx.Info("App", "backend code generator v%s started", version)
	if a.env != nil {
		logx.L().Info("completion endpoint",
			zap.String("provider", a.env.LLMProvider),
			zap.String("base_url", a.env.LLMBaseURL),
			zap.String("model", a.env.LLMModel),
			zap.String("language", a.prompt.Language),
		)
	}

	err := g.Wait()
	if a.stop != nil {
		a.stop()
	}
	if a.ui != nil {
		a.ui.Wait()
	}
	logx.Sync()
	return err
}
