package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccastromar/backend-code-generator/internal/config"
	"github.com/ccastromar/backend-code-generator/internal/generator"
	"github.com/ccastromar/backend-code-generator/internal/llm"
	"github.com/ccastromar/backend-code-generator/internal/logx"
	"github.com/ccastromar/backend-code-generator/internal/tui"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	logFile := flag.String("log", "codegen-tui.log", "log file")
	flag.Parse()

	if err := run(*envFile, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(envFile, logFile string) error {
	env, err := config.LoadEnv(envFile)
	if err != nil {
		return err
	}
	if _, err := logx.InitFile(env.LogLevel, logFile); err != nil {
		return err
	}
	defer logx.Sync()

	prompt, err := config.LoadPrompt(env.PromptFile)
	if err != nil {
		return err
	}

	client, err := llm.New(env.LLMProvider, llm.Options{
		BaseURL:     env.LLMBaseURL,
		APIKey:      env.LLMApiKey,
		Model:       env.LLMModel,
		Temperature: env.LLMTemperature,
	}, env.LLMTimeout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logx.Info("TUI", "started: provider=%s model=%s language=%s", env.LLMProvider, env.LLMModel, prompt.Language)
	p := tea.NewProgram(tui.New(ctx, generator.NewDispatcher(client, prompt)), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
