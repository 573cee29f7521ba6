package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
)

type EnvVars struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	Port     string `envconfig:"PORT" default:"9090"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`

	// Idle sessions are dropped after this long; that is the only way form state ends.
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"30m"`

	LLMProvider    string  `envconfig:"LLM_PROVIDER" default:"http"`
	LLMBaseURL     string  `envconfig:"LLM_BASE_URL" default:"http://localhost:1234/v1"`
	LLMModel       string  `envconfig:"LLM_MODEL" default:"phi-3.1-mini-4k-instruct"`
	LLMApiKey      string  `envconfig:"LLM_API_KEY" default:"local-key"`
	LLMTemperature float64 `envconfig:"LLM_TEMPERATURE" default:"0.3"`
	// Zero means the completion call may block for as long as the endpoint takes.
	LLMTimeout time.Duration `envconfig:"LLM_TIMEOUT" default:"0s"`

	PromptFile string `envconfig:"PROMPT_FILE"`
}

// LoadEnv reads an optional dotenv file and then the process environment.
func LoadEnv(files ...string) (*EnvVars, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var v EnvVars
	if err := envconfig.Process("", &v); err != nil {
		return nil, err
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

func (v *EnvVars) validate() error {
	switch v.LLMProvider {
	case ProviderHTTP, ProviderOpenAI:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderHTTP, ProviderOpenAI, v.LLMProvider)
	}
	if v.LLMBaseURL == "" {
		return errors.New("LLM_BASE_URL is empty")
	}
	if v.LLMModel == "" {
		return errors.New("LLM_MODEL is empty")
	}
	if v.LLMTemperature < 0 || v.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %v", v.LLMTemperature)
	}
	if v.LLMTimeout < 0 {
		return fmt.Errorf("LLM_TIMEOUT must not be negative, got %s", v.LLMTimeout)
	}
	if v.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", v.SessionTTL)
	}
	return nil
}
