package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ccastromar/backend-code-generator/internal/app"
	"github.com/ccastromar/backend-code-generator/internal/config"
)

// runner is the minimal interface our app must satisfy for running.
type runner interface{ Run(context.Context) error }

// appCtor is a constructor indirection to enable testing without launching the real app.
var appCtor = func(env *config.EnvVars) (runner, error) { return app.New(env) }

// loadEnv is swapped in tests.
var loadEnv = func(envFile string) (*config.EnvVars, error) { return config.LoadEnv(envFile) }

// fatalf indirection allows testing fatal paths without exiting the test process.
var fatalf = log.Fatalf

func run(ctx context.Context, envFile, port string) {
	env, err := loadEnv(envFile)
	if err != nil {
		fatalf("error loading configuration: %v", err)
		return
	}
	if port != "" {
		env.Port = port
	}

	a, err := appCtor(env)
	if err != nil {
		fatalf("error initializing app: %v", err)
		return
	}
	if err := a.Run(ctx); err != nil {
		fatalf("error running app: %v", err)
		return
	}
}

func main() {
	port := flag.String("port", "", "HTTP port to listen on (overrides PORT)")
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	run(ctx, *envFile, *port)
}
