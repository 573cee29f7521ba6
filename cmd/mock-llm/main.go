package main

import (
	"flag"
	"net/http"

	"github.com/ccastromar/backend-code-generator/internal/logx"
	"github.com/ccastromar/backend-code-generator/internal/mocks/completions"
)

var listenAndServe = http.ListenAndServe

func buildMux(opts completions.Options) *http.ServeMux {
	mux := http.NewServeMux()
	completions.RegisterHandlers(mux, opts)
	return mux
}

func main() {
	addr := flag.String("addr", ":1234", "listen address")
	model := flag.String("model", "phi-3.1-mini-4k-instruct", "model id to advertise")
	key := flag.String("key", "local-key", "expected bearer token (empty accepts any)")
	flag.Parse()

	if _, err := logx.Init("info", "dev"); err != nil {
		panic(err)
	}
	defer logx.Sync()

	mux := buildMux(completions.Options{Model: *model, APIKey: *key})
	logx.Info("MockLLM", "listening on %s", *addr)
	if err := listenAndServe(*addr, mux); err != nil {
		logx.Error("MockLLM", "server stopped: %v", err)
	}
}
