package health

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ccastromar/backend-code-generator/internal/logx"
	"github.com/ccastromar/backend-code-generator/internal/runtime"
)

const pingTimeout = 3 * time.Second

// ReadyHandler reports 503 until the prompt is loaded and the completion
// endpoint answers.
func ReadyHandler(rt *runtime.Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rt.PromptLoaded {
			http.Error(w, "prompt not loaded", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := rt.LLMClient.Ping(ctx); err != nil {
			logx.FromContext(r.Context()).Warn("completion endpoint unreachable", zap.Error(err))
			http.Error(w, "llm unreachable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}
