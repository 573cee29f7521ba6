// Package completions fakes the two endpoints of an OpenAI-compatible local
// model server that the generator talks to.
package completions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ccastromar/backend-code-generator/internal/logx"
)

// Markers recognised anywhere in the prompt.
const (
	MarkerEmpty = "#mock-empty" // answer without choices
	MarkerFail  = "#mock-fail"  // answer 500
)

var (
	reLanguage = regexp.MustCompile(`using ([^\n]+)\.\n`)
	reFile     = regexp.MustCompile("File: path/to/file\\.(\\S+)\n```(\\S*)\n([^\n]*)\n")
)

type Options struct {
	Model  string
	APIKey string
}

func RegisterHandlers(mux *http.ServeMux, opts Options) {
	mux.HandleFunc("/v1/models", listModels(opts))
	mux.HandleFunc("/v1/chat/completions", chatCompletions(opts))
}

func authorized(r *http.Request, key string) bool {
	return key == "" || r.Header.Get("Authorization") == "Bearer "+key
}

func listModels(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, opts.APIKey) {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": opts.Model, "object": "model", "owned_by": "mock-llm"},
			},
		})
	}
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
}

func chatCompletions(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if !authorized(r, opts.APIKey) {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			writeError(w, http.StatusBadRequest, "messages are required")
			return
		}
		prompt := req.Messages[len(req.Messages)-1].Content
		logx.Info("MockLLM", "chat request model=%s temperature=%.2f prompt_bytes=%d", req.Model, req.Temperature, len(prompt))

		resp := map[string]any{
			"id":      "chatcmpl-" + uuid.NewString(),
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   req.Model,
		}
		switch {
		case strings.Contains(prompt, MarkerFail):
			writeError(w, http.StatusInternalServerError, "mock failure requested")
			return
		case strings.Contains(prompt, MarkerEmpty):
			resp["choices"] = []any{}
		default:
			resp["choices"] = []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": Answer(prompt)},
			}}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Answer builds a canned file-delimited reply that follows the format the
// prompt asks for.
func Answer(prompt string) string {
	lang, ext, fence, comment := "TypeScript", "ts", "ts", "// code"
	if m := reLanguage.FindStringSubmatch(prompt); m != nil {
		lang = m[1]
	}
	if m := reFile.FindStringSubmatch(prompt); m != nil {
		ext, fence, comment = m[1], m[2], m[3]
	}
	stack := sectionLine(prompt, "TECH STACK:")

	var b strings.Builder
	for _, name := range []string{"src/server", "src/routes"} {
		fmt.Fprintf(&b, "File: %s.%s\n", name, ext)
		fmt.Fprintf(&b, "```%s\n", fence)
		fmt.Fprintf(&b, "%s %s for %s (%s)\n", comment, name, stack, lang)
		b.WriteString("```\n")
	}
	return b.String()
}

// sectionLine returns the line that follows header in prompt.
func sectionLine(prompt, header string) string {
	_, rest, ok := strings.Cut(prompt, header+"\n")
	if !ok {
		return ""
	}
	line, _, _ := strings.Cut(rest, "\n")
	return line
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"message": msg}})
}
