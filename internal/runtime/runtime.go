// Package runtime holds what the readiness probe needs to know about the
// running process.
package runtime

import (
	"github.com/ccastromar/backend-code-generator/internal/llm"
)

type Runtime struct {
	// PromptLoaded is false when PROMPT_FILE was set but could not be read.
	PromptLoaded bool
	LLMClient    llm.LLMClient
}
