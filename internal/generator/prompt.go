package generator

import (
	"fmt"
	"strings"

	"github.com/ccastromar/backend-code-generator/internal/config"
	"github.com/ccastromar/backend-code-generator/internal/form"
)

var fence = strings.Repeat("`", 3)

// BuildPrompt embeds the three inputs verbatim in the fixed instruction
// template for p's language.
func BuildPrompt(p config.Prompt, in form.Inputs) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "You are a senior backend engineer using %s.\n", p.Language)
	b.WriteString("TECH STACK:\n")
	b.WriteString(in.TechStack + "\n")
	b.WriteString("DB SCHEMA:\n")
	b.WriteString(in.DBSchema + "\n")
	b.WriteString("API DESCRIPTION:\n")
	b.WriteString(in.APIDesc + "\n")
	b.WriteString("Output rules:\n")
	b.WriteString("- Only output code, no explanation.\n")
	b.WriteString("- Output code file-wise.\n")
	b.WriteString("- Use this format exactly:\n")
	fmt.Fprintf(&b, "File: path/to/file.%s\n", p.Extension)
	b.WriteString(fence + p.Fence + "\n")
	b.WriteString(p.Comment + "\n")
	b.WriteString(fence + "\n")
	return b.String()
}
