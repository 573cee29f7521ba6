package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prompt describes the target language of the generated backend code.
type Prompt struct {
	Language  string `yaml:"language"`  // "TypeScript"
	Extension string `yaml:"extension"` // file extension in the example path
	Fence     string `yaml:"fence"`     // info string of the fenced block
	Comment   string `yaml:"comment"`   // placeholder line inside the fence
}

// DefaultPrompt asks for TypeScript.
func DefaultPrompt() Prompt {
	return Prompt{
		Language:  "TypeScript",
		Extension: "ts",
		Fence:     "ts",
		Comment:   "// code",
	}
}

// LoadPrompt reads a prompt definition from a YAML file. An empty path
// yields DefaultPrompt; fields missing in the file keep their defaults.
func LoadPrompt(path string) (Prompt, error) {
	p := DefaultPrompt()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read prompt file: %w", err)
	}

	var raw struct {
		Prompt Prompt `yaml:"prompt"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return p, fmt.Errorf("parse %s: %w", path, err)
	}

	if raw.Prompt.Language != "" {
		p.Language = raw.Prompt.Language
	}
	if raw.Prompt.Extension != "" {
		p.Extension = raw.Prompt.Extension
	}
	if raw.Prompt.Fence != "" {
		p.Fence = raw.Prompt.Fence
	}
	if raw.Prompt.Comment != "" {
		p.Comment = raw.Prompt.Comment
	}
	return p, nil
}
