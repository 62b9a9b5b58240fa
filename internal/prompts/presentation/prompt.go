// Package presentation holds the embedded prompts for presentation generation.
package presentation

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// Data holds the template inputs for the presentation user prompt.
type Data struct {
	Class      string
	Subject    string
	Book       string
	Chapters   string
	Resources  string
	SlideCount int
	Style      string
}

// SystemPrompt returns the system prompt for presentation generation.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for presentation generation.
func UserPrompt(d Data) (string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Prompt keys
const (
	SystemPromptKey = "generate.presentation.system"
	UserPromptKey   = "generate.presentation.user"
)

// RegisterPrompts registers the presentation prompts.
func RegisterPrompts(register func(key, text, description string)) {
	register(SystemPromptKey, systemPrompt, "Presentation system prompt - structured JSON slide deck")
	register(UserPromptKey, userPromptTmpl, "Presentation user prompt template")
}
