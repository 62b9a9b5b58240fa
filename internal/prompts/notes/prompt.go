// Package notes holds the embedded prompts for study notes generation.
package notes

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

// Data holds the template inputs for the notes user prompt.
type Data struct {
	Class     string
	Subject   string
	Book      string
	Chapters  string
	Resources string
	Format    string
	Detail    string
}

// SystemPrompt returns the system prompt for notes generation.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for notes generation.
func UserPrompt(d Data) (string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Prompt keys
const (
	SystemPromptKey = "generate.notes.system"
	UserPromptKey   = "generate.notes.user"
)

// RegisterPrompts registers the notes prompts.
func RegisterPrompts(register func(key, text, description string)) {
	register(SystemPromptKey, systemPrompt, "Study notes system prompt - structured JSON revision notes")
	register(UserPromptKey, userPromptTmpl, "Study notes user prompt template")
}
