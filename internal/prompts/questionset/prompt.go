// Package questionset holds the embedded prompts for question set generation.
package questionset

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

// Data holds the template inputs for the question set user prompt.
type Data struct {
	Class          string
	Subject        string
	Book           string
	Chapters       string
	Resources      string
	Difficulty     string
	Distribution   string
	IncludeAnswers bool
}

// SystemPrompt returns the system prompt for question set generation.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for question set generation.
func UserPrompt(d Data) (string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Prompt keys
const (
	SystemPromptKey = "generate.question_set.system"
	UserPromptKey   = "generate.question_set.user"
)

// RegisterPrompts registers the question set prompts.
func RegisterPrompts(register func(key, text, description string)) {
	register(SystemPromptKey, systemPrompt, "Question set system prompt - structured JSON exam questions")
	register(UserPromptKey, userPromptTmpl, "Question set user prompt template")
}
