// Package lessonplan holds the embedded prompts for lesson plan generation.
package lessonplan

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

// Data holds the template inputs for the lesson plan user prompt.
type Data struct {
	Class               string
	Subject             string
	Book                string
	Chapters            string
	Resources           string
	Format              string
	ClassPeriods        int
	LearningObjectives  string
	AdditionalResources string
}

// SystemPrompt returns the system prompt for lesson plan generation.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for lesson plan generation.
func UserPrompt(d Data) (string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Prompt keys
const (
	SystemPromptKey = "generate.lesson_plan.system"
	UserPromptKey   = "generate.lesson_plan.user"
)

// RegisterPrompts registers the lesson plan prompts.
func RegisterPrompts(register func(key, text, description string)) {
	register(SystemPromptKey, systemPrompt, "Lesson plan system prompt - structured JSON teaching plan")
	register(UserPromptKey, userPromptTmpl, "Lesson plan user prompt template")
}
