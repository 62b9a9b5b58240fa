// Package prompts builds the system and user prompts for content
// generation. Embedded .tmpl files in each content-type subpackage are
// the source of truth; building a prompt is deterministic, so identical
// inputs always produce identical prompt text.
package prompts

import (
	"sort"
	"sync"
)

// EmbeddedPrompt represents a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string   // Hierarchical key: generate.lesson_plan.system
	Text        string   // The prompt text (Go template)
	Description string   // Human-readable description
	Variables   []string // Extracted template variables
	Hash        string   // SHA256 hash of the text for change detection
}

// Registry holds embedded prompts for listing and inspection.
type Registry struct {
	mu       sync.RWMutex
	embedded map[string]EmbeddedPrompt
}

// NewRegistry creates an empty prompt registry.
func NewRegistry() *Registry {
	return &Registry{embedded: make(map[string]EmbeddedPrompt)}
}

// Register registers an embedded prompt, computing its hash and
// variables when not provided.
func (r *Registry) Register(prompt EmbeddedPrompt) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prompt.Hash == "" {
		prompt.Hash = HashText(prompt.Text)
	}
	if prompt.Variables == nil {
		prompt.Variables = ExtractVariables(prompt.Text)
	}
	r.embedded[prompt.Key] = prompt
}

// Get returns an embedded prompt by key.
func (r *Registry) Get(key string) (EmbeddedPrompt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.embedded[key]
	return p, ok
}

// All returns all registered prompts sorted by key.
func (r *Registry) All() []EmbeddedPrompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]EmbeddedPrompt, 0, len(r.embedded))
	for _, p := range r.embedded {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// Input carries everything a prompt build needs. The per-type parameter
// structs are set for the matching content type only.
type Input struct {
	Class    string
	Subject  string
	Book     string
	Chapters []string

	// Resources is the curriculum material feeding the prompt.
	Resources []ResourceRef

	LessonPlan   *LessonPlanInput
	QuestionSet  *QuestionSetInput
	Presentation *PresentationInput
	Notes        *NotesInput
}

// ResourceRef describes one collected resource for prompt context.
type ResourceRef struct {
	Title       string
	Description string
	Chapter     string
	PageCount   int
}

// LessonPlanInput holds lesson plan generation parameters.
type LessonPlanInput struct {
	Format              string
	ClassPeriods        int
	LearningObjectives  string
	AdditionalResources string
}

// QuestionSetInput holds question set generation parameters.
type QuestionSetInput struct {
	Difficulty     string
	Counts         map[string]int // question kind -> count, e.g. "mcq" -> 5
	IncludeAnswers bool
}

// PresentationInput holds presentation generation parameters.
type PresentationInput struct {
	SlideCount int
	Style      string
}

// NotesInput holds notes generation parameters.
type NotesInput struct {
	Format string
	Detail string
}
