// Package generate runs the content generation pipeline: it collects
// curriculum resources, builds prompts, calls the configured LLM
// providers, parses the structured response, and hands the resulting
// artifact off for persistence.
package generate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ContentType identifies what kind of artifact is generated.
type ContentType string

const (
	TypeLessonPlan   ContentType = "lesson_plan"
	TypeQuestionSet  ContentType = "question_set"
	TypePresentation ContentType = "presentation"
	TypeNotes        ContentType = "notes"
)

// ContentTypes lists all supported content types.
var ContentTypes = []ContentType{TypeLessonPlan, TypeQuestionSet, TypePresentation, TypeNotes}

// Valid reports whether the content type is supported.
func (t ContentType) Valid() bool {
	switch t {
	case TypeLessonPlan, TypeQuestionSet, TypePresentation, TypeNotes:
		return true
	}
	return false
}

// Collection returns the document store collection for the type.
func (t ContentType) Collection() string {
	switch t {
	case TypeLessonPlan:
		return "LessonPlan"
	case TypeQuestionSet:
		return "QuestionSet"
	case TypePresentation:
		return "Presentation"
	case TypeNotes:
		return "NotesSet"
	}
	return ""
}

// Label returns the human-readable name for the type.
func (t ContentType) Label() string {
	switch t {
	case TypeLessonPlan:
		return "Lesson Plan"
	case TypeQuestionSet:
		return "Question Set"
	case TypePresentation:
		return "Presentation"
	case TypeNotes:
		return "Notes"
	}
	return string(t)
}

// UnitLabel returns the singular noun for one unit of the type, used
// when a title has to be synthesized for an untitled unit.
func (t ContentType) UnitLabel() string {
	switch t {
	case TypeLessonPlan:
		return "Section"
	case TypeQuestionSet:
		return "Question"
	case TypePresentation:
		return "Slide"
	case TypeNotes:
		return "Note"
	}
	return "Unit"
}

// UnitKey returns the JSON key the model uses for the type's unit array.
func (t ContentType) UnitKey() string {
	switch t {
	case TypeLessonPlan:
		return "sections"
	case TypeQuestionSet:
		return "questions"
	case TypePresentation:
		return "slides"
	case TypeNotes:
		return "notes"
	}
	return "units"
}

// Unit is one addressable piece of an artifact: a lesson plan section,
// a question, a slide, or a notes topic.
type Unit struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Options []string `json:"options,omitempty"` // multiple-choice answer options
	Answer  string   `json:"answer,omitempty"`  // correct answer when requested
}

// ParseOutcome records how the model output became an artifact.
type ParseOutcome string

const (
	// OutcomeStrict means the output parsed and validated as-is.
	OutcomeStrict ParseOutcome = "strict"
	// OutcomeExtracted means the output needed repair (code fences
	// stripped, JSON span extracted, or lenient field coercion).
	OutcomeExtracted ParseOutcome = "extracted"
	// OutcomeDefaulted means nothing usable was recovered and a
	// fallback artifact was constructed.
	OutcomeDefaulted ParseOutcome = "defaulted"
)

// Artifact is a generated piece of teaching content.
type Artifact struct {
	DocID        string       `json:"id,omitempty"`
	Type         ContentType  `json:"type"`
	Title        string       `json:"title"`
	Class        string       `json:"class"`
	Subject      string       `json:"subject"`
	Book         string       `json:"book"`
	Chapters     []string     `json:"chapters"`
	Units        []Unit       `json:"units"`
	SystemPrompt string       `json:"system_prompt,omitempty"`
	UserPrompt   string       `json:"user_prompt,omitempty"`
	UserID       string       `json:"user_id"`
	CreatedAt    time.Time    `json:"created_at"`
	Outcome      ParseOutcome `json:"outcome,omitempty"`
	Reused       bool         `json:"reused,omitempty"` // true when served from the dedup window
}

// Options is a generation request.
type Options struct {
	Type     ContentType `json:"type"`
	UserID   string      `json:"user_id"`
	Class    string      `json:"class"`
	Subject  string      `json:"subject"`
	Book     string      `json:"book"`
	Chapters []string    `json:"chapters"`

	LessonPlan   *LessonPlanParams   `json:"lesson_plan,omitempty"`
	QuestionSet  *QuestionSetParams  `json:"question_set,omitempty"`
	Presentation *PresentationParams `json:"presentation,omitempty"`
	Notes        *NotesParams        `json:"notes,omitempty"`
}

// LessonPlanParams are the lesson plan knobs.
type LessonPlanParams struct {
	Format              string `json:"format,omitempty"`
	ClassPeriods        int    `json:"class_periods,omitempty"`
	LearningObjectives  string `json:"learning_objectives,omitempty"`
	AdditionalResources string `json:"additional_resources,omitempty"`
}

// QuestionSetParams are the question set knobs.
type QuestionSetParams struct {
	Difficulty     string         `json:"difficulty,omitempty"`
	Counts         map[string]int `json:"counts,omitempty"`
	IncludeAnswers bool           `json:"include_answers,omitempty"`
}

// PresentationParams are the presentation knobs.
type PresentationParams struct {
	SlideCount int    `json:"slide_count,omitempty"`
	Style      string `json:"style,omitempty"`
}

// NotesParams are the notes knobs.
type NotesParams struct {
	Format string `json:"format,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Validate checks that the request is complete enough to run.
func (o *Options) Validate() error {
	if !o.Type.Valid() {
		return fmt.Errorf("unsupported content type: %q", o.Type)
	}
	if o.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if len(o.Chapters) == 0 {
		return fmt.Errorf("at least one chapter is required")
	}
	for _, ch := range o.Chapters {
		if strings.TrimSpace(ch) == "" {
			return fmt.Errorf("chapter names cannot be blank")
		}
	}
	return nil
}

// IdempotencyKey returns a stable hash of the request. Chapter order
// does not affect the key.
func (o *Options) IdempotencyKey() string {
	chapters := append([]string(nil), o.Chapters...)
	sort.Strings(chapters)

	canonical := struct {
		Type         ContentType         `json:"type"`
		UserID       string              `json:"user_id"`
		Class        string              `json:"class"`
		Subject      string              `json:"subject"`
		Book         string              `json:"book"`
		Chapters     []string            `json:"chapters"`
		LessonPlan   *LessonPlanParams   `json:"lesson_plan,omitempty"`
		QuestionSet  *QuestionSetParams  `json:"question_set,omitempty"`
		Presentation *PresentationParams `json:"presentation,omitempty"`
		Notes        *NotesParams        `json:"notes,omitempty"`
	}{
		Type:         o.Type,
		UserID:       o.UserID,
		Class:        o.Class,
		Subject:      o.Subject,
		Book:         o.Book,
		Chapters:     chapters,
		LessonPlan:   o.LessonPlan,
		QuestionSet:  o.QuestionSet,
		Presentation: o.Presentation,
		Notes:        o.Notes,
	}

	b, err := json.Marshal(canonical)
	if err != nil {
		// Options only contains marshalable fields; this cannot happen.
		return ""
	}
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
