package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lecternhq/lectern/internal/prompts/lessonplan"
	"github.com/lecternhq/lectern/internal/prompts/notes"
	"github.com/lecternhq/lectern/internal/prompts/presentation"
	"github.com/lecternhq/lectern/internal/prompts/questionset"
)

// Build returns the system and user prompts for a content type.
// Builds are deterministic: identical inputs produce identical prompts.
func Build(contentType string, in Input) (system, user string, err error) {
	chapters := strings.Join(in.Chapters, ", ")
	resources := FormatResources(in.Resources)

	switch contentType {
	case "lesson_plan":
		p := in.LessonPlan
		if p == nil {
			p = &LessonPlanInput{}
		}
		user, err = lessonplan.UserPrompt(lessonplan.Data{
			Class:               in.Class,
			Subject:             in.Subject,
			Book:                in.Book,
			Chapters:            chapters,
			Resources:           resources,
			Format:              p.Format,
			ClassPeriods:        p.ClassPeriods,
			LearningObjectives:  p.LearningObjectives,
			AdditionalResources: p.AdditionalResources,
		})
		return lessonplan.SystemPrompt(), user, err
	case "question_set":
		p := in.QuestionSet
		if p == nil {
			p = &QuestionSetInput{}
		}
		user, err = questionset.UserPrompt(questionset.Data{
			Class:          in.Class,
			Subject:        in.Subject,
			Book:           in.Book,
			Chapters:       chapters,
			Resources:      resources,
			Difficulty:     p.Difficulty,
			Distribution:   FormatCounts(p.Counts),
			IncludeAnswers: p.IncludeAnswers,
		})
		return questionset.SystemPrompt(), user, err
	case "presentation":
		p := in.Presentation
		if p == nil {
			p = &PresentationInput{}
		}
		user, err = presentation.UserPrompt(presentation.Data{
			Class:      in.Class,
			Subject:    in.Subject,
			Book:       in.Book,
			Chapters:   chapters,
			Resources:  resources,
			SlideCount: p.SlideCount,
			Style:      p.Style,
		})
		return presentation.SystemPrompt(), user, err
	case "notes":
		p := in.Notes
		if p == nil {
			p = &NotesInput{}
		}
		user, err = notes.UserPrompt(notes.Data{
			Class:     in.Class,
			Subject:   in.Subject,
			Book:      in.Book,
			Chapters:  chapters,
			Resources: resources,
			Format:    p.Format,
			Detail:    p.Detail,
		})
		return notes.SystemPrompt(), user, err
	default:
		return "", "", fmt.Errorf("unknown content type: %s", contentType)
	}
}

// FormatResources renders collected resources as a bulleted block for
// prompt context. Returns a placeholder line when no resources matched.
func FormatResources(refs []ResourceRef) string {
	if len(refs) == 0 {
		return "(no uploaded resources matched; rely on standard curriculum for the selection)"
	}

	var b strings.Builder
	for _, r := range refs {
		b.WriteString("- ")
		b.WriteString(r.Title)
		if r.Chapter != "" {
			fmt.Fprintf(&b, " [chapter: %s]", r.Chapter)
		}
		if r.PageCount > 0 {
			fmt.Fprintf(&b, " (%d pages)", r.PageCount)
		}
		if r.Description != "" {
			b.WriteString(": ")
			b.WriteString(r.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCounts renders a question distribution map in stable order,
// e.g. "5 mcq, 3 short_answer".
func FormatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", counts[kind], kind))
	}
	return strings.Join(parts, ", ")
}

// RegisterAll registers every embedded generation prompt.
func RegisterAll(r *Registry) {
	lessonplan.RegisterPrompts(register(r))
	questionset.RegisterPrompts(register(r))
	presentation.RegisterPrompts(register(r))
	notes.RegisterPrompts(register(r))
}

// register adapts the Registry to the subpackages' registration callback.
func register(r *Registry) func(key, text, description string) {
	return func(key, text, description string) {
		r.Register(EmbeddedPrompt{Key: key, Text: text, Description: description})
	}
}
