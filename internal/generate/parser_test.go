package generate

import (
	"testing"
)

func TestParse_StrictJSON(t *testing.T) {
	content := `{"title": "Motion Basics", "sections": [
		{"id": 1, "title": "Objectives", "content": "State the laws of motion."},
		{"id": 2, "title": "Warm-up", "content": "Quick recap quiz."}
	]}`

	result := Parse(TypeLessonPlan, content)
	if result.Outcome != OutcomeStrict {
		t.Errorf("Outcome = %s, want strict", result.Outcome)
	}
	if result.Title != "Motion Basics" {
		t.Errorf("Title = %s", result.Title)
	}
	if len(result.Units) != 2 {
		t.Fatalf("len(Units) = %d, want 2", len(result.Units))
	}
	if result.Units[0].ID != 1 || result.Units[1].ID != 2 {
		t.Errorf("IDs = %d, %d", result.Units[0].ID, result.Units[1].ID)
	}
}

func TestParse_CodeFences(t *testing.T) {
	content := "```json\n" + `{"title": "T", "slides": [{"id": 1, "title": "Intro", "content": "Hello"}]}` + "\n```"

	result := Parse(TypePresentation, content)
	if result.Outcome != OutcomeExtracted {
		t.Errorf("Outcome = %s, want extracted", result.Outcome)
	}
	if len(result.Units) != 1 {
		t.Fatalf("len(Units) = %d, want 1", len(result.Units))
	}
}

func TestParse_ProseWrapped(t *testing.T) {
	content := `Here is your question set:
{"title": "Quiz", "questions": [{"id": 1, "title": "MCQ 1", "content": "What is force?", "options": ["a push or pull", "a color"], "answer": "a push or pull"}]}
Hope this helps!`

	result := Parse(TypeQuestionSet, content)
	if result.Outcome != OutcomeExtracted {
		t.Errorf("Outcome = %s, want extracted", result.Outcome)
	}
	if len(result.Units) != 1 {
		t.Fatalf("len(Units) = %d", len(result.Units))
	}
	u := result.Units[0]
	if len(u.Options) != 2 {
		t.Errorf("Options = %v", u.Options)
	}
	if u.Answer != "a push or pull" {
		t.Errorf("Answer = %s", u.Answer)
	}
}

func TestParse_Garbage(t *testing.T) {
	for _, content := range []string{"", "not json at all", "{broken", `{"title": "T"}`} {
		result := Parse(TypeNotes, content)
		if result.Outcome != OutcomeDefaulted {
			t.Errorf("Parse(%q).Outcome = %s, want defaulted", content, result.Outcome)
		}
	}
}

func TestParse_RenumbersIDs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing ids", `{"title": "T", "notes": [{"title": "A", "content": "x"}, {"title": "B", "content": "y"}]}`},
		{"duplicate ids", `{"title": "T", "notes": [{"id": 1, "title": "A", "content": "x"}, {"id": 1, "title": "B", "content": "y"}]}`},
		{"gapped ids", `{"title": "T", "notes": [{"id": 3, "title": "A", "content": "x"}, {"id": 9, "title": "B", "content": "y"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(TypeNotes, tt.content)
			if len(result.Units) != 2 {
				t.Fatalf("len(Units) = %d", len(result.Units))
			}
			for i, u := range result.Units {
				if u.ID != i+1 {
					t.Errorf("Units[%d].ID = %d, want %d", i, u.ID, i+1)
				}
			}
		})
	}
}

func TestParse_GenericUnitsKey(t *testing.T) {
	content := `{"title": "T", "units": [{"id": 1, "title": "A", "content": "x"}]}`

	result := Parse(TypeLessonPlan, content)
	if len(result.Units) != 1 {
		t.Fatalf("len(Units) = %d, generic units key not accepted", len(result.Units))
	}
	// Wrong key means it was not strictly conforming
	if result.Outcome == OutcomeStrict {
		t.Error("generic key should not count as strict")
	}
}

func TestParse_RepairsPartialUnits(t *testing.T) {
	content := `{"title": "T", "sections": [
		{"id": 1, "title": "Only a title"},
		{"id": 2, "content": "only content"}
	]}`

	result := Parse(TypeLessonPlan, content)
	if len(result.Units) != 2 {
		t.Fatalf("len(Units) = %d, want 2", len(result.Units))
	}

	if result.Units[0].Content != "No content generated." {
		t.Errorf("Units[0].Content = %q, want placeholder", result.Units[0].Content)
	}
	if result.Units[1].Title != "Section 2" {
		t.Errorf("Units[1].Title = %q, want synthesized title", result.Units[1].Title)
	}
	for i, u := range result.Units {
		if u.Title == "" || u.Content == "" {
			t.Errorf("Units[%d] has an empty field after repair: %+v", i, u)
		}
	}
	if result.Outcome == OutcomeStrict {
		t.Error("repaired units should not count as strict")
	}
}

func TestParse_RepairedTitlesUsePerTypeNoun(t *testing.T) {
	content := `{"title": "T", "questions": [{"id": 1, "content": "What is force?"}]}`

	result := Parse(TypeQuestionSet, content)
	if len(result.Units) != 1 {
		t.Fatalf("len(Units) = %d", len(result.Units))
	}
	if result.Units[0].Title != "Question 1" {
		t.Errorf("Title = %q, want %q", result.Units[0].Title, "Question 1")
	}
}

func TestParse_SkipsEmptyUnits(t *testing.T) {
	content := `{"title": "T", "sections": [
		{"id": 1, "title": "", "content": ""},
		{"id": 2, "title": "Real", "content": "body"}
	]}`

	result := Parse(TypeLessonPlan, content)
	if len(result.Units) != 1 {
		t.Fatalf("len(Units) = %d, want 1", len(result.Units))
	}
	if result.Units[0].ID != 1 {
		t.Error("surviving unit should be renumbered from 1")
	}
}

func TestDefaultTitle(t *testing.T) {
	got := DefaultTitle("Physics", []string{"Motion", "Forces"})
	want := "Physics - Motion, Forces"
	if got != want {
		t.Errorf("DefaultTitle() = %q, want %q", got, want)
	}
}

func TestIdempotencyKey_ChapterOrderInsensitive(t *testing.T) {
	a := &Options{Type: TypeNotes, Subject: "Physics", Book: "P9", Chapters: []string{"A", "B"}}
	b := &Options{Type: TypeNotes, Subject: "Physics", Book: "P9", Chapters: []string{"B", "A"}}

	if a.IdempotencyKey() != b.IdempotencyKey() {
		t.Error("chapter order should not change the key")
	}

	c := &Options{Type: TypeNotes, Subject: "Physics", Book: "P9", Chapters: []string{"A"}}
	if a.IdempotencyKey() == c.IdempotencyKey() {
		t.Error("different chapters should change the key")
	}
}

func TestOptionsValidate(t *testing.T) {
	valid := &Options{Type: TypeLessonPlan, Subject: "S", Book: "B", Chapters: []string{"C"}}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	// Book narrows the selection when present but is never required.
	bookless := &Options{Type: TypeNotes, Subject: "Physics", Chapters: []string{"Motion"}}
	if err := bookless.Validate(); err != nil {
		t.Errorf("Validate() without book error = %v", err)
	}

	tests := []struct {
		name string
		opts Options
	}{
		{"bad type", Options{Type: "poem", Subject: "S", Book: "B", Chapters: []string{"C"}}},
		{"no subject", Options{Type: TypeNotes, Book: "B", Chapters: []string{"C"}}},
		{"no chapters", Options{Type: TypeNotes, Subject: "S", Book: "B"}},
		{"blank chapter", Options{Type: TypeNotes, Subject: "S", Book: "B", Chapters: []string{"  "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
