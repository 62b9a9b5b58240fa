package generate

import (
	"strings"
	"time"
)

// DefaultTitle builds the fallback title when the model output carries
// none: "Subject - Chapter 1, Chapter 2".
func DefaultTitle(subject string, chapters []string) string {
	return subject + " - " + strings.Join(chapters, ", ")
}

// defaultArtifact builds a minimal valid artifact when nothing usable
// came back from the model in time.
func defaultArtifact(opts *Options) *Artifact {
	return &Artifact{
		Type:     opts.Type,
		Title:    DefaultTitle(opts.Subject, opts.Chapters) + " " + opts.Type.Label(),
		Class:    opts.Class,
		Subject:  opts.Subject,
		Book:     opts.Book,
		Chapters: append([]string(nil), opts.Chapters...),
		Units: []Unit{{
			ID:      1,
			Title:   "Draft",
			Content: "Content could not be generated for this request. Edit this draft or try generating again.",
		}},
		UserID:    opts.UserID,
		CreatedAt: time.Now().UTC(),
		Outcome:   OutcomeDefaulted,
	}
}
