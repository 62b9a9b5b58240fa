// Package export renders generated artifacts into downloadable
// documents: Markdown, Word (docx), and PowerPoint (pptx).
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lecternhq/lectern/internal/generate"
)

// Format identifies an export output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatDocx     Format = "docx"
	FormatPptx     Format = "pptx"
)

// ParseFormat validates a format string, defaulting to markdown.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "docx":
		return FormatDocx, nil
	case "pptx":
		return FormatPptx, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPptx:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	}
	return "text/markdown; charset=utf-8"
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatDocx:
		return ".docx"
	case FormatPptx:
		return ".pptx"
	}
	return ".md"
}

// Render produces the artifact in the requested format.
func Render(f Format, a *generate.Artifact) ([]byte, error) {
	switch f {
	case FormatDocx:
		return Docx(a)
	case FormatPptx:
		return Pptx(a)
	}
	return Markdown(a), nil
}

// Markdown renders the artifact as a Markdown document: the title as a
// top-level heading, one section per unit in stored order.
func Markdown(a *generate.Artifact) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", a.Title)
	if line := selectionLine(a); line != "" {
		fmt.Fprintf(&buf, "_%s_\n\n", line)
	}

	for _, u := range a.Units {
		fmt.Fprintf(&buf, "## %d. %s\n\n", u.ID, u.Title)
		if u.Content != "" {
			fmt.Fprintf(&buf, "%s\n\n", u.Content)
		}
		for i, opt := range u.Options {
			fmt.Fprintf(&buf, "%c. %s\n", 'a'+i, opt)
		}
		if len(u.Options) > 0 {
			buf.WriteString("\n")
		}
		if u.Answer != "" {
			fmt.Fprintf(&buf, "**Answer:** %s\n\n", u.Answer)
		}
	}
	return buf.Bytes()
}

// selectionLine summarizes what the artifact was generated for.
func selectionLine(a *generate.Artifact) string {
	parts := []string{}
	if a.Class != "" {
		parts = append(parts, "Class "+a.Class)
	}
	if a.Subject != "" {
		parts = append(parts, a.Subject)
	}
	if a.Book != "" {
		parts = append(parts, a.Book)
	}
	if len(a.Chapters) > 0 {
		parts = append(parts, strings.Join(a.Chapters, ", "))
	}
	return strings.Join(parts, " / ")
}
