package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/lecternhq/lectern/internal/generate"
)

func sampleArtifact() *generate.Artifact {
	return &generate.Artifact{
		Type:     generate.TypeQuestionSet,
		Title:    "Motion Quiz",
		Class:    "9",
		Subject:  "Physics",
		Book:     "Physics 9",
		Chapters: []string{"Motion"},
		Units: []generate.Unit{
			{ID: 1, Title: "MCQ 1", Content: "What is force?",
				Options: []string{"a push or pull", "a color"}, Answer: "a push or pull"},
			{ID: 2, Title: "Short answer", Content: "Define velocity & speed."},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"docx", FormatDocx, false},
		{"pptx", FormatPptx, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMarkdown(t *testing.T) {
	out := string(Markdown(sampleArtifact()))

	for _, want := range []string{
		"# Motion Quiz",
		"## 1. MCQ 1",
		"## 2. Short answer",
		"What is force?",
		"a. a push or pull",
		"b. a color",
		"**Answer:** a push or pull",
		"Class 9 / Physics / Physics 9 / Motion",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}

	// Unit order preserved
	if strings.Index(out, "MCQ 1") > strings.Index(out, "Short answer") {
		t.Error("units out of order")
	}
}

// readZip returns file name -> content for an OOXML archive.
func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}
	files := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		files[f.Name] = string(content)
	}
	return files
}

func TestDocx(t *testing.T) {
	data, err := Docx(sampleArtifact())
	if err != nil {
		t.Fatalf("Docx() error = %v", err)
	}

	files := readZip(t, data)
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/styles.xml"} {
		if _, ok := files[name]; !ok {
			t.Errorf("archive missing %s", name)
		}
	}

	doc := files["word/document.xml"]
	for _, want := range []string{"Motion Quiz", "1. MCQ 1", "What is force?", "Answer: a push or pull"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
	// Ampersand in unit content must be escaped
	if !strings.Contains(doc, "velocity &amp; speed") {
		t.Error("XML special characters not escaped")
	}
}

func TestPptx(t *testing.T) {
	data, err := Pptx(sampleArtifact())
	if err != nil {
		t.Fatalf("Pptx() error = %v", err)
	}

	files := readZip(t, data)
	// Title slide plus one per unit
	for _, name := range []string{
		"ppt/presentation.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/slide3.xml",
	} {
		if _, ok := files[name]; !ok {
			t.Errorf("archive missing %s", name)
		}
	}
	if _, ok := files["ppt/slides/slide4.xml"]; ok {
		t.Error("unexpected extra slide")
	}

	if !strings.Contains(files["ppt/slides/slide1.xml"], "Motion Quiz") {
		t.Error("title slide missing artifact title")
	}
	if !strings.Contains(files["ppt/slides/slide2.xml"], "1. MCQ 1") {
		t.Error("unit slide missing unit title")
	}
	if !strings.Contains(files["ppt/slides/slide3.xml"], "velocity &amp; speed") {
		t.Error("XML special characters not escaped")
	}
}

func TestRenderAndContentType(t *testing.T) {
	a := sampleArtifact()
	for _, f := range []Format{FormatMarkdown, FormatDocx, FormatPptx} {
		data, err := Render(f, a)
		if err != nil {
			t.Errorf("Render(%s) error = %v", f, err)
		}
		if len(data) == 0 {
			t.Errorf("Render(%s) empty output", f)
		}
		if f.ContentType() == "" || f.Extension() == "" {
			t.Errorf("missing content type or extension for %s", f)
		}
	}
}
