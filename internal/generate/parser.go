package generate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// noContentPlaceholder fills a unit whose content the model left out.
const noContentPlaceholder = "No content generated."

// ParseResult is the outcome of turning model output into units.
type ParseResult struct {
	Title   string
	Units   []Unit
	Outcome ParseOutcome
}

// Parse turns raw model output into titled units. It tries the output
// as-is first, then repairs it (stripping markdown fences, extracting
// the outermost JSON span, coercing loosely-typed fields). When nothing
// usable is recovered the result is marked defaulted and the caller
// constructs a fallback artifact. Parse never fails.
func Parse(t ContentType, content string) *ParseResult {
	content = strings.TrimSpace(content)

	type candidate struct {
		text   string
		strict bool
	}
	candidates := []candidate{{content, true}}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, candidate{stripped, false})
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, candidate{extracted, false})
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		text := strings.TrimSpace(c.text)
		if text == "" {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}

		var doc map[string]any
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			continue
		}

		title, units := decodeUnits(t, doc)
		if len(units) == 0 {
			continue
		}
		normalizeIDs(units)

		outcome := OutcomeExtracted
		if c.strict && validateResponse(t, json.RawMessage(text)) == nil {
			outcome = OutcomeStrict
		}
		return &ParseResult{Title: title, Units: units, Outcome: outcome}
	}

	return &ParseResult{Outcome: OutcomeDefaulted}
}

// decodeUnits pulls the title and unit array out of a parsed document.
// It accepts the type's unit key or a generic "units" key, and coerces
// loosely-typed fields rather than rejecting them. Units that carry
// only a title or only content are repaired in place; a unit never
// leaves the parser with an empty title or empty content.
func decodeUnits(t ContentType, doc map[string]any) (string, []Unit) {
	title, _ := doc["title"].(string)

	raw, ok := doc[t.UnitKey()].([]any)
	if !ok {
		raw, ok = doc["units"].([]any)
	}
	if !ok {
		return title, nil
	}

	units := make([]Unit, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		u := Unit{
			ID:      coerceInt(m["id"]),
			Title:   coerceString(m["title"]),
			Content: coerceString(m["content"]),
			Answer:  coerceString(m["answer"]),
		}
		if opts, ok := m["options"].([]any); ok {
			for _, o := range opts {
				if s := coerceString(o); s != "" {
					u.Options = append(u.Options, s)
				}
			}
		}
		if u.Title == "" && u.Content == "" {
			continue
		}
		if u.Title == "" {
			u.Title = fmt.Sprintf("%s %d", t.UnitLabel(), len(units)+1)
		}
		if u.Content == "" {
			u.Content = noContentPlaceholder
		}
		units = append(units, u)
	}
	return title, units
}

// normalizeIDs renumbers units sequentially from 1 when the model's IDs
// are missing, duplicated, or out of order.
func normalizeIDs(units []Unit) {
	sequential := true
	for i, u := range units {
		if u.ID != i+1 {
			sequential = false
			break
		}
	}
	if sequential {
		return
	}
	for i := range units {
		units[i].ID = i + 1
	}
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	// Drop first fence line.
	lines = lines[1:]
	// Drop trailing fence if present.
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}

	start := strings.Index(trimmed, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(trimmed, "}")
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strings.TrimSuffix(strings.TrimSuffix(jsonNumber(s), ".0"), ".00")
	}
	return ""
}

func coerceInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		var parsed int
		for _, r := range n {
			if r < '0' || r > '9' {
				return 0
			}
			parsed = parsed*10 + int(r-'0')
		}
		return parsed
	}
	return 0
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
