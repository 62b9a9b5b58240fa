// Package catalog manages curriculum resources: their records in the
// document store, the cascading class/subject/book/chapter filters over
// them, and collection of the resources feeding a generation request.
package catalog

import (
	"time"
)

// Collection is the document store collection for resources.
const Collection = "Resource"

// AllClasses is the wildcard class value; it behaves the same as an
// unset class filter.
const AllClasses = "all"

// Resource is a curriculum resource record.
type Resource struct {
	DocID       string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileName    string    `json:"file_name"`
	FileURL     string    `json:"file_url"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	PageCount   int       `json:"page_count,omitempty"`
	Class       string    `json:"class"`
	Subject     string    `json:"subject"`
	Book        string    `json:"book"`
	Chapter     string    `json:"chapter"`
	Tags        []string  `json:"tags,omitempty"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// resourceFields are the fields fetched for resource queries.
var resourceFields = []string{
	"_docID", "title", "description", "file_name", "file_url", "file_type",
	"file_size", "page_count", "class", "subject", "book", "chapter",
	"tags", "user_id", "created_at", "updated_at",
}

// resourceFromDoc builds a Resource from a document store result map.
func resourceFromDoc(doc map[string]any) Resource {
	r := Resource{
		DocID:       docString(doc, "_docID"),
		Title:       docString(doc, "title"),
		Description: docString(doc, "description"),
		FileName:    docString(doc, "file_name"),
		FileURL:     docString(doc, "file_url"),
		FileType:    docString(doc, "file_type"),
		FileSize:    docInt64(doc, "file_size"),
		PageCount:   int(docInt64(doc, "page_count")),
		Class:       docString(doc, "class"),
		Subject:     docString(doc, "subject"),
		Book:        docString(doc, "book"),
		Chapter:     docString(doc, "chapter"),
		Tags:        docStrings(doc, "tags"),
		UserID:      docString(doc, "user_id"),
	}
	r.CreatedAt = docTime(doc, "created_at")
	r.UpdatedAt = docTime(doc, "updated_at")
	return r
}

// toInput converts a Resource to a document store input map.
func (r *Resource) toInput() map[string]any {
	input := map[string]any{
		"title":       r.Title,
		"description": r.Description,
		"file_name":   r.FileName,
		"file_url":    r.FileURL,
		"file_type":   r.FileType,
		"file_size":   r.FileSize,
		"page_count":  r.PageCount,
		"class":       r.Class,
		"subject":     r.Subject,
		"book":        r.Book,
		"chapter":     r.Chapter,
		"user_id":     r.UserID,
		"created_at":  r.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":  r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if len(r.Tags) > 0 {
		input["tags"] = r.Tags
	}
	return input
}

func docString(doc map[string]any, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func docInt64(doc map[string]any, key string) int64 {
	switch v := doc[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func docStrings(doc map[string]any, key string) []string {
	raw, ok := doc[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func docTime(doc map[string]any, key string) time.Time {
	s, ok := doc[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
