package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Selection is the current position in the class -> subject -> book ->
// chapter filter cascade. Later fields only apply when the earlier ones
// are set.
type Selection struct {
	Class   string `json:"class,omitempty"`
	Subject string `json:"subject,omitempty"`
	Book    string `json:"book,omitempty"`
}

// normalized returns the selection with wildcard class cleared and later
// levels dropped when an earlier level is unset. A subject chosen without
// a class (or book without a subject) has nothing to cascade from.
func (s Selection) normalized() Selection {
	if s.Class == AllClasses {
		s.Class = ""
	}
	if s.Class == "" {
		s.Subject = ""
	}
	if s.Subject == "" {
		s.Book = ""
	}
	return s
}

// Narrow returns a copy of the selection with one more level chosen.
// Setting an earlier level clears the levels below it.
func Narrow(s Selection, level, value string) Selection {
	switch level {
	case "class":
		s.Class = value
		s.Subject = ""
		s.Book = ""
	case "subject":
		s.Subject = value
		s.Book = ""
	case "book":
		s.Book = value
	}
	return s.normalized()
}

// FilterOptions holds the distinct values available at each level of the
// cascade given the current selection.
type FilterOptions struct {
	Classes  []string `json:"classes"`
	Subjects []string `json:"subjects"`
	Books    []string `json:"books"`
	Chapters []string `json:"chapters"`
}

// Resolver computes cascading filter options from the resource catalog.
type Resolver struct {
	store *Store
}

// NewResolver creates a filter resolver over the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Options returns the filter values available for the selection. Each
// level's options are computed from resources matching the levels above
// it, so narrowing a selection never widens a downstream list.
func (r *Resolver) Options(ctx context.Context, userID string, sel Selection) (*FilterOptions, error) {
	sel = sel.normalized()

	resources, err := r.store.List(ctx, Filter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	return optionsFrom(resources, sel), nil
}

// optionsFrom derives cascade options from a resource set.
func optionsFrom(resources []Resource, sel Selection) *FilterOptions {
	opts := &FilterOptions{
		Classes:  []string{},
		Subjects: []string{},
		Books:    []string{},
		Chapters: []string{},
	}

	classes := make(map[string]bool)
	subjects := make(map[string]bool)
	books := make(map[string]bool)
	chapters := make(map[string]bool)

	for _, res := range resources {
		if res.Class != "" {
			classes[res.Class] = true
		}
		if sel.Class != "" && res.Class != sel.Class {
			continue
		}
		if res.Subject != "" {
			subjects[res.Subject] = true
		}
		if sel.Subject != "" && res.Subject != sel.Subject {
			continue
		}
		if res.Book != "" {
			books[res.Book] = true
		}
		if sel.Book != "" && res.Book != sel.Book {
			continue
		}
		if res.Chapter != "" {
			chapters[res.Chapter] = true
		}
	}

	opts.Classes = sortedKeys(classes)
	opts.Subjects = sortedKeys(subjects)
	opts.Books = sortedKeys(books)
	opts.Chapters = sortedKeys(chapters)
	return opts
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	return keys
}
