package docstore

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// IDPattern matches document IDs (bae-<uuid>) and plain identifiers.
// IDs are validated before interpolation into query text.
var IDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateID rejects strings that are not safe to splice into a
// GraphQL document as a docID.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("empty ID")
	}
	if len(id) > 500 {
		return fmt.Errorf("ID too long: %d characters", len(id))
	}
	if !IDPattern.MatchString(id) {
		return fmt.Errorf("invalid ID format: contains unsafe characters")
	}
	return nil
}

// SafeID returns the ID unchanged when valid, otherwise "" and an error.
func SafeID(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}

// QueryBuilder assembles parameterized collection queries. Filter
// values travel as GraphQL variables, never as interpolated text.
type QueryBuilder struct {
	collection string
	conds      []condition
	fields     []string
	order      string
	limit      int
	offset     int
}

// condition is one filter clause; the variable name is assigned when
// the clause is added ($v0, $v1, ...).
type condition struct {
	field   string
	op      string
	varName string
	varType string
	value   any
}

// NewQuery starts a builder for the given collection. The default field
// set is just _docID.
func NewQuery(collection string) *QueryBuilder {
	return &QueryBuilder{collection: collection, fields: []string{"_docID"}}
}

func (q *QueryBuilder) where(field, op, varType string, value any) *QueryBuilder {
	q.conds = append(q.conds, condition{
		field:   field,
		op:      op,
		varName: fmt.Sprintf("v%d", len(q.conds)),
		varType: varType,
		value:   value,
	})
	return q
}

// Filter adds an equality clause.
func (q *QueryBuilder) Filter(field string, value any) *QueryBuilder {
	return q.where(field, "_eq", inferGraphQLType(value), value)
}

// FilterIn adds a clause matching any of the given values.
func (q *QueryBuilder) FilterIn(field string, values []string) *QueryBuilder {
	return q.where(field, "_in", "[String!]", values)
}

// FilterGT adds a greater-than clause.
func (q *QueryBuilder) FilterGT(field string, value any) *QueryBuilder {
	return q.where(field, "_gt", inferGraphQLType(value), value)
}

// FilterLT adds a less-than clause.
func (q *QueryBuilder) FilterLT(field string, value any) *QueryBuilder {
	return q.where(field, "_lt", inferGraphQLType(value), value)
}

// FilterGTE adds a greater-or-equal clause.
func (q *QueryBuilder) FilterGTE(field string, value any) *QueryBuilder {
	return q.where(field, "_gte", inferGraphQLType(value), value)
}

// FilterLTE adds a less-or-equal clause.
func (q *QueryBuilder) FilterLTE(field string, value any) *QueryBuilder {
	return q.where(field, "_lte", inferGraphQLType(value), value)
}

// Fields replaces the returned field set.
func (q *QueryBuilder) Fields(fields ...string) *QueryBuilder {
	q.fields = fields
	return q
}

// OrderBy sets result ordering (direction is ASC or DESC).
func (q *QueryBuilder) OrderBy(field string, direction string) *QueryBuilder {
	q.order = fmt.Sprintf("{%s: %s}", field, direction)
	return q
}

// Limit caps the result count.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	return q
}

// Offset skips the first n results.
func (q *QueryBuilder) Offset(n int) *QueryBuilder {
	q.offset = n
	return q
}

// Build renders the query text and its variables map.
func (q *QueryBuilder) Build() (string, map[string]any) {
	vars := make(map[string]any, len(q.conds))
	varDefs := make([]string, 0, len(q.conds))
	clauses := make([]string, 0, len(q.conds))
	for _, c := range q.conds {
		vars[c.varName] = c.value
		varDefs = append(varDefs, fmt.Sprintf("$%s: %s", c.varName, c.varType))
		clauses = append(clauses, fmt.Sprintf("%s: {%s: $%s}", c.field, c.op, c.varName))
	}

	var args []string
	if len(clauses) > 0 {
		args = append(args, fmt.Sprintf("filter: {%s}", strings.Join(clauses, ", ")))
	}
	if q.order != "" {
		args = append(args, fmt.Sprintf("order: %s", q.order))
	}
	if q.limit > 0 {
		args = append(args, fmt.Sprintf("limit: %d", q.limit))
	}
	if q.offset > 0 {
		args = append(args, fmt.Sprintf("offset: %d", q.offset))
	}

	var b strings.Builder
	if len(varDefs) > 0 {
		fmt.Fprintf(&b, "query(%s) ", strings.Join(varDefs, ", "))
	}
	b.WriteString("{ ")
	b.WriteString(q.collection)
	if len(args) > 0 {
		fmt.Fprintf(&b, "(%s)", strings.Join(args, ", "))
	}
	b.WriteString(" { ")
	b.WriteString(strings.Join(q.fields, " "))
	b.WriteString(" } }")

	return b.String(), vars
}

// Execute builds and runs the query on client.
func (q *QueryBuilder) Execute(ctx context.Context, client *Client) (*GQLResponse, error) {
	query, vars := q.Build()
	return client.Execute(ctx, query, vars)
}

// Docs extracts the documents returned for a collection.
func Docs(resp *GQLResponse, collection string) []map[string]any {
	raw, ok := resp.Data[collection].([]any)
	if !ok {
		return nil
	}
	docs := make([]map[string]any, 0, len(raw))
	for _, d := range raw {
		if doc, ok := d.(map[string]any); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

func inferGraphQLType(v any) string {
	switch v.(type) {
	case string:
		return "String"
	case int, int32, int64:
		return "Int"
	case float32, float64:
		return "Float"
	case bool:
		return "Boolean"
	default:
		return "String"
	}
}
