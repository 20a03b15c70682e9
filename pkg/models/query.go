package models

import (
	"encoding/json"
	"fmt"
)

// SQLCandidate is SQL text recovered from a model reply. It has not been
// checked and must never reach the data store directly.
type SQLCandidate struct {
	RawText string
}

// ValidatedQuery is a candidate that passed the query guard. It can only be
// built through NewValidatedQuery so the executor never sees unchecked text.
type ValidatedQuery struct {
	text string
}

// NewValidatedQuery wraps guard-approved SQL. Only the guard should call it.
func NewValidatedQuery(text string) ValidatedQuery {
	return ValidatedQuery{text: text}
}

// Text returns the approved SQL statement.
func (q ValidatedQuery) Text() string {
	return q.text
}

// IsZero reports whether the query was never validated.
func (q ValidatedQuery) IsZero() bool {
	return q.text == ""
}

// Row maps column name to a scalar value (string, number, time.Time or nil).
type Row map[string]any

// ResultSet holds the materialized rows of one validated query, in the order
// the store returned them. An empty ResultSet means "no matches".
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// IsEmpty reports whether the query matched nothing.
func (r *ResultSet) IsEmpty() bool {
	return r == nil || len(r.Rows) == 0
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Payload serializes the rows as a compact JSON array for the answer prompt.
// An empty result renders as "[]".
func (r *ResultSet) Payload() (string, error) {
	if r.IsEmpty() {
		return "[]", nil
	}
	data, err := json.Marshal(r.Rows)
	if err != nil {
		return "", fmt.Errorf("marshal result rows: %w", err)
	}
	return string(data), nil
}
