// Package datasource defines the narrow store interfaces the query pipeline
// depends on. Implementations live in subpackages.
package datasource

import "context"

// CatalogReader lists the relations visible to the pipeline.
type CatalogReader interface {
	// ListTables returns the base tables of the configured schema.
	ListTables(ctx context.Context) ([]Table, error)

	// ListColumns returns the columns of table in ordinal order.
	ListColumns(ctx context.Context, table string) ([]Column, error)
}

// QueryRunner runs one read-only statement.
type QueryRunner interface {
	// Run executes sqlQuery and materializes at most maxRows rows.
	// A maxRows of zero or less means no cap.
	Run(ctx context.Context, sqlQuery string, maxRows int) (*QueryResult, error)
}

// Table represents a database table.
type Table struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
}

// Column represents a database column.
type Column struct {
	Name            string `json:"name"`
	DataType        string `json:"data_type"`
	OrdinalPosition int    `json:"ordinal_position"`
}

// QueryResult contains the results of a SQL query execution.
type QueryResult struct {
	Columns   []string         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	Truncated bool             `json:"truncated"` // more rows existed past the cap
}
