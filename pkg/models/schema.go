package models

import (
	"strings"
)

// TableSchema lists the column names of one queryable table in ordinal order.
type TableSchema struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
}

// SchemaInfo is the allow-listed slice of the library catalog handed to the
// SQL generation prompt. It is rebuilt from the live store on every question.
type SchemaInfo struct {
	Tables []TableSchema `json:"tables"`
}

// Text renders the schema the way the SQL generation prompt expects it:
//
//	Table: recursos_libros
//	Columns:
//	 - titulo
//	 - autor
//
// with one blank line between tables.
func (s *SchemaInfo) Text() string {
	if s == nil {
		return ""
	}

	blocks := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		var b strings.Builder
		b.WriteString("Table: ")
		b.WriteString(t.Table)
		b.WriteString("\nColumns:")
		for _, c := range t.Columns {
			b.WriteString("\n - ")
			b.WriteString(c)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// HasTable reports whether name is one of the described tables.
// Comparison is case-insensitive since unquoted identifiers fold in PostgreSQL.
func (s *SchemaInfo) HasTable(name string) bool {
	if s == nil {
		return false
	}
	for _, t := range s.Tables {
		if strings.EqualFold(t.Table, name) {
			return true
		}
	}
	return false
}

// TableNames returns the described table names in order.
func (s *SchemaInfo) TableNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Table
	}
	return names
}
