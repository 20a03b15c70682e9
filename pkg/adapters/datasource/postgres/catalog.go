// Package postgres implements the datasource interfaces on a PostgreSQL
// database opened through the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/adapters/datasource"
)

// DefaultSchema is the schema searched when none is configured.
const DefaultSchema = "public"

// Catalog reads table and column names from information_schema.
type Catalog struct {
	db     *sql.DB
	schema string
	logger *zap.Logger
}

// NewCatalog creates a catalog reader over db restricted to schema.
// If logger is nil, a no-op logger is used.
func NewCatalog(db *sql.DB, schema string, logger *zap.Logger) *Catalog {
	if schema == "" {
		schema = DefaultSchema
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{db: db, schema: schema, logger: logger.Named("catalog")}
}

var _ datasource.CatalogReader = (*Catalog)(nil)

// ListTables returns the base tables of the configured schema ordered by name.
func (c *Catalog) ListTables(ctx context.Context) ([]datasource.Table, error) {
	const query = `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema = $1
		ORDER BY table_name
	`

	rows, err := c.db.QueryContext(ctx, query, c.schema)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []datasource.Table
	for rows.Next() {
		var t datasource.Table
		if err := rows.Scan(&t.Schema, &t.Name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	c.logger.Debug("Listed tables", zap.String("schema", c.schema), zap.Int("count", len(tables)))
	return tables, nil
}

// ListColumns returns the columns of table in ordinal order.
func (c *Catalog) ListColumns(ctx context.Context, table string) ([]datasource.Column, error) {
	const query = `
		SELECT column_name, data_type, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := c.db.QueryContext(ctx, query, c.schema, table)
	if err != nil {
		return nil, fmt.Errorf("query columns for %s: %w", table, err)
	}
	defer rows.Close()

	var columns []datasource.Column
	for rows.Next() {
		var col datasource.Column
		if err := rows.Scan(&col.Name, &col.DataType, &col.OrdinalPosition); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return columns, nil
}
