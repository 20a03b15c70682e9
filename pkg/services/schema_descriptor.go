package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/adapters/datasource"
	"github.com/bagucv/bagbot-engine/pkg/apperrors"
	"github.com/bagucv/bagbot-engine/pkg/models"
)

// SchemaDescriptor introspects the allow-listed tables of the catalog.
type SchemaDescriptor struct {
	catalog datasource.CatalogReader
	allowed []string
	logger  *zap.Logger
}

// NewSchemaDescriptor creates a descriptor limited to allowedTables, which
// also fixes the order tables are described in.
func NewSchemaDescriptor(catalog datasource.CatalogReader, allowedTables []string, logger *zap.Logger) *SchemaDescriptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaDescriptor{
		catalog: catalog,
		allowed: allowedTables,
		logger:  logger.Named("schema"),
	}
}

// Describe reads the current column lists of the allowed tables. It is called
// once per question and never cached. Any catalog failure, or an allow-list
// that matches no table, is apperrors.ErrStoreUnavailable.
func (d *SchemaDescriptor) Describe(ctx context.Context) (*models.SchemaInfo, error) {
	tables, err := d.catalog.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}

	present := make(map[string]string, len(tables))
	for _, t := range tables {
		present[strings.ToLower(t.Name)] = t.Name
	}

	info := &models.SchemaInfo{}
	for _, want := range d.allowed {
		name, ok := present[strings.ToLower(want)]
		if !ok {
			d.logger.Warn("Allowed table missing from catalog", zap.String("table", want))
			continue
		}

		columns, err := d.catalog.ListColumns(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: columns of %s: %w", apperrors.ErrStoreUnavailable, name, err)
		}

		names := make([]string, len(columns))
		for i, c := range columns {
			names[i] = c.Name
		}
		info.Tables = append(info.Tables, models.TableSchema{Table: name, Columns: names})
	}

	if len(info.Tables) == 0 {
		return nil, fmt.Errorf("%w: none of the allowed tables exist", apperrors.ErrStoreUnavailable)
	}

	d.logger.Debug("Schema described", zap.Strings("tables", info.TableNames()))
	return info, nil
}
