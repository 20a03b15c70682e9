package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/adapters/datasource"
	"github.com/bagucv/bagbot-engine/pkg/logging"
	"github.com/bagucv/bagbot-engine/pkg/metrics"
	"github.com/bagucv/bagbot-engine/pkg/models"
)

// DefaultMaxRows caps the rows handed to the answer prompt.
const DefaultMaxRows = 15

// QueryExecutor runs validated queries against the library store.
type QueryExecutor struct {
	runner  datasource.QueryRunner
	maxRows int
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewQueryExecutor creates an executor. A maxRows of zero or less uses DefaultMaxRows.
func NewQueryExecutor(runner datasource.QueryRunner, maxRows int, m *metrics.Metrics, logger *zap.Logger) *QueryExecutor {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryExecutor{
		runner:  runner,
		maxRows: maxRows,
		metrics: m,
		logger:  logger.Named("executor"),
	}
}

// Execute runs query and returns its rows in store order. Every store failure
// is returned as *ExecError; the driver message is only logged.
func (e *QueryExecutor) Execute(ctx context.Context, query models.ValidatedQuery) (*models.ResultSet, error) {
	if query.IsZero() {
		return nil, &ExecError{Cause: errUnvalidatedQuery}
	}

	start := time.Now()
	result, err := e.runner.Run(ctx, query.Text(), e.maxRows)
	if err != nil {
		e.logger.Error("Query failed",
			zap.String("sql", logging.SanitizeQuery(query.Text())),
			zap.String("error", logging.SanitizeError(err)),
			zap.Duration("elapsed", time.Since(start)))
		return nil, &ExecError{Cause: err}
	}

	rs := &models.ResultSet{Columns: result.Columns, Rows: make([]models.Row, len(result.Rows))}
	for i, row := range result.Rows {
		rs.Rows[i] = models.Row(row)
	}

	e.metrics.ObserveResultRows(rs.Len())
	e.logger.Debug("Query executed",
		zap.Int("rows", rs.Len()),
		zap.Bool("truncated", result.Truncated),
		zap.Duration("elapsed", time.Since(start)))
	return rs, nil
}
