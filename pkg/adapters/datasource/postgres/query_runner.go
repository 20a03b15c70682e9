package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/adapters/datasource"
)

// DefaultQueryTimeout bounds a single statement when none is configured.
const DefaultQueryTimeout = 10 * time.Second

// readOnlySetup runs at the start of every transaction opened by Run. Literals
// are lexed with standard conforming strings whatever the server default is.
var readOnlySetup = []string{
	"SET TRANSACTION READ ONLY",
	"SET LOCAL standard_conforming_strings = on",
}

// QueryRunner executes statements on a dedicated connection taken from the pool
// for the duration of one Run call, inside a read-only transaction that is
// always rolled back.
type QueryRunner struct {
	db      *sql.DB
	timeout time.Duration
	logger  *zap.Logger
}

// NewQueryRunner creates a runner over db. A non-positive timeout means
// DefaultQueryTimeout. If logger is nil, a no-op logger is used.
func NewQueryRunner(db *sql.DB, timeout time.Duration, logger *zap.Logger) *QueryRunner {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryRunner{db: db, timeout: timeout, logger: logger.Named("query_runner")}
}

var _ datasource.QueryRunner = (*QueryRunner)(nil)

// Run executes sqlQuery and reads at most maxRows rows. The connection, the
// transaction and the row cursor are released before Run returns, on every path.
func (r *QueryRunner) Run(ctx context.Context, sqlQuery string, maxRows int) (*datasource.QueryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read-only transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range readOnlySetup {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("prepare read-only transaction: %w", err)
		}
	}

	rows, err := tx.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &datasource.QueryResult{
		Columns: columns,
		Rows:    make([]map[string]any, 0),
	}

	for rows.Next() {
		if maxRows > 0 && len(result.Rows) >= maxRows {
			result.Truncated = true
			break
		}

		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if result.Truncated {
		r.logger.Debug("Result truncated", zap.Int("max_rows", maxRows))
	}

	return result, nil
}

// normalizeValue turns driver byte slices (text, numeric, uuid) into strings
// so that rows serialize as readable JSON.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
