package services

import (
	"strings"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/metrics"
	"github.com/bagucv/bagbot-engine/pkg/models"
	sqlutil "github.com/bagucv/bagbot-engine/pkg/sql"
)

// QueryGuard decides whether a candidate may be executed.
type QueryGuard struct {
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewQueryGuard creates a guard. Both arguments may be nil.
func NewQueryGuard(m *metrics.Metrics, logger *zap.Logger) *QueryGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryGuard{metrics: m, logger: logger.Named("guard")}
}

// Validate applies the guard rules in order and returns the first failure as
// a *GuardError. Keyword and semicolon checks run on the lexer; the PostgreSQL
// parse tree has the final say on everything else, with CTE references
// resolved by scope. The approved text is the candidate
// with one trailing semicolon removed; it is never otherwise rewritten.
func (g *QueryGuard) Validate(candidate models.SQLCandidate, schema *models.SchemaInfo) (models.ValidatedQuery, error) {
	text := strings.TrimSpace(candidate.RawText)

	if !strings.Contains(strings.ToUpper(text), "SELECT") || !sqlutil.IsReadOnly(text) {
		return models.ValidatedQuery{}, g.reject(GuardNotASelect, string(sqlutil.DetectStatementType(text)))
	}

	normalized := sqlutil.ValidateAndNormalize(text)
	if normalized.Error != nil {
		return models.ValidatedQuery{}, g.reject(GuardMultipleStatements, "")
	}
	text = normalized.NormalizedSQL

	analysis, err := sqlutil.Analyze(text)
	if err != nil {
		return models.ValidatedQuery{}, g.reject(GuardNotASelect, "unparseable")
	}
	if analysis.Statements > 1 {
		return models.ValidatedQuery{}, g.reject(GuardMultipleStatements, "")
	}
	if !analysis.ReadOnly {
		return models.ValidatedQuery{}, g.reject(GuardNotASelect, string(sqlutil.StatementUnknown))
	}
	for _, fn := range analysis.Functions {
		if sqlutil.IsForbiddenFunction(fn) {
			return models.ValidatedQuery{}, g.reject(GuardNotASelect, "function "+fn)
		}
	}

	if len(analysis.Tables) == 0 {
		return models.ValidatedQuery{}, g.reject(GuardUnknownTable, "no table referenced")
	}
	for _, table := range analysis.Tables {
		if !schema.HasTable(table) {
			return models.ValidatedQuery{}, g.reject(GuardUnknownTable, table)
		}
	}

	if hits := sqlutil.CheckLiteralsForInjection(text); len(hits) > 0 {
		g.metrics.ObserveSuspiciousLiterals(len(hits))
		for _, hit := range hits {
			g.logger.Warn("Suspicious literal in generated SQL",
				zap.Int("literal_index", hit.Index),
				zap.String("fingerprint", hit.Fingerprint))
		}
	}

	return models.NewValidatedQuery(text), nil
}

func (g *QueryGuard) reject(reason GuardReason, detail string) *GuardError {
	g.metrics.ObserveGuardRejection(string(reason))
	g.logger.Info("Candidate query rejected",
		zap.String("reason", string(reason)),
		zap.String("detail", detail))
	return &GuardError{Reason: reason, Detail: detail}
}
