// Package sql inspects generated SQL. A lexer covers statement normalization,
// keyword classification and literal screening; the PostgreSQL parser reports
// statement shape, referenced tables and called functions.
package sql

import (
	"strings"

	"github.com/bagucv/bagbot-engine/pkg/apperrors"
)

// ErrMultipleStatements indicates the query contains more than one statement.
var ErrMultipleStatements = apperrors.ErrMultipleStatements

// ValidationResult contains the normalized SQL and any validation errors.
type ValidationResult struct {
	NormalizedSQL string
	Error         error
}

// ValidateAndNormalize trims the statement, strips one trailing semicolon and
// rejects any semicolon left outside string literals, quoted identifiers and
// comments.
func ValidateAndNormalize(sqlQuery string) ValidationResult {
	sqlQuery = strings.TrimSpace(sqlQuery)

	if sqlQuery == "" {
		return ValidationResult{NormalizedSQL: sqlQuery}
	}

	normalized := stripTrailingSemicolon(sqlQuery)

	if hasSemicolonOutsideStrings(normalized) {
		return ValidationResult{Error: ErrMultipleStatements}
	}

	return ValidationResult{NormalizedSQL: normalized}
}

func hasSemicolonOutsideStrings(sqlQuery string) bool {
	for _, tok := range Tokenize(sqlQuery) {
		if tok.IsPunct(";") {
			return true
		}
	}
	return false
}

// stripTrailingSemicolon removes a trailing semicolon and any whitespace around it.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")

	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}

	return sqlQuery
}
