package sql

import "strings"

// StatementType is the kind of SQL statement, judged by its leading keyword.
type StatementType string

const (
	StatementSelect  StatementType = "SELECT"
	StatementInsert  StatementType = "INSERT"
	StatementUpdate  StatementType = "UPDATE"
	StatementDelete  StatementType = "DELETE"
	StatementCall    StatementType = "CALL"
	StatementDDL     StatementType = "DDL"
	StatementUnknown StatementType = "UNKNOWN"
)

// writeKeywords never appear in a read-only query outside literals and
// quoted identifiers. SELECT ... INTO creates a table and FOR UPDATE takes
// row locks, so both count as writes.
var writeKeywords = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true, "MERGE": true,
	"TRUNCATE": true, "DROP": true, "ALTER": true, "CREATE": true,
	"GRANT": true, "REVOKE": true, "COPY": true, "INTO": true,
	"CALL": true, "EXECUTE": true, "LOCK": true, "VACUUM": true,
}

// DetectStatementType classifies a statement by its first keyword.
// SELECT and WITH statements that contain any write keyword are reported as
// StatementUnknown, which covers data-modifying CTEs.
func DetectStatementType(sqlQuery string) StatementType {
	tokens := Tokenize(sqlQuery)

	first := firstKeyword(tokens)
	switch first {
	case "SELECT", "WITH":
		if containsWriteKeyword(tokens) {
			return StatementUnknown
		}
		return StatementSelect
	case "INSERT":
		return StatementInsert
	case "UPDATE":
		return StatementUpdate
	case "DELETE":
		return StatementDelete
	case "CALL":
		return StatementCall
	case "CREATE", "ALTER", "DROP", "TRUNCATE":
		return StatementDDL
	default:
		return StatementUnknown
	}
}

// IsReadOnly reports whether the statement is a plain SELECT or a read-only WITH.
func IsReadOnly(sqlQuery string) bool {
	return DetectStatementType(sqlQuery) == StatementSelect
}

// firstKeyword returns the upper-cased first word, skipping opening parentheses
// so that "(SELECT ...) UNION (SELECT ...)" is recognized.
func firstKeyword(tokens []Token) string {
	for _, tok := range tokens {
		if tok.IsPunct("(") {
			continue
		}
		if tok.Kind != TokenWord {
			return ""
		}
		return strings.ToUpper(tok.Text)
	}
	return ""
}

func containsWriteKeyword(tokens []Token) bool {
	for _, tok := range tokens {
		if tok.Kind == TokenWord && writeKeywords[strings.ToUpper(tok.Text)] {
			return true
		}
	}
	return false
}
