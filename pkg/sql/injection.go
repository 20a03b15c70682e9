package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a string literal that libinjection flagged.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Index       int    // Position of the literal among the statement's literals
	Literal     string // The literal content that was checked
}

// CheckLiteralForInjection runs libinjection over a single literal value.
// Returns nil when no injection pattern is detected.
//
//	CheckLiteralForInjection(0, "Lopez")                 // nil
//	CheckLiteralForInjection(0, "'; DROP TABLE users--") // IsSQLi == true
func CheckLiteralForInjection(index int, literal string) *InjectionCheckResult {
	if literal == "" {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(literal)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			Index:       index,
			Literal:     literal,
		}
	}

	return nil
}

// CheckLiteralsForInjection screens every string literal of a statement.
// Returns one result per flagged literal, or nil if all are clean.
func CheckLiteralsForInjection(sqlQuery string) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for i, literal := range StringLiterals(sqlQuery) {
		if result := CheckLiteralForInjection(i, literal); result != nil {
			results = append(results, result)
		}
	}
	return results
}
