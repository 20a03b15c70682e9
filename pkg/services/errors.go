package services

import (
	"errors"
	"fmt"

	"github.com/bagucv/bagbot-engine/pkg/apperrors"
)

// GuardReason names the rule a candidate query broke.
type GuardReason string

const (
	GuardNotASelect         GuardReason = "not_a_select"
	GuardMultipleStatements GuardReason = "multiple_statements"
	GuardUnknownTable       GuardReason = "unknown_table"
)

// GuardError reports a candidate query that must not be executed.
type GuardError struct {
	Reason GuardReason
	Detail string
}

func (e *GuardError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("query rejected: %s", e.Reason)
	}
	return fmt.Sprintf("query rejected: %s: %s", e.Reason, e.Detail)
}

// Unwrap maps the reason onto its apperrors sentinel.
func (e *GuardError) Unwrap() error {
	switch e.Reason {
	case GuardNotASelect:
		return apperrors.ErrNotASelect
	case GuardMultipleStatements:
		return apperrors.ErrMultipleStatements
	case GuardUnknownTable:
		return apperrors.ErrUnknownTable
	default:
		return nil
	}
}

// ExecError reports a validated query the store failed to run. The cause is
// kept for logging and must not be shown to users.
type ExecError struct {
	Cause error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: %v", apperrors.ErrQueryFailed, e.Cause)
}

// Is makes errors.Is(err, apperrors.ErrQueryFailed) hold.
func (e *ExecError) Is(target error) bool {
	return target == apperrors.ErrQueryFailed
}

// Unwrap returns the store error.
func (e *ExecError) Unwrap() error {
	return e.Cause
}

// ErrEmptyMessage is returned for a chat message with no text.
var ErrEmptyMessage = errors.New("message is required")

var errUnvalidatedQuery = errors.New("query was not validated")
