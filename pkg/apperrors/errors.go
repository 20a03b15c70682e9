package apperrors

import "errors"

var (
	ErrStoreUnavailable   = errors.New("data store unavailable")
	ErrQueryFailed        = errors.New("query failed")
	ErrNotASelect         = errors.New("only SELECT statements are allowed")
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed")
	ErrUnknownTable       = errors.New("query references a table outside the allow-list")
	ErrEmptyDocument      = errors.New("document has no text to summarize")
	ErrInvalidChatMode    = errors.New("invalid chat mode")
)
