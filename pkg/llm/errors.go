package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrorType classifies a completion failure.
type ErrorType string

const (
	// ErrorTypeTransport covers network failures, timeouts and non-200 replies.
	ErrorTypeTransport ErrorType = "transport_failure"
	// ErrorTypeUnexpectedShape means the reply lacked the completion content.
	ErrorTypeUnexpectedShape ErrorType = "unexpected_shape"
)

// Error represents a structured LLM error with classification.
type Error struct {
	Type       ErrorType // Classification of the error
	Message    string    // Human-readable message
	Cause      error     // Underlying error
	StatusCode int       // HTTP status code if applicable
	Model      string    // Model name if known
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new structured LLM error.
func NewError(errType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// ClassifyError maps an error from the go-openai client onto an *Error.
// Undecodable response bodies count as an unexpected shape; everything else
// (dial errors, timeouts, cancellations, non-200 statuses) is a transport failure.
func ClassifyError(err error, model string) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Type: ErrorTypeTransport, Message: "completion API error", Cause: err, StatusCode: apiErr.HTTPStatusCode, Model: model}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Type: ErrorTypeTransport, Message: "completion request failed", Cause: err, StatusCode: reqErr.HTTPStatusCode, Model: model}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Type: ErrorTypeTransport, Message: "request timeout", Cause: err, Model: model}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Error{Type: ErrorTypeTransport, Message: "connection failed", Cause: err, Model: model}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &Error{Type: ErrorTypeUnexpectedShape, Message: "undecodable completion response", Cause: err, Model: model}
	}

	return &Error{Type: ErrorTypeTransport, Message: "llm error", Cause: err, Model: model}
}

// GetErrorType extracts the ErrorType from an error.
// Returns an empty ErrorType if err is not an *Error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ""
}

// IsTransportFailure reports whether err is a transport-level completion failure.
func IsTransportFailure(err error) bool {
	return GetErrorType(err) == ErrorTypeTransport
}

// IsUnexpectedShape reports whether err is a malformed completion reply.
func IsUnexpectedShape(err error) bool {
	return GetErrorType(err) == ErrorTypeUnexpectedShape
}
