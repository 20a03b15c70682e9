package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "type and message",
			err:  &Error{Type: ErrorTypeUnexpectedShape, Message: "no choices in response"},
			want: "unexpected_shape no choices in response",
		},
		{
			name: "with status and model",
			err:  &Error{Type: ErrorTypeTransport, Message: "completion API error", StatusCode: 503, Model: "llama"},
			want: "transport_failure HTTP 503 model=llama completion API error",
		},
		{
			name: "with cause",
			err:  NewError(ErrorTypeTransport, "connection failed", errors.New("dial tcp: refused")),
			want: "transport_failure connection failed: dial tcp: refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantType   ErrorType
		wantStatus int
	}{
		{"api error", &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}, ErrorTypeTransport, 429},
		{"request error", &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}, ErrorTypeTransport, 502},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), ErrorTypeTransport, 0},
		{"canceled", context.Canceled, ErrorTypeTransport, 0},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, ErrorTypeTransport, 0},
		{"undecodable body", decodeError(`{"choices": [`), ErrorTypeUnexpectedShape, 0},
		{"unknown", errors.New("something odd"), ErrorTypeTransport, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err, "llama")
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, "llama", got.Model)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil, "m"))
}

func TestClassifyError_KeepsExistingError(t *testing.T) {
	original := &Error{Type: ErrorTypeUnexpectedShape, Message: "empty"}
	wrapped := fmt.Errorf("summary: %w", original)

	assert.Same(t, original, ClassifyError(wrapped, "m"))
}

func TestErrorTypePredicates(t *testing.T) {
	transport := NewError(ErrorTypeTransport, "x", nil)
	shape := NewError(ErrorTypeUnexpectedShape, "y", nil)

	assert.True(t, IsTransportFailure(transport))
	assert.False(t, IsUnexpectedShape(transport))
	assert.True(t, IsUnexpectedShape(fmt.Errorf("wrapped: %w", shape)))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
}

func decodeError(body string) error {
	var v map[string]any
	return json.Unmarshal([]byte(body), &v)
}
