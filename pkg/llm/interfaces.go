// Package llm provides the OpenAI-compatible completion gateway.
package llm

import (
	"context"
)

// Role is the author of a chat message as understood by the completion API.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the message list sent to the completion endpoint.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DefaultTemperature leaves the sampling temperature to the provider.
const DefaultTemperature = 0

// LLMClient defines the completion operation used by the pipeline.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	// Complete sends messages and returns the first choice's content.
	// A temperature of DefaultTemperature omits the field from the request.
	// Failures are returned as *Error.
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Ensure Client implements LLMClient at compile time.
var _ LLMClient = (*Client)(nil)
