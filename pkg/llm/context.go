package llm

import (
	"context"
	"net/http"
)

type contextKey string

const (
	requestIDKey contextKey = "llm_request_id"

	// requestIDHeader carries the pipeline request id to the completion endpoint.
	requestIDHeader = "X-Request-Id"
)

// WithRequestID returns a context tagged with the request id of the question
// being answered. Outbound completion calls forward it as X-Request-Id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id set with WithRequestID, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// contextAwareTransport copies the request id from the request context into
// the X-Request-Id header.
type contextAwareTransport struct {
	base http.RoundTripper
}

func (t *contextAwareTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id, ok := RequestIDFromContext(req.Context())
	if !ok {
		return t.base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set(requestIDHeader, id)
	return t.base.RoundTrip(clone)
}
