package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/config"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

func testConfig() *config.Config {
	cfg := &config.Config{Version: "test-version", Env: "test"}
	cfg.LLM.Model = "llama-3.1-8b-instant"
	return cfg
}

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		status   int
		response HealthResponse
	}{
		{"without database", nil, http.StatusOK, HealthResponse{Status: "ok"}},
		{"database reachable", fakePinger{}, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"}},
		{"database down", fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable,
			HealthResponse{Status: "degraded", Database: "unreachable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(testConfig(), tt.db, zap.NewNop())
			rec := httptest.NewRecorder()

			handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
			var got HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.response, got)
		})
	}
}

func TestHealthHandler_Ping(t *testing.T) {
	handler := NewHealthHandler(testConfig(), nil, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got PingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, "test-version", got.Version)
	assert.Equal(t, "bagbot-engine", got.Service)
	assert.Equal(t, "test", got.Environment)
	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	assert.NotEmpty(t, got.GoVersion)
}

func TestNewHealthHandler_NilLogger(t *testing.T) {
	handler := NewHealthHandler(testConfig(), fakePinger{err: errors.New("connection refused")}, nil)
	rec := httptest.NewRecorder()

	handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
