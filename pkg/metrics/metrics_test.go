package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_PipelineOutcome(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePipelineOutcome("answered")
	m.ObservePipelineOutcome("answered")
	m.ObservePipelineOutcome("query_failed")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.pipelineOutcomes.WithLabelValues("answered")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.pipelineOutcomes.WithLabelValues("query_failed")))
}

func TestMetrics_LLMRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLLMRequest("sql", nil, 120*time.Millisecond)
	m.ObserveLLMRequest("sql", errors.New("timeout"), time.Second)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.llmRequests.WithLabelValues("sql", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.llmRequests.WithLabelValues("sql", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.llmDuration))
}

func TestMetrics_GuardAndRows(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveGuardRejection("not_a_select")
	m.ObserveSuspiciousLiterals(2)
	m.ObserveSuspiciousLiterals(0)
	m.ObserveResultRows(15)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.guardRejections.WithLabelValues("not_a_select")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.suspiciousLiterals))
	assert.Equal(t, 1, testutil.CollectAndCount(m.resultRows))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObservePipelineOutcome("answered")
		m.ObserveLLMRequest("answer", nil, time.Millisecond)
		m.ObserveResultRows(1)
		m.ObserveGuardRejection("unknown_table")
		m.ObserveSuspiciousLiterals(1)
		m.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveHTTPRequest("POST", "/api/chat", 200, 50*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bagbot_http_requests_total{method="POST",path="/api/chat",status="200"} 1`)
}
