// Package metrics exposes the Prometheus instruments of the engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bagbot"

// Metrics groups every instrument. A nil *Metrics is valid and records nothing,
// so components can be built without a registry in tests.
type Metrics struct {
	gatherer prometheus.Gatherer

	pipelineOutcomes   *prometheus.CounterVec
	llmRequests        *prometheus.CounterVec
	llmDuration        *prometheus.HistogramVec
	resultRows         prometheus.Histogram
	guardRejections    *prometheus.CounterVec
	suspiciousLiterals prometheus.Counter
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New creates the instruments and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		pipelineOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_outcomes_total",
				Help:      "Library questions answered, by final outcome.",
			},
			[]string{"outcome"},
		),
		llmRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_requests_total",
				Help:      "Completion requests by pipeline stage and result.",
			},
			[]string{"stage", "result"},
		),
		llmDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_request_duration_seconds",
				Help:      "Completion request latency by pipeline stage.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		resultRows: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_result_rows",
				Help:      "Rows materialized per executed catalog query.",
				Buckets:   []float64{0, 1, 2, 5, 10, 15},
			},
		),
		guardRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guard_rejections_total",
				Help:      "Generated queries rejected by the query guard, by reason.",
			},
			[]string{"reason"},
		),
		suspiciousLiterals: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guard_suspicious_literals_total",
				Help:      "String literals flagged by libinjection in accepted queries.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}

	reg.MustRegister(
		m.pipelineOutcomes,
		m.llmRequests,
		m.llmDuration,
		m.resultRows,
		m.guardRejections,
		m.suspiciousLiterals,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObservePipelineOutcome counts one answered question.
func (m *Metrics) ObservePipelineOutcome(outcome string) {
	if m == nil {
		return
	}
	m.pipelineOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveLLMRequest records one completion call made for stage.
func (m *Metrics) ObserveLLMRequest(stage string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.llmRequests.WithLabelValues(stage, result).Inc()
	m.llmDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// ObserveResultRows records the size of one result set.
func (m *Metrics) ObserveResultRows(n int) {
	if m == nil {
		return
	}
	m.resultRows.Observe(float64(n))
}

// ObserveGuardRejection counts one rejected query.
func (m *Metrics) ObserveGuardRejection(reason string) {
	if m == nil {
		return
	}
	m.guardRejections.WithLabelValues(reason).Inc()
}

// ObserveSuspiciousLiterals adds n flagged literals.
func (m *Metrics) ObserveSuspiciousLiterals(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.suspiciousLiterals.Add(float64(n))
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, path, code).Inc()
	m.httpDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}
