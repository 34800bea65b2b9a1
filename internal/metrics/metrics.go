// Package metrics exposes Prometheus collectors for the extraction
// service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	providerAttemptsTotal   *prometheus.CounterVec
	stageDurationSeconds    *prometheus.HistogramVec
	extractionsTotal        *prometheus.CounterVec
	degradedExtractionTotal prometheus.Counter
	httpRequestsTotal       *prometheus.CounterVec
	httpDurationSeconds     *prometheus.HistogramVec
	rateLimitDelaySeconds   *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		providerAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandlens_provider_attempts_total",
				Help: "Provider attempts, labeled by stage, provider, and outcome.",
			},
			[]string{"stage", "provider", "outcome"},
		)

		stageDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brandlens_stage_duration_seconds",
				Help:    "Wall time spent per pipeline stage.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"stage"},
		)

		extractionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandlens_extractions_total",
				Help: "Completed extractions, labeled by result.",
			},
			[]string{"result"},
		)

		degradedExtractionTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brandlens_degraded_extractions_total",
				Help: "Extractions that completed without any vision input.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 30},
			},
			[]string{"method", "route"},
		)

		rateLimitDelaySeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brandlens_ratelimit_delay_seconds",
				Help:    "Delay introduced by the per-host rate limiter.",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"host"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveProviderAttempt counts one screenshot or vision provider attempt.
func ObserveProviderAttempt(stage, provider, outcome string) {
	if providerAttemptsTotal == nil {
		return
	}
	providerAttemptsTotal.WithLabelValues(stage, provider, outcome).Inc()
}

// ObserveStageDuration records the wall time of one pipeline stage.
func ObserveStageDuration(stage string, duration time.Duration) {
	if stageDurationSeconds == nil {
		return
	}
	stageDurationSeconds.WithLabelValues(stage).Observe(duration.Seconds())
}

// ObserveExtraction counts a completed extraction.
func ObserveExtraction(result string) {
	if extractionsTotal == nil {
		return
	}
	extractionsTotal.WithLabelValues(result).Inc()
}

// ObserveDegradedExtraction counts an extraction that fell back to
// heuristics only.
func ObserveDegradedExtraction() {
	if degradedExtractionTotal == nil {
		return
	}
	degradedExtractionTotal.Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveRateLimitDelay records time spent waiting on the per-host
// limiter.
func ObserveRateLimitDelay(host string, duration time.Duration) {
	if rateLimitDelaySeconds == nil {
		return
	}
	rateLimitDelaySeconds.WithLabelValues(host).Observe(duration.Seconds())
}
