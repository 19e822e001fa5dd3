package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wengoat"

var (
	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of calls to the callsign and activation log APIs.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"endpoint", "status"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Memoised upstream lookups grouped by kind and result (hit, miss or bypass).",
	}, []string{"kind", "result"})

	evaluations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "projection",
		Name:      "evaluations_total",
		Help:      "Projection evaluations grouped by outcome.",
	}, []string{"outcome"})

	lastEvaluationGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "projection",
		Name:      "last_evaluation_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful evaluation.",
	})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(upstreamDuration, cacheLookups, evaluations, lastEvaluationGauge, httpDuration)
}

// RecordUpstreamRequest observes one upstream call.
func RecordUpstreamRequest(endpoint, status string, duration time.Duration) {
	upstreamDuration.WithLabelValues(endpoint, status).Observe(duration.Seconds())
}

// RecordCacheLookup counts a memoised lookup.
func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(kind, result).Inc()
}

// RecordCacheBypass counts a lookup served straight from upstream because the store could not be read.
func RecordCacheBypass(kind string) {
	cacheLookups.WithLabelValues(kind, "bypass").Inc()
}

// RecordEvaluation counts an evaluation outcome and, on success, updates the watermark.
func RecordEvaluation(outcome string, ts time.Time) {
	evaluations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK && !ts.IsZero() {
		lastEvaluationGauge.Set(float64(ts.Unix()))
	}
}

// RecordHTTPRequest observes one served HTTP request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// Evaluation outcomes.
const (
	OutcomeOK                 = "ok"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeResolutionFailed   = "resolution_failed"
	OutcomeEmptyHistory       = "empty_history"
	OutcomeHistoryUnavailable = "history_unavailable"
	OutcomeError              = "error"
)
