// Package metrics exposes Prometheus instrumentation for the receipt
// parsing pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for the parse endpoint.
type Metrics struct {
	ParseRequests     *prometheus.CounterVec
	ParseDuration     prometheus.Histogram
	ReceiptConfidence prometheus.Histogram
	RateLimited       prometheus.Counter
}

// New registers the collectors with the default registry.
func New() *Metrics {
	return &Metrics{
		ParseRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "splitsies_parse_requests_total",
			Help: "Total receipt parse requests by outcome (ok, unusable, error)",
		}, []string{"outcome"}),
		ParseDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitsies_parse_duration_seconds",
			Help:    "End-to-end duration of receipt parse requests",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
		ReceiptConfidence: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitsies_receipt_confidence",
			Help:    "Extraction confidence of validated receipts",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		RateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitsies_rate_limited_requests_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// ObserveParse records one parse request.
func (m *Metrics) ObserveParse(outcome string, seconds float64) {
	m.ParseRequests.WithLabelValues(outcome).Inc()
	m.ParseDuration.Observe(seconds)
}

// ObserveConfidence records a validated receipt's confidence.
func (m *Metrics) ObserveConfidence(confidence float64) {
	m.ReceiptConfidence.Observe(confidence)
}

// IncrementRateLimited records a rate-limited request.
func (m *Metrics) IncrementRateLimited() {
	m.RateLimited.Inc()
}
