package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the generation pipeline.
type Metrics struct {
	generationRequests *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		generationRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "content_generation_requests_total",
			Help: "Content generation requests by provider, kind and outcome.",
		}, []string{"provider", "kind", "outcome"}),
		generationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "content_generation_duration_seconds",
			Help:    "Duration of content generation calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "kind"}),
	}
}

// ObserveGeneration records one completed generation call. outcome is
// "success" or the result error code.
func (m *Metrics) ObserveGeneration(provider, kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generationRequests.WithLabelValues(provider, kind, outcome).Inc()
	m.generationDuration.WithLabelValues(provider, kind).Observe(elapsed.Seconds())
}
