package ingest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload outcomes as recorded by Metrics.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeTransport  = "transport"
	OutcomeCancelled  = "cancelled"
	OutcomeBusy       = "busy"
)

// Metrics records upload outcomes. A nil *Metrics records nothing.
type Metrics struct {
	uploads  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the upload collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prospectscan",
			Name:      "uploads_total",
			Help:      "Spreadsheet drops by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prospectscan",
			Name:      "upload_duration_seconds",
			Help:      "Time spent waiting on the API for an upload.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}

func (m *Metrics) observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		m.duration.Observe(elapsed.Seconds())
	}
}
