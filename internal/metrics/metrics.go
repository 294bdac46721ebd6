// Package metrics records outline processing in a Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Document outcomes.
const (
	StatusOK     = "ok"
	StatusCached = "cached"
	StatusFailed = "failed"
)

// Metrics holds the collectors of one process. All methods are safe for
// concurrent use; a nil *Metrics records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	duration  prometheus.Histogram
	entries   prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pdfoutline",
			Name:      "documents_total",
			Help:      "Documents processed, by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pdfoutline",
			Name:      "document_duration_seconds",
			Help:      "Time to produce one outline, decoding included.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		entries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pdfoutline",
			Name:      "outline_entries",
			Help:      "Headings per produced outline.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
	}
	m.registry.MustRegister(m.documents, m.duration, m.entries)
	return m
}

// Observe records one finished document.
func (m *Metrics) Observe(status string, elapsed time.Duration, entries int) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(status).Inc()
	m.duration.Observe(elapsed.Seconds())
	if status != StatusFailed {
		m.entries.Observe(float64(entries))
	}
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics to path for a node exporter
// textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
