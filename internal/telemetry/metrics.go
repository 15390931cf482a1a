package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records per-username report results on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	reportsTotal  *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	responseBytes prometheus.Counter
}

// NewMetrics creates the collectors and registers them.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		reportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treehouse_profile_reports_total",
				Help: "Total number of profile reports by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "treehouse_profile_fetch_duration_seconds",
				Help:    "Time from dispatch to printed line for one username",
				Buckets: prometheus.DefBuckets,
			},
		),
		responseBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "treehouse_profile_response_bytes_total",
				Help: "Total bytes of profile documents received",
			},
		),
	}
}

// ObserveReport records one finished report.
func (m *Metrics) ObserveReport(outcome string, duration time.Duration, bodyBytes int) {
	m.reportsTotal.WithLabelValues(outcome).Inc()
	m.fetchDuration.Observe(duration.Seconds())
	m.responseBytes.Add(float64(bodyBytes))
}

// WriteTextfile writes all metrics in the text exposition format, for
// pickup by a node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
