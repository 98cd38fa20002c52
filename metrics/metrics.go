// Package metrics defines the Prometheus metrics for the service, in the
// shape of one registry owned by the Metrics struct and exposed on the admin
// port.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusLabel  = "status"
	outcomeLabel = "outcome"
)

// Metrics defines the Prometheus metrics backing the service.
type Metrics struct {
	Registry *prometheus.Registry

	validationRequests prometheus.Counter
	tagsValidated      *prometheus.CounterVec
	dealsAggregated    *prometheus.CounterVec
	dealCheckRows      *prometheus.CounterVec
	dealCheckTimer     prometheus.Histogram
}

// New registers and returns the service metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		Registry: registry,
		validationRequests: newCounter(registry, "validation_requests",
			"Count of tag validation runs."),
		tagsValidated: newCounterVec(registry, "tags_validated",
			"Count of validated tags by overall status.",
			[]string{statusLabel}),
		dealsAggregated: newCounterVec(registry, "deals_aggregated",
			"Count of aggregated deals by status.",
			[]string{statusLabel}),
		dealCheckRows: newCounterVec(registry, "deal_check_rows",
			"Count of deal-check rows by outcome.",
			[]string{outcomeLabel}),
		dealCheckTimer: newHistogram(registry, "deal_check_seconds",
			"Seconds to run one deal-check batch.",
			prometheus.DefBuckets),
	}
	return m
}

func (m *Metrics) RecordValidationRequest() {
	m.validationRequests.Inc()
}

func (m *Metrics) RecordTagValidated(status string) {
	m.tagsValidated.With(prometheus.Labels{statusLabel: status}).Inc()
}

func (m *Metrics) RecordDealAggregated(status string) {
	m.dealsAggregated.With(prometheus.Labels{statusLabel: status}).Inc()
}

func (m *Metrics) RecordDealCheckRow(outcome string) {
	m.dealCheckRows.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func (m *Metrics) RecordDealCheckTime(length time.Duration) {
	m.dealCheckTimer.Observe(length.Seconds())
}

func newCounter(registry *prometheus.Registry, name, help string) prometheus.Counter {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dealqa",
		Name:      name,
		Help:      help,
	})
	registry.MustRegister(counter)
	return counter
}

func newCounterVec(registry *prometheus.Registry, name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dealqa",
		Name:      name,
		Help:      help,
	}, labels)
	registry.MustRegister(counter)
	return counter
}

func newHistogram(registry *prometheus.Registry, name, help string, buckets []float64) prometheus.Histogram {
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dealqa",
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
	registry.MustRegister(histogram)
	return histogram
}
