// Package metrics exposes Prometheus instrumentation for the
// classification and retry pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrorsClassified counts classifications by category and severity.
	ErrorsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_errors_classified_total",
			Help: "Total number of failures classified",
		},
		[]string{"category", "severity"},
	)

	// RetriesTotal counts scheduled retries by category.
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_retries_total",
			Help: "Total number of retries scheduled",
		},
		[]string{"category"},
	)

	// RetriesExhausted counts operations that failed after the full
	// retry budget.
	RetriesExhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_retries_exhausted_total",
			Help: "Total number of operations that exhausted their retry budget",
		},
		[]string{"category"},
	)

	// ReportsTotal counts external report attempts by outcome.
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_reports_total",
			Help: "Total number of external error reports",
		},
		[]string{"status"},
	)

	// RetryDelay observes computed backoff delays in seconds.
	RetryDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "faultline_retry_delay_seconds",
			Help:    "Backoff delay applied between retry attempts",
			Buckets: []float64{0.5, 1, 2, 4, 8, 10},
		},
	)
)
