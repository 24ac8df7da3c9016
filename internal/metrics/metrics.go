// Package metrics defines the Prometheus collectors for engine operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels
const (
	OpValidate     = "validate"
	OpScoreContent = "score_content"
	OpRecommend    = "recommend"
	OpAutoComplete = "autocomplete"
	OpEvaluate     = "evaluate_draft"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grant_engine_operations_total",
			Help: "Total number of engine operations processed",
		},
		[]string{"operation"},
	)

	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grant_engine_operation_errors_total",
			Help: "Total number of engine operations that returned an error",
		},
		[]string{"operation"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grant_engine_operation_duration_seconds",
			Help:    "Duration of engine operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	OverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grant_engine_overall_score",
			Help:    "Distribution of overall application scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grant_engine_report_cache_lookups_total",
			Help: "Report cache lookups by result",
		},
		[]string{"result"},
	)
)

// Observe records one finished operation.
func Observe(operation string, start time.Time, err error) {
	OperationsTotal.WithLabelValues(operation).Inc()
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		OperationErrors.WithLabelValues(operation).Inc()
	}
}
