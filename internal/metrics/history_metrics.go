// Package metrics defines prediction history metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HistoryRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_records_total",
		Help:      "Total number of prediction history writes by status",
	}, []string{"status"})

	HistoryQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "history_query_duration_seconds",
		Help:      "Duration of prediction history queries in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"query"})
)

// RecordHistoryAppend records the outcome of appending a prediction record.
func RecordHistoryAppend(err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	HistoryRecordsTotal.WithLabelValues(status).Inc()
}

// RecordHistoryQuery records the duration of a history query.
func RecordHistoryQuery(query string, durationSeconds float64) {
	HistoryQueryDuration.WithLabelValues(query).Observe(durationSeconds)
}
