// Package metrics provides the centralized Prometheus registry for the prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "paddock"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of predictions by weighting regime",
	}, []string{"regime"})
	PredictionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_errors_total",
		Help:      "Total number of rejected prediction requests by reason",
	}, []string{"reason"})
	MLFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ml_fallback_total",
		Help:      "Total number of races scored with the fallback regime by reason",
	}, []string{"reason"})
	DarkHorsesFlaggedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dark_horses_flagged_total",
		Help:      "Total number of entrants flagged as dark horses",
	})
)

// Histogram metrics
var (
	PredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_duration_seconds",
		Help:      "Duration of the prediction pipeline in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BetInvestment = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bet_investment_yen",
		Help:      "Total investment of emitted bet plans in yen",
		Buckets:   []float64{1000, 2000, 5000, 10000, 20000, 50000, 100000},
	}, []string{"format"})
	PredictionConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_confidence",
		Help:      "Confidence scores of composed predictions",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionErrorsTotal)
		registry.MustRegister(MLFallbackTotal)
		registry.MustRegister(DarkHorsesFlaggedTotal)

		registry.MustRegister(PredictionDuration)
		registry.MustRegister(BetInvestment)
		registry.MustRegister(PredictionConfidence)

		// Register simulation metrics
		registry.MustRegister(ScenariosSimulatedTotal)
		registry.MustRegister(SimulationDuration)

		// Register history metrics
		registry.MustRegister(HistoryRecordsTotal)
		registry.MustRegister(HistoryQueryDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler. It also exposes the default
// gatherer, where the ML oracle collectors live.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}, promhttp.HandlerOpts{})
}

// RecordPrediction records one completed prediction.
func RecordPrediction(regime string, durationSeconds, confidence float64, darkHorses int) {
	PredictionsTotal.WithLabelValues(regime).Inc()
	PredictionDuration.Observe(durationSeconds)
	PredictionConfidence.Observe(confidence)
	DarkHorsesFlaggedTotal.Add(float64(darkHorses))
}

// RecordPredictionError records a rejected prediction request.
func RecordPredictionError(reason string) {
	PredictionErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordMLFallback records a race scored without ML probabilities.
func RecordMLFallback(reason string) {
	MLFallbackTotal.WithLabelValues(reason).Inc()
}

// RecordBetPlan records the total investment of an emitted bet plan.
func RecordBetPlan(format string, totalInvestment int64) {
	BetInvestment.WithLabelValues(format).Observe(float64(totalInvestment))
}
