// Package metrics defines scenario simulation metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Simulation counter vectors
var (
	ScenariosSimulatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scenarios_simulated_total",
		Help:      "Total number of scenario branches simulated by axis",
	}, []string{"axis"})
)

// Simulation histograms
var (
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_duration_seconds",
		Help:      "Duration of a full race simulation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// RecordSimulation records one race simulation and its scenario branches.
func RecordSimulation(paceScenarios, trackScenarios int, durationSeconds float64) {
	ScenariosSimulatedTotal.WithLabelValues("pace").Add(float64(paceScenarios))
	ScenariosSimulatedTotal.WithLabelValues("track_condition").Add(float64(trackScenarios))
	SimulationDuration.Observe(durationSeconds)
}
