// Package ml provides Prometheus metrics for oracle operations.
package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OracleRequestsTotal tracks place-probability requests by outcome
	OracleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paddock",
			Name:      "ml_oracle_requests_total",
			Help:      "Total number of place probability requests",
		},
		[]string{"outcome"}, // success, cache_hit, error, invalid, circuit_open
	)

	// OracleLatency tracks place-probability request latency
	OracleLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "paddock",
			Name:      "ml_oracle_latency_seconds",
			Help:      "Place probability request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// OracleCacheHitRatio tracks the probability cache hit ratio
	OracleCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "paddock",
			Name:      "ml_oracle_cache_hit_ratio",
			Help:      "Place probability cache hit ratio",
		},
	)

	// OracleUp reports the last probe result (1 up, 0 down)
	OracleUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "paddock",
			Name:      "ml_oracle_up",
			Help:      "Whether the ML oracle answered its last health probe",
		},
	)
)
