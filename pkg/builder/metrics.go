package builder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Script build metrics
	buildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cfstep_helm_build_duration_seconds",
			Help:    "Duration of script generation in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	buildTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfstep_helm_build_total",
			Help: "Total number of script builds",
		},
		[]string{"action", "status"}, // success or error
	)

	// Repository metrics
	tokenExchangeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfstep_helm_token_exchange_total",
			Help: "Total number of repository token lookups",
		},
		[]string{"scheme", "source"}, // exchange, preset, cache or dry-run
	)

	repositoryProbeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfstep_helm_repository_probe_total",
			Help: "Total number of artifact repository probes",
		},
		[]string{"result"}, // artifactory, unknown, skipped or error
	)
)
