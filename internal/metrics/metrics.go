// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "namegen_api_generation_duration_seconds",
			Help:    "Time taken by the generation pipeline in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2, 3, 5, 7.5, 10, 15, 20, 30, 60},
		},
		[]string{"provider", "outcome"},
	)

	GenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "namegen_api_generations_total",
			Help: "Total number of generations by outcome",
		},
		[]string{"provider", "outcome"},
	)

	ErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "namegen_api_error_count",
			Help: "Error count",
		},
		[]string{"provider", "from"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "namegen_api_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "namegen_api_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	HistoryFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "namegen_api_history_flush_total",
			Help: "Generation history flushes by result",
		},
		[]string{"result"},
	)
)
