package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_pipeline_runs_total",
			Help: "Total pipeline invocations by currency and outcome",
		},
		[]string{"currency", "outcome"},
	)

	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exchange_upstream_fetch_duration_seconds",
			Help:    "Upstream rate fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"currency"},
	)

	UpstreamFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_upstream_fetch_failures_total",
			Help: "Total failed upstream rate fetches",
		},
		[]string{"currency"},
	)
)
