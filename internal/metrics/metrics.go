package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adhere_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "adhere_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adhere_analysis_duration_seconds",
			Help:    "Time spent computing an analysis, excluding data fetch",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"analysis"},
	)

	InsufficientData = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adhere_insufficient_data_total",
			Help: "Analyses that returned an insufficient-data result",
		},
		[]string{"analysis"},
	)

	InsightSource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adhere_insights_total",
			Help: "Insight sets produced, by source (generated or fallback)",
		},
		[]string{"source"},
	)

	GeneratorErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adhere_insight_generator_errors_total",
			Help: "Failed calls to the text generation service",
		},
	)

	CacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adhere_cache_results_total",
			Help: "Report cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	SchedulerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adhere_scheduler_runs_total",
			Help: "Snapshot recompute runs by outcome",
		},
		[]string{"outcome"},
	)

	SnapshotsComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adhere_snapshots_computed_total",
			Help: "Per-user adherence snapshots computed by the scheduler",
		},
	)
)
