package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StageOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boq_stage_outcomes_total",
			Help: "Pipeline stage results by outcome (live or degraded reason)",
		},
		[]string{"stage", "outcome"},
	)

	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boq_pipeline_duration_seconds",
			Help:    "End-to-end estimate generation duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"status"},
	)

	PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boq_pipeline_runs_total",
			Help: "Estimate generation attempts by final status",
		},
		[]string{"status"},
	)

	BlobDeleteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "boq_blob_delete_failures_total",
			Help: "Blob removals that failed during plan deletion",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boq_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boq_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(StageOutcomes)
		prometheus.MustRegister(PipelineDuration)
		prometheus.MustRegister(PipelineRuns)
		prometheus.MustRegister(BlobDeleteFailures)
		prometheus.MustRegister(CacheHits)
		prometheus.MustRegister(CacheMisses)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
