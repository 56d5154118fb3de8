// Package metrics provides Prometheus instrumentation for tsweave
// pipelines: rows and columns processed, and per-stage latency. The
// compose core itself is instrumentation-free; only the pipeline runner
// records metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsProcessed counts rows flowing through a pipeline run.
	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsweave_rows_processed_total",
			Help: "Total number of rows processed by pipeline",
		},
		[]string{"pipeline"},
	)

	// ColumnsTransformed counts columns each stage produced.
	ColumnsTransformed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsweave_columns_transformed_total",
			Help: "Total number of columns produced by transform stage",
		},
		[]string{"pipeline", "stage"},
	)

	// StageLatency tracks per-stage fit-transform duration.
	StageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tsweave_stage_duration_seconds",
			Help:    "Fit-transform duration per pipeline stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pipeline", "stage"},
	)

	// PipelineRuns counts completed pipeline runs by outcome.
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsweave_pipeline_runs_total",
			Help: "Total pipeline runs by status",
		},
		[]string{"pipeline", "status"},
	)
)

// Timer measures the duration of a pipeline stage.
type Timer struct {
	pipeline string
	stage    string
	start    time.Time
}

// NewTimer starts a timer for a stage.
func NewTimer(pipeline, stage string) *Timer {
	return &Timer{pipeline: pipeline, stage: stage, start: time.Now()}
}

// Stop observes the elapsed time and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	StageLatency.WithLabelValues(t.pipeline, t.stage).Observe(elapsed.Seconds())
	return elapsed
}
