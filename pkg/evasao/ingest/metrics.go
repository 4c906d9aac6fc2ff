package ingest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for pipeline runs.
type Metrics struct {
	StageDuration *prometheus.HistogramVec
	RowsProcessed prometheus.Counter
}

// NewMetrics registers the pipeline metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evasao_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"stage"}),

		RowsProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "evasao_pipeline_rows_processed_total",
			Help: "Rows that went through a complete pipeline run",
		}),
	}
}

// ObserveStage records one stage duration.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// AddRows counts processed rows.
func (m *Metrics) AddRows(n int) {
	if m != nil {
		m.RowsProcessed.Add(float64(n))
	}
}
