// Package metrics holds the Prometheus metrics of an import run.
//
// The importer is a batch job, so nothing is scraped: the command writes the
// registry to a node_exporter textfile when a path is configured.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ImportMetrics holds all Prometheus metrics for the import pipeline.
type ImportMetrics struct {
	RowsReadTotal       *prometheus.CounterVec
	RowsInsertedTotal   *prometheus.CounterVec
	RowsUnresolvedTotal *prometheus.CounterVec
	StepSeconds         *prometheus.HistogramVec
	LastSuccess         prometheus.Gauge
}

// NewImportMetrics creates the import metrics on reg.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	factory := promauto.With(reg)

	return &ImportMetrics{
		RowsReadTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "import_rows_read_total",
				Help: "Total data rows read from source files",
			},
			[]string{"table"},
		),
		RowsInsertedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "import_rows_inserted_total",
				Help: "Total rows appended to the store",
			},
			[]string{"table"},
		),
		RowsUnresolvedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "import_rows_unresolved_total",
				Help: "Total references that could not be resolved",
			},
			[]string{"table", "domain"},
		),
		StepSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "import_step_duration_seconds",
				Help:    "Duration of one file import step",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"table"},
		),
		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "import_last_success_timestamp_seconds",
				Help: "Unix time of the last run that completed without error",
			},
		),
	}
}

// RecordStep records the outcome of one import step. Safe on a nil receiver.
func (m *ImportMetrics) RecordStep(table string, read, inserted int, unresolved map[string]int, d time.Duration) {
	if m == nil {
		return
	}
	m.RowsReadTotal.WithLabelValues(table).Add(float64(read))
	m.RowsInsertedTotal.WithLabelValues(table).Add(float64(inserted))
	for domain, n := range unresolved {
		m.RowsUnresolvedTotal.WithLabelValues(table, domain).Add(float64(n))
	}
	m.StepSeconds.WithLabelValues(table).Observe(d.Seconds())
}

// RecordSuccess marks the run as completed. Safe on a nil receiver.
func (m *ImportMetrics) RecordSuccess(at time.Time) {
	if m == nil {
		return
	}
	m.LastSuccess.Set(float64(at.Unix()))
}

// WriteTextfile writes everything g gathers to path in the text exposition
// format. The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
