package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the survey
// pipeline.
type Metrics struct {
	RowsRead        prometheus.Counter
	RowsSkipped     prometheus.Counter
	FilesProcessed  prometheus.Counter
	FilesFailed     prometheus.Counter
	EventsPublished prometheus.Counter

	FileProcessingDuration prometheus.Histogram
	RowsPerFile            prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traffic_survey",
			Name:      "rows_read_total",
			Help:      "Total raw rows read from survey files.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traffic_survey",
			Name:      "rows_skipped_total",
			Help:      "Total malformed rows dropped by the parser.",
		}),
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traffic_survey",
			Name:      "files_processed_total",
			Help:      "Total survey files aggregated successfully.",
		}),
		FilesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traffic_survey",
			Name:      "files_failed_total",
			Help:      "Total survey files that failed fatally.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traffic_survey",
			Name:      "events_published_total",
			Help:      "Total validated events published to Kafka.",
		}),
		FileProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "traffic_survey",
			Name:      "file_processing_duration_seconds",
			Help:      "Duration of a complete read-aggregate-report-chart run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RowsPerFile: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "traffic_survey",
			Name:      "rows_per_file",
			Help:      "Number of raw rows per survey file.",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
	}

	prometheus.MustRegister(
		m.RowsRead,
		m.RowsSkipped,
		m.FilesProcessed,
		m.FilesFailed,
		m.EventsPublished,
		m.FileProcessingDuration,
		m.RowsPerFile,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsRead:               prometheus.NewCounter(prometheus.CounterOpts{Namespace: "traffic_survey", Name: "rows_read_total"}),
		RowsSkipped:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "traffic_survey", Name: "rows_skipped_total"}),
		FilesProcessed:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "traffic_survey", Name: "files_processed_total"}),
		FilesFailed:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "traffic_survey", Name: "files_failed_total"}),
		EventsPublished:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "traffic_survey", Name: "events_published_total"}),
		FileProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "traffic_survey", Name: "file_processing_duration_seconds"}),
		RowsPerFile:            prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "traffic_survey", Name: "rows_per_file"}),
	}
}
