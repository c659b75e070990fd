// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Synchronization metrics
	SyncRunsTotal    *prometheus.CounterVec
	SyncDuration     prometheus.Histogram
	RowsIngested     *prometheus.CounterVec
	RowsDeleted      *prometheus.CounterVec
	PeriodsSkipped   prometheus.Counter
	FullBuildsTotal  prometheus.Counter

	// Source metrics
	SourceRequestErrors *prometheus.CounterVec

	// Reporting metrics
	ReportsGenerated prometheus.Counter

	// Database metrics
	DBQueryErrors *prometheus.CounterVec

	// Health metrics
	LastSuccessfulSync prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fundpanel"
	}

	return &Metrics{
		SyncRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Total number of synchronization runs by status",
		}, []string{"status"}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Synchronization run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		RowsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "rows_ingested_total",
			Help:      "Total number of rows ingested by table",
		}, []string{"table"}),
		RowsDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "rows_deleted_total",
			Help:      "Total number of tail rows deleted by table",
		}, []string{"table"}),
		PeriodsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "periods_skipped_total",
			Help:      "Total number of monthly periods skipped on fetch failure",
		}),
		FullBuildsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "full_builds_total",
			Help:      "Total number of full history builds",
		}),
		SourceRequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "request_errors_total",
			Help:      "Total number of source request errors by source",
		}, []string{"source"}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"operation"}),
		LastSuccessfulSync: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_sync_timestamp",
			Help:      "Unix timestamp of the last successful synchronization",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSyncRun records one synchronization run.
func (m *Metrics) RecordSyncRun(status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.SyncRunsTotal.WithLabelValues(status).Inc()
	m.SyncDuration.Observe(durationSeconds)
}

// RecordRows records ingested and deleted row counts for a table.
func (m *Metrics) RecordRows(table string, ingested, deleted int64) {
	if m == nil {
		return
	}
	m.RowsIngested.WithLabelValues(table).Add(float64(ingested))
	m.RowsDeleted.WithLabelValues(table).Add(float64(deleted))
}

// RecordPeriodSkipped records a monthly period skipped on fetch failure.
func (m *Metrics) RecordPeriodSkipped() {
	if m == nil {
		return
	}
	m.PeriodsSkipped.Inc()
}

// RecordFullBuild records a full history build.
func (m *Metrics) RecordFullBuild() {
	if m == nil {
		return
	}
	m.FullBuildsTotal.Inc()
}

// MarkSyncSuccess sets the last-successful-sync timestamp gauge.
func (m *Metrics) MarkSyncSuccess(unixSeconds int64) {
	if m == nil {
		return
	}
	m.LastSuccessfulSync.Set(float64(unixSeconds))
}

// RecordSourceError records a failed request against an upstream source.
func (m *Metrics) RecordSourceError(source string) {
	if m == nil {
		return
	}
	m.SourceRequestErrors.WithLabelValues(source).Inc()
}

// RecordDBError records a failed store operation.
func (m *Metrics) RecordDBError(operation string) {
	if m == nil {
		return
	}
	m.DBQueryErrors.WithLabelValues(operation).Inc()
}

// RecordReportGenerated records one generated report.
func (m *Metrics) RecordReportGenerated() {
	if m == nil {
		return
	}
	m.ReportsGenerated.Inc()
}
