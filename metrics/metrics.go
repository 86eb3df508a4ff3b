// Package metrics provides Prometheus observability metrics for the SLA
// pipeline. It includes Critical and Important metrics for data-quality and
// operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Data Quality Visibility
// =============================================================================

// RowsDroppedTotal counts rows discarded for unparseable dates, per
// dashboard. Only schemas that tolerate bad dates ever increment this.
var RowsDroppedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pipeline",
	Name:      "rows_dropped_total",
	Help:      "Rows dropped during normalization due to unparseable dates",
}, []string{"dashboard"})

// AnomaliesTotal counts grouped cells whose abandoned count exceeded their
// volume. Non-zero values indicate an upstream export problem.
var AnomaliesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pipeline",
	Name:      "data_quality_anomalies_total",
	Help:      "Aggregate cells where abandoned volume exceeded total volume",
}, []string{"dashboard"})

// LoadErrorsTotal counts failed loads by dashboard.
var LoadErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pipeline",
	Name:      "load_errors_total",
	Help:      "Pipeline loads that failed with a schema or I/O error",
}, []string{"dashboard"})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// RecordsLoadedTotal counts records that survived normalization.
var RecordsLoadedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pipeline",
	Name:      "records_loaded_total",
	Help:      "Records normalized into the base table, per dashboard",
}, []string{"dashboard"})

// BaseRecords tracks the current size of each dashboard's base table.
var BaseRecords = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "pipeline",
	Name:      "base_records",
	Help:      "Records currently held in the normalized base table",
}, []string{"dashboard"})

// LoadDurationSeconds tracks time to load and normalize a dashboard's
// staged exports.
var LoadDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "pipeline",
	Name:      "load_duration_seconds",
	Help:      "Time taken to load and normalize staged export files",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
})

// ReportDurationSeconds tracks time to filter and aggregate one report.
var ReportDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "pipeline",
	Name:      "report_duration_seconds",
	Help:      "Time taken to filter and aggregate one report",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// ReportsGeneratedTotal counts reports served, per dashboard.
var ReportsGeneratedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pipeline",
	Name:      "reports_generated_total",
	Help:      "Reports generated, per dashboard",
}, []string{"dashboard"})

// CacheRefreshesTotal counts explicit cache invalidations.
var CacheRefreshesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pipeline",
	Name:      "cache_refreshes_total",
	Help:      "Explicit load-cache invalidations, per dashboard",
}, []string{"dashboard"})
