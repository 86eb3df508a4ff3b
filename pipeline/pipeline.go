// Package pipeline wires loading, normalization, filtering and
// aggregation into per-dashboard instances. Each instance owns its staged
// directories and a session-scoped load cache; a failing instance never
// takes down its siblings.
package pipeline

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sla-pipeline/aggregate"
	"sla-pipeline/filter"
	"sla-pipeline/loader"
	"sla-pipeline/metrics"
	"sla-pipeline/models"
	"sla-pipeline/normalize"
)

// Pipeline is one dashboard instance (chat, voice or voice-sales).
type Pipeline struct {
	Name       string
	Schema     models.Schema
	CurrentDir string
	BeforeDir  string

	cache  *loader.Cache
	logger zerolog.Logger

	mu   sync.RWMutex
	base []models.Record
}

// New builds a dashboard instance over the two staged period directories.
func New(schema models.Schema, currentDir, beforeDir string, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		Name:       schema.Name,
		Schema:     schema,
		CurrentDir: currentDir,
		BeforeDir:  beforeDir,
		cache:      loader.NewCache(),
		logger:     logger.With().Str("component", "pipeline").Str("dashboard", schema.Name).Logger(),
	}
}

// Base returns the normalized base table, loading it on first use. The
// slice is shared read-only between callers; it is never mutated after
// normalization, which is what makes concurrent reports safe.
func (p *Pipeline) Base() ([]models.Record, error) {
	p.mu.RLock()
	if p.base != nil {
		base := p.base
		p.mu.RUnlock()
		return base, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.base != nil {
		return p.base, nil
	}

	start := time.Now()
	merged, err := loader.LoadPeriods(p.cache, p.CurrentDir, p.BeforeDir)
	if err != nil {
		metrics.LoadErrorsTotal.WithLabelValues(p.Name).Inc()
		return nil, err
	}
	records, dropped, err := normalize.Records(merged, p.Schema)
	if err != nil {
		metrics.LoadErrorsTotal.WithLabelValues(p.Name).Inc()
		return nil, err
	}

	metrics.LoadDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.RecordsLoadedTotal.WithLabelValues(p.Name).Add(float64(len(records)))
	metrics.BaseRecords.WithLabelValues(p.Name).Set(float64(len(records)))
	if dropped > 0 {
		metrics.RowsDroppedTotal.WithLabelValues(p.Name).Add(float64(dropped))
		p.logger.Warn().Int("dropped", dropped).Msg("rows dropped for unparseable dates")
	}
	p.logger.Info().
		Int("records", len(records)).
		Int("files", len(merged.SourceFiles)).
		Dur("elapsed", time.Since(start)).
		Msg("base table loaded")

	p.base = records
	return p.base, nil
}

// Report filters the base table and computes the three aggregate tables.
// Each call gets its own filtered view; the base is shared read-only.
func (p *Pipeline) Report(spec filter.Spec) (models.Report, error) {
	base, err := p.Base()
	if err != nil {
		return models.Report{}, err
	}

	start := time.Now()
	filtered := filter.Apply(base, spec)

	report := models.Report{
		Dashboard: p.Name,
		Options:   filter.Options(base, p.Schema),
	}
	var anomalies []models.Anomaly
	report.Summary, anomalies = aggregate.Summary(filtered, p.Schema)
	report.Anomalies = append(report.Anomalies, anomalies...)
	report.Daily, anomalies = aggregate.Daily(filtered, p.Schema)
	report.Anomalies = append(report.Anomalies, anomalies...)
	report.Hourly, anomalies = aggregate.Hourly(filtered, p.Schema)
	report.Anomalies = append(report.Anomalies, anomalies...)

	metrics.ReportDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.ReportsGeneratedTotal.WithLabelValues(p.Name).Inc()
	if len(report.Anomalies) > 0 {
		metrics.AnomaliesTotal.WithLabelValues(p.Name).Add(float64(len(report.Anomalies)))
		p.logger.Warn().
			Int("anomalies", len(report.Anomalies)).
			Msg("abandoned volume exceeds total volume in some cells")
	}
	return report, nil
}

// Refresh drops the load cache and the normalized base so the next report
// re-reads the staged directories. This is the explicit invalidation hook;
// the pipeline never watches the filesystem.
func (p *Pipeline) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.InvalidateAll()
	p.base = nil
	metrics.CacheRefreshesTotal.WithLabelValues(p.Name).Inc()
	p.logger.Info().Msg("cache invalidated")
}
