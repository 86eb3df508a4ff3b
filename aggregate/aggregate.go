// Package aggregate computes the three summary tables handed to the
// presentation layer: per-period scorecards, daily time series and hourly
// volume breakdowns. All percentages guard their denominator; a
// zero-volume group yields an undefined percentage, never zero and never
// a panic.
package aggregate

import (
	"sort"
	"time"

	"sla-pipeline/models"
	"sla-pipeline/parser"
)

// durStats accumulates mean/min/max over per-row duration values.
type durStats struct {
	sum float64
	n   int
	min float64
	max float64
}

func (d *durStats) add(v float64) {
	if d.n == 0 || v < d.min {
		d.min = v
	}
	if d.n == 0 || v > d.max {
		d.max = v
	}
	d.sum += v
	d.n++
}

func (d durStats) mean() float64 {
	if d.n == 0 {
		return 0
	}
	return d.sum / float64(d.n)
}

// cell accumulates one grouped cell's metrics.
type cell struct {
	volume    int
	abandoned int
	resolved  int
	queue     durStats
	handle    durStats
	acw       durStats
	svcSum    float64
	rows      int
}

func (c *cell) add(r models.Record, s models.Schema) {
	c.volume += r.Volume
	c.abandoned += abandonedVolume(r, s)
	if s.HasDisposition() && r.IsResolved() {
		c.resolved += r.Volume
	}
	c.queue.add(r.QueueTimeS)
	c.handle.add(r.HandleTimeS)
	c.acw.add(r.ACWTimeS)
	c.svcSum += r.ServiceLevelPct
	c.rows++
}

// abandonedVolume is the abandoned contribution of one record: for
// disposition-based schemas the record's whole volume counts when it is
// flagged abandoned; count-based schemas carry an explicit column.
func abandonedVolume(r models.Record, s models.Schema) int {
	if s.HasDisposition() {
		if r.IsAbandoned {
			return r.Volume
		}
		return 0
	}
	return r.AbandonedCount
}

// nonAbandoned is volume minus abandoned, floored at zero. Cells where
// abandoned exceeds volume are reported as anomalies by the callers, never
// clamped silently.
func nonAbandoned(volume, abandoned int) int {
	if abandoned > volume {
		return 0
	}
	return volume - abandoned
}

func periodOrder(p models.Period) int {
	switch p {
	case models.PeriodCurrent:
		return 0
	case models.PeriodBefore:
		return 1
	default:
		return 2
	}
}

// Summary groups by period and computes the scorecard metrics.
func Summary(records []models.Record, s models.Schema) ([]models.SummaryRow, []models.Anomaly) {
	cells := make(map[models.Period]*cell)
	for _, r := range records {
		c, ok := cells[r.Period]
		if !ok {
			c = &cell{}
			cells[r.Period] = c
		}
		c.add(r, s)
	}

	rows := make([]models.SummaryRow, 0, len(cells))
	var anomalies []models.Anomaly
	for period, c := range cells {
		row := models.SummaryRow{
			Period:         period,
			TotalVolume:    c.volume,
			TotalAbandoned: c.abandoned,
			NonAbandoned:   nonAbandoned(c.volume, c.abandoned),
			AvgQueueS:      c.queue.mean(),
			AvgHandleS:     c.handle.mean(),
			AvgACWS:        c.acw.mean(),
			MaxQueueS:      c.queue.max,
			MinQueueS:      c.queue.min,
			PctAbandoned:   models.PercentOf(float64(c.abandoned), float64(c.volume)),
		}
		if s.HasDisposition() {
			row.TotalResolved = c.resolved
			row.PctResolved = models.PercentOf(float64(c.resolved), float64(c.volume))
		}
		if s.HasServiceLevel() && c.rows > 0 {
			row.AvgServiceLvl = c.svcSum / float64(c.rows)
		}
		if c.abandoned > c.volume {
			anomalies = append(anomalies, models.Anomaly{
				Grouping:       "summary",
				Period:         period,
				TotalVolume:    c.volume,
				TotalAbandoned: c.abandoned,
			})
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return periodOrder(rows[i].Period) < periodOrder(rows[j].Period)
	})
	sortAnomalies(anomalies)
	return rows, anomalies
}

type dailyKey struct {
	date   time.Time
	period models.Period
}

// Daily groups by (date, period) for time-series rendering.
func Daily(records []models.Record, s models.Schema) ([]models.DailyRow, []models.Anomaly) {
	cells := make(map[dailyKey]*cell)
	for _, r := range records {
		k := dailyKey{date: r.Date, period: r.Period}
		c, ok := cells[k]
		if !ok {
			c = &cell{}
			cells[k] = c
		}
		c.add(r, s)
	}

	rows := make([]models.DailyRow, 0, len(cells))
	var anomalies []models.Anomaly
	for k, c := range cells {
		row := models.DailyRow{
			Date:           k.date,
			Period:         k.period,
			TotalVolume:    c.volume,
			TotalAbandoned: c.abandoned,
			NonAbandoned:   nonAbandoned(c.volume, c.abandoned),
			AvgQueueS:      c.queue.mean(),
			AvgHandleS:     c.handle.mean(),
			AvgACWS:        c.acw.mean(),
			PctAbandoned:   models.PercentOf(float64(c.abandoned), float64(c.volume)),
		}
		if s.HasDisposition() {
			row.TotalResolved = c.resolved
		}
		if s.HasServiceLevel() && c.rows > 0 {
			row.AvgServiceLvl = c.svcSum / float64(c.rows)
		}
		if c.abandoned > c.volume {
			anomalies = append(anomalies, models.Anomaly{
				Grouping:       "daily",
				Key:            k.date.Format("2006-01-02"),
				Period:         k.period,
				TotalVolume:    c.volume,
				TotalAbandoned: c.abandoned,
			})
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return periodOrder(rows[i].Period) < periodOrder(rows[j].Period)
	})
	sortAnomalies(anomalies)
	return rows, anomalies
}

type hourlyKey struct {
	hour   string
	period models.Period
}

// Hourly groups by (hour, period); sums only, for volume breakdowns.
// Rows come back in numeric hour order.
func Hourly(records []models.Record, s models.Schema) ([]models.HourlyRow, []models.Anomaly) {
	type sums struct {
		volume    int
		abandoned int
	}
	cells := make(map[hourlyKey]*sums)
	for _, r := range records {
		k := hourlyKey{hour: r.Hour, period: r.Period}
		c, ok := cells[k]
		if !ok {
			c = &sums{}
			cells[k] = c
		}
		c.volume += r.Volume
		c.abandoned += abandonedVolume(r, s)
	}

	rows := make([]models.HourlyRow, 0, len(cells))
	var anomalies []models.Anomaly
	for k, c := range cells {
		rows = append(rows, models.HourlyRow{
			Hour:           k.hour,
			Period:         k.period,
			TotalVolume:    c.volume,
			TotalAbandoned: c.abandoned,
		})
		if c.abandoned > c.volume {
			anomalies = append(anomalies, models.Anomaly{
				Grouping:       "hourly",
				Key:            k.hour,
				Period:         k.period,
				TotalVolume:    c.volume,
				TotalAbandoned: c.abandoned,
			})
		}
	}

	hours := make([]string, 0, len(rows))
	for _, r := range rows {
		hours = append(hours, r.Hour)
	}
	parser.SortHours(hours)
	rank := make(map[string]int, len(hours))
	for i, h := range hours {
		if _, ok := rank[h]; !ok {
			rank[h] = i
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rank[rows[i].Hour] != rank[rows[j].Hour] {
			return rank[rows[i].Hour] < rank[rows[j].Hour]
		}
		return periodOrder(rows[i].Period) < periodOrder(rows[j].Period)
	})
	sortAnomalies(anomalies)
	return rows, anomalies
}

func sortAnomalies(anomalies []models.Anomaly) {
	sort.Slice(anomalies, func(i, j int) bool {
		if anomalies[i].Key != anomalies[j].Key {
			return anomalies[i].Key < anomalies[j].Key
		}
		return periodOrder(anomalies[i].Period) < periodOrder(anomalies[j].Period)
	})
}
