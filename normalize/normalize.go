// Package normalize turns a merged raw table into typed, immutable
// records: dates parsed day-first, durations in seconds, derived flags and
// labels. It fails loudly on missing columns and, for strict schemas, on
// malformed values.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"sla-pipeline/errors"
	"sla-pipeline/models"
	"sla-pipeline/parser"
)

// peak hours run 9:00 through 18:xx inclusive.
const (
	peakStartHour = 9
	peakEndHour   = 18
)

// PeakFor labels an hour of day.
func PeakFor(hour int) models.PeakLabel {
	if hour >= peakStartHour && hour <= peakEndHour {
		return models.Peak
	}
	return models.OffPeak
}

// abandonedMarkers are matched case-insensitively against the disposition
// text for disposition-based schemas.
var abandonedMarkers = []string{"unresolved", "unresponsive"}

func isAbandonedDisposition(disposition string) bool {
	d := strings.ToLower(disposition)
	for _, m := range abandonedMarkers {
		if strings.Contains(d, m) {
			return true
		}
	}
	return false
}

// columns resolves the schema's required raw columns to their positions in
// the table header.
type columns struct {
	date, hour, skill, volume, period          int
	campaign, disposition, abandoned, svcLevel int
	queue, handle, acw                         int
}

func resolveColumns(t models.Table, s models.Schema) (columns, error) {
	find := func(name string) (int, error) {
		if name == "" {
			return -1, nil
		}
		for i, c := range t.Columns {
			if c == name {
				return i, nil
			}
		}
		return -1, &errors.SchemaError{
			File:   strings.Join(t.SourceFiles, ", "),
			Column: name,
			Err:    errors.ErrMissingColumn,
		}
	}

	var (
		cols columns
		err  error
	)
	for _, bind := range []struct {
		dst  *int
		name string
	}{
		{&cols.date, s.DateColumn},
		{&cols.hour, s.HourColumn},
		{&cols.skill, s.SkillColumn},
		{&cols.volume, s.VolumeColumn},
		{&cols.period, models.PeriodColumn},
		{&cols.campaign, s.CampaignColumn},
		{&cols.disposition, s.DispositionColumn},
		{&cols.abandoned, s.AbandonedColumn},
		{&cols.svcLevel, s.ServiceLevelColumn},
		{&cols.queue, s.QueueColumn},
		{&cols.handle, s.HandleColumn},
		{&cols.acw, s.ACWColumn},
	} {
		if *bind.dst, err = find(bind.name); err != nil {
			return columns{}, err
		}
	}
	return cols, nil
}

// Records normalizes every row of the merged table under the given schema.
// The returned dropped count is the number of rows discarded for
// unparseable dates, which only schemas with DropBadDates tolerate; all
// other failures abort with row context.
func Records(t models.Table, s models.Schema) (records []models.Record, dropped int, err error) {
	if t.Empty() {
		return nil, 0, nil
	}

	cols, err := resolveColumns(t, s)
	if err != nil {
		return nil, 0, err
	}

	duration := parser.Duration
	if s.FlexibleDurations {
		duration = parser.DurationFlexible
	}

	records = make([]models.Record, 0, len(t.Rows))
	for i, row := range t.Rows {
		// Row numbers in errors are 1-based and count the header line,
		// matching what a person sees in the export.
		rowNum := i + 2

		rec := models.Record{
			Skill:  strings.TrimSpace(row[cols.skill]),
			Hour:   strings.TrimSpace(row[cols.hour]),
			Period: models.Period(strings.TrimSpace(row[cols.period])),
		}

		rec.Date, err = parser.Date(row[cols.date])
		if err != nil {
			if s.DropBadDates {
				dropped++
				continue
			}
			return nil, dropped, rowError(rowNum, s.DateColumn, row[cols.date], err)
		}

		rec.HourOfDay, err = parser.HourOfDay(rec.Hour)
		if err != nil {
			return nil, dropped, rowError(rowNum, s.HourColumn, rec.Hour, err)
		}

		rec.Volume, err = intField(row[cols.volume], s.CoerceBadNumbers)
		if err != nil {
			return nil, dropped, rowError(rowNum, s.VolumeColumn, row[cols.volume], err)
		}

		if cols.campaign >= 0 {
			rec.Campaign = strings.TrimSpace(row[cols.campaign])
		}
		if cols.disposition >= 0 {
			rec.Disposition = strings.TrimSpace(row[cols.disposition])
			rec.IsAbandoned = isAbandonedDisposition(rec.Disposition)
		}
		if cols.abandoned >= 0 {
			rec.AbandonedCount, err = intField(row[cols.abandoned], s.CoerceBadNumbers)
			if err != nil {
				return nil, dropped, rowError(rowNum, s.AbandonedColumn, row[cols.abandoned], err)
			}
		}
		if cols.svcLevel >= 0 {
			rec.ServiceLevelPct, err = parser.Percentage(row[cols.svcLevel])
			if err != nil {
				if !s.CoerceBadNumbers {
					return nil, dropped, rowError(rowNum, s.ServiceLevelColumn, row[cols.svcLevel], err)
				}
				rec.ServiceLevelPct = 0
			}
		}

		rec.QueueTimeS = duration(row[cols.queue])
		rec.HandleTimeS = duration(row[cols.handle])
		rec.ACWTimeS = duration(row[cols.acw])

		rec.Weekday = rec.Date.Weekday().String()
		rec.Peak = PeakFor(rec.HourOfDay)

		records = append(records, rec)
	}
	return records, dropped, nil
}

func intField(text string, coerce bool) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < 0 {
		if coerce {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %q", errors.ErrInvalidNumber, text)
	}
	return v, nil
}

func rowError(row int, column, value string, err error) error {
	return &errors.RowError{Row: row, Column: column, Value: value, Err: err}
}
