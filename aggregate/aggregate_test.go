package aggregate_test

import (
	"testing"
	"time"

	"sla-pipeline/aggregate"
	"sla-pipeline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(day int) time.Time {
	return time.Date(2025, time.February, day, 0, 0, 0, 0, time.UTC)
}

func TestDailyChatScenario(t *testing.T) {
	// One date, one skill, resolved 100 + unresolved 50: the abandoned
	// volume is the interactions on flagged rows.
	records := []models.Record{
		{Date: date(1), Hour: "10:00", Skill: "A", Volume: 100, Disposition: "Resolved",
			IsAbandoned: false, Period: models.PeriodCurrent},
		{Date: date(1), Hour: "10:00", Skill: "A", Volume: 50, Disposition: "Unresolved",
			IsAbandoned: true, Period: models.PeriodCurrent},
	}

	rows, anomalies := aggregate.Daily(records, models.Chat)
	require.Len(t, rows, 1)
	assert.Empty(t, anomalies)

	row := rows[0]
	assert.Equal(t, 150, row.TotalVolume)
	assert.Equal(t, 50, row.TotalAbandoned)
	assert.Equal(t, 100, row.TotalResolved)
	assert.Equal(t, 100, row.NonAbandoned)
	require.True(t, row.PctAbandoned.Valid)
	assert.InDelta(t, 33.33, row.PctAbandoned.Value, 0.01)
}

func TestSummary(t *testing.T) {
	records := []models.Record{
		{Date: date(1), Hour: "10:00", Volume: 100, QueueTimeS: 30, HandleTimeS: 300,
			ACWTimeS: 60, Period: models.PeriodCurrent},
		{Date: date(2), Hour: "11:00", Volume: 50, QueueTimeS: 90, HandleTimeS: 500,
			ACWTimeS: 120, IsAbandoned: true, Period: models.PeriodCurrent},
		{Date: date(1), Hour: "10:00", Volume: 80, QueueTimeS: 10, HandleTimeS: 200,
			ACWTimeS: 30, Period: models.PeriodBefore},
	}

	rows, anomalies := aggregate.Summary(records, models.Chat)
	require.Len(t, rows, 2)
	assert.Empty(t, anomalies)

	current := rows[0]
	assert.Equal(t, models.PeriodCurrent, current.Period)
	assert.Equal(t, 150, current.TotalVolume)
	assert.Equal(t, 50, current.TotalAbandoned)
	assert.Equal(t, 100, current.TotalResolved)
	assert.Equal(t, 60.0, current.AvgQueueS)
	assert.Equal(t, 400.0, current.AvgHandleS)
	assert.Equal(t, 90.0, current.AvgACWS)
	assert.Equal(t, 90.0, current.MaxQueueS)
	assert.Equal(t, 30.0, current.MinQueueS)
	require.True(t, current.PctAbandoned.Valid)
	assert.InDelta(t, 33.33, current.PctAbandoned.Value, 0.01)
	require.True(t, current.PctResolved.Valid)
	assert.InDelta(t, 66.67, current.PctResolved.Value, 0.01)

	before := rows[1]
	assert.Equal(t, models.PeriodBefore, before.Period)
	assert.Equal(t, 80, before.TotalVolume)
	assert.Zero(t, before.TotalAbandoned)
}

func TestSummaryZeroVolumeIsNoData(t *testing.T) {
	records := []models.Record{
		{Date: date(1), Hour: "10:00", Volume: 0, Period: models.PeriodCurrent},
	}

	rows, _ := aggregate.Summary(records, models.Chat)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].PctAbandoned.Valid, "zero denominator must be the no-data sentinel")
	assert.False(t, rows[0].PctResolved.Valid)
}

func TestSummaryVoiceSales(t *testing.T) {
	records := []models.Record{
		{Date: date(1), Hour: "10:00", Volume: 100, AbandonedCount: 10,
			ServiceLevelPct: 80, Period: models.PeriodCurrent},
		{Date: date(1), Hour: "11:00", Volume: 50, AbandonedCount: 5,
			ServiceLevelPct: 90, Period: models.PeriodCurrent},
	}

	rows, anomalies := aggregate.Summary(records, models.VoiceSales)
	require.Len(t, rows, 1)
	assert.Empty(t, anomalies)

	row := rows[0]
	assert.Equal(t, 150, row.TotalVolume)
	assert.Equal(t, 15, row.TotalAbandoned)
	assert.Zero(t, row.TotalResolved)
	assert.Equal(t, 85.0, row.AvgServiceLvl)
	require.True(t, row.PctAbandoned.Valid)
	assert.InDelta(t, 10.0, row.PctAbandoned.Value, 0.001)
}

func TestAbandonedExceedingVolumeIsReported(t *testing.T) {
	records := []models.Record{
		{Date: date(1), Hour: "10:00", Volume: 5, AbandonedCount: 9, Period: models.PeriodCurrent},
	}

	rows, anomalies := aggregate.Summary(records, models.Voice)
	require.Len(t, rows, 1)
	require.Len(t, anomalies, 1)

	// Reported, and the stacked decomposition never goes negative.
	assert.Equal(t, 9, rows[0].TotalAbandoned)
	assert.Equal(t, 0, rows[0].NonAbandoned)
	assert.Equal(t, "summary", anomalies[0].Grouping)
	assert.Equal(t, 5, anomalies[0].TotalVolume)
	assert.Equal(t, 9, anomalies[0].TotalAbandoned)

	_, dailyAnomalies := aggregate.Daily(records, models.Voice)
	require.Len(t, dailyAnomalies, 1)
	assert.Equal(t, "2025-02-01", dailyAnomalies[0].Key)

	_, hourlyAnomalies := aggregate.Hourly(records, models.Voice)
	require.Len(t, hourlyAnomalies, 1)
	assert.Equal(t, "10:00", hourlyAnomalies[0].Key)
}

func TestHourly(t *testing.T) {
	records := []models.Record{
		{Date: date(1), Hour: "10:00", Volume: 100, AbandonedCount: 4, Period: models.PeriodCurrent},
		{Date: date(2), Hour: "10:00", Volume: 60, AbandonedCount: 2, Period: models.PeriodCurrent},
		{Date: date(1), Hour: "2:00", Volume: 10, AbandonedCount: 0, Period: models.PeriodCurrent},
		{Date: date(1), Hour: "10:00", Volume: 80, AbandonedCount: 1, Period: models.PeriodBefore},
	}

	rows, anomalies := aggregate.Hourly(records, models.Voice)
	require.Len(t, rows, 3)
	assert.Empty(t, anomalies)

	// Numeric hour order: 2:00 before 10:00, then Current before Before.
	assert.Equal(t, "2:00", rows[0].Hour)
	assert.Equal(t, "10:00", rows[1].Hour)
	assert.Equal(t, models.PeriodCurrent, rows[1].Period)
	assert.Equal(t, 160, rows[1].TotalVolume)
	assert.Equal(t, 6, rows[1].TotalAbandoned)
	assert.Equal(t, "10:00", rows[2].Hour)
	assert.Equal(t, models.PeriodBefore, rows[2].Period)
	assert.Equal(t, 80, rows[2].TotalVolume)
}

func TestAggregatesOnEmptyInput(t *testing.T) {
	summary, _ := aggregate.Summary(nil, models.Chat)
	daily, _ := aggregate.Daily(nil, models.Chat)
	hourly, _ := aggregate.Hourly(nil, models.Chat)

	assert.Empty(t, summary)
	assert.Empty(t, daily)
	assert.Empty(t, hourly)
}
