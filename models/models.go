package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Period identifies the comparison window a record was staged into.
type Period string

const (
	PeriodCurrent Period = "Current"
	PeriodBefore  Period = "Before"
)

// PeakLabel classifies an hour of day as inside or outside business peak.
type PeakLabel string

const (
	Peak    PeakLabel = "Peak"
	OffPeak PeakLabel = "Off-Peak"
)

// PeriodColumn is the provenance column appended by the period merger.
const PeriodColumn = "PERIOD"

// Table is a raw delimited table as read from disk: a header plus string
// rows, untyped. SourceFiles lists the files the rows came from, for error
// reporting only.
type Table struct {
	Columns     []string
	Rows        [][]string
	SourceFiles []string
}

// Empty reports whether the table holds no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Record is one normalized row: one skill/queue, one hour, one day.
// Records are immutable after normalization; downstream stages only
// subset them.
type Record struct {
	Date      time.Time
	Hour      string
	HourOfDay int
	Skill     string
	Campaign  string

	// Volume is interactions (chat) or calls (voice).
	Volume int

	QueueTimeS  float64
	HandleTimeS float64
	ACWTimeS    float64

	Disposition string
	IsAbandoned bool

	AbandonedCount  int
	ServiceLevelPct float64

	Weekday string
	Peak    PeakLabel
	Period  Period
}

// IsResolved reports the complement of IsAbandoned for disposition-based
// schemas.
func (r Record) IsResolved() bool {
	return !r.IsAbandoned
}

// Schema describes one dashboard's raw column layout and its tolerance
// policies. The three instances (chat, voice, voice-sales) share the
// pipeline; only the schema differs.
type Schema struct {
	Name string

	DateColumn   string
	HourColumn   string
	SkillColumn  string
	VolumeColumn string

	// Optional columns; empty means the schema does not carry them.
	CampaignColumn     string
	DispositionColumn  string
	AbandonedColumn    string
	ServiceLevelColumn string

	QueueColumn  string
	HandleColumn string
	ACWColumn    string

	// FlexibleDurations accepts MM:SS duration text by implying a zero
	// hour segment.
	FlexibleDurations bool
	// DropBadDates silently drops rows whose date fails to parse instead
	// of failing the load.
	DropBadDates bool
	// CoerceBadNumbers maps malformed numeric and percentage text to zero
	// instead of failing the load.
	CoerceBadNumbers bool
}

func (s Schema) HasCampaign() bool     { return s.CampaignColumn != "" }
func (s Schema) HasDisposition() bool  { return s.DispositionColumn != "" }
func (s Schema) HasAbandoned() bool    { return s.AbandonedColumn != "" }
func (s Schema) HasServiceLevel() bool { return s.ServiceLevelColumn != "" }

// Chat is the chat hourly export schema. Abandonment is derived from the
// disposition text; malformed dates and numbers are hard failures.
var Chat = Schema{
	Name:              "chat",
	DateColumn:        "DATE",
	HourColumn:        "HOUR",
	SkillColumn:       "SKILL",
	VolumeColumn:      "INTERACTIONS",
	CampaignColumn:    "CAMPAIGN",
	DispositionColumn: "DISPOSITION",
	QueueColumn:       "CHAT QUEUE TIME",
	HandleColumn:      "HANDLE TIME",
	ACWColumn:         "AFTER CHAT WORK",
}

// Voice is the pod-skills voice hourly export schema. Abandonment comes
// from an explicit count column.
var Voice = Schema{
	Name:            "voice",
	DateColumn:      "DATE",
	HourColumn:      "HOUR",
	SkillColumn:     "SKILL",
	VolumeColumn:    "CALLS",
	AbandonedColumn: "ABANDONED count",
	QueueColumn:     "Average QUEUE WAIT TIME",
	HandleColumn:    "Average HANDLE TIME",
	ACWColumn:       "Average AFTER CALL WORK TIME",
}

// VoiceSales is the inbound-sales voice schema. It adds a service-level
// percentage and tolerates dirty exports: MM:SS durations, unparseable
// dates (dropped) and malformed numbers (zeroed).
var VoiceSales = Schema{
	Name:               "voice-sales",
	DateColumn:         "DATE",
	HourColumn:         "HOUR",
	SkillColumn:        "SKILL",
	VolumeColumn:       "CALLS",
	AbandonedColumn:    "ABANDONED count",
	ServiceLevelColumn: "SERVICE LEVEL (%rec)",
	QueueColumn:        "Average QUEUE WAIT TIME",
	HandleColumn:       "Average HANDLE TIME",
	ACWColumn:          "Average AFTER CALL WORK TIME",
	FlexibleDurations:  true,
	DropBadDates:       true,
	CoerceBadNumbers:   true,
}

// Percent is a percentage whose denominator may have been zero, in which
// case it is undefined ("no data") rather than 0. It marshals to JSON null
// when undefined.
type Percent struct {
	Value float64
	Valid bool
}

// PercentOf returns 100*num/den, or an undefined Percent when den is zero.
func PercentOf(num, den float64) Percent {
	if den == 0 {
		return Percent{}
	}
	return Percent{Value: 100 * num / den, Valid: true}
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// String renders the percentage with two decimals, or "n/a" when the
// denominator was zero. Downstream must treat "n/a" as missing data, not
// as zero.
func (p Percent) String() string {
	if !p.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(p.Value, 'f', 2, 64)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Percent{}
		return nil
	}
	if err := json.Unmarshal(data, &p.Value); err != nil {
		return err
	}
	p.Valid = true
	return nil
}

// SummaryRow is one period's scorecard aggregate.
type SummaryRow struct {
	Period         Period  `json:"period"`
	TotalVolume    int     `json:"total_volume"`
	TotalAbandoned int     `json:"total_abandoned"`
	TotalResolved  int     `json:"total_resolved,omitempty"`
	NonAbandoned   int     `json:"non_abandoned"`
	AvgQueueS      float64 `json:"avg_queue_s"`
	AvgHandleS     float64 `json:"avg_handle_s"`
	AvgACWS        float64 `json:"avg_acw_s"`
	MaxQueueS      float64 `json:"max_queue_s"`
	MinQueueS      float64 `json:"min_queue_s"`
	AvgServiceLvl  float64 `json:"avg_service_level,omitempty"`
	PctAbandoned   Percent `json:"pct_abandoned"`
	PctResolved    Percent `json:"pct_resolved,omitempty"`
}

// DailyRow is one (date, period) cell of the time-series aggregate.
type DailyRow struct {
	Date           time.Time `json:"date"`
	Period         Period    `json:"period"`
	TotalVolume    int       `json:"total_volume"`
	TotalAbandoned int       `json:"total_abandoned"`
	TotalResolved  int       `json:"total_resolved,omitempty"`
	NonAbandoned   int       `json:"non_abandoned"`
	AvgQueueS      float64   `json:"avg_queue_s"`
	AvgHandleS     float64   `json:"avg_handle_s"`
	AvgACWS        float64   `json:"avg_acw_s"`
	AvgServiceLvl  float64   `json:"avg_service_level,omitempty"`
	PctAbandoned   Percent   `json:"pct_abandoned"`
}

// HourlyRow is one (hour, period) cell of the volume breakdown.
type HourlyRow struct {
	Hour           string `json:"hour"`
	Period         Period `json:"period"`
	TotalVolume    int    `json:"total_volume"`
	TotalAbandoned int    `json:"total_abandoned"`
}

// Anomaly flags a grouped cell whose abandoned count exceeds its volume.
// Such cells are reported, never silently clamped.
type Anomaly struct {
	Grouping       string `json:"grouping"`
	Key            string `json:"key,omitempty"`
	Period         Period `json:"period"`
	TotalVolume    int    `json:"total_volume"`
	TotalAbandoned int    `json:"total_abandoned"`
}

// FilterOptions enumerates the observed domain of each filterable
// dimension, for building default (no-op) filter state.
type FilterOptions struct {
	Periods   []string  `json:"periods"`
	Skills    []string  `json:"skills"`
	Campaigns []string  `json:"campaigns,omitempty"`
	Hours     []string  `json:"hours"`
	Weekdays  []string  `json:"weekdays"`
	Peaks     []string  `json:"peaks"`
	MinDate   time.Time `json:"min_date"`
	MaxDate   time.Time `json:"max_date"`
}

// Report is the full contract handed to the presentation layer: the three
// aggregate tables plus filter domains and any data-quality anomalies.
type Report struct {
	Dashboard string        `json:"dashboard"`
	Summary   []SummaryRow  `json:"summary"`
	Daily     []DailyRow    `json:"daily"`
	Hourly    []HourlyRow   `json:"hourly"`
	Options   FilterOptions `json:"options"`
	Anomalies []Anomaly     `json:"anomalies,omitempty"`
}
