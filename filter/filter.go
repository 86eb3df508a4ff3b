// Package filter subsets normalized records by a conjunction of
// per-dimension inclusion sets and an inclusive date range.
package filter

import (
	"sort"
	"time"

	"sla-pipeline/models"
	"sla-pipeline/parser"
)

// Spec enumerates the inclusion set per dimension. A nil slice means the
// dimension is unconstrained (the default filter state); a non-nil empty
// slice matches nothing, so the result is empty. From/To bound the
// normalized date inclusively on both ends; nil means unbounded.
type Spec struct {
	Periods   []string
	Skills    []string
	Campaigns []string
	Hours     []string
	Weekdays  []string
	Peaks     []string
	From      *time.Time
	To        *time.Time
}

type set map[string]struct{}

// newSet returns nil for a nil inclusion list, preserving the
// nil-means-unconstrained distinction.
func newSet(values []string) set {
	if values == nil {
		return nil
	}
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set) admits(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

// Apply returns the records admitted by every dimension of the spec. The
// input is never mutated; the result is a fresh slice.
func Apply(records []models.Record, spec Spec) []models.Record {
	periods := newSet(spec.Periods)
	skills := newSet(spec.Skills)
	campaigns := newSet(spec.Campaigns)
	hours := newSet(spec.Hours)
	weekdays := newSet(spec.Weekdays)
	peaks := newSet(spec.Peaks)

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !periods.admits(string(r.Period)) ||
			!skills.admits(r.Skill) ||
			!campaigns.admits(r.Campaign) ||
			!hours.admits(r.Hour) ||
			!weekdays.admits(r.Weekday) ||
			!peaks.admits(string(r.Peak)) {
			continue
		}
		if spec.From != nil && r.Date.Before(*spec.From) {
			continue
		}
		if spec.To != nil && r.Date.After(*spec.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// weekOrder fixes weekday option ordering independent of what order days
// appear in the data.
var weekOrder = map[string]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6,
}

// Options computes the observed domain of every filterable dimension, for
// the presentation layer's default (no-op) filter state. Hour options are
// ordered numerically by leading hour, never lexicographically.
func Options(records []models.Record, schema models.Schema) models.FilterOptions {
	opts := models.FilterOptions{}

	periods := make(set)
	skills := make(set)
	campaigns := make(set)
	hours := make(set)
	weekdays := make(set)
	peaks := make(set)

	for i, r := range records {
		periods[string(r.Period)] = struct{}{}
		skills[r.Skill] = struct{}{}
		if schema.HasCampaign() {
			campaigns[r.Campaign] = struct{}{}
		}
		hours[r.Hour] = struct{}{}
		weekdays[r.Weekday] = struct{}{}
		peaks[string(r.Peak)] = struct{}{}

		if i == 0 || r.Date.Before(opts.MinDate) {
			opts.MinDate = r.Date
		}
		if i == 0 || r.Date.After(opts.MaxDate) {
			opts.MaxDate = r.Date
		}
	}

	// Current before Before, matching how the dashboards present periods.
	for _, p := range []models.Period{models.PeriodCurrent, models.PeriodBefore} {
		if _, ok := periods[string(p)]; ok {
			opts.Periods = append(opts.Periods, string(p))
		}
	}
	opts.Skills = sortedKeys(skills)
	if schema.HasCampaign() {
		opts.Campaigns = sortedKeys(campaigns)
	}
	opts.Hours = sortedKeys(hours)
	parser.SortHours(opts.Hours)
	opts.Weekdays = sortedKeys(weekdays)
	sort.SliceStable(opts.Weekdays, func(i, j int) bool {
		return weekOrder[opts.Weekdays[i]] < weekOrder[opts.Weekdays[j]]
	})
	for _, p := range []models.PeakLabel{models.Peak, models.OffPeak} {
		if _, ok := peaks[string(p)]; ok {
			opts.Peaks = append(opts.Peaks, string(p))
		}
	}
	return opts
}

func sortedKeys(s set) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
