package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"sla-pipeline/errors"
)

// Duration converts "H:MM:SS" duration text to seconds. Malformed or empty
// text recovers to 0; this is a deliberate policy for dirty exports, not an
// accident. Leading zeros are insignificant: "1:02:03" and "01:02:03" both
// yield 3723.
func Duration(text string) float64 {
	return duration(text, false)
}

// DurationFlexible behaves like Duration but also accepts "MM:SS" by
// implying a zero hour segment. Only the inbound-sales exports use this
// shorter form.
func DurationFlexible(text string) float64 {
	return duration(text, true)
}

func duration(text string, allowMMSS bool) float64 {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) == 2 && allowMMSS {
		parts = append([]string{"0"}, parts...)
	}
	if len(parts) != 3 {
		return 0
	}

	var segs [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 {
			return 0
		}
		segs[i] = v
	}
	return segs[0]*3600 + segs[1]*60 + segs[2]
}

// Percentage converts text like "42.5%" to 42.5. A trailing percent sign
// and surrounding whitespace are stripped; empty text maps to 0. Anything
// else non-numeric is an error, which callers may explicitly coerce to 0
// where the schema tolerates dirty exports.
func Percentage(text string) (float64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errors.ErrInvalidPercentage, text)
	}
	return v, nil
}

// dateLayouts are tried in order. Slash and dash forms are read day-first,
// so "01/02/2025" is 1 February 2025; the ISO form is unambiguous.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2006-01-02",
}

// Date parses day-first calendar date text.
func Date(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errors.ErrInvalidDate, text)
}

// HourOfDay extracts the leading integer hour from a label like "9:00" or
// "18:30".
func HourOfDay(label string) (int, error) {
	lead, _, _ := strings.Cut(strings.TrimSpace(label), ":")
	h, err := strconv.Atoi(strings.TrimSpace(lead))
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", errors.ErrInvalidHour, label)
	}
	return h, nil
}

// SortHours orders hour labels numerically by their leading hour, so that
// "2:00" sorts before "10:00". Labels with no parseable hour sort last,
// lexicographically among themselves.
func SortHours(hours []string) {
	sort.SliceStable(hours, func(i, j int) bool {
		hi, erri := HourOfDay(hours[i])
		hj, errj := HourOfDay(hours[j])
		switch {
		case erri == nil && errj == nil:
			if hi != hj {
				return hi < hj
			}
			return hours[i] < hours[j]
		case erri == nil:
			return true
		case errj == nil:
			return false
		default:
			return hours[i] < hours[j]
		}
	})
}
