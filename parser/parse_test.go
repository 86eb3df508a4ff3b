package parser_test

import (
	"errors"
	"testing"
	"time"

	customerrors "sla-pipeline/errors"
	"sla-pipeline/parser"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected float64
	}{
		"HMMSS":                {"1:02:03", 3723},
		"LeadingZeroHour":      {"01:02:03", 3723},
		"ZeroDuration":         {"0:00:00", 0},
		"WithWhitespace":       {"  0:05:30  ", 330},
		"Empty":                {"", 0},
		"Garbage":              {"garbage", 0},
		"TwoSegmentsRejected":  {"05:30", 0},
		"FourSegmentsRejected": {"1:02:03:04", 0},
		"NonNumericSegment":    {"1:xx:03", 0},
		"NegativeSegment":      {"-1:02:03", 0},
		"FractionalSeconds":    {"0:00:01.5", 1.5},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parser.Duration(tc.input))
		})
	}
}

func TestDurationFlexible(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected float64
	}{
		"MMSSAccepted":    {"05:30", 330},
		"HMMSSStillWorks": {"1:02:03", 3723},
		"LeadingZeros":    {"01:02:03", 3723},
		"Empty":           {"", 0},
		"Garbage":         {"nope", 0},
		"SingleSegment":   {"90", 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parser.DurationFlexible(tc.input))
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := map[string]struct {
		input         string
		expected      float64
		expectedError error
	}{
		"PlainNumber":     {"42.5", 42.5, nil},
		"WithPercentSign": {"42.5%", 42.5, nil},
		"WithWhitespace":  {"  97 %  ", 97, nil},
		"PaddedSign":      {" 97% ", 97, nil},
		"Empty":           {"", 0, nil},
		"OnlyWhitespace":  {"   ", 0, nil},
		"Garbage":         {"n/a", 0, customerrors.ErrInvalidPercentage},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := parser.Percentage(tc.input)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestDate(t *testing.T) {
	tests := map[string]struct {
		input         string
		expected      time.Time
		expectedError error
	}{
		// Day-first policy: 01/02/2025 is the 1st of February.
		"AmbiguousIsDayFirst": {"01/02/2025", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), nil},
		"SingleDigits":        {"1/2/2025", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), nil},
		"DashSeparated":       {"01-02-2025", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), nil},
		"ISO":                 {"2025-02-01", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), nil},
		"WithTime":            {"01/02/2025 10:00", time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC), nil},
		"Empty":               {"", time.Time{}, customerrors.ErrInvalidDate},
		"Garbage":             {"not a date", time.Time{}, customerrors.ErrInvalidDate},
		"MonthOutOfRange":     {"01/13/2025", time.Time{}, customerrors.ErrInvalidDate},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := parser.Date(tc.input)
			if tc.expectedError != nil {
				assert.True(t, errors.Is(err, tc.expectedError), "expected %v, got %v", tc.expectedError, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, d)
		})
	}
}

func TestHourOfDay(t *testing.T) {
	tests := map[string]struct {
		input         string
		expected      int
		expectedError error
	}{
		"Morning":     {"9:00", 9, nil},
		"DoubleDigit": {"18:30", 18, nil},
		"Midnight":    {"0:00", 0, nil},
		"NoMinutes":   {"7", 7, nil},
		"Empty":       {"", 0, customerrors.ErrInvalidHour},
		"Garbage":     {"noon", 0, customerrors.ErrInvalidHour},
		"OutOfRange":  {"24:00", 0, customerrors.ErrInvalidHour},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			h, err := parser.HourOfDay(tc.input)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, h)
		})
	}
}

func TestSortHours(t *testing.T) {
	hours := []string{"10:00", "2:00", "18:30", "9:00", "0:00"}
	parser.SortHours(hours)
	assert.Equal(t, []string{"0:00", "2:00", "9:00", "10:00", "18:30"}, hours)
}
