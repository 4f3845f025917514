// Package normalize turns raw export field values into typed values.
// Every parser here recovers locally: unparseable input yields a sentinel
// ("no date", unknown clock, empty list) and never an error.
package normalize

import (
	"strings"
	"time"
)

// generalDateLayouts are tried, in order, after the explicit M/D/YYYY form.
var generalDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate parses a date-only value, normalized to a UTC calendar day.
// M/D/YYYY is the export's native form and is always UTC-anchored; any other
// value is tried against general date layouts with the time-of-day discarded.
// Returns ok=false for empty or unparseable input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || IsFormulaError(s) {
		return time.Time{}, false
	}

	if t, err := time.ParseInLocation("1/2/2006", s, time.UTC); err == nil {
		return t, true
	}

	for _, layout := range generalDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}
