// Package record provides the shared record graph models for Timeline Companion.
// This package is used by the graph, filter, view, state, and api packages.
package record

import (
	"math"
	"time"
)

// UnknownDayKey is the grouping key for events without a parseable date.
const UnknownDayKey = "unknown"

// DayKeyFormat is the calendar-day grouping key layout (UTC).
const DayKeyFormat = "2006-01-02"

// unknownClockSeconds orders events with no parseable time-of-day after every
// known time on the same day (the latest known time is 23:59 = 86340s).
const unknownClockSeconds = 86399

// Clock is a time-of-day value. A zero Clock (Known=false) is the sentinel
// "unknown time" and sorts after all known times on the same date.
type Clock struct {
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
	Known   bool   `json:"known"`
}

// Event is one timeline entry, built once from a decoded row.
// Location, People, and Tags start as raw tokens and are rewritten exactly
// once with resolved display names while the record graph is built.
type Event struct {
	Name        string       `json:"name"`
	RecordID    string       `json:"-"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	Location    string       `json:"location,omitempty"`
	People      []string     `json:"people,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Images      []Attachment `json:"images,omitempty"`
	Sources     []string     `json:"sources,omitempty"`

	Date    time.Time `json:"date,omitzero"`
	HasDate bool      `json:"has_date"`
	Clock   Clock     `json:"clock"`

	// Derived at construction time.
	SortKey int64  `json:"-"`
	DayKey  string `json:"day_key"`
	Search  string `json:"-"`
}

// SortInstant combines a calendar day and a time-of-day into a monotonic
// sort proxy: unknown time lands after all known times on the same day,
// unknown date lands after everything.
func SortInstant(date time.Time, hasDate bool, clock Clock) int64 {
	if !hasDate {
		return math.MaxInt64
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	secs := int64(unknownClockSeconds)
	if clock.Known {
		secs = int64(clock.Minutes) * 60
	}
	return day.Unix() + secs
}

// DayKeyFor derives the grouping key for a date.
func DayKeyFor(date time.Time, hasDate bool) string {
	if !hasDate {
		return UnknownDayKey
	}
	return date.UTC().Format(DayKeyFormat)
}

// HasImages reports whether the event carries at least one image attachment.
func (e *Event) HasImages() bool {
	return len(e.Images) > 0
}
