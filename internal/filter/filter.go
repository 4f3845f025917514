// Package filter evaluates the active filter predicate set over the event
// timeline. Every predicate is re-evaluated per event on every change; at
// this data scale no incremental indexing is needed.
package filter

import (
	"strings"

	"github.com/halloway/timeline-companion/internal/record"
)

// State is the current filter predicate set. The zero value matches
// everything. Multi-valued selections are conjunctive across dimensions and
// disjunctive within one.
type State struct {
	// Query is matched case-insensitively as a substring of each event's
	// precomputed search string.
	Query string

	Locations []string
	People    []string
	Tags      []string

	// MediaOnly requires at least one image attachment.
	MediaOnly bool

	// Restrict, when non-empty, is an ad-hoc event-name set carried from a
	// record panel's "filter timeline to these events" action. Changing any
	// other control clears it.
	Restrict []string
}

// IsZero reports whether the state constrains nothing.
func (s State) IsZero() bool {
	return s.Query == "" && len(s.Locations) == 0 && len(s.People) == 0 &&
		len(s.Tags) == 0 && !s.MediaOnly && len(s.Restrict) == 0
}

// ClearRestrict returns the state without the related-event restriction.
// Called whenever any other filter control changes.
func (s State) ClearRestrict() State {
	s.Restrict = nil
	return s
}

// Apply returns the events matching every active predicate, preserving the
// input's order. The input is the graph's already-sorted timeline, so the
// output keeps the load-time total order.
func Apply(events []*record.Event, s State) []*record.Event {
	query := strings.ToLower(strings.TrimSpace(s.Query))
	locations := nameSet(s.Locations)
	people := nameSet(s.People)
	tags := nameSet(s.Tags)
	restrict := nameSet(s.Restrict)

	var out []*record.Event
	for _, e := range events {
		if !matches(e, query, locations, people, tags, s.MediaOnly, restrict) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matches(e *record.Event, query string, locations, people, tags map[string]struct{}, mediaOnly bool, restrict map[string]struct{}) bool {
	if query != "" && !strings.Contains(e.Search, query) {
		return false
	}
	if len(locations) > 0 {
		if _, ok := locations[strings.ToLower(e.Location)]; !ok {
			return false
		}
	}
	if len(people) > 0 && !anyInSet(e.People, people) {
		return false
	}
	if len(tags) > 0 && !anyInSet(e.Tags, tags) {
		return false
	}
	if mediaOnly && !e.HasImages() {
		return false
	}
	if len(restrict) > 0 {
		if _, ok := restrict[strings.ToLower(e.Name)]; !ok {
			return false
		}
	}
	return true
}

func anyInSet(names []string, set map[string]struct{}) bool {
	for _, n := range names {
		if _, ok := set[strings.ToLower(n)]; ok {
			return true
		}
	}
	return false
}

func nameSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// DayGroup is one calendar-day bucket of the filtered view, preserving the
// per-day order of the sorted sequence.
type DayGroup struct {
	Key    string
	Events []*record.Event
}

// GroupByDay buckets an already-sorted event sequence by grouping key.
// The "unknown" bucket, when present, is last because undated events sort
// last overall.
func GroupByDay(events []*record.Event) []DayGroup {
	var groups []DayGroup
	for _, e := range events {
		if n := len(groups); n > 0 && groups[n-1].Key == e.DayKey {
			groups[n-1].Events = append(groups[n-1].Events, e)
			continue
		}
		groups = append(groups, DayGroup{Key: e.DayKey, Events: []*record.Event{e}})
	}
	return groups
}
