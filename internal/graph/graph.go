// Package graph builds the cross-referenced in-memory record graph from the
// decoded tabular exports: events plus the people, location, and tag tables.
// Auxiliary tables are optional; references into a missing table degrade to
// stub records instead of failing the build.
package graph

import (
	"strings"

	"github.com/halloway/timeline-companion/internal/record"
)

// Graph is the resolved record graph. It is built once per load and
// immutable afterwards; concurrent readers need no locking.
type Graph struct {
	// Events is sorted by ascending sort instant, ties broken by name.
	Events []*record.Event

	records    map[record.Kind]map[string]*record.Record
	recordIDs  map[record.Kind]map[string]string // identifier -> display name
	eventByKey map[string]*record.Event          // lower(name) and identifier
	eventIDs   map[string]string                 // identifier -> display name
}

func newGraph() *Graph {
	g := &Graph{
		records:    map[record.Kind]map[string]*record.Record{},
		recordIDs:  map[record.Kind]map[string]string{},
		eventByKey: map[string]*record.Event{},
		eventIDs:   map[string]string{},
	}
	for _, k := range record.Kinds {
		g.records[k] = map[string]*record.Record{}
		g.recordIDs[k] = map[string]string{}
	}
	return g
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// EventByName looks up an event by display name (case-insensitive) or by
// external record identifier. Returns nil when no event matches.
func (g *Graph) EventByName(name string) *record.Event {
	if e, ok := g.eventByKey[nameKey(name)]; ok {
		return e
	}
	if display, ok := g.eventIDs[strings.TrimSpace(name)]; ok {
		return g.eventByKey[nameKey(display)]
	}
	return nil
}

// Record looks up a record by kind and name (case-insensitive). When the
// auxiliary table has no entry, a minimal stub is synthesized on demand; the
// stub is returned to the caller but never stored in the graph.
func (g *Graph) Record(kind record.Kind, name string) *record.Record {
	if r, ok := g.records[kind][nameKey(name)]; ok {
		return r
	}
	return &record.Record{Kind: kind, Name: name, Stub: true}
}

// HasRecord reports whether a non-stub record exists for the name.
func (g *Graph) HasRecord(kind record.Kind, name string) bool {
	_, ok := g.records[kind][nameKey(name)]
	return ok
}

// Records returns all non-stub records of a kind. No ordering is promised;
// callers sort for display.
func (g *Graph) Records(kind record.Kind) []*record.Record {
	out := make([]*record.Record, 0, len(g.records[kind]))
	for _, r := range g.records[kind] {
		out = append(out, r)
	}
	return out
}

// ResolveName maps a possibly identifier-shaped deep-link value to a display
// name. Event identifiers and per-kind record identifiers are both honored;
// plain names pass through unchanged.
func (g *Graph) ResolveName(kind record.Kind, value string) string {
	value = strings.TrimSpace(value)
	if display, ok := g.recordIDs[kind][value]; ok {
		return display
	}
	return value
}

// ResolveEventName maps a possibly identifier-shaped value to an event
// display name.
func (g *Graph) ResolveEventName(value string) string {
	value = strings.TrimSpace(value)
	if display, ok := g.eventIDs[value]; ok {
		return display
	}
	return value
}
