// Package view projects the record graph and filtered timeline into display
// structures. Projections are pure functions of their inputs; rendering is
// an idempotent re-projection after every state change.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/halloway/timeline-companion/internal/filter"
	"github.com/halloway/timeline-companion/internal/graph"
	"github.com/halloway/timeline-companion/internal/record"
)

// UnknownDayLabel heads the bucket of events without a parseable date.
const UnknownDayLabel = "Unknown Date"

// Timeline is the grouped-by-day filtered event view.
type Timeline struct {
	Groups  []Day `json:"groups"`
	Total   int   `json:"total"`
	Matched int   `json:"matched"`
}

// Day is one calendar-day bucket.
type Day struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Events []Event `json:"events"`
}

// Event is the display projection of one timeline entry.
type Event struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category,omitempty"`
	DateLabel   string              `json:"date_label"`
	TimeLabel   string              `json:"time_label,omitempty"`
	Location    string              `json:"location,omitempty"`
	People      []string            `json:"people,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Images      []record.Attachment `json:"images,omitempty"`
	Sources     []string            `json:"sources,omitempty"`
}

// ProjectTimeline filters, groups, and projects the timeline.
func ProjectTimeline(all []*record.Event, s filter.State) Timeline {
	matched := filter.Apply(all, s)

	t := Timeline{Total: len(all), Matched: len(matched)}
	for _, grp := range filter.GroupByDay(matched) {
		day := Day{Key: grp.Key, Label: dayLabel(grp.Key)}
		for _, e := range grp.Events {
			day.Events = append(day.Events, ProjectEvent(e))
		}
		t.Groups = append(t.Groups, day)
	}
	return t
}

// ProjectEvent projects a single event for display.
func ProjectEvent(e *record.Event) Event {
	out := Event{
		Name:        e.Name,
		Description: e.Description,
		Category:    e.Category,
		DateLabel:   dayLabel(e.DayKey),
		Location:    e.Location,
		People:      e.People,
		Tags:        e.Tags,
		Images:      e.Images,
		Sources:     e.Sources,
	}
	if e.Clock.Known {
		out.TimeLabel = e.Clock.Label
	}
	return out
}

func dayLabel(key string) string {
	if key == record.UnknownDayKey {
		return UnknownDayLabel
	}
	t, err := time.ParseInLocation(record.DayKeyFormat, key, time.UTC)
	if err != nil {
		return key
	}
	return t.Format("January 2, 2006")
}

// RelatedRef is a cross-navigation target on a record panel. Known is false
// when the target has no table entry and would open as a stub.
type RelatedRef struct {
	Name  string `json:"name"`
	Known bool   `json:"known"`
}

// RecordPanel is the detail-panel projection of a person/location/tag.
type RecordPanel struct {
	Kind     record.Kind         `json:"kind"`
	Name     string              `json:"name"`
	Stub     bool                `json:"stub,omitempty"`
	Slug     string              `json:"slug,omitempty"`
	Subtitle string              `json:"subtitle,omitempty"`
	Summary  string              `json:"summary,omitempty"`
	Details  []record.Detail     `json:"details,omitempty"`
	Images   []record.Attachment `json:"images,omitempty"`
	Files    []record.Attachment `json:"files,omitempty"`

	RelatedPeople    []RelatedRef `json:"related_people,omitempty"`
	RelatedLocations []RelatedRef `json:"related_locations,omitempty"`
	RelatedTags      []RelatedRef `json:"related_tags,omitempty"`

	// Events feeds the "filter timeline to these events" action.
	Events []string `json:"events,omitempty"`
}

// ProjectRecord projects a record (possibly a stub) for its detail panel.
func ProjectRecord(g *graph.Graph, r *record.Record) RecordPanel {
	p := RecordPanel{
		Kind:     r.Kind,
		Name:     r.Name,
		Stub:     r.Stub,
		Slug:     r.Slug,
		Subtitle: r.Subtitle,
		Summary:  r.Summary,
		Details:  r.Details,
		Images:   r.Images,
		Files:    r.Files,
		Events:   r.Events,
	}
	p.RelatedPeople = relatedRefs(g, record.KindPerson, r.RelatedPeople)
	p.RelatedLocations = relatedRefs(g, record.KindLocation, r.RelatedLocations)
	p.RelatedTags = relatedRefs(g, record.KindTag, r.RelatedTags)
	return p
}

func relatedRefs(g *graph.Graph, kind record.Kind, names []string) []RelatedRef {
	var out []RelatedRef
	for _, n := range names {
		out = append(out, RelatedRef{Name: n, Known: g.HasRecord(kind, n)})
	}
	return out
}

// SiteSlot is one published piece of site copy.
type SiteSlot struct {
	Key   string `json:"key"`
	Type  string `json:"type,omitempty"`
	Label string `json:"label,omitempty"`
	Body  string `json:"body,omitempty"`
	Link  string `json:"link,omitempty"`
}

// ProjectSite filters unpublished rows and orders the rest by locale
// preference (exact locale, then locale-neutral, then the rest), then by
// the export's sort order. A duplicate key keeps only its best row.
func ProjectSite(notes []record.SiteNote, locale string) []SiteSlot {
	kept := make([]record.SiteNote, 0, len(notes))
	for _, n := range notes {
		if n.Published {
			kept = append(kept, n)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		pi, pj := localePriority(kept[i].Locale, locale), localePriority(kept[j].Locale, locale)
		if pi != pj {
			return pi < pj
		}
		return kept[i].Order < kept[j].Order
	})

	var (
		out  []SiteSlot
		seen = map[string]struct{}{}
	)
	for _, n := range kept {
		key := strings.ToLower(n.Key)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, SiteSlot{Key: n.Key, Type: n.Type, Label: n.Label, Body: n.Body, Link: n.Link})
	}
	return out
}

func localePriority(noteLocale, wanted string) int {
	switch {
	case strings.EqualFold(noteLocale, wanted):
		return 0
	case noteLocale == "":
		return 1
	default:
		return 2
	}
}

// Freshness is the data-freshness indicator shown in the footer.
type Freshness struct {
	GeneratedAt string `json:"generated_at,omitempty"`
	SyncMode    string `json:"sync_mode,omitempty"`
	RecordCount int    `json:"record_count,omitempty"`
	Known       bool   `json:"known"`

	// Degraded marks a dataset served at least partly from the snapshot
	// cache instead of a live source location.
	Degraded bool `json:"degraded,omitempty"`
}

// ProjectFreshness projects the refresh metadata; a zero RefreshInfo means
// the metadata document was absent, which is non-fatal.
func ProjectFreshness(info record.RefreshInfo) Freshness {
	if info.GeneratedAt.IsZero() {
		return Freshness{}
	}
	return Freshness{
		GeneratedAt: info.GeneratedAt.UTC().Format(time.RFC3339),
		SyncMode:    info.SyncMode,
		RecordCount: info.RecordCount,
		Known:       true,
	}
}
