package graph

import (
	"errors"
	"sort"
	"strings"

	"github.com/halloway/timeline-companion/internal/normalize"
	"github.com/halloway/timeline-companion/internal/record"
	"github.com/halloway/timeline-companion/internal/tabular"
)

// placeholderName keeps the "every event has a display name" invariant when
// the export carries a nameless row.
const placeholderName = "Untitled event"

// Column alias spellings, in priority order. The exports have been renamed
// more than once upstream, so each logical column is matched against the
// spellings that have actually appeared.
var (
	idAliases       = []string{"Record ID", "Airtable ID", "ID"}
	eventNameCols   = []string{"Event Name", "Name"}
	dateCols        = []string{"Beginning Date", "Date", "Event Date"}
	timeExplicitCol = []string{"Time (AM/PM)"}
	timeGenericCol  = []string{"Time"}
	timeTimingCol   = []string{"Event Timing", "Timing"}
	locationCols    = []string{"Location"}
	locationRollup  = []string{"All Related Locations", "Related Locations"}
	peopleCols      = []string{"Related People & Groups", "People & Groups", "People"}
	tagCols         = []string{"Tags"}
	descriptionCols = []string{"Description"}
	categoryCols    = []string{"Type", "Category"}
	imageCols       = [][]string{{"Document Images"}, {"Images"}}
	sourceCols      = []string{"Sources"}

	recordNameCols = map[record.Kind][]string{
		record.KindPerson:   {"Name", "Person", "Full Name", "Title"},
		record.KindLocation: {"Name", "Location", "Title"},
		record.KindTag:      {"Name", "Tag", "Title"},
	}
	slugCols        = []string{"Slug"}
	subtitleCols    = []string{"Subtitle", "Role"}
	summaryCols     = []string{"Summary", "Description", "Bio"}
	recordImageCols = []string{"Images", "Photos", "Document Images"}
	recordFileCols  = []string{"Files", "Documents", "Attachments", "PDFs"}

	relatedPeopleCols   = []string{"Related People & Groups", "Related People", "People"}
	relatedLocationCols = []string{"Related Locations", "Locations"}
	relatedTagCols      = []string{"Related Tags", "Tags"}
	relatedEventCols    = []string{"Related Events", "Events", "Timeline Events"}
	relatedColsByKind   = map[record.Kind][]string{
		record.KindPerson:   relatedPeopleCols,
		record.KindLocation: relatedLocationCols,
		record.KindTag:      relatedTagCols,
	}

	detailCols = map[record.Kind][]string{
		record.KindPerson:   {"Birth Date", "Death Date", "Aliases", "Occupation"},
		record.KindLocation: {"Address", "Coordinates", "City", "Region"},
		record.KindTag:      {"Category"},
	}
)

// Sources carries the decoded tables. Events is required; the auxiliary
// tables may be nil when their export was unavailable.
type Sources struct {
	Events    *tabular.Table
	People    *tabular.Table
	Locations *tabular.Table
	Tags      *tabular.Table
}

// ErrNoEvents marks a build attempt without a usable events table.
var ErrNoEvents = errors.New("events table is empty")

// Build constructs the record graph: events first, then the per-kind
// identifier lookups, then the single reference-resolution rewrite pass.
func Build(src Sources) (*Graph, error) {
	if src.Events == nil || len(src.Events.Rows) == 0 {
		return nil, ErrNoEvents
	}

	g := newGraph()
	g.buildEvents(src.Events)
	g.buildRecords(record.KindPerson, src.People)
	g.buildRecords(record.KindLocation, src.Locations)
	g.buildRecords(record.KindTag, src.Tags)

	g.resolveEvents(src.Events)
	g.resolveRecords()
	g.finalize()

	return g, nil
}

// buildEvents decodes every event row and indexes events by normalized name
// and by external identifier.
func (g *Graph) buildEvents(tbl *tabular.Table) {
	for _, row := range tbl.Rows {
		e := buildEvent(tbl, row)
		g.Events = append(g.Events, e)
		g.eventByKey[nameKey(e.Name)] = e
		if e.RecordID != "" {
			g.eventByKey[e.RecordID] = e
			g.eventIDs[e.RecordID] = e.Name
		}
	}
}

func buildEvent(tbl *tabular.Table, row []string) *record.Event {
	name := normalize.Sanitize(tbl.Field(row, eventNameCols...))
	if name == "" {
		name = placeholderName
	}

	date, hasDate := normalize.ParseDate(tbl.Field(row, dateCols...))
	clock := normalize.BestClock(
		normalize.ParseClock(tbl.Field(row, timeExplicitCol...)),
		normalize.ParseClock(tbl.Field(row, timeGenericCol...)),
		normalize.ExtractClock(tbl.Field(row, timeTimingCol...)),
	)

	var images []record.Attachment
	seen := map[string]struct{}{}
	for _, cols := range imageCols {
		for _, a := range normalize.ParseAttachments(tbl.Field(row, cols...), record.MediaImage) {
			if _, dup := seen[a.URL]; dup {
				continue
			}
			seen[a.URL] = struct{}{}
			images = append(images, a)
		}
	}

	e := &record.Event{
		Name:        name,
		RecordID:    strings.TrimSpace(tbl.Field(row, idAliases...)),
		Description: cleanText(tbl.Field(row, descriptionCols...)),
		Category:    normalize.Sanitize(tbl.Field(row, categoryCols...)),
		Location:    tbl.Field(row, locationCols...),
		People:      tabular.SplitQuoted(tbl.Field(row, peopleCols...)),
		Tags:        tabular.SplitQuoted(tbl.Field(row, tagCols...)),
		Images:      images,
		Sources:     normalize.ExtractURLs(tbl.Field(row, sourceCols...)),
		Date:        date,
		HasDate:     hasDate,
		Clock:       clock,
	}
	e.SortKey = record.SortInstant(date, hasDate, clock)
	e.DayKey = record.DayKeyFor(date, hasDate)
	return e
}

// buildRecords decodes one auxiliary table into records of the given kind
// and fills the kind's identifier lookup. A nil table is a degraded source:
// references into it will resolve to stubs at lookup time.
func (g *Graph) buildRecords(kind record.Kind, tbl *tabular.Table) {
	if tbl == nil {
		return
	}

	for _, row := range tbl.Rows {
		name := normalize.Sanitize(tbl.Field(row, recordNameCols[kind]...))
		if name == "" || !normalize.HasWordChar(name) {
			continue
		}

		r := &record.Record{
			Kind:     kind,
			Name:     name,
			RecordID: strings.TrimSpace(tbl.Field(row, idAliases...)),
			Slug:     normalize.Sanitize(tbl.Field(row, slugCols...)),
			Subtitle: normalize.Sanitize(tbl.Field(row, subtitleCols...)),
			Summary:  cleanText(tbl.Field(row, summaryCols...)),
			Images:   normalize.ParseAttachments(tbl.Field(row, recordImageCols...), record.MediaImage),
			Files:    nonImageOnly(normalize.ParseAttachments(tbl.Field(row, recordFileCols...), record.MediaFile)),
		}

		for _, col := range detailCols[kind] {
			if v := normalize.Sanitize(tbl.Field(row, col)); v != "" && !normalize.IsFormulaError(v) {
				r.Details = append(r.Details, record.Detail{Label: col, Value: v})
			}
		}

		// Raw related-record and related-event tokens; resolved later once
		// every lookup is populated.
		for _, k := range record.Kinds {
			r.SetRelated(k, tabular.SplitQuoted(tbl.Field(row, relatedColsByKind[k]...)))
		}
		r.Events = tabular.SplitQuoted(tbl.Field(row, relatedEventCols...))

		g.records[kind][nameKey(name)] = r
		if r.RecordID != "" {
			g.recordIDs[kind][r.RecordID] = name
		}
	}
}

// resolveEvents rewrites each event's location, people, and tags exactly
// once, upgrading raw tokens to resolved display names.
func (g *Graph) resolveEvents(tbl *tabular.Table) {
	for i, e := range g.Events {
		row := tbl.Rows[i]

		primary := resolveList(tabular.SplitQuoted(e.Location), g.recordIDs[record.KindLocation])
		if len(primary) == 0 {
			// Secondary rollup through the same resolution pipeline.
			rollup := tabular.SplitQuoted(tbl.Field(row, locationRollup...))
			primary = resolveList(rollup, g.recordIDs[record.KindLocation])
		}
		if len(primary) > 0 {
			e.Location = primary[0]
		} else {
			e.Location = ""
		}

		e.People = resolveList(e.People, g.recordIDs[record.KindPerson])
		e.Tags = resolveList(e.Tags, g.recordIDs[record.KindTag])
	}
}

// resolveRecords resolves related-record and related-event token lists and
// enforces the self-reference exclusion.
func (g *Graph) resolveRecords() {
	for _, kind := range record.Kinds {
		for _, r := range g.records[kind] {
			for _, k := range record.Kinds {
				resolved := resolveList(r.Related(k), g.recordIDs[k])
				if k == kind {
					resolved = dropSelf(resolved, r.Name)
				}
				r.SetRelated(k, resolved)
			}
			r.Events = g.resolveEventNames(r.Events)
		}
	}
}

// resolveEventNames resolves a related-events token list, which may mix
// display names and identifiers, to canonical event names.
func (g *Graph) resolveEventNames(tokens []string) []string {
	var (
		out  []string
		seen = map[string]struct{}{}
	)
	for _, tok := range tokens {
		name, ok := resolveToken(tok, g.eventIDs)
		if !ok {
			continue
		}
		// Canonicalize through the event index so casing matches the event.
		if e := g.EventByName(name); e != nil {
			name = e.Name
		}
		key := nameKey(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// finalize sorts the timeline and precomputes each event's search string.
// Both depend on resolved names, so this runs after the rewrite pass.
func (g *Graph) finalize() {
	for _, e := range g.Events {
		e.Search = searchString(e)
	}

	sort.SliceStable(g.Events, func(i, j int) bool {
		a, b := g.Events[i], g.Events[j]
		if a.SortKey != b.SortKey {
			return a.SortKey < b.SortKey
		}
		ak, bk := nameKey(a.Name), nameKey(b.Name)
		if ak != bk {
			return ak < bk
		}
		return a.Name < b.Name
	})
}

// searchString concatenates every textual field, lowercased, for substring
// matching in the filter engine.
func searchString(e *record.Event) string {
	parts := []string{e.Name, e.Description, e.Category, e.Location}
	parts = append(parts, e.People...)
	parts = append(parts, e.Tags...)
	parts = append(parts, e.Sources...)
	for _, a := range e.Images {
		parts = append(parts, a.Label)
	}
	if e.Clock.Known {
		parts = append(parts, e.Clock.Label)
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}

// cleanText sanitizes narrative fields, suppressing formula-error envelopes.
func cleanText(s string) string {
	s = normalize.Sanitize(s)
	if normalize.IsFormulaError(s) {
		return ""
	}
	return s
}

// nonImageOnly keeps the downloadable (non-image) side of an attachment
// field, for record Files lists.
func nonImageOnly(atts []record.Attachment) []record.Attachment {
	out := atts[:0]
	for _, a := range atts {
		if a.Kind != record.MediaImage {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
