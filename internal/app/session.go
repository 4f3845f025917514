// Package app provides application use cases.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/halloway/timeline-companion/internal/filter"
	"github.com/halloway/timeline-companion/internal/graph"
	"github.com/halloway/timeline-companion/internal/record"
	"github.com/halloway/timeline-companion/internal/source"
	"github.com/halloway/timeline-companion/internal/tabular"
	"github.com/halloway/timeline-companion/internal/view"
)

// DataFetcher retrieves the raw source documents.
type DataFetcher interface {
	FetchAll(ctx context.Context, specs []source.Spec) (source.DataSet, error)
}

// Session owns the loaded record graph and everything derived from it.
// All reads go through the session; Reload rebuilds the graph from the
// sources and swaps it in atomically, so readers always see either the
// previous complete dataset or the next one.
type Session struct {
	fetcher DataFetcher
	specs   []source.Spec
	locale  string
	logger  *slog.Logger

	mu       sync.RWMutex
	graph    *graph.Graph
	site     []record.SiteNote
	refresh  record.RefreshInfo
	degraded bool
	loadedAt time.Time

	subMu sync.Mutex
	subs  []func()
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLocale sets the preferred locale for site content ordering.
func WithLocale(locale string) SessionOption {
	return func(s *Session) { s.locale = locale }
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a Session reading from the given fetcher and specs.
// Call Load before serving reads.
func NewSession(fetcher DataFetcher, specs []source.Spec, opts ...SessionOption) *Session {
	s := &Session{
		fetcher: fetcher,
		specs:   specs,
		locale:  "en",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches all sources, builds the record graph, and swaps it in.
// On failure the previously loaded dataset (if any) stays in place.
func (s *Session) Load(ctx context.Context) error {
	data, err := s.fetcher.FetchAll(ctx, s.specs)
	if err != nil {
		return fmt.Errorf("fetch sources: %w", err)
	}

	sources := graph.Sources{
		Events:    decodeTable(data, source.NameEvents),
		People:    decodeTable(data, source.NamePeople),
		Locations: decodeTable(data, source.NameLocations),
		Tags:      decodeTable(data, source.NameTags),
	}

	g, err := graph.Build(sources)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	var site []record.SiteNote
	if tbl := decodeTable(data, source.NameSite); tbl != nil {
		site = graph.ParseSiteNotes(tbl)
	}

	var refresh record.RefreshInfo
	if p, ok := data[source.NameMetadata]; ok {
		refresh = source.ParseRefreshInfo(p.Data)
	}

	degraded := false
	for _, p := range data {
		if p.FromCache {
			degraded = true
			break
		}
	}

	s.mu.Lock()
	s.graph = g
	s.site = site
	s.refresh = refresh
	s.degraded = degraded
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("dataset loaded",
		"events", len(g.Events),
		"people", len(g.Records(record.KindPerson)),
		"locations", len(g.Records(record.KindLocation)),
		"tags", len(g.Records(record.KindTag)),
		"site_notes", len(site))

	return nil
}

// Reload rebuilds the dataset and notifies subscribers on success.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Subscribe registers fn to run after every successful reload.
// Subscribers must not block.
func (s *Session) Subscribe(fn func()) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

func (s *Session) notify() {
	s.subMu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Ready reports whether a dataset has been loaded.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph != nil
}

// Graph returns the current record graph, or nil before the first Load.
func (s *Session) Graph() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// Timeline projects the filtered, day-grouped timeline.
func (s *Session) Timeline(st filter.State) (view.Timeline, error) {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()
	if g == nil {
		return view.Timeline{}, ErrNotLoaded
	}
	return view.ProjectTimeline(g.Events, st), nil
}

// Event returns the detail projection for a single event by name or
// identifier.
func (s *Session) Event(name string) (view.Event, error) {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()
	if g == nil {
		return view.Event{}, ErrNotLoaded
	}
	ev := g.EventByName(name)
	if ev == nil {
		return view.Event{}, ErrNotFound
	}
	return view.ProjectEvent(ev), nil
}

// Record returns the detail panel for a person, location, or tag.
// Unknown names yield a stub panel rather than an error, matching the
// graph's on-demand stub behavior.
func (s *Session) Record(kind record.Kind, name string) (view.RecordPanel, error) {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()
	if g == nil {
		return view.RecordPanel{}, ErrNotLoaded
	}
	return view.ProjectRecord(g, g.Record(kind, name)), nil
}

// Site returns the published site content ordered for the session locale.
func (s *Session) Site() ([]view.SiteSlot, error) {
	s.mu.RLock()
	site := s.site
	g := s.graph
	s.mu.RUnlock()
	if g == nil {
		return nil, ErrNotLoaded
	}
	return view.ProjectSite(site, s.locale), nil
}

// Freshness returns the refresh metadata projection, marked degraded when
// any source was served from the snapshot cache.
func (s *Session) Freshness() (view.Freshness, error) {
	s.mu.RLock()
	refresh := s.refresh
	degraded := s.degraded
	g := s.graph
	s.mu.RUnlock()
	if g == nil {
		return view.Freshness{}, ErrNotLoaded
	}
	f := view.ProjectFreshness(refresh)
	f.Degraded = degraded
	return f, nil
}

// LoadedAt returns when the current dataset was loaded.
func (s *Session) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// decodeTable decodes a named source into a table, or nil when absent.
func decodeTable(data source.DataSet, name string) *tabular.Table {
	p, ok := data[name]
	if !ok {
		return nil
	}
	return tabular.Decode(string(p.Data))
}
