// Package source fetches the raw upstream exports: the four tabular sources
// plus the supplementary content table and the refresh metadata document.
// Fetches run concurrently and are awaited jointly before the graph is
// built. Only the events source is fatal; everything else degrades.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/halloway/timeline-companion/internal/snapshot"
)

// Well-known source names. They key the fetched data set and the snapshot
// cache rows.
const (
	NameEvents    = "events"
	NamePeople    = "people"
	NameLocations = "locations"
	NameTags      = "tags"
	NameSite      = "site"
	NameMetadata  = "metadata"
)

// Spec describes one source: an ordered fallback location list (local file
// paths or http(s) URLs) and whether total failure is fatal.
type Spec struct {
	Name      string
	Locations []string
	Required  bool
}

// Payload is one fetched source document.
type Payload struct {
	Data      []byte
	FetchedAt time.Time
	FromCache bool
}

// DataSet maps source names to fetched payloads. Absent optional sources
// have no entry.
type DataSet map[string]Payload

// Has reports whether a source was fetched.
func (d DataSet) Has(name string) bool {
	_, ok := d[name]
	return ok
}

// Fetcher retrieves sources with fallback and snapshot-cache support.
type Fetcher struct {
	client *http.Client
	cache  *snapshot.Store
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client used for URL locations.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithCache sets the snapshot store used as the final fallback location and
// as the destination for successful fetches.
func WithCache(cache *snapshot.Store) Option {
	return func(f *Fetcher) { f.cache = cache }
}

// WithLogger sets the logger for the Fetcher.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll retrieves every source concurrently and waits for all of them.
// A required source that fails every location (including the snapshot
// cache) fails the whole load; optional sources are logged and omitted.
func (f *Fetcher) FetchAll(ctx context.Context, specs []Spec) (DataSet, error) {
	results := make([]Payload, len(specs))
	found := make([]bool, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			p, err := f.fetchOne(ctx, spec)
			if err != nil {
				if spec.Required {
					return err
				}
				f.logger.Warn("optional source unavailable",
					"source", spec.Name,
					"error", err,
				)
				return nil
			}
			results[i] = p
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := make(DataSet, len(specs))
	for i, spec := range specs {
		if found[i] {
			ds[spec.Name] = results[i]
		}
	}
	return ds, nil
}

// fetchOne walks a source's fallback locations in order, then the snapshot
// cache. A successful fetch is written back to the cache best-effort.
func (f *Fetcher) fetchOne(ctx context.Context, spec Spec) (Payload, error) {
	var errs []error

	for _, loc := range spec.Locations {
		data, err := f.fetchLocation(ctx, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", loc, err))
			continue
		}
		if len(data) == 0 {
			errs = append(errs, fmt.Errorf("%s: empty document", loc))
			continue
		}

		p := Payload{Data: data, FetchedAt: time.Now().UTC()}
		if f.cache != nil {
			if err := f.cache.Save(ctx, spec.Name, data, p.FetchedAt); err != nil {
				f.logger.Warn("snapshot save failed", "source", spec.Name, "error", err)
			}
		}
		return p, nil
	}

	if f.cache != nil {
		data, fetchedAt, err := f.cache.Load(ctx, spec.Name)
		if err == nil {
			f.logger.Warn("serving source from snapshot cache",
				"source", spec.Name,
				"fetched_at", fetchedAt,
			)
			return Payload{Data: data, FetchedAt: fetchedAt, FromCache: true}, nil
		}
		if !errors.Is(err, snapshot.ErrNotFound) {
			errs = append(errs, fmt.Errorf("snapshot cache: %w", err))
		}
	}

	return Payload{}, fmt.Errorf("source %q unavailable: %w%s",
		spec.Name, errors.Join(errs...), environmentHint(spec.Locations))
}

func (f *Fetcher) fetchLocation(ctx context.Context, loc string) ([]byte, error) {
	if isHTTPLocation(loc) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(loc)
}

func isHTTPLocation(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// environmentHint attaches guidance for the common misconfiguration: every
// location is a relative file path resolved against an unexpected working
// directory.
func environmentHint(locations []string) string {
	for _, loc := range locations {
		if isHTTPLocation(loc) || strings.HasPrefix(loc, "/") {
			return ""
		}
	}
	if len(locations) == 0 {
		return ""
	}
	return "\nhint: all locations are relative file paths; run from the directory containing the data exports or configure absolute paths"
}
