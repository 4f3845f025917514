//go:build integration

// Package integration provides end-to-end integration tests for the
// Timeline Companion API.
package integration

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/halloway/timeline-companion/internal/api"
	"github.com/halloway/timeline-companion/internal/app"
	"github.com/halloway/timeline-companion/internal/config"
	"github.com/halloway/timeline-companion/internal/snapshot"
	"github.com/halloway/timeline-companion/internal/source"
)

const eventsCSV = `Event Name,Beginning Date,Time,Location,Related People & Groups,Tags,Document Images
Treaty Signed,3/1/1920,14:30,Paris,Ada Lovelace,Diplomacy,scan.jpg (https://cdn.example/scan.jpg)
Archive Opened,3/2/1920,,London,,,
`

const peopleCSV = `Name,Record ID,Summary,Related Events
Ada Lovelace,rec0123456789,Mathematician,Treaty Signed
`

const metadataJSON = `{"generated_at_utc":"2024-03-01T12:00:00+00:00","record_count":3,"media_cached":false}`

// TestApp holds all dependencies for integration tests.
type TestApp struct {
	Server  *httptest.Server
	Session *app.Session
	Hub     *api.Hub
	DataDir string

	cleanup func()
}

// NewTestApp stands up the whole pipeline against a temp data directory:
// export files on disk, snapshot cache, fetcher, session, hub, HTTP server.
func NewTestApp(t *testing.T) *TestApp {
	t.Helper()

	dataDir := t.TempDir()
	writeExport(t, dataDir, config.EventsFileName, eventsCSV)
	writeExport(t, dataDir, config.PeopleFileName, peopleCSV)
	writeExport(t, dataDir, config.MetadataFileName, metadataJSON)

	cache, err := snapshot.Open(filepath.Join(t.TempDir(), "snapshots.sqlite"))
	if err != nil {
		t.Fatalf("failed to open snapshot cache: %v", err)
	}

	fetcher := source.NewFetcher(source.WithCache(cache))
	specs := []source.Spec{
		{Name: source.NameEvents, Locations: []string{filepath.Join(dataDir, config.EventsFileName)}, Required: true},
		{Name: source.NamePeople, Locations: []string{filepath.Join(dataDir, config.PeopleFileName)}},
		{Name: source.NameMetadata, Locations: []string{filepath.Join(dataDir, config.MetadataFileName)}},
	}

	session := app.NewSession(fetcher, specs)
	if err := session.Load(context.Background()); err != nil {
		cache.Close()
		t.Fatalf("failed to load dataset: %v", err)
	}

	hub := api.NewHub()
	go hub.Run()
	session.Subscribe(func() {
		hub.Publish(api.Notice{Type: api.NoticeReload})
	})

	health := app.HealthService{Version: "integration", Session: session}
	server := api.NewServer(":0", health,
		api.WithSession(session),
		api.WithHub(hub),
	)

	ts := httptest.NewServer(server.Handler())

	return &TestApp{
		Server:  ts,
		Session: session,
		Hub:     hub,
		DataDir: dataDir,
		cleanup: func() {
			ts.Close()
			hub.Stop()
			cache.Close()
		},
	}
}

// URL returns the base URL of the test server.
func (a *TestApp) URL() string {
	return a.Server.URL
}

// Close releases all resources.
func (a *TestApp) Close() {
	a.cleanup()
}

func writeExport(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write export %s: %v", name, err)
	}
}
