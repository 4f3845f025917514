// Package main provides the entry point for Timeline Companion.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/halloway/timeline-companion/internal/api"
	"github.com/halloway/timeline-companion/internal/app"
	"github.com/halloway/timeline-companion/internal/config"
	"github.com/halloway/timeline-companion/internal/singleinstance"
	"github.com/halloway/timeline-companion/internal/snapshot"
	"github.com/halloway/timeline-companion/internal/source"
	"github.com/halloway/timeline-companion/internal/version"
	"github.com/halloway/timeline-companion/internal/watch"
	"github.com/halloway/timeline-companion/webembed"
)

func main() {
	// 1. Single instance check (Windows: mutex, other: no-op)
	release, ok, err := singleinstance.AcquireLock()
	if err != nil {
		log.Fatalf("Failed to acquire lock: %v", err)
	}
	if !ok {
		log.Println("Another instance is already running")
		os.Exit(1)
	}
	defer release()

	// 2. Load configuration (corrupt config falls back to defaults with warning)
	cfg, _ := config.LoadConfig()

	// 3. Parse flags (port and data path can override config)
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dataPath := flag.String("data", cfg.DataPath, "directory holding the exported source files")
	flag.Parse()
	cfg.DataPath = *dataPath

	// 4. Open the snapshot cache next to the config file
	if _, err := config.EnsureAppDir(); err != nil {
		log.Fatalf("Failed to ensure app directory: %v", err)
	}
	snapPath, err := config.SnapshotPath()
	if err != nil {
		log.Fatalf("Failed to resolve snapshot path: %v", err)
	}
	cache, err := snapshot.Open(snapPath)
	if err != nil {
		log.Fatalf("Failed to open snapshot cache: %v", err)
	}
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Build the source set and load the dataset
	fetcher := source.NewFetcher(source.WithCache(cache))
	specs := []source.Spec{
		{Name: source.NameEvents, Locations: cfg.EventsLocations(), Required: true},
		{Name: source.NamePeople, Locations: []string{cfg.DataFile(config.PeopleFileName)}},
		{Name: source.NameLocations, Locations: []string{cfg.DataFile(config.LocationFileName)}},
		{Name: source.NameTags, Locations: []string{cfg.DataFile(config.TagsFileName)}},
		{Name: source.NameSite, Locations: []string{cfg.DataFile(config.SiteFileName)}},
		{Name: source.NameMetadata, Locations: []string{cfg.DataFile(config.MetadataFileName)}},
	}

	session := app.NewSession(fetcher, specs, app.WithLocale(cfg.Locale))
	if err := session.Load(ctx); err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	// 6. SSE hub, fed by reload notifications
	hub := api.NewHub()
	go hub.Run()

	session.Subscribe(func() {
		g := session.Graph()
		hub.Publish(api.Notice{
			Type:     api.NoticeReload,
			LoadedAt: session.LoadedAt(),
			Events:   len(g.Events),
		})
	})

	// 7. Watch the data directory for refreshed exports
	if cfg.WatchEnabled {
		watcher := watch.New(cfg.DataPath, func(ctx context.Context) {
			if err := session.Reload(ctx); err != nil {
				log.Printf("Reload failed, keeping previous dataset: %v", err)
			}
		})
		go func() {
			if err := watcher.Run(ctx); err != nil && err != context.Canceled {
				log.Printf("Watcher stopped: %v", err)
			}
		}()
	}

	// 8. Determine bind address
	host := "127.0.0.1"
	if cfg.LanEnabled {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, *port)

	// Build dependencies
	health := app.HealthService{Version: version.String(), Session: session}

	serverOpts := []api.ServerOption{
		api.WithSession(session),
		api.WithHub(hub),
	}
	if webFS, err := webembed.GetFS(); err == nil && webFS != nil {
		serverOpts = append(serverOpts, api.WithWebFS(webFS))
	}

	server := api.NewServer(addr, health, serverOpts...)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)

	go func() {
		log.Printf("Starting Timeline Companion v%s on %s", version.String(), addr)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-done:
		log.Println("Shutting down...")
	case err := <-errCh:
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}

	// Stop the watcher and any in-flight reload first
	cancel()

	// Stop SSE hub (closes all subscriber channels)
	hub.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
