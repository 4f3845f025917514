package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFrom_NotExist(t *testing.T) {
	// Load from non-existent file should return defaults
	cfg, err := LoadConfigFrom("/nonexistent/path/config.json")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Port != defaults.Port {
		t.Errorf("expected port %d, got %d", defaults.Port, cfg.Port)
	}
	if cfg.SchemaVersion != defaults.SchemaVersion {
		t.Errorf("expected schema version %d, got %d", defaults.SchemaVersion, cfg.SchemaVersion)
	}
}

func TestLoadConfigFrom_Corrupt(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0600); err != nil {
		t.Fatal(err)
	}

	// Load should return defaults (with warning logged)
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Port != defaults.Port {
		t.Errorf("expected default port %d, got %d", defaults.Port, cfg.Port)
	}
}

func TestLoadConfigFrom_InvalidVersion(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	content := `{"schema_version": 999, "port": 9999}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	// Load should return defaults due to version mismatch
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Port != defaults.Port {
		t.Errorf("expected default port %d, got %d", defaults.Port, cfg.Port)
	}
}

func TestSaveLoadConfig_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	original := Config{
		SchemaVersion: CurrentSchemaVersion,
		Port:          9000,
		LanEnabled:    true,
		DataPath:      "/custom/exports",
		Locale:        "fr",
		WatchEnabled:  false,
		EventsURLs:    []string{"https://example.com/events-timeline.csv"},
	}

	if err := SaveConfigTo(original, path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Port != original.Port {
		t.Errorf("port mismatch: expected %d, got %d", original.Port, loaded.Port)
	}
	if loaded.LanEnabled != original.LanEnabled {
		t.Errorf("lan_enabled mismatch: expected %v, got %v", original.LanEnabled, loaded.LanEnabled)
	}
	if loaded.DataPath != original.DataPath {
		t.Errorf("data_path mismatch: expected %s, got %s", original.DataPath, loaded.DataPath)
	}
	if loaded.Locale != original.Locale {
		t.Errorf("locale mismatch: expected %s, got %s", original.Locale, loaded.Locale)
	}
	if loaded.WatchEnabled != original.WatchEnabled {
		t.Errorf("watch_enabled mismatch: expected %v, got %v", original.WatchEnabled, loaded.WatchEnabled)
	}
	if len(loaded.EventsURLs) != 1 || loaded.EventsURLs[0] != original.EventsURLs[0] {
		t.Errorf("events_urls mismatch: expected %v, got %v", original.EventsURLs, loaded.EventsURLs)
	}
}

func TestLoadConfigFrom_NormalizesInvalidPort(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	content := `{"schema_version": 1, "port": -1}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if cfg.Port != DefaultConfig().Port {
		t.Errorf("expected normalized port %d, got %d", DefaultConfig().Port, cfg.Port)
	}
}

func TestLoadConfigFrom_NormalizesEmptyPaths(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	content := `{"schema_version": 1, "port": 8080, "data_path": "  ", "locale": ""}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if cfg.DataPath != DefaultConfig().DataPath {
		t.Errorf("expected default data_path %q, got %q", DefaultConfig().DataPath, cfg.DataPath)
	}
	if cfg.Locale != DefaultConfig().Locale {
		t.Errorf("expected default locale %q, got %q", DefaultConfig().Locale, cfg.Locale)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPort, "9123")
	t.Setenv(EnvLanEnabled, "true")
	t.Setenv(EnvLocale, "de")
	t.Setenv(EnvWatch, "false")
	t.Setenv(EnvEventsURLs, "https://a.example/events.csv, https://b.example/events.csv")

	cfg, err := LoadConfigFrom("/nonexistent/path/config.json")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if cfg.Port != 9123 {
		t.Errorf("expected port 9123, got %d", cfg.Port)
	}
	if !cfg.LanEnabled {
		t.Error("expected lan_enabled true")
	}
	if cfg.Locale != "de" {
		t.Errorf("expected locale de, got %q", cfg.Locale)
	}
	if cfg.WatchEnabled {
		t.Error("expected watch disabled")
	}
	if len(cfg.EventsURLs) != 2 {
		t.Fatalf("expected 2 events urls, got %v", cfg.EventsURLs)
	}
	if cfg.EventsURLs[1] != "https://b.example/events.csv" {
		t.Errorf("unexpected second url %q", cfg.EventsURLs[1])
	}
}

func TestEnvOverrides_InvalidPortIgnored(t *testing.T) {
	t.Setenv(EnvPort, "not-a-number")

	cfg, err := LoadConfigFrom("/nonexistent/path/config.json")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if cfg.Port != DefaultConfig().Port {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
}

func TestEventsLocations_LocalFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EventsURLs = []string{"https://example.com/events.csv"}

	locs := cfg.EventsLocations()
	if len(locs) != 2 {
		t.Fatalf("expected 2 locations, got %v", locs)
	}
	if locs[0] != filepath.Join("data", EventsFileName) {
		t.Errorf("expected local export first, got %q", locs[0])
	}
	if locs[1] != "https://example.com/events.csv" {
		t.Errorf("expected url second, got %q", locs[1])
	}
}
