// Package config provides configuration management for Timeline Companion.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CurrentSchemaVersion is the current config schema version.
const CurrentSchemaVersion = 1

// Environment variable names for config overrides.
// Priority: Environment > Config File > Default
const (
	EnvPort       = "TIMELINE_PORT"
	EnvLanEnabled = "TIMELINE_LAN_ENABLED"
	EnvDataPath   = "TIMELINE_DATA_PATH"
	EnvLocale     = "TIMELINE_LOCALE"
	EnvWatch      = "TIMELINE_WATCH"
	EnvEventsURLs = "TIMELINE_EVENTS_URLS"
)

// Export file names inside the data directory, as written by the refresh job.
const (
	EventsFileName   = "events-timeline.csv"
	PeopleFileName   = "people.csv"
	LocationFileName = "locations.csv"
	TagsFileName     = "tags.csv"
	SiteFileName     = "site-content.csv"
	MetadataFileName = "refresh-metadata.json"
)

// Config holds application configuration.
type Config struct {
	SchemaVersion int    `json:"schema_version"`
	Port          int    `json:"port"`
	LanEnabled    bool   `json:"lan_enabled"`
	DataPath      string `json:"data_path"`
	Locale        string `json:"locale"`
	WatchEnabled  bool   `json:"watch_enabled"`

	// EventsURLs are extra fallback locations for the events source, tried
	// after the local export file.
	EventsURLs []string `json:"events_urls,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SchemaVersion: CurrentSchemaVersion,
		Port:          8080,
		LanEnabled:    false,
		DataPath:      "data",
		Locale:        "en",
		WatchEnabled:  true,
	}
}

// LoadConfig reads config from disk. If the file doesn't exist or is corrupt,
// it returns DefaultConfig with a warning logged (non-fatal).
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return applyEnvOverrides(DefaultConfig()), err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom reads config from the specified path.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: failed to read config file: %v, using defaults", err)
		}
		return applyEnvOverrides(cfg), nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cfg); err != nil {
		log.Printf("Warning: config file is corrupt: %v, using defaults", err)
		return applyEnvOverrides(DefaultConfig()), nil
	}

	if cfg.SchemaVersion != CurrentSchemaVersion {
		log.Printf("Warning: config schema version mismatch (got %d, expected %d), using defaults",
			cfg.SchemaVersion, CurrentSchemaVersion)
		return applyEnvOverrides(DefaultConfig()), nil
	}

	return applyEnvOverrides(normalizeConfig(cfg)), nil
}

// SaveConfigTo writes the config atomically to the given path.
func SaveConfigTo(cfg Config, path string) error {
	cfg.SchemaVersion = CurrentSchemaVersion
	return writeJSONAtomic(path, cfg)
}

// normalizeConfig clamps out-of-range values back to defaults.
func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Port < 1 || cfg.Port > 65535 {
		cfg.Port = def.Port
	}
	if strings.TrimSpace(cfg.DataPath) == "" {
		cfg.DataPath = def.DataPath
	}
	if strings.TrimSpace(cfg.Locale) == "" {
		cfg.Locale = def.Locale
	}
	return cfg
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg Config) Config {
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port >= 1 && port <= 65535 {
			cfg.Port = port
		} else {
			log.Printf("Warning: invalid %s=%q, ignoring", EnvPort, v)
		}
	}
	if v := os.Getenv(EnvLanEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LanEnabled = b
		}
	}
	if v := os.Getenv(EnvDataPath); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv(EnvWatch); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.WatchEnabled = b
		}
	}
	if v := os.Getenv(EnvEventsURLs); v != "" {
		var urls []string
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		cfg.EventsURLs = urls
	}
	return cfg
}

// EventsLocations returns the ordered fallback locations for the events
// source: the local export first, then any configured URLs.
func (c Config) EventsLocations() []string {
	locs := []string{filepath.Join(c.DataPath, EventsFileName)}
	return append(locs, c.EventsURLs...)
}

// DataFile returns the path of a named export inside the data directory.
func (c Config) DataFile(name string) string {
	return filepath.Join(c.DataPath, name)
}
