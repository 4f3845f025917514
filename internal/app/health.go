package app

import (
	"context"
	"errors"
)

// Sentinel errors for session reads.
var (
	// ErrNotLoaded is returned when a read arrives before the first Load.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrNotFound is returned for lookups of names no record resolves to.
	ErrNotFound = errors.New("not found")
)

// HealthUsecase defines the health check use case.
type HealthUsecase interface {
	Handle(ctx context.Context) (HealthResult, error)
}

// HealthResult represents the health check response.
type HealthResult struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Loaded  bool   `json:"loaded"`
}

// HealthService implements HealthUsecase.
type HealthService struct {
	Version string
	Session *Session
}

// Handle returns the current health status.
func (s HealthService) Handle(ctx context.Context) (HealthResult, error) {
	return HealthResult{
		Status:  "ok",
		Version: s.Version,
		Loaded:  s.Session != nil && s.Session.Ready(),
	}, nil
}
