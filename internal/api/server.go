// Package api provides HTTP API server functionality.
package api

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/halloway/timeline-companion/internal/app"
)

// Server represents the HTTP API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux

	// Use case dependencies
	health  app.HealthUsecase
	session *app.Session

	// SSE hub
	hub *Hub

	// Embedded UI, nil disables the static handler
	webFS fs.FS
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithSession sets the data session serving the read endpoints.
func WithSession(session *app.Session) ServerOption {
	return func(s *Server) { s.session = session }
}

// WithHub sets the SSE hub.
func WithHub(hub *Hub) ServerOption {
	return func(s *Server) { s.hub = hub }
}

// WithWebFS sets the embedded UI filesystem.
func WithWebFS(webFS fs.FS) ServerOption {
	return func(s *Server) { s.webFS = webFS }
}

// NewServer creates a new API server with the given dependencies.
func NewServer(addr string, health app.HealthUsecase, opts ...ServerOption) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      securityHeadersMiddleware(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0, // Disable for SSE (long-lived connections)
			IdleTimeout:  60 * time.Second,
		},
		mux:    mux,
		health: health,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)

	if s.session != nil {
		s.mux.HandleFunc("GET /api/v1/timeline", s.handleTimeline)
		s.mux.HandleFunc("GET /api/v1/events/{name}", s.handleEvent)
		s.mux.HandleFunc("GET /api/v1/records/{kind}/{name}", s.handleRecord)
		s.mux.HandleFunc("GET /api/v1/site", s.handleSite)
		s.mux.HandleFunc("GET /api/v1/freshness", s.handleFreshness)
	}

	if s.hub != nil {
		s.mux.HandleFunc("GET /api/v1/stream", s.handleStream)
	}

	if s.webFS != nil {
		s.mux.Handle("GET /", newSPAHandler(s.webFS))
	}
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result, err := s.health.Handle(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
