package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// heartbeatInterval is the interval for sending SSE heartbeat comments.
const heartbeatInterval = 20 * time.Second

// handleStream handles GET /api/v1/stream (SSE).
// Clients receive a reload notice whenever the dataset is rebuilt; they keep
// their filter state and re-fetch the timeline with it.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported", nil)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)

	// Send initial comment to establish connection
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()

	for {
		select {
		case n, ok := <-sub.Notices():
			if !ok {
				return
			}
			writeSSENotice(w, n)
			flusher.Flush()

		case <-ticker.C:
			// Heartbeat comment keeps the connection alive
			fmt.Fprintf(w, ":\n\n")
			flusher.Flush()

		case <-ctx.Done():
			// Client disconnected
			return

		case <-sub.Done():
			// Subscriber removed (hub stopped)
			return
		}
	}
}

// writeSSENotice writes a single notice in SSE format.
func writeSSENotice(w http.ResponseWriter, n Notice) {
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\n", n.Type)
	fmt.Fprintf(w, "data: %s\n\n", data)
}
