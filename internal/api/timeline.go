package api

import (
	"errors"
	"net/http"

	"github.com/halloway/timeline-companion/internal/app"
	"github.com/halloway/timeline-companion/internal/record"
	"github.com/halloway/timeline-companion/internal/state"
	"github.com/halloway/timeline-companion/internal/view"
)

// timelineResponse carries the filtered timeline plus the canonical
// re-encoding of the request's filter state for the client address bar.
type timelineResponse struct {
	State    string        `json:"state"`
	DeepLink deepLinkBody  `json:"deep_link,omitempty"`
	Timeline view.Timeline `json:"timeline"`
}

type deepLinkBody struct {
	Event      string `json:"event,omitempty"`
	RecordKind string `json:"record_kind,omitempty"`
	RecordName string `json:"record_name,omitempty"`
}

// handleTimeline handles GET /api/v1/timeline.
// The query string is the filter-state contract; identifier-shaped deep-link
// values are resolved to display names before the canonical re-encoding.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	g := s.session.Graph()
	if g == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded", nil)
		return
	}

	st, link := state.DecodeQuery(r.URL.RawQuery, g)

	tl, err := s.session.Timeline(st)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}
	if tl.Groups == nil {
		tl.Groups = []view.Day{}
	}

	writeJSON(w, http.StatusOK, timelineResponse{
		State: state.EncodeQuery(st, link),
		DeepLink: deepLinkBody{
			Event:      link.Event,
			RecordKind: string(link.RecordKind),
			RecordName: link.RecordName,
		},
		Timeline: tl,
	})
}

// handleEvent handles GET /api/v1/events/{name}.
// The name segment accepts a display name or an export identifier.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	g := s.session.Graph()
	if g == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded", nil)
		return
	}

	name := g.ResolveEventName(r.PathValue("name"))
	ev, err := s.session.Event(name)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// handleRecord handles GET /api/v1/records/{kind}/{name}.
// Unknown names return a stub panel, not 404: timeline rows may reference
// people or places that have no catalog row yet.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	g := s.session.Graph()
	if g == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded", nil)
		return
	}

	kind, ok := record.ParseKind(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown record kind", nil)
		return
	}

	name := g.ResolveName(kind, r.PathValue("name"))
	if name == "" {
		writeError(w, http.StatusNotFound, "record not found", nil)
		return
	}

	panel, err := s.session.Record(kind, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}
	writeJSON(w, http.StatusOK, panel)
}

// handleSite handles GET /api/v1/site.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	slots, err := s.session.Site()
	if err != nil {
		if errors.Is(err, app.ErrNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, "dataset not loaded", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}
	if slots == nil {
		slots = []view.SiteSlot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

// handleFreshness handles GET /api/v1/freshness.
func (s *Server) handleFreshness(w http.ResponseWriter, r *http.Request) {
	fresh, err := s.session.Freshness()
	if err != nil {
		if errors.Is(err, app.ErrNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, "dataset not loaded", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}
	writeJSON(w, http.StatusOK, fresh)
}
