package api

import (
	"io/fs"
	"net/http"
	"strings"
)

// spaHandler serves static files from an embedded filesystem.
// For paths not found, it returns index.html to support SPA routing: a
// shared filter link like /?loc=Paris&media=1 must load the app shell.
type spaHandler struct {
	staticFS http.Handler
	indexFS  fs.FS
}

func newSPAHandler(webFS fs.FS) *spaHandler {
	return &spaHandler{
		staticFS: http.FileServer(http.FS(webFS)),
		indexFS:  webFS,
	}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		path = "index.html"
	}

	f, err := h.indexFS.Open(path)
	if err == nil {
		f.Close()
		h.staticFS.ServeHTTP(w, r)
		return
	}

	// File not found - serve index.html for SPA routing
	indexContent, err := fs.ReadFile(h.indexFS, "index.html")
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexContent)
}
