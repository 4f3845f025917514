package api

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
)

// errorResponse is the body shape shared by every error the API returns.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v to a buffer first so an encoding failure can still
// produce an error status instead of a truncated 200 body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("json encode failed: %v", err)
		writeErrorFallback(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("write response failed: %v", err)
	}
}

// writeError writes a JSON error body. The API is read only, so 4xx
// messages can name the bad input directly; for 5xx the underlying error
// goes to the log and clients get a generic message.
func writeError(w http.ResponseWriter, status int, public string, err error) {
	if public == "" {
		public = http.StatusText(status)
	}
	if status >= 500 && err != nil {
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: public})
}

// writeErrorFallback answers in plain text when JSON encoding itself is
// what failed, so writeJSON and writeError never call each other in a loop.
func writeErrorFallback(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(message))
}
