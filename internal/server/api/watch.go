package api

import (
	"net/http"
	"strings"

	"github.com/minsukim/jikimi/internal/session"
)

// WatchHandler controls the detection session over HTTP.
type WatchHandler struct {
	session *session.Session
}

// NewWatchHandler creates a new WatchHandler bound to the given session.
func NewWatchHandler(s *session.Session) *WatchHandler {
	return &WatchHandler{session: s}
}

// ServeHTTP routes watch requests.
//
//	GET  /api/watch        current status
//	POST /api/watch/start  start the detection loop
//	POST /api/watch/stop   stop it and silence vibration
func (h *WatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/watch")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.session.Status())
	case "start":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := h.session.Start(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to start watching: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, h.session.Status())
	case "stop":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.session.Stop()
		writeJSON(w, http.StatusOK, h.session.Status())
	default:
		http.NotFound(w, r)
	}
}
