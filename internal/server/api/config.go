package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/minsukim/jikimi/internal/session"
)

// ConfigHandler exposes the decision parameters over HTTP. Updates clamp to
// valid ranges, apply to the live engine, and persist to the store.
type ConfigHandler struct {
	session *session.Session
}

// NewConfigHandler creates a new ConfigHandler bound to the given session.
func NewConfigHandler(s *session.Session) *ConfigHandler {
	return &ConfigHandler{session: s}
}

type configResponse struct {
	Threshold   float64 `json:"threshold"`
	HoldSeconds float64 `json:"holdSeconds"`
}

type updateConfigRequest struct {
	Threshold   *float64 `json:"threshold"`
	HoldSeconds *float64 `json:"holdSeconds"`
}

// ServeHTTP implements the http.Handler interface.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// get handles GET /api/config.
func (h *ConfigHandler) get(w http.ResponseWriter, r *http.Request) {
	params := h.session.Params()
	writeJSON(w, http.StatusOK, configResponse{
		Threshold:   params.Threshold,
		HoldSeconds: params.Hold.Seconds(),
	})
}

// update handles PUT /api/config. Absent fields keep their current values.
func (h *ConfigHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	params := h.session.Params()
	if req.Threshold != nil {
		params.Threshold = *req.Threshold
	}
	if req.HoldSeconds != nil {
		params.Hold = time.Duration(*req.HoldSeconds * float64(time.Second))
	}

	if err := h.session.SetParams(params); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save config")
		return
	}

	applied := h.session.Params()
	writeJSON(w, http.StatusOK, configResponse{
		Threshold:   applied.Threshold,
		HoldSeconds: applied.Hold.Seconds(),
	})
}
