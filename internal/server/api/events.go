package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/minsukim/jikimi/internal/store"
)

// EventHandler serves the danger event log.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates a new EventHandler with the given store.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

type eventResponse struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Trigger     string  `json:"trigger"`
	CreatedAt   string  `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

// ServeHTTP routes event requests.
//
//	GET /api/events?limit=N  recent events, newest first
//	GET /api/events/{id}     one event
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/events")
	path = strings.TrimPrefix(path, "/")
	if path != "" {
		h.get(w, r, path)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	events, err := h.store.Events().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			ID:          e.ID,
			Label:       e.Label,
			Probability: e.Probability,
			Trigger:     string(e.Trigger),
			CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/events/{id} and returns a single event.
func (h *EventHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	event, err := h.store.Events().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, eventResponse{
		ID:          event.ID,
		Label:       event.Label,
		Probability: event.Probability,
		Trigger:     string(event.Trigger),
		CreatedAt:   event.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
