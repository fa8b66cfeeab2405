// Package api provides HTTP API handlers for the Jikimi hazard watcher.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/minsukim/jikimi/internal/store"
)

// LabelHandler handles HTTP requests for label resources. Mutations invoke
// the reload callback so the running decision engine picks up catalog changes.
type LabelHandler struct {
	store  *store.Store
	reload func() error
}

// NewLabelHandler creates a new LabelHandler. reload may be nil.
func NewLabelHandler(s *store.Store, reload func() error) *LabelHandler {
	return &LabelHandler{store: s, reload: reload}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *LabelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/labels or /api/labels/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/labels")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type labelRequest struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

type labelResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Class     string `json:"class"`
	CreatedAt string `json:"created_at"`
}

type listLabelsResponse struct {
	Labels []labelResponse `json:"labels"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toLabelResponse converts a store.Label to a labelResponse.
func toLabelResponse(l *store.Label) labelResponse {
	return labelResponse{
		ID:        l.ID,
		Name:      l.Name,
		Class:     string(l.Class),
		CreatedAt: l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// validClass reports whether s names a known label class.
func validClass(s string) bool {
	c := store.LabelClass(s)
	return c == store.LabelClassGround || c == store.LabelClassDanger
}

// reloadCatalog refreshes the engine catalog after a mutation. Best effort.
func (h *LabelHandler) reloadCatalog() {
	if h.reload != nil {
		h.reload()
	}
}

// list handles GET /api/labels and returns all labels.
func (h *LabelHandler) list(w http.ResponseWriter, r *http.Request) {
	labels, err := h.store.Labels().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list labels")
		return
	}

	response := listLabelsResponse{
		Labels: make([]labelResponse, 0, len(labels)),
	}
	for _, l := range labels {
		response.Labels = append(response.Labels, toLabelResponse(l))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/labels/{id} and returns a single label.
func (h *LabelHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	label, err := h.store.Labels().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Label not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get label")
		return
	}

	writeJSON(w, http.StatusOK, toLabelResponse(label))
}

// create handles POST /api/labels and creates a new label.
func (h *LabelHandler) create(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	// Ground is the safe default: an unknown class must never promote a
	// label into the danger set by accident.
	class := req.Class
	if class == "" {
		class = string(store.LabelClassGround)
	}
	if !validClass(class) {
		writeError(w, http.StatusBadRequest, "Invalid label class")
		return
	}

	label := &store.Label{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Class: store.LabelClass(class),
	}

	if err := h.store.Labels().Create(label); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create label")
		return
	}
	h.reloadCatalog()

	writeJSON(w, http.StatusCreated, toLabelResponse(label))
}

// update handles PUT /api/labels/{id} and updates an existing label.
func (h *LabelHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	label, err := h.store.Labels().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Label not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get label")
		return
	}

	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		label.Name = req.Name
	}
	if req.Class != "" {
		if !validClass(req.Class) {
			writeError(w, http.StatusBadRequest, "Invalid label class")
			return
		}
		label.Class = store.LabelClass(req.Class)
	}

	if err := h.store.Labels().Update(label); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update label")
		return
	}
	h.reloadCatalog()

	writeJSON(w, http.StatusOK, toLabelResponse(label))
}

// delete handles DELETE /api/labels/{id} and removes a label.
func (h *LabelHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Labels().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Label not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete label")
		return
	}
	h.reloadCatalog()

	w.WriteHeader(http.StatusNoContent)
}
