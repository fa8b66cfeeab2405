// Package server provides the HTTP server for the Jikimi hazard watcher.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/minsukim/jikimi/internal/server/api"
	"github.com/minsukim/jikimi/internal/session"
	"github.com/minsukim/jikimi/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Session   *session.Session
}

// Server represents the HTTP server for the Jikimi application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		var reload func() error
		if s.config.Session != nil {
			reload = s.config.Session.ReloadCatalog
		}
		labelHandler := api.NewLabelHandler(s.config.Store, reload)
		s.mux.Handle("/api/labels", labelHandler)
		s.mux.Handle("/api/labels/", labelHandler)

		eventHandler := api.NewEventHandler(s.config.Store)
		s.mux.Handle("/api/events", eventHandler)
		s.mux.Handle("/api/events/", eventHandler)
	}

	if s.config.Session != nil {
		s.mux.Handle("/api/config", api.NewConfigHandler(s.config.Session))

		watchHandler := api.NewWatchHandler(s.config.Session)
		s.mux.Handle("/api/watch", watchHandler)
		s.mux.Handle("/api/watch/", watchHandler)

		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Session))
		s.mux.Handle("/api/decisions", NewDecisionsHandler(s.config.Session))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
