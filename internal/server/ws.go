package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/minsukim/jikimi/internal/decision"
	"github.com/minsukim/jikimi/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// decisionMessage is the wire format for one decision cycle.
type decisionMessage struct {
	Danger         bool    `json:"danger"`
	Instant        bool    `json:"instant"`
	Suppressed     bool    `json:"suppressed"`
	ConfirmedLabel string  `json:"confirmedLabel,omitempty"`
	BestLabel      string  `json:"bestLabel,omitempty"`
	BestProb       float64 `json:"bestProb,omitempty"`
	Pattern        string  `json:"pattern"`
	Timestamp      int64   `json:"timestamp"`
}

// DecisionsHandler broadcasts per-frame decision outcomes via WebSocket. It
// subscribes to the session's outcome callback; a slow client drops messages
// rather than stalling the frame loop.
type DecisionsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	queue   chan decisionMessage
}

// NewDecisionsHandler creates a DecisionsHandler and registers it with the
// session.
func NewDecisionsHandler(s *session.Session) *DecisionsHandler {
	h := &DecisionsHandler{
		clients: make(map[*websocket.Conn]bool),
		queue:   make(chan decisionMessage, 16),
	}
	s.SetOnOutcome(h.enqueue)
	go h.broadcast()
	return h
}

// enqueue runs on the frame loop goroutine and must not block.
func (h *DecisionsHandler) enqueue(out decision.Outcome) {
	msg := decisionMessage{
		Danger:         out.Danger,
		Instant:        out.Instant,
		Suppressed:     out.Suppressed,
		ConfirmedLabel: out.ConfirmedLabel,
		Pattern:        out.Pattern.String(),
		Timestamp:      time.Now().UnixMilli(),
	}
	if out.BestOK {
		msg.BestLabel = out.Best.Label
		msg.BestProb = out.Best.Probability
	}

	select {
	case h.queue <- msg:
	default:
		// Queue full, drop the frame. The next one carries fresh state.
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *DecisionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast fans queued decisions out to all connected clients.
func (h *DecisionsHandler) broadcast() {
	for msg := range h.queue {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}

		data, err := json.Marshal(msg)
		if err != nil {
			h.mu.RUnlock()
			continue
		}
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, data)
		}
		h.mu.RUnlock()
	}
}
