package ws

import (
	"sync"
	"time"

	"questline/internal/logger"
)

// Hub tracks open connections per user and fans events out to them.
// It implements service.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
	log     *logger.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
		log:     logger.With("component", "ws_hub"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	wsConnections.Inc()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	wsConnections.Dec()
}

// Notify delivers event to every connection of userID without blocking.
// Slow connections miss the event.
func (h *Hub) Notify(userID int64, event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	m := Message{Type: event, Payload: payload, SentAt: time.Now().UTC()}
	for c := range h.clients[userID] {
		if c.enqueue(m) {
			wsEvents.WithLabelValues(event, "sent").Inc()
		} else {
			wsEvents.WithLabelValues(event, "dropped").Inc()
			h.log.Warn("ws event dropped", "user_id", userID, "event", event)
		}
	}
}

// Connections returns how many connections userID has open.
func (h *Hub) Connections(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Online returns the number of users with at least one connection.
func (h *Hub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
