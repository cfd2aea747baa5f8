package ws

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/ports"
)

// Hub tracks live connections per user and chat rooms per inquiry. It
// implements ports.Pusher; delivery is best-effort and never blocks a
// workflow, a slow consumer just loses frames.
type Hub struct {
	mu      sync.RWMutex
	byUser  map[string]map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
	logger  zerolog.Logger
	metrics HubMetrics
}

// HubMetrics receives connection gauge updates; a nil-safe no-op default is
// used when not set.
type HubMetrics interface {
	ConnectionOpened()
	ConnectionClosed()
}

type noopMetrics struct{}

func (noopMetrics) ConnectionOpened() {}
func (noopMetrics) ConnectionClosed() {}

func NewHub(logger zerolog.Logger, metrics HubMetrics) *Hub {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Hub{
		byUser:  make(map[string]map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		logger:  logger,
		metrics: metrics,
	}
}

// Push sends an event to every live connection of the user. Offline users are
// a no-op; the persisted notification row is the recovery path.
func (h *Hub) Push(userID string, event ports.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.byUser[userID] {
		client.enqueue(event)
	}
}

// Broadcast sends an event to every member of an inquiry room except the
// sender. Used for ephemeral frames like typing indicators.
func (h *Hub) Broadcast(inquiryID string, except *Client, event ports.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[inquiryID] {
		if client != except {
			client.enqueue(event)
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.byUser[c.userID] == nil {
		h.byUser[c.userID] = make(map[*Client]struct{})
	}
	h.byUser[c.userID][c] = struct{}{}
	h.metrics.ConnectionOpened()
	h.logger.Debug().Str("user_id", c.userID).Msg("ws client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.byUser[c.userID]
	if !ok {
		return
	}
	if _, present := clients[c]; !present {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.byUser, c.userID)
	}
	for inquiryID, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, inquiryID)
		}
	}
	h.metrics.ConnectionClosed()
	h.logger.Debug().Str("user_id", c.userID).Msg("ws client disconnected")
}

func (h *Hub) joinRoom(inquiryID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[inquiryID] == nil {
		h.rooms[inquiryID] = make(map[*Client]struct{})
	}
	h.rooms[inquiryID][c] = struct{}{}
}
