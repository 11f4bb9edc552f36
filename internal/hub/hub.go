package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
)

// Client is one WebSocket subscriber. Clients subscribe to route numbers and
// receive tracking deltas for those lines.
type Client struct {
	ID    string
	Send  chan []byte
	lines map[string]struct{}
	mu    sync.RWMutex
}

func NewClient(id string, bufferSize int) *Client {
	return &Client{
		ID:    id,
		Send:  make(chan []byte, bufferSize),
		lines: make(map[string]struct{}),
	}
}

func (c *Client) HasLine(routeNumber string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.lines[routeNumber]
	return ok
}

func (c *Client) AddLines(routeNumbers []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range routeNumbers {
		c.lines[r] = struct{}{}
	}
}

func (c *Client) RemoveLines(routeNumbers []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range routeNumbers {
		delete(c.lines, r)
	}
}

func (c *Client) Lines() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lines := make([]string, 0, len(c.lines))
	for r := range c.lines {
		lines = append(lines, r)
	}
	return lines
}

// Hub fans simulated tracking deltas out to subscribed clients
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]struct{}
	lineClients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan []domain.TrackingDelta

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]struct{}),
		lineClients: make(map[string]map[*Client]struct{}),
		register:    make(chan *Client, 16),
		unregister:  make(chan *Client, 16),
		broadcast:   make(chan []domain.TrackingDelta, 256),
		logger:      logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("client registered", "client_id", client.ID, "total", len(h.clients))

		case client := <-h.unregister:
			h.removeClient(client)

		case deltas := <-h.broadcast:
			h.fanoutDeltas(deltas)
		}
	}
}

func (h *Hub) Subscribe(client *Client, routeNumbers []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.AddLines(routeNumbers)

	for _, r := range routeNumbers {
		if h.lineClients[r] == nil {
			h.lineClients[r] = make(map[*Client]struct{})
		}
		h.lineClients[r][client] = struct{}{}
	}
}

func (h *Hub) Unsubscribe(client *Client, routeNumbers []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.RemoveLines(routeNumbers)

	for _, r := range routeNumbers {
		if h.lineClients[r] != nil {
			delete(h.lineClients[r], client)
			if len(h.lineClients[r]) == 0 {
				delete(h.lineClients, r)
			}
		}
	}
}

func (h *Hub) Broadcast(deltas []domain.TrackingDelta) {
	if len(deltas) == 0 {
		return
	}
	select {
	case h.broadcast <- deltas:
	default:
		h.logger.Warn("broadcast channel full, dropping deltas", "count", len(deltas))
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type DeltaMessage struct {
	Type    string       `json:"type"`
	Payload DeltaPayload `json:"payload"`
}

type DeltaPayload struct {
	Updates []*domain.BusTracking `json:"updates,omitempty"`
	Removes []string              `json:"removes,omitempty"`
}

func (h *Hub) fanoutDeltas(deltas []domain.TrackingDelta) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clientDeltas := make(map[*Client][]domain.TrackingDelta)

	for _, d := range deltas {
		if clients, ok := h.lineClients[d.RouteNumber]; ok {
			for client := range clients {
				clientDeltas[client] = append(clientDeltas[client], d)
			}
		}
	}

	for client, ds := range clientDeltas {
		msg := buildDeltaMessage(ds)
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}

		select {
		case client.Send <- data:
		default:
			h.logger.Debug("client send buffer full", "client_id", client.ID)
		}
	}
}

func buildDeltaMessage(deltas []domain.TrackingDelta) DeltaMessage {
	var updates []*domain.BusTracking
	var removes []string

	for _, d := range deltas {
		switch d.Type {
		case domain.DeltaUpdate:
			updates = append(updates, d.Tracking)
		case domain.DeltaRemove:
			removes = append(removes, d.BusNumber)
		}
	}

	return DeltaMessage{
		Type: "delta",
		Payload: DeltaPayload{
			Updates: updates,
			Removes: removes,
		},
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	for _, r := range client.Lines() {
		if h.lineClients[r] != nil {
			delete(h.lineClients[r], client)
			if len(h.lineClients[r]) == 0 {
				delete(h.lineClients, r)
			}
		}
	}

	delete(h.clients, client)
	close(client.Send)
	h.logger.Debug("client unregistered", "client_id", client.ID, "total", len(h.clients))
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.Send)
	}
	h.clients = make(map[*Client]struct{})
	h.lineClients = make(map[string]map[*Client]struct{})
}
