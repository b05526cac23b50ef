package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"Dashboard/internal/event"
)

// envelope is the wire shape pushed to subscribers.
type envelope struct {
	Type event.Type `json:"type"`
	Data any        `json:"data"`
}

// Hub tracks the set of live subscriber connections and fans each domain
// event out to all of them. The client set is the only shared mutable
// state; every operation on it holds the mutex.
//
// Hub implements event.Sink, so it plugs straight into the bus.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}

	sendTimeout  time.Duration
	pingInterval time.Duration
	sendBuffer   int
	log          *slog.Logger
}

// NewHub returns a hub with no subscribers.
func NewHub(sendTimeout, pingInterval time.Duration, sendBuffer int, log *slog.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]struct{}),
		sendTimeout:  sendTimeout,
		pingInterval: pingInterval,
		sendBuffer:   sendBuffer,
		log:          log,
	}
}

// Register adds a client to the live set. Registering an already-present
// client is a no-op.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		return
	}
	h.clients[c] = struct{}{}
	h.log.Info("client connected", "client_id", c.id.String(), "connections", len(h.clients))
}

// Deregister removes a client and closes it. Safe to call repeatedly and
// for clients the hub never saw.
func (h *Hub) Deregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
		h.log.Info("client disconnected", "client_id", c.id.String(), "connections", n)
	}
}

// Consume serializes the event once and offers it to every live
// subscriber. A subscriber whose buffer is full is dropped; that never
// stops delivery to the rest, and no error reaches the publisher.
func (h *Hub) Consume(ctx context.Context, e event.DomainEvent) {
	_ = ctx
	msg, err := json.Marshal(envelope{Type: e.EventType(), Data: e.Data()})
	if err != nil {
		h.log.Error("marshal event", "type", string(e.EventType()), "err", err)
		return
	}

	h.mu.Lock()
	stale := make([]*Client, 0)
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Buffer full: the writePump is stalled or the peer is
			// not reading. Drop this subscriber, keep going.
			stale = append(stale, c)
		}
	}
	h.mu.Unlock()

	for _, c := range stale {
		h.log.Warn("subscriber too slow, dropping", "client_id", c.id.String())
		h.Deregister(c)
	}
}

// Count returns the number of live subscribers (health endpoint).
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
