package sse

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/rx"
)

// Broadcaster sends frames to the clients whose ID matches a glob pattern
// (e.g., "prices:*" or "prices:abc123").
type Broadcaster interface {
	BroadcastToPattern(pattern string, f Frame)
}

// Message is a frame addressed to a client pattern.
type Message struct {
	Pattern string
	Frame   Frame
}

// Hub manages long-lived SSE clients and fans frames out to them. All
// membership changes and broadcasts are serialized by Run.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

var _ Broadcaster = (*Hub)(nil)

// NewHub creates a hub. Call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	log := logger.Get("sse")
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Debug("client registered", logger.Fields(
				logger.FieldClientID, client.id,
				"total_clients", total,
			))

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.id]; ok && current == client {
				delete(h.clients, client.id)
				client.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Debug("client unregistered", logger.Fields(
				logger.FieldClientID, client.id,
				"total_clients", total,
			))

		case msg := <-h.broadcast:
			h.broadcastWithPattern(msg.Pattern, msg.Frame)
		}
	}
}

// Stop shuts the hub down and finishes every client. Safe to call more
// than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Stopped reports whether Stop has been called.
func (h *Hub) Stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
	logger.Get("sse").Debug("all clients closed during shutdown")
}

// Register adds a client. If the hub is stopped the client is closed.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes and closes a client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToPattern queues f for every client whose ID matches pattern.
func (h *Hub) BroadcastToPattern(pattern string, f Frame) {
	select {
	case h.broadcast <- &Message{Pattern: pattern, Frame: f}:
	case <-h.done:
	}
}

func (h *Hub) broadcastWithPattern(pattern string, f Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	matched := 0
	for id, client := range h.clients {
		ok, err := filepath.Match(pattern, id)
		if err != nil {
			logger.Get("sse").Error("pattern match error", logger.Fields(
				"pattern", pattern,
				logger.FieldError, err.Error(),
			))
			return
		}
		if ok && client.Send(f) {
			matched++
		}
	}

	logger.Get("sse").Debug("broadcast sent", logger.Fields(
		"pattern", pattern,
		"match_count", matched,
		"total_clients", len(h.clients),
	))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ClientIDs returns the IDs of all connected clients.
func (h *Hub) ClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// Publish subscribes to src and broadcasts each of its events to the
// clients matching pattern. Terminal events are broadcast as frames but
// do not end the clients, which may follow several publications. An
// error from src that is not already an AppError reaches the clients as
// UPSTREAM_FAILED.
func Publish[T any](ctx context.Context, b Broadcaster, pattern string, src rx.Observable[T]) disposable.Disposable {
	return rx.SubscribeFunc(ctx, src, func(e rx.Event[T]) {
		if e.Kind == rx.KindError && !errors.IsAppError(e.Err) {
			e = rx.Error[T](errors.UpstreamFailed(pattern, e.Err))
		}
		f, err := EncodeEvent(e)
		if err != nil {
			logger.Get("sse").WithContext(ctx).WithError(err).Warn("dropping unencodable value", logger.Fields("pattern", pattern))
			return
		}
		b.BroadcastToPattern(pattern, f)
	})
}
