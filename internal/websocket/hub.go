// Package websocket fans change events out to every connected client. It
// is the persisted variant's transport for the feed: a client that issued
// a mutation learns its outcome the same way every other client does, by
// receiving the event back over its own connection.
package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/bloomworks/bloomgo/internal/feed"
)

// Hub maintains the set of active clients and broadcasts change events.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan feed.Event

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan feed.Event, 64),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("📱 Feed client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("📴 Feed client disconnected: %s", client.ID)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			msg, err := json.Marshal(event)
			if err != nil {
				log.Printf("🔴 Feed: failed to marshal event: %v", err)
				continue
			}
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Buffer full or client dead; the client's pumps
					// will tear the connection down.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish enqueues a change event for delivery to all connected clients.
// It satisfies engine.Publisher.
func (h *Hub) Publish(e feed.Event) {
	h.broadcast <- e
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
