package ws

import (
	"sync"

	"go.uber.org/zap"
)

// sendBuffer is the per-client outbound queue depth. A client that falls
// this far behind starts losing messages rather than stalling the hub.
const sendBuffer = 32

type client struct {
	send chan Message
}

// Hub fans messages out to all connected WebSocket clients. Broadcast
// never blocks: slow clients drop messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", zap.Int("clients", n))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client disconnected", zap.Int("clients", n))
}

// Broadcast queues msg for every connected client without blocking.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping message for slow websocket client",
				zap.String("topic", msg.Topic))
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
