package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/msptoolkit/netscout/pkg/plugin"
)

// writeTimeout bounds a single frame write so one dead connection cannot
// hold a goroutine forever.
const writeTimeout = 5 * time.Second

// Handler accepts WebSocket connections on /api/v1/ws and forwards bus
// events for the subscribed topics to every connected client.
type Handler struct {
	hub    *Hub
	bus    plugin.Subscriber
	topics []string
	logger *zap.Logger

	unsubscribes []func()
}

// NewHandler creates a WebSocket handler that relays the given bus topics.
func NewHandler(bus plugin.Subscriber, topics []string, logger *zap.Logger) *Handler {
	return &Handler{
		hub:    NewHub(logger),
		bus:    bus,
		topics: topics,
		logger: logger,
	}
}

// Start subscribes to the configured topics.
func (h *Handler) Start() {
	for _, topic := range h.topics {
		unsub := h.bus.Subscribe(topic, h.relay)
		h.unsubscribes = append(h.unsubscribes, unsub)
	}
	h.logger.Info("websocket event relay started", zap.Strings("topics", h.topics))
}

// Stop unsubscribes from the bus. Connected clients are closed by the
// HTTP server's shutdown.
func (h *Handler) Stop() {
	for _, unsub := range h.unsubscribes {
		unsub()
	}
	h.unsubscribes = nil
}

// RegisterRoutes mounts the WebSocket endpoint (implements server.RouteRegistrar).
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws", h.serveWS)
}

// relay converts a bus event into a client frame.
func (h *Handler) relay(_ context.Context, e plugin.Event) {
	h.hub.Broadcast(Message{
		Topic:     e.Topic,
		Source:    e.Source,
		Timestamp: e.Timestamp,
		Payload:   e.Payload,
	})
}

// serveWS upgrades the connection and streams messages until the client
// disconnects.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket accept failed", zap.Error(err))
		return
	}

	c := &client{send: make(chan Message, sendBuffer)}
	h.hub.add(c)
	defer h.hub.remove(c)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The stream is one-way; the read loop only detects disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case msg := <-c.send:
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, msg)
			wcancel()
			if err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				conn.Close(websocket.StatusAbnormalClosure, "write failed")
				return
			}
		}
	}
}
