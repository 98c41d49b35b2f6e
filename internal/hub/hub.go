package hub

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/client"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"go.uber.org/zap"
)

const broadcastBuffer = 256

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	broadcast  chan models.ServerMessage
	register   chan *client.Client
	unregister chan *client.Client

	logger *zap.Logger
	now    func() time.Time

	metricsMu        sync.Mutex
	totalConnections int64
	totalMessages    int64
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan models.ServerMessage, broadcastBuffer),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		logger:     logger,
		now:        time.Now,
	}
}

// Run is the hub's main loop; it returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	h.register <- c
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	h.unregister <- c
}

// Broadcast queues a message of type messageType for every subscribed
// client. A full queue drops the message.
func (h *Hub) Broadcast(messageType string, payload interface{}) {
	msg := models.ServerMessage{Type: messageType, Payload: payload, Timestamp: h.now()}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast buffer full, dropping message", zap.String("type", messageType))
	}
}

// ShowCountdown pushes a countdown reading to clients
func (h *Hub) ShowCountdown(r models.CountdownReading) {
	h.Broadcast(models.MessageTypeCountdown, r)
}

// ClientCount returns the number of active clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Metrics returns hub counters
func (h *Hub) Metrics() map[string]interface{} {
	h.metricsMu.Lock()
	totalConnections, totalMessages := h.totalConnections, h.totalMessages
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     h.ClientCount(),
		"total_connections":  totalConnections,
		"total_messages":     totalMessages,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.clientsMu.Unlock()

	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	h.logger.Info("client connected", zap.String("client_id", c.ID), zap.Int("total", total))
}

func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		h.logger.Info("client disconnected", zap.String("client_id", c.ID), zap.Int("total", len(h.clients)))
	}
}

func (h *Hub) broadcastMessage(msg models.ServerMessage) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	sent := 0
	for _, c := range clients {
		if !c.Wants(msg.Type) {
			continue
		}
		if c.TrySend(msg) {
			sent++
			continue
		}
		// too slow to keep up
		h.logger.Warn("client buffer full, disconnecting", zap.String("client_id", c.ID))
		go h.Unregister(c)
	}

	if sent > 0 {
		h.metricsMu.Lock()
		h.totalMessages++
		h.metricsMu.Unlock()
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Info("shutting down hub", zap.Int("active_clients", len(h.clients)))
	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}
