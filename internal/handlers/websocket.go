package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/client"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
}

// checkOrigin admits same-host requests and the configured CORS origins
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

// HandleWebSocket upgrades the connection and subscribes it to countdown
// ticks and season notices
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := client.NewClient(uuid.New().String(), conn, h.hub, h.logger)

	// a fresh client sees the clock without waiting for the next tick
	if reading, ok := h.countdown.Last(); ok {
		c.TrySend(models.ServerMessage{
			Type:      models.MessageTypeCountdown,
			Payload:   reading,
			Timestamp: h.now(),
		})
	}
	h.hub.Register(c)

	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)
}
