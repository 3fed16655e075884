package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/client"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/hub"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
)

// WSHandler upgrades connections and attaches them to the hub
type WSHandler struct {
	hub      *hub.Hub
	ctx      context.Context
	upgrader websocket.Upgrader
	log      *logger.Entry
}

// NewWSHandler creates a websocket handler. Client pumps run on ctx rather
// than the request context so they outlive the upgrade request.
func NewWSHandler(ctx context.Context, h *hub.Hub, allowedOrigins []string, log *logger.Entry) *WSHandler {
	return &WSHandler{
		hub: h,
		ctx: ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log.WithComponent("ws"),
	}
}

// HandleWebSocket upgrades an HTTP connection to a multi update stream
// GET /ws
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := client.NewClient(uuid.New().String(), conn, h.hub, h.log)
	h.hub.Register(c)

	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)
}

// HandleMetrics returns hub metrics
// GET /ws/metrics
func (h *WSHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.hub.Metrics())
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
