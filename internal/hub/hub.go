// Package hub fans multi updates out to websocket clients.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/client"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

const (
	broadcastBufferSize = 64
	metricsInterval     = 30 * time.Second
)

// Hub maintains the set of active clients and broadcasts multi updates to them
type Hub struct {
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	broadcast  chan models.MultiUpdate
	register   chan *client.Client
	unregister chan *client.Client
	done       chan struct{}

	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex

	log *logger.Entry
}

// NewHub creates a new Hub instance
func NewHub(log *logger.Entry) *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan models.MultiUpdate, broadcastBufferSize),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		done:       make(chan struct{}),
		log:        log.WithComponent("hub"),
	}
}

// Run is the hub's main loop. It closes every client when ctx ends.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("hub started")
	defer close(h.done)

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues an update. It drops the update when the queue is full.
func (h *Hub) Broadcast(update models.MultiUpdate) {
	select {
	case h.broadcast <- update:
	default:
		h.log.WithField("multi_type", update.Multi.Type).Warn("broadcast buffer full, dropping update")
	}
}

// BroadcastGeneration queues one update per multi of a generation
func (h *Hub) BroadcastGeneration(resp models.MultiResponse) {
	for _, t := range models.AllMultiTypes {
		m, _ := resp.Multis.ByType(t)
		h.Broadcast(models.MultiUpdate{
			GenerationID: resp.ID,
			Multi:        m,
			GeneratedAt:  resp.GeneratedAt,
		})
	}
}

func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.incrementTotalConnections()

	h.log.WithFields(logger.Fields{"client_id": c.ID, "total": len(h.clients)}).Info("client connected")
}

func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
		h.log.WithFields(logger.Fields{"client_id": c.ID, "total": len(h.clients)}).Info("client disconnected")
	}
}

// broadcastUpdate sends an update to every client whose filter matches.
// Clients with a full buffer are disconnected.
func (h *Hub) broadcastUpdate(update models.MultiUpdate) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	message := models.ServerMessage{
		Type:      models.MessageTypeMultiUpdate,
		Payload:   update,
		Timestamp: time.Now(),
	}

	sent, dropped := 0, 0
	for _, c := range clients {
		if !c.MatchesFilter(update.Multi) {
			continue
		}

		if c.TrySend(message) {
			sent++
			continue
		}

		dropped++
		h.unregisterClient(c)
	}

	if sent > 0 {
		h.incrementTotalMessages()
	}
	if dropped > 0 {
		h.log.WithField("dropped", dropped).Warn("disconnected slow clients")
	}
}

// Metrics returns hub counters
func (h *Hub) Metrics() map[string]interface{} {
	h.clientsMu.RLock()
	activeClients := len(h.clients)
	h.clientsMu.RUnlock()

	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     activeClients,
		"total_connections":  h.totalConnections,
		"total_messages":     h.totalMessages,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// ClientCount returns the number of active clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.log.WithField("active_clients", len(h.clients)).Info("shutting down hub")

	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.log.WithFields(logger.Fields(h.Metrics())).Info("hub metrics")
		}
	}
}

func (h *Hub) incrementTotalConnections() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalConnections++
}

func (h *Hub) incrementTotalMessages() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalMessages++
}
