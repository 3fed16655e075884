package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1024

	// SendBufferSize is the number of outbound messages a client may lag behind
	SendBufferSize = 64
)

// Hub is the part of the broadcast hub a client talks to
type Hub interface {
	Unregister(client *Client)
}

// Client is one websocket subscriber to multi updates
type Client struct {
	ID   string
	Send chan models.ServerMessage // closed via Close

	sendMu sync.Mutex
	closed bool

	conn *websocket.Conn
	hub  Hub
	log  *logger.Entry

	filter   models.SubscriptionFilter
	filterMu sync.RWMutex

	connectedAt      time.Time
	messagesSent     int64
	messagesReceived int64
	lastMessageAt    time.Time
	mu               sync.Mutex
}

// NewClient creates a client for an upgraded connection
func NewClient(id string, conn *websocket.Conn, hub Hub, log *logger.Entry) *Client {
	return &Client{
		ID:          id,
		Send:        make(chan models.ServerMessage, SendBufferSize),
		conn:        conn,
		hub:         hub,
		log:         log.WithField("client_id", id),
		connectedAt: time.Now(),
	}
}

// ReadPump reads subscription messages until the connection fails
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var msg models.ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("unexpected close")
			}
			return
		}

		c.updateReceived()
		c.handleClientMessage(msg)
	}
}

// WritePump writes queued messages and pings to the connection
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write failed")
				return
			}
			c.updateSent()

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues a message without blocking. It reports false when the
// client's buffer is full or the client has been closed.
func (c *Client) TrySend(msg models.ServerMessage) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// Close closes the send channel, which makes WritePump send a close frame.
// Calling it more than once is a no-op.
func (c *Client) Close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// SetFilter replaces the client's subscription filter
func (c *Client) SetFilter(filter models.SubscriptionFilter) {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()
	c.filter = filter
}

// Filter returns the client's current subscription filter
func (c *Client) Filter() models.SubscriptionFilter {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()
	return c.filter
}

// MatchesFilter reports whether the client wants this multi. An empty filter
// accepts everything; a sports filter matches when any leg is in one of them.
func (c *Client) MatchesFilter(m models.GeneratedMulti) bool {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()

	if len(c.filter.MultiTypes) > 0 && !containsType(c.filter.MultiTypes, m.Type) {
		return false
	}

	if len(c.filter.Sports) > 0 {
		for _, leg := range m.Legs {
			if contains(c.filter.Sports, leg.Sport) {
				return true
			}
		}
		return false
	}

	return true
}

// Stats returns connection statistics
func (c *Client) Stats() models.ConnectionStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return models.ConnectionStats{
		ClientID:         c.ID,
		ConnectedAt:      c.connectedAt,
		MessagesSent:     c.messagesSent,
		MessagesReceived: c.messagesReceived,
		LastMessageAt:    c.lastMessageAt,
	}
}

func (c *Client) handleClientMessage(msg models.ClientMessage) {
	switch msg.Type {
	case models.MessageTypeSubscribe:
		c.SetFilter(msg.Payload)
		c.log.WithFields(logger.Fields{
			"multi_types": msg.Payload.MultiTypes,
			"sports":      msg.Payload.Sports,
		}).Info("subscribed")
	case models.MessageTypeUnsubscribe:
		c.SetFilter(models.SubscriptionFilter{})
		c.log.Info("unsubscribed")
	case models.MessageTypeHeartbeat:
		c.TrySend(models.ServerMessage{
			Type:      models.MessageTypeHeartbeat,
			Payload:   c.Stats(),
			Timestamp: time.Now(),
		})
	default:
		c.sendError("unknown_message_type", fmt.Sprintf("unknown message type: %s", msg.Type))
	}
}

func (c *Client) sendError(code, message string) {
	c.TrySend(models.ServerMessage{
		Type:      models.MessageTypeError,
		Payload:   models.ErrorMessage{Code: code, Message: message},
		Timestamp: time.Now(),
	})
}

func (c *Client) updateSent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesSent++
	c.lastMessageAt = time.Now()
}

func (c *Client) updateReceived() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesReceived++
	c.lastMessageAt = time.Now()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func containsType(slice []models.MultiType, item models.MultiType) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
