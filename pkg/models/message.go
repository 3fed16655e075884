package models

import "time"

// Message types for WebSocket communication
const (
	MessageTypeMultiUpdate = "multi_update"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeHeartbeat   = "heartbeat"
	MessageTypeError       = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string             `json:"type"`
	Payload SubscriptionFilter `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// MultiUpdate is the payload broadcast when a multi is regenerated
type MultiUpdate struct {
	GenerationID string         `json:"generation_id"`
	Multi        GeneratedMulti `json:"multi"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// SubscriptionFilter represents client subscription preferences
type SubscriptionFilter struct {
	MultiTypes []MultiType `json:"multi_types,omitempty"`
	Sports     []string    `json:"sports,omitempty"` // any leg in one of these registry codes
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID         string    `json:"client_id"`
	ConnectedAt      time.Time `json:"connected_at"`
	MessagesSent     int64     `json:"messages_sent"`
	MessagesReceived int64     `json:"messages_received"`
	LastMessageAt    time.Time `json:"last_message_at"`
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of a failed HTTP request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
