package models

import "time"

// Message types for WebSocket communication
const (
	MessageTypeCountdown    = "countdown"
	MessageTypeSeasonLoaded = "season_loaded"
	MessageTypeHeartbeat    = "heartbeat"
	MessageTypeError        = "error"
	MessageTypeSubscribe    = "subscribe"
	MessageTypeUnsubscribe  = "unsubscribe"
)

// SubscriptionFilter limits which server message types a client receives.
// An empty filter receives everything.
type SubscriptionFilter struct {
	Types []string `json:"types,omitempty"`
}

// Matches reports whether messageType passes the filter
func (f SubscriptionFilter) Matches(messageType string) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == messageType {
			return true
		}
	}
	return false
}

// ConnectionStats describes one websocket client
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at,omitempty"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"`
}

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorMessage represents an error sent to a client
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CountdownReading is one tick of the next-game countdown
type CountdownReading struct {
	Target  time.Time `json:"target"`
	Days    int64     `json:"days"`
	Hours   int64     `json:"hours"`
	Minutes int64     `json:"minutes"`
	Seconds int64     `json:"seconds"`
	Display string    `json:"display"`
	Done    bool      `json:"done"`
}
