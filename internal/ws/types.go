package ws

import "time"

const (
	// client - server
	MsgPing = "ping"

	// server - client
	MsgReady = "ready"
	MsgPong  = "pong"
	MsgError = "error"
)

// Message is the envelope of every frame the server sends.
type Message struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload,omitempty"`
	SentAt  time.Time `json:"sentAt"`
}

type inbound struct {
	Type string `json:"type"`
}
