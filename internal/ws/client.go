package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one websocket connection of a user. A user may hold several.
type Client struct {
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte

	hub       *Hub
	closeOnce sync.Once
}

func NewClient(userID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		hub:    hub,
	}
}

// Run registers the client and blocks until the connection drops.
func (c *Client) Run() {
	c.hub.Register(c)
	go c.writePump()
	c.enqueue(Message{Type: MsgReady, SentAt: time.Now().UTC()})
	c.readPump()
}

// enqueue never blocks; a full buffer drops the frame.
func (c *Client) enqueue(m Message) bool {
	b, err := json.Marshal(m)
	if err != nil {
		c.hub.log.Error("ws marshal failed", "user_id", c.UserID, "type", m.Type, "error", err)
		return false
	}
	select {
	case c.Send <- b:
		return true
	default:
		return false
	}
}

func (c *Client) readPump() {
	defer c.close()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("ws read error", "user_id", c.UserID, "error", err)
			}
			return
		}

		var in inbound
		if err := json.Unmarshal(msg, &in); err != nil {
			c.enqueue(Message{Type: MsgError, Payload: "invalid message", SentAt: time.Now().UTC()})
			continue
		}
		switch in.Type {
		case MsgPing:
			c.enqueue(Message{Type: MsgPong, SentAt: time.Now().UTC()})
		default:
			c.enqueue(Message{Type: MsgError, Payload: "unknown message type", SentAt: time.Now().UTC()})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.log.Debug("ws write error", "user_id", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.hub.Unregister(c)
		close(c.Send)
	})
}
