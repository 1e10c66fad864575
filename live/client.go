package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket connection subscribed to a single league room.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	Room   string
	UserID int

	mu     sync.Mutex
	closed bool
	logger *slog.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, room string, userID int, logger *slog.Logger) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 16),
		Room:   room,
		UserID: userID,
		logger: logger,
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// inboundChat is the only client-to-server message the hub accepts; anything
// else read from the socket is dropped.
type inboundChat struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ReadPump consumes inbound frames, relaying chat messages to the room and
// keeping the connection alive via pong handling.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", "room", c.Room, "error", err)
			}
			return
		}

		var chat inboundChat
		if err := json.Unmarshal(message, &chat); err != nil || chat.Type != EventChatMessage || chat.Text == "" {
			continue
		}
		c.Hub.BroadcastToRoom(c.Room, Event{
			Type: EventChatMessage,
			Payload: map[string]interface{}{
				"user_id": c.UserID,
				"text":    chat.Text,
				"sent_at": time.Now().UTC(),
			},
		})
	}
}

// WritePump flushes the send channel to the socket and pings on an interval.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain anything queued behind the current message.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
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
