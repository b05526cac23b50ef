package ws

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// conn is the subset of *websocket.Conn the hub needs. Tests substitute a
// fake; production always passes a gorilla connection.
type conn interface {
	WriteControl(messageType int, data []byte, deadline time.Time) error
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Client is one live subscriber connection. All writes to the underlying
// connection happen on the writePump goroutine; the hub only feeds the
// buffered send channel.
type Client struct {
	id   uuid.UUID
	hub  *Hub
	conn conn
	send chan []byte
	log  *slog.Logger
}

func newClient(hub *Hub, c conn, buffer int, log *slog.Logger) *Client {
	id := uuid.New()
	return &Client{
		id:   id,
		hub:  hub,
		conn: c,
		send: make(chan []byte, buffer),
		log:  log.With("client_id", id.String()),
	}
}

// ID returns the handle id, used in logs.
func (c *Client) ID() uuid.UUID { return c.id }

// writePump drains the send channel onto the connection. One frame per
// write, each under a deadline; a failed write tears the client down.
// Idle connections are pinged so dead peers are detected.
func (c *Client) writePump(sendTimeout, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.hub.Deregister(c)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Hub closed the channel on deregistration.
				_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(sendTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("write failed, dropping subscriber", "err", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(sendTimeout)); err != nil {
				c.log.Debug("ping failed, dropping subscriber", "err", err)
				return
			}
		}
	}
}

// readPump discards inbound frames. Clients never send application
// messages on this channel; reading is only how we learn the peer closed.
func (c *Client) readPump() {
	defer c.hub.Deregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
