package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/homequest/realty-api/internal/core/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 32
)

// Client is one live WebSocket connection bound to an authenticated user.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	actor ports.Actor

	userID string
	send   chan ports.Event
}

func newClient(hub *Hub, conn *websocket.Conn, actor ports.Actor) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		actor:  actor,
		userID: actor.ID,
		send:   make(chan ports.Event, sendBuffer),
	}
}

// enqueue hands an event to the write pump without blocking; a full buffer
// drops the frame.
func (c *Client) enqueue(event ports.Event) {
	select {
	case c.send <- event:
	default:
		c.hub.logger.Warn().Str("user_id", c.userID).Str("event", event.Name).Msg("ws send buffer full, frame dropped")
	}
}

// readPump consumes client frames and dispatches them until the connection
// closes. It owns the read side and the unregister.
func (c *Client) readPump(dispatch func(*Client, *clientFrame)) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame clientFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug().Err(err).Str("user_id", c.userID).Msg("ws read error")
			}
			return
		}
		dispatch(c, &frame)
	}
}

// writePump serializes events onto the connection and keeps it alive with
// pings. It owns the write side.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
