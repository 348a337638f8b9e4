package bargainhub

import (
	"encoding/json"
	"log"
	"time"

	"bargainhub/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WSClient implements Client over a gorilla websocket connection.
type WSClient struct {
	ID     string
	User   string
	Kind   models.Role
	Conn   *websocket.Conn
	Hub    *Manager
	Send   chan models.Event
	closed bool

	// rooms is only touched by the Manager goroutine.
	rooms map[string]struct{}
}

// NewWSClient wraps an upgraded connection for the given principal.
func NewWSClient(connID, userID string, role models.Role, conn *websocket.Conn, hub *Manager) *WSClient {
	return &WSClient{
		ID:    connID,
		User:  userID,
		Kind:  role,
		Conn:  conn,
		Hub:   hub,
		Send:  make(chan models.Event, 256),
		rooms: make(map[string]struct{}),
	}
}

func (c *WSClient) ConnID() string                        { return c.ID }
func (c *WSClient) UserID() string                        { return c.User }
func (c *WSClient) Role() models.Role                     { return c.Kind }
func (c *WSClient) SendChannel() chan<- models.Event      { return c.Send }
func (c *WSClient) JoinRoom(sessionID string)             { c.rooms[sessionID] = struct{}{} }
func (c *WSClient) LeaveRoom(sessionID string)            { delete(c.rooms, sessionID) }
func (c *WSClient) InRoom(sessionID string) (joined bool) { _, joined = c.rooms[sessionID]; return }

// Run starts the read and write pumps.
func (c *WSClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops the write pump. The read pump
// stops on its own once the connection is closed in its defer.
func (c *WSClient) Close() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// readPump reads client commands off the socket and hands them to the hub.
func (c *WSClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var cmd models.ClientCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			log.Printf("Error decoding JSON from client %s: %v", c.ID, err)
			continue
		}

		c.Hub.InboundCh <- Inbound{Client: c, Command: cmd}
	}
}

// writePump drains the Send channel into the socket and keeps the
// connection alive with pings.
func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by the hub, close the WS connection.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error encoding JSON for client %s: %v", c.ID, err)
				continue
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			// Drain whatever queued up behind this event.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				next := <-c.Send
				extra, err := json.Marshal(next)
				if err != nil {
					continue
				}
				if err := c.Conn.WriteMessage(websocket.TextMessage, extra); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
