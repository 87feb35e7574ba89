package ws

import (
	"time"

	"flips_backend/internal/game"
	"flips_backend/internal/logger"
	"flips_backend/internal/metrics"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one authenticated websocket connection. A connection may view
// and play several tables at once; tables tracks which rooms it joined.
type Client struct {
	ID       string
	UserID   int64
	Username string
	Avatar   string

	Conn *websocket.Conn
	Send chan []byte

	hub      *Hub
	registry *game.Registry

	tables map[int64]struct{}
}

func NewClient(id string, userID int64, username, avatar string, conn *websocket.Conn, hub *Hub, registry *game.Registry) *Client {
	return &Client{
		ID:       id,
		UserID:   userID,
		Username: username,
		Avatar:   avatar,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		hub:      hub,
		registry: registry,
		tables:   make(map[int64]struct{}),
	}
}

// Run drives the connection until it closes.
func (c *Client) Run() {
	metrics.ConnectedClients.Inc()
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer c.disconnect()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read error", "user_id", c.UserID, "conn_id", c.ID, "error", err)
			}
			return
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// send queues a message for this connection only.
func (c *Client) send(msg []byte) {
	if msg == nil {
		return
	}
	select {
	case c.Send <- msg:
	default:
		logger.Warn("send buffer full", "user_id", c.UserID, "conn_id", c.ID)
	}
}

// disconnect treats an abrupt close as leave-all: the user is removed from
// every session where they hold a seat and each affected room sees the
// updated snapshot through the session's broadcast hook.
func (c *Client) disconnect() {
	_ = c.Conn.Close()
	c.hub.RemoveClient(c)

	for _, sess := range c.registry.All() {
		if sess.Seated(c.UserID) {
			logger.Info("removing disconnected player", "user_id", c.UserID, "table_id", sess.TableID())
			sess.Leave(c.UserID)
		}
	}

	metrics.ConnectedClients.Dec()
	logger.Info("client disconnected", "user_id", c.UserID, "conn_id", c.ID)
}
