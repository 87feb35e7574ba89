package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"flips_backend/internal/game"
	"flips_backend/internal/logger"
	"flips_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const joinTimeout = 5 * time.Second

// WSHandler authenticates inbound connections and hands them to the hub.
type WSHandler struct {
	Hub           *Hub
	Registry      *game.Registry
	AllowedOrigin string
}

func NewWSHandler(hub *Hub, registry *game.Registry, allowedOrigin string) *WSHandler {
	return &WSHandler{
		Hub:           hub,
		Registry:      registry,
		AllowedOrigin: allowedOrigin,
	}
}

// HandleWS upgrades an authenticated request to a websocket connection.
// The bearer token rides in the query string because browser websocket
// clients cannot set headers.
func (h *WSHandler) HandleWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		claims, err := service.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if h.AllowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == h.AllowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "user_id", claims.UserID, "error", err)
			return
		}

		client := NewClient(uuid.NewString(), claims.UserID, claims.Username, claims.Avatar, conn, h.Hub, h.Registry)
		logger.Info("client connected", "user_id", claims.UserID, "username", claims.Username, "conn_id", client.ID)
		go client.Run()
	}
}

// handleMessage decodes and dispatches one inbound intent.
func (c *Client) handleMessage(msg []byte) {
	var intent Intent
	if err := json.Unmarshal(msg, &intent); err != nil {
		c.send(errorJSON("Malformed message"))
		return
	}

	switch intent.Type {
	case IntentJoinTable:
		c.handleJoinTable(intent.TableID)
	case IntentPlayerReady:
		c.handlePlayerReady(intent.TableID, intent.Ready)
	case IntentLeaveTable:
		c.handleLeaveTable(intent.TableID)
	default:
		c.send(errorJSON("Unknown message type"))
	}
}

func (c *Client) handleJoinTable(tableID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()

	sess, err := c.registry.GetOrCreate(ctx, tableID)
	if err != nil {
		c.send(errorJSON(game.ErrTableNotFound.Error()))
		return
	}

	// Viewing starts before seating: the connection enters the room even if
	// the join below is rejected, so it still receives table snapshots.
	c.hub.JoinRoom(tableID, c)
	c.tables[tableID] = struct{}{}

	hub := c.hub
	sess.SetNotify(func(snap game.Snapshot) {
		hub.BroadcastRoom(snap.TableID, gameStateJSON(snap))
	})

	// Re-join of an already seated user: no second seat, no second ante.
	// Just bring this connection up to date.
	if sess.Seated(c.UserID) {
		logger.Info("player re-joining table", "user_id", c.UserID, "table_id", tableID)
		c.send(gameStateJSON(sess.Snapshot()))
		return
	}

	if err := sess.Join(ctx, c.UserID, c.Username, c.Avatar); err != nil {
		logger.Warn("join rejected", "user_id", c.UserID, "table_id", tableID, "reason", err)
		c.send(errorJSON(err.Error()))
		return
	}
}

func (c *Client) handlePlayerReady(tableID int64, ready bool) {
	sess := c.registry.Get(tableID)
	if sess == nil {
		return
	}
	sess.SetReady(c.UserID, ready)
}

func (c *Client) handleLeaveTable(tableID int64) {
	sess := c.registry.Get(tableID)
	if sess != nil {
		sess.Leave(c.UserID)
	}

	c.hub.LeaveRoom(tableID, c)
	delete(c.tables, tableID)
	logger.Info("player left table", "user_id", c.UserID, "table_id", tableID)
}
