package ws

import (
	"sync"

	"flips_backend/internal/logger"
)

// Hub tracks which connections are viewing which table. A room is just the
// set of connections that joined that table; broadcasts fan out to all of
// them with non-blocking sends.
type Hub struct {
	mu    sync.RWMutex
	rooms map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) JoinRoom(tableID int64, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[tableID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[tableID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) LeaveRoom(tableID int64, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[tableID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, tableID)
		}
	}
}

// RemoveClient drops the connection from every room it joined.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for tableID, room := range h.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, tableID)
		}
	}
}

// BroadcastRoom sends a message to every viewer of a table. A connection
// with a full send buffer is skipped rather than blocking the broadcast;
// its write pump is already in trouble and the read side will notice.
func (h *Hub) BroadcastRoom(tableID int64, msg []byte) {
	if msg == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[tableID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("dropping broadcast to slow client", "table_id", tableID, "user_id", c.UserID, "conn_id", c.ID)
		}
	}
}

// RoomSize reports how many connections view a table.
func (h *Hub) RoomSize(tableID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tableID])
}
