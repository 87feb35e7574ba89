package ws

import (
	"encoding/json"

	"flips_backend/internal/game"
)

// Intents a connection may send.
const (
	IntentJoinTable   = "join_table"
	IntentPlayerReady = "player_ready"
	IntentLeaveTable  = "leave_table"
)

// Intent is the inbound message envelope. Unused fields stay zero.
type Intent struct {
	Type    string `json:"type"`
	TableID int64  `json:"tableId"`
	Ready   bool   `json:"ready"`
}

// GameStateMessage wraps a snapshot for the wire.
type GameStateMessage struct {
	Type string `json:"type"`
	game.Snapshot
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func gameStateJSON(snap game.Snapshot) []byte {
	data, err := json.Marshal(GameStateMessage{Type: "game_state", Snapshot: snap})
	if err != nil {
		return nil
	}
	return data
}

func errorJSON(message string) []byte {
	data, _ := json.Marshal(ErrorMessage{Type: "error", Message: message})
	return data
}
