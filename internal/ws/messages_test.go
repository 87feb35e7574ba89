package ws

import (
	"encoding/json"
	"testing"

	"flips_backend/internal/deck"
	"flips_backend/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentDecoding(t *testing.T) {
	var in Intent
	require.NoError(t, json.Unmarshal([]byte(`{"type":"join_table","tableId":7}`), &in))
	assert.Equal(t, IntentJoinTable, in.Type)
	assert.Equal(t, int64(7), in.TableID)

	in = Intent{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"player_ready","tableId":7,"ready":true}`), &in))
	assert.Equal(t, IntentPlayerReady, in.Type)
	assert.True(t, in.Ready)
}

func TestGameStateJSONHidesFaceDownCards(t *testing.T) {
	visible := deck.Card{Suit: deck.Hearts, Rank: "A", Value: 14}
	snap := game.Snapshot{
		TableID:      7,
		Phase:        game.PhaseRevealing,
		Pot:          20,
		CurrentRound: 1,
		Players: []game.SnapshotPlayer{
			{
				ID:       1,
				Username: "alice",
				SeatID:   0,
				Chips:    90,
				Cards: []game.VisibleCard{
					{Card: &visible},
					{Card: nil},
				},
			},
		},
	}

	data := gameStateJSON(snap)
	require.NotNil(t, data)

	var wire struct {
		Type    string `json:"type"`
		TableID int64  `json:"tableId"`
		Phase   string `json:"phase"`
		Players []struct {
			Cards []json.RawMessage `json:"cards"`
		} `json:"players"`
	}
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "game_state", wire.Type)
	assert.Equal(t, int64(7), wire.TableID)
	assert.Equal(t, "revealing", wire.Phase)

	require.Len(t, wire.Players, 1)
	require.Len(t, wire.Players[0].Cards, 2)

	var card deck.Card
	require.NoError(t, json.Unmarshal(wire.Players[0].Cards[0], &card))
	assert.Equal(t, "A", card.Rank)

	assert.JSONEq(t, `"back"`, string(wire.Players[0].Cards[1]))
}

func TestErrorJSON(t *testing.T) {
	data := errorJSON("Table is full")

	var wire ErrorMessage
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "error", wire.Type)
	assert.Equal(t, "Table is full", wire.Message)
}
