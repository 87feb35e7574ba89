package game

import (
	"encoding/json"

	"flips_backend/internal/deck"
)

// VisibleCard is a card as a viewer is allowed to see it. Hidden cards
// marshal as the string "back" so clients render a card back.
type VisibleCard struct {
	Card *deck.Card
}

func (v VisibleCard) MarshalJSON() ([]byte, error) {
	if v.Card == nil {
		return json.Marshal("back")
	}
	return json.Marshal(v.Card)
}

type SnapshotPlayer struct {
	ID        int64         `json:"id"`
	Username  string        `json:"username"`
	Avatar    string        `json:"avatar,omitempty"`
	SeatID    int           `json:"seatId"`
	Chips     int64         `json:"chips"`
	Ready     bool          `json:"ready"`
	Cards     []VisibleCard `json:"cards"`
	RoundWins int           `json:"roundWins"`
}

// Snapshot is the phase-aware projection of a session broadcast to every
// viewer of the table.
type Snapshot struct {
	TableID         int64            `json:"tableId"`
	Phase           Phase            `json:"phase"`
	Pot             int64            `json:"pot"`
	CurrentRound    int              `json:"currentRound"`
	LastRoundResult *RoundResult     `json:"lastRoundResult"`
	Players         []SnapshotPlayer `json:"players"`
}

// snapshotLocked builds the redacted projection. Callers hold s.mu.
//
// Redaction: waiting/dealing hide everything, ended shows everything,
// revealing/payout show only cards dealt for rounds up to currentRound.
func (s *Session) snapshotLocked() Snapshot {
	players := make([]SnapshotPlayer, 0, len(s.players))
	for _, p := range s.players {
		cards := make([]VisibleCard, len(p.Cards))
		for i := range p.Cards {
			cardRound := i/2 + 1
			visible := false
			switch s.phase {
			case PhaseEnded:
				visible = true
			case PhaseRevealing, PhasePayout:
				visible = cardRound <= s.currentRound
			}
			if visible {
				cards[i] = VisibleCard{Card: &p.Cards[i]}
			}
		}
		players = append(players, SnapshotPlayer{
			ID:        p.ID,
			Username:  p.Username,
			Avatar:    p.Avatar,
			SeatID:    p.SeatID,
			Chips:     p.Chips,
			Ready:     p.Ready,
			Cards:     cards,
			RoundWins: p.RoundWins,
		})
	}

	return Snapshot{
		TableID:         s.tableID,
		Phase:           s.phase,
		Pot:             s.pot,
		CurrentRound:    s.currentRound,
		LastRoundResult: s.lastRoundResult,
		Players:         players,
	}
}

// Snapshot returns the current redacted state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}
