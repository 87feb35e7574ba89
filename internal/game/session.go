package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"flips_backend/internal/deck"
	"flips_backend/internal/logger"
	"flips_backend/internal/metrics"

	"github.com/coder/quartz"
	"github.com/thoas/go-funk"
)

type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseDealing   Phase = "dealing"
	PhaseRevealing Phase = "revealing"
	PhasePayout    Phase = "payout"
	PhaseEnded     Phase = "ended"
)

const (
	MaxSeats    = 5
	RoundsCount = 3
	CardsDealt  = 6
)

// Delays between phases. Clients use these windows for animation.
const (
	dealDelay   = 2 * time.Second
	revealDelay = 3 * time.Second
	payoutDelay = 3 * time.Second
	resetDelay  = 5 * time.Second
)

const ledgerTimeout = 5 * time.Second

var (
	ErrTableFull         = errors.New("Table is full")
	ErrAlreadySeated     = errors.New("Player already at table")
	ErrInsufficientFunds = errors.New("Insufficient funds")
)

// Player is a seated user within one session.
type Player struct {
	ID        int64
	Username  string
	Avatar    string
	SeatID    int
	Chips     int64
	Ready     bool
	Cards     []deck.Card
	RoundWins int
}

type RoundResult struct {
	Round   int     `json:"round"`
	Winners []int64 `json:"winners"`
	Payout  int64   `json:"payout"`
}

// Session is the authoritative state machine for one table. All state is
// guarded by mu; phase advances are scheduled on the injected clock and
// re-validate the game generation when they fire, so a timer belonging to a
// torn-down game is a no-op.
type Session struct {
	tableID int64
	clubID  int64
	ante    int64

	ledger  Ledger
	history History
	clock   quartz.Clock

	mu              sync.Mutex
	phase           Phase
	pot             int64
	currentRound    int
	players         []*Player
	deck            *deck.Deck
	lastRoundResult *RoundResult

	// gen increments whenever an in-flight game is torn down. Pending
	// timers capture the value they were scheduled under.
	gen uint64

	notify func(Snapshot)
}

func NewSession(tableID, clubID, ante int64, ledger Ledger, history History, clock quartz.Clock) *Session {
	return &Session{
		tableID: tableID,
		clubID:  clubID,
		ante:    ante,
		ledger:  ledger,
		history: history,
		clock:   clock,
		phase:   PhaseWaiting,
		deck:    deck.New(),
	}
}

func (s *Session) TableID() int64 { return s.tableID }
func (s *Session) ClubID() int64  { return s.clubID }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SetNotify installs the broadcast hook. The first caller wins; later calls
// are ignored so the sync layer can install it idempotently on every join.
func (s *Session) SetNotify(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notify == nil {
		s.notify = fn
	}
}

func (s *Session) notifyLocked() {
	if s.notify != nil {
		s.notify(s.snapshotLocked())
	}
}

// Seated reports whether the user currently holds a seat.
func (s *Session) Seated(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(userID) != nil
}

func (s *Session) findLocked(userID int64) *Player {
	for _, p := range s.players {
		if p.ID == userID {
			return p
		}
	}
	return nil
}

// Join seats a user at the lowest free seat. The chip stack shown at the
// table is a snapshot of the club balance at join time.
func (s *Session) Join(ctx context.Context, userID int64, username, avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) >= MaxSeats {
		return ErrTableFull
	}
	if s.findLocked(userID) != nil {
		return ErrAlreadySeated
	}

	balance, err := s.ledger.GetBalance(ctx, userID, s.clubID)
	if err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}
	if balance < s.ante {
		return fmt.Errorf("%w. Need $%d, have $%d", ErrInsufficientFunds, s.ante, balance)
	}

	taken := make([]int, 0, len(s.players))
	for _, p := range s.players {
		taken = append(taken, p.SeatID)
	}
	seat := 0
	for funk.ContainsInt(taken, seat) {
		seat++
	}

	s.players = append(s.players, &Player{
		ID:       userID,
		Username: username,
		Avatar:   avatar,
		SeatID:   seat,
		Chips:    balance,
	})

	s.notifyLocked()
	return nil
}

// Leave removes the player unconditionally. Dropping below two players
// discards any in-flight game: the table falls back to waiting and chips
// already anted stay in the ledger as collected fees.
func (s *Session) Leave(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.players[:0]
	for _, p := range s.players {
		if p.ID != userID {
			kept = append(kept, p)
		}
	}
	s.players = kept

	if len(s.players) < 2 {
		if s.phase != PhaseWaiting {
			s.gen++
		}
		s.phase = PhaseWaiting
		s.currentRound = 0
		s.pot = 0
		for _, p := range s.players {
			p.Cards = nil
		}
	}

	s.notifyLocked()
}

// SetReady flips the ready flag and starts the game once at least two
// players are seated and everyone is ready.
func (s *Session) SetReady(userID int64, ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findLocked(userID)
	if p == nil {
		return
	}
	p.Ready = ready

	s.notifyLocked()
	s.checkAutoStartLocked()
}

func (s *Session) checkAutoStartLocked() {
	if s.phase != PhaseWaiting || len(s.players) < 2 {
		return
	}
	for _, p := range s.players {
		if !p.Ready {
			return
		}
	}
	s.startGameLocked()
}

// startGameLocked collects antes and deals. A player whose deduction fails
// keeps the seat but sits the game out; nobody else is affected.
func (s *Session) startGameLocked() {
	s.phase = PhaseDealing
	s.deck.Reset()
	s.currentRound = 0
	s.pot = 0
	s.lastRoundResult = nil

	ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
	defer cancel()

	var dealt []*Player
	for _, p := range s.players {
		ok, err := s.ledger.Deduct(ctx, p.ID, s.clubID, s.ante, fmt.Sprintf("Ante for Game %d", s.tableID))
		if err != nil {
			logger.Error("ante deduction failed", "table_id", s.tableID, "user_id", p.ID, "error", err)
			ok = false
		}
		if !ok {
			p.Ready = false
			p.Cards = nil
			continue
		}
		p.Chips -= s.ante
		s.pot += s.ante
		dealt = append(dealt, p)
	}

	for _, p := range dealt {
		p.Cards = s.deck.Deal(CardsDealt)
		p.RoundWins = 0
		p.Ready = false
	}

	metrics.ChipsAnted.Add(float64(s.pot))
	logger.Info("game started", "table_id", s.tableID, "players", len(dealt), "pot", s.pot)

	s.notifyLocked()
	s.scheduleLocked(dealDelay, func() { s.startRoundLocked(1) })
}

// scheduleLocked arms a phase advance. The callback runs under the session
// lock and is dropped if the game it belonged to was torn down meanwhile.
func (s *Session) scheduleLocked(d time.Duration, fn func()) {
	gen := s.gen
	s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			return
		}
		fn()
	})
}

func (s *Session) startRoundLocked(round int) {
	if round > RoundsCount {
		s.endGameLocked()
		return
	}

	s.phase = PhaseRevealing
	s.currentRound = round

	s.notifyLocked()
	s.scheduleLocked(revealDelay, func() { s.evaluateRoundLocked(round) })
}

// evaluateRoundLocked scores the two cards each player has in play this
// round and pays the winners their share of a third of the pot. Integer
// division throughout; the remainder stays unallocated.
func (s *Session) evaluateRoundLocked(round int) {
	s.phase = PhasePayout

	start := (round - 1) * 2
	hands := make([]deck.PlayerHand, 0, len(s.players))
	for _, p := range s.players {
		var cards []deck.Card
		if len(p.Cards) >= start+2 {
			cards = p.Cards[start : start+2]
		}
		hands = append(hands, deck.PlayerHand{PlayerID: p.ID, Cards: cards})
	}

	winners := deck.Winners(hands)

	roundPot := s.pot / RoundsCount
	var payout int64
	if len(winners) > 0 {
		payout = roundPot / int64(len(winners))
	}

	ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
	defer cancel()

	for _, p := range s.players {
		if !funk.ContainsInt64(winners, p.ID) {
			continue
		}
		p.Chips += payout
		p.RoundWins++
		if err := s.ledger.Credit(ctx, p.ID, s.clubID, payout, fmt.Sprintf("Win Round %d", round)); err != nil {
			logger.Error("win credit failed", "table_id", s.tableID, "user_id", p.ID, "amount", payout, "error", err)
		}
	}

	s.lastRoundResult = &RoundResult{Round: round, Winners: winners, Payout: payout}

	s.notifyLocked()
	s.scheduleLocked(payoutDelay, func() { s.startRoundLocked(round + 1) })
}

type historyPlayer struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Cards     []deck.Card `json:"cards"`
	Chips     int64       `json:"chips"`
	RoundWins int         `json:"roundWins"`
}

type historyResult struct {
	Pot     int64           `json:"pot"`
	Winners []int64         `json:"winners"`
	Payout  int64           `json:"payout"`
	Players []historyPlayer `json:"players"`
}

func (s *Session) endGameLocked() {
	s.phase = PhaseEnded

	result := historyResult{Pot: s.pot}
	if s.lastRoundResult != nil {
		result.Winners = s.lastRoundResult.Winners
		result.Payout = s.lastRoundResult.Payout
	}
	for _, p := range s.players {
		result.Players = append(result.Players, historyPlayer{
			ID:        p.ID,
			Username:  p.Username,
			Cards:     p.Cards,
			Chips:     p.Chips,
			RoundWins: p.RoundWins,
		})
	}

	// Fire and forget: a failed save is logged and the table moves on.
	if resultJSON, err := json.Marshal(result); err == nil {
		tableID, clubID := s.tableID, s.clubID
		history := s.history
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
			defer cancel()
			if err := history.SaveGame(ctx, tableID, clubID, string(resultJSON)); err != nil {
				logger.Error("failed to save game history", "table_id", tableID, "error", err)
			}
		}()
	}

	metrics.GamesCompleted.Inc()
	logger.Info("game ended", "table_id", s.tableID, "pot", s.pot)

	s.notifyLocked()
	s.scheduleLocked(resetDelay, func() { s.resetLocked() })
}

// resetLocked returns the table to the lobby after the end-of-game display.
func (s *Session) resetLocked() {
	s.gen++
	s.phase = PhaseWaiting
	s.currentRound = 0
	for _, p := range s.players {
		p.Cards = nil
	}
	s.notifyLocked()
}
