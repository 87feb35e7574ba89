package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"flips_backend/internal/deck"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	mu       sync.Mutex
	balances map[int64]int64
	deducts  int
	credits  int
}

func newFakeLedger(balances map[int64]int64) *fakeLedger {
	return &fakeLedger{balances: balances}
}

func (f *fakeLedger) GetBalance(_ context.Context, userID, _ int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID], nil
}

func (f *fakeLedger) Deduct(_ context.Context, userID, _, amount int64, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if amount < 0 || f.balances[userID] < amount {
		return false, nil
	}
	f.balances[userID] -= amount
	f.deducts++
	return true, nil
}

func (f *fakeLedger) Credit(_ context.Context, userID, _, amount int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if amount < 0 {
		return nil
	}
	f.balances[userID] += amount
	f.credits++
	return nil
}

func (f *fakeLedger) balance(userID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID]
}

func (f *fakeLedger) setBalance(userID, balance int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] = balance
}

func (f *fakeLedger) total() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, b := range f.balances {
		sum += b
	}
	return sum
}

type fakeHistory struct {
	mu    sync.Mutex
	saved []string
}

func (f *fakeHistory) SaveGame(_ context.Context, _, _ int64, resultJSON string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, resultJSON)
	return nil
}

func (f *fakeHistory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func newTestSession(t *testing.T, balances map[int64]int64) (*Session, *fakeLedger, *fakeHistory, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	ledger := newFakeLedger(balances)
	history := &fakeHistory{}
	s := NewSession(7, 1, 10, ledger, history, clock)
	return s, ledger, history, clock
}

func advance(t *testing.T, clock *quartz.Mock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(d).MustWait(ctx)
}

func TestJoinAssignsLowestFreeSeat(t *testing.T) {
	s, _, _, _ := newTestSession(t, map[int64]int64{1: 100, 2: 100, 3: 100})
	ctx := context.Background()

	require.NoError(t, s.Join(ctx, 1, "alice", ""))
	require.NoError(t, s.Join(ctx, 2, "bob", ""))
	require.NoError(t, s.Join(ctx, 3, "carol", ""))

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Players[0].SeatID)
	assert.Equal(t, 1, snap.Players[1].SeatID)
	assert.Equal(t, 2, snap.Players[2].SeatID)

	// A vacated middle seat is reused before a higher one.
	s.Leave(2)
	require.NoError(t, s.Join(ctx, 2, "bob", ""))
	snap = s.Snapshot()
	assert.Equal(t, 1, snap.Players[2].SeatID)
}

func TestJoinSnapshotsBalanceAsChips(t *testing.T) {
	s, _, _, _ := newTestSession(t, map[int64]int64{1: 250})

	require.NoError(t, s.Join(context.Background(), 1, "alice", "cat.png"))

	snap := s.Snapshot()
	require.Len(t, snap.Players, 1)
	assert.Equal(t, int64(250), snap.Players[0].Chips)
	assert.Equal(t, "cat.png", snap.Players[0].Avatar)
	assert.False(t, snap.Players[0].Ready)
}

func TestJoinTableFull(t *testing.T) {
	balances := map[int64]int64{1: 100, 2: 100, 3: 100, 4: 100, 5: 100, 6: 100}
	s, _, _, _ := newTestSession(t, balances)
	ctx := context.Background()

	for id := int64(1); id <= 5; id++ {
		require.NoError(t, s.Join(ctx, id, "player", ""))
	}

	err := s.Join(ctx, 6, "late", "")
	require.ErrorIs(t, err, ErrTableFull)
	assert.Len(t, s.Snapshot().Players, 5)
}

func TestJoinDuplicate(t *testing.T) {
	s, ledger, _, _ := newTestSession(t, map[int64]int64{1: 100})
	ctx := context.Background()

	require.NoError(t, s.Join(ctx, 1, "alice", ""))
	err := s.Join(ctx, 1, "alice", "")

	require.ErrorIs(t, err, ErrAlreadySeated)
	assert.Len(t, s.Snapshot().Players, 1)
	assert.Equal(t, int64(100), ledger.balance(1))
}

func TestJoinInsufficientFunds(t *testing.T) {
	s, _, _, _ := newTestSession(t, map[int64]int64{1: 5})

	err := s.Join(context.Background(), 1, "alice", "")

	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "Need $10, have $5")
	assert.Empty(t, s.Snapshot().Players)
}

func TestAutoStartDealsAndCollectsAnte(t *testing.T) {
	s, ledger, _, _ := newTestSession(t, map[int64]int64{1: 100, 2: 100})
	ctx := context.Background()

	require.NoError(t, s.Join(ctx, 1, "alice", ""))
	require.NoError(t, s.Join(ctx, 2, "bob", ""))

	s.SetReady(1, true)
	assert.Equal(t, PhaseWaiting, s.Phase())

	s.SetReady(2, true)
	assert.Equal(t, PhaseDealing, s.Phase())

	snap := s.Snapshot()
	assert.Equal(t, int64(20), snap.Pot)
	assert.Equal(t, int64(90), ledger.balance(1))
	assert.Equal(t, int64(90), ledger.balance(2))
	for _, p := range snap.Players {
		assert.Len(t, p.Cards, 6)
		assert.False(t, p.Ready)
		assert.Equal(t, int64(90), p.Chips)
	}
}

func TestAnteFailureSitsPlayerOut(t *testing.T) {
	s, ledger, _, _ := newTestSession(t, map[int64]int64{1: 100, 2: 100, 3: 100})
	ctx := context.Background()

	require.NoError(t, s.Join(ctx, 1, "alice", ""))
	require.NoError(t, s.Join(ctx, 2, "bob", ""))
	require.NoError(t, s.Join(ctx, 3, "carol", ""))

	// Carol's balance drains between join and deal (another table, say).
	ledger.setBalance(3, 5)

	s.SetReady(1, true)
	s.SetReady(2, true)
	s.SetReady(3, true)

	require.Equal(t, PhaseDealing, s.Phase())

	snap := s.Snapshot()
	assert.Equal(t, int64(20), snap.Pot)
	require.Len(t, snap.Players, 3)

	for _, p := range snap.Players {
		if p.ID == 3 {
			assert.Empty(t, p.Cards, "unfunded player must not be dealt in")
		} else {
			assert.Len(t, p.Cards, 6)
		}
	}
	assert.Equal(t, int64(5), ledger.balance(3))
}

func TestLeaveBelowTwoResetsGame(t *testing.T) {
	s, _, _, clock := newTestSession(t, map[int64]int64{1: 100, 2: 100})
	ctx := context.Background()

	require.NoError(t, s.Join(ctx, 1, "alice", ""))
	require.NoError(t, s.Join(ctx, 2, "bob", ""))
	s.SetReady(1, true)
	s.SetReady(2, true)
	advance(t, clock, dealDelay)
	require.Equal(t, PhaseRevealing, s.Phase())

	s.Leave(2)

	snap := s.Snapshot()
	assert.Equal(t, PhaseWaiting, snap.Phase)
	assert.Equal(t, int64(0), snap.Pot)
	assert.Equal(t, 0, snap.CurrentRound)
	assert.Len(t, snap.Players, 1)
}

func TestStaleTimerAfterTeardownIsNoop(t *testing.T) {
	s, _, _, clock := newTestSession(t, map[int64]int64{1: 100, 2: 100})
	ctx := context.Background()

	require.NoError(t, s.Join(ctx, 1, "alice", ""))
	require.NoError(t, s.Join(ctx, 2, "bob", ""))
	s.SetReady(1, true)
	s.SetReady(2, true)
	require.Equal(t, PhaseDealing, s.Phase())

	// Everyone bails while the deal timer is pending.
	s.Leave(1)
	s.Leave(2)
	require.Equal(t, PhaseWaiting, s.Phase())

	advance(t, clock, dealDelay)

	snap := s.Snapshot()
	assert.Equal(t, PhaseWaiting, snap.Phase)
	assert.Equal(t, 0, snap.CurrentRound)
}

func TestFullGameFlow(t *testing.T) {
	s, ledger, history, clock := newTestSession(t, map[int64]int64{1: 100, 2: 100})
	ctx := context.Background()

	require.NoError(t, s.Join(ctx, 1, "alice", ""))
	require.NoError(t, s.Join(ctx, 2, "bob", ""))
	s.SetReady(1, true)
	s.SetReady(2, true)
	require.Equal(t, PhaseDealing, s.Phase())
	require.Equal(t, int64(180), ledger.total())

	advance(t, clock, dealDelay)

	for round := 1; round <= RoundsCount; round++ {
		snap := s.Snapshot()
		require.Equal(t, PhaseRevealing, snap.Phase, "round %d", round)
		require.Equal(t, round, snap.CurrentRound)

		advance(t, clock, revealDelay)

		snap = s.Snapshot()
		require.Equal(t, PhasePayout, snap.Phase)
		require.NotNil(t, snap.LastRoundResult)
		assert.Equal(t, round, snap.LastRoundResult.Round)
		require.NotEmpty(t, snap.LastRoundResult.Winners)

		// A third of the pot per round, floor-divided across winners;
		// the remainder is never paid out.
		roundPot := snap.Pot / RoundsCount
		payout := roundPot / int64(len(snap.LastRoundResult.Winners))
		assert.Equal(t, payout, snap.LastRoundResult.Payout)
		assert.LessOrEqual(t, payout*int64(len(snap.LastRoundResult.Winners)), roundPot)

		// Ledger and table stacks agree at every step.
		for _, p := range snap.Players {
			assert.Equal(t, ledger.balance(p.ID), p.Chips)
		}

		advance(t, clock, payoutDelay)
	}

	snap := s.Snapshot()
	require.Equal(t, PhaseEnded, snap.Phase)
	totalWins := 0
	for _, p := range snap.Players {
		totalWins += p.RoundWins
	}
	assert.GreaterOrEqual(t, totalWins, RoundsCount)

	require.Eventually(t, func() bool { return history.count() == 1 }, time.Second, 10*time.Millisecond)

	advance(t, clock, resetDelay)

	snap = s.Snapshot()
	assert.Equal(t, PhaseWaiting, snap.Phase)
	assert.Equal(t, 0, snap.CurrentRound)
	for _, p := range snap.Players {
		assert.Empty(t, p.Cards)
	}
}

func TestEvaluateRoundPayouts(t *testing.T) {
	s, ledger, _, _ := newTestSession(t, map[int64]int64{1: 90, 2: 90})

	pair := []deck.Card{
		{Suit: deck.Hearts, Rank: "9", Value: 9},
		{Suit: deck.Spades, Rank: "9", Value: 9},
	}
	highCard := []deck.Card{
		{Suit: deck.Hearts, Rank: "A", Value: 14},
		{Suit: deck.Spades, Rank: "K", Value: 13},
	}

	s.mu.Lock()
	s.players = []*Player{
		{ID: 1, Username: "alice", SeatID: 0, Chips: 90, Cards: pair},
		{ID: 2, Username: "bob", SeatID: 1, Chips: 90, Cards: highCard},
	}
	s.pot = 20
	s.phase = PhaseRevealing
	s.currentRound = 1
	s.evaluateRoundLocked(1)
	s.mu.Unlock()

	snap := s.Snapshot()
	require.NotNil(t, snap.LastRoundResult)
	assert.Equal(t, []int64{1}, snap.LastRoundResult.Winners)
	assert.Equal(t, int64(6), snap.LastRoundResult.Payout)
	assert.Equal(t, int64(96), ledger.balance(1))
	assert.Equal(t, int64(90), ledger.balance(2))
}

func TestEvaluateRoundSplitsTies(t *testing.T) {
	s, ledger, _, _ := newTestSession(t, map[int64]int64{1: 90, 2: 90})

	handA := []deck.Card{
		{Suit: deck.Hearts, Rank: "K", Value: 13},
		{Suit: deck.Spades, Rank: "7", Value: 7},
	}
	handB := []deck.Card{
		{Suit: deck.Clubs, Rank: "K", Value: 13},
		{Suit: deck.Diamonds, Rank: "7", Value: 7},
	}

	s.mu.Lock()
	s.players = []*Player{
		{ID: 1, Username: "alice", SeatID: 0, Chips: 90, Cards: handA},
		{ID: 2, Username: "bob", SeatID: 1, Chips: 90, Cards: handB},
	}
	s.pot = 20
	s.phase = PhaseRevealing
	s.currentRound = 1
	s.evaluateRoundLocked(1)
	s.mu.Unlock()

	snap := s.Snapshot()
	require.NotNil(t, snap.LastRoundResult)
	require.Len(t, snap.LastRoundResult.Winners, 2)
	assert.Equal(t, int64(3), snap.LastRoundResult.Payout)
	assert.Equal(t, int64(93), ledger.balance(1))
	assert.Equal(t, int64(93), ledger.balance(2))
}

func TestSnapshotRedaction(t *testing.T) {
	s, _, _, clock := newTestSession(t, map[int64]int64{1: 100, 2: 100})
	ctx := context.Background()

	require.NoError(t, s.Join(ctx, 1, "alice", ""))
	require.NoError(t, s.Join(ctx, 2, "bob", ""))
	s.SetReady(1, true)
	s.SetReady(2, true)

	// Dealing: everyone holds six cards, all face down.
	snap := s.Snapshot()
	require.Equal(t, PhaseDealing, snap.Phase)
	for _, p := range snap.Players {
		require.Len(t, p.Cards, 6)
		for _, c := range p.Cards {
			assert.Nil(t, c.Card)
		}
	}

	// Round 1 revealing: only the first two cards are visible.
	advance(t, clock, dealDelay)
	snap = s.Snapshot()
	require.Equal(t, PhaseRevealing, snap.Phase)
	for _, p := range snap.Players {
		for i, c := range p.Cards {
			if i < 2 {
				assert.NotNil(t, c.Card, "card %d should be visible", i)
			} else {
				assert.Nil(t, c.Card, "card %d should be hidden", i)
			}
		}
	}

	// Run the game out; ended shows everything.
	for round := 1; round <= RoundsCount; round++ {
		advance(t, clock, revealDelay)
		advance(t, clock, payoutDelay)
	}
	snap = s.Snapshot()
	require.Equal(t, PhaseEnded, snap.Phase)
	for _, p := range snap.Players {
		for _, c := range p.Cards {
			assert.NotNil(t, c.Card)
		}
	}
}

func TestLeaveDuringEndedClearsHands(t *testing.T) {
	s, _, _, clock := newTestSession(t, map[int64]int64{1: 100, 2: 100})
	ctx := context.Background()

	require.NoError(t, s.Join(ctx, 1, "alice", ""))
	require.NoError(t, s.Join(ctx, 2, "bob", ""))
	s.SetReady(1, true)
	s.SetReady(2, true)
	advance(t, clock, dealDelay)
	for round := 1; round <= RoundsCount; round++ {
		advance(t, clock, revealDelay)
		advance(t, clock, payoutDelay)
	}
	require.Equal(t, PhaseEnded, s.Phase())

	// Leaving here cancels the pending lobby reset, so the reset branch in
	// Leave must clear the remaining hand itself.
	s.Leave(2)

	s.mu.Lock()
	require.Len(t, s.players, 1)
	assert.Empty(t, s.players[0].Cards)
	s.mu.Unlock()

	advance(t, clock, resetDelay)
	assert.Equal(t, PhaseWaiting, s.Phase())
}

func TestNotifyInstalledOnce(t *testing.T) {
	s, _, _, _ := newTestSession(t, map[int64]int64{1: 100})

	var first, second int
	s.SetNotify(func(Snapshot) { first++ })
	s.SetNotify(func(Snapshot) { second++ })

	require.NoError(t, s.Join(context.Background(), 1, "alice", ""))

	assert.Equal(t, 1, first)
	assert.Zero(t, second)
}

func TestSetReadyUnknownPlayerIgnored(t *testing.T) {
	s, _, _, _ := newTestSession(t, map[int64]int64{1: 100})
	require.NoError(t, s.Join(context.Background(), 1, "alice", ""))

	s.SetReady(99, true)

	assert.Equal(t, PhaseWaiting, s.Phase())
	assert.False(t, s.Snapshot().Players[0].Ready)
}

func TestLedgerErrorRejectsJoin(t *testing.T) {
	clock := quartz.NewMock(t)
	s := NewSession(7, 1, 10, erroringLedger{}, &fakeHistory{}, clock)

	err := s.Join(context.Background(), 1, "alice", "")
	require.Error(t, err)
	assert.Empty(t, s.Snapshot().Players)
}

type erroringLedger struct{}

func (erroringLedger) GetBalance(context.Context, int64, int64) (int64, error) {
	return 0, errors.New("connection refused")
}

func (erroringLedger) Deduct(context.Context, int64, int64, int64, string) (bool, error) {
	return false, errors.New("connection refused")
}

func (erroringLedger) Credit(context.Context, int64, int64, int64, string) error {
	return errors.New("connection refused")
}
