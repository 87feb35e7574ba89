package game

import "context"

// Ledger mutates per-(user, club) chip balances. Every mutation appends an
// audit transaction. Deduct reports false without mutating when the balance
// does not cover the amount.
type Ledger interface {
	GetBalance(ctx context.Context, userID, clubID int64) (int64, error)
	Deduct(ctx context.Context, userID, clubID, amount int64, reason string) (bool, error)
	Credit(ctx context.Context, userID, clubID, amount int64, reason string) error
}

// History persists finished games. Failures are logged by the session and
// never block phase progression.
type History interface {
	SaveGame(ctx context.Context, tableID, clubID int64, resultJSON string) error
}

// TableDirectory resolves a table to its owning club.
type TableDirectory interface {
	ResolveClub(ctx context.Context, tableID int64) (int64, error)
}
