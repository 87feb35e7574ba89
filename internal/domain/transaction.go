package domain

import "time"

// Transaction is one append-only ledger entry. Amount is signed: debits are
// negative, credits positive. The running balance lives on club_members.
type Transaction struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	ClubID      int64     `db:"club_id" json:"club_id"`
	Amount      int64     `db:"amount" json:"amount"`
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Transaction kinds
const (
	TxTypeGameFee    = "game_fee"
	TxTypeGameWin    = "game_win"
	TxTypeAdminGrant = "admin_grant"
)
