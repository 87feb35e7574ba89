package repository

import (
	"context"

	"flips_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository appends and reads the chip ledger log.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateWithTx appends a ledger entry inside an open balance transaction so
// the entry and the balance move commit or roll back together.
func (r *TransactionRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (user_id, club_id, amount, type, description)
		VALUES ($1, $2, $3, $4, $5)
	`, t.UserID, t.ClubID, t.Amount, t.Type, t.Description)
	return err
}

// GetByUserAndClub returns the most recent ledger entries for one membership.
func (r *TransactionRepository) GetByUserAndClub(ctx context.Context, userID, clubID int64, limit int) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, club_id, amount, type, description, created_at
		FROM transactions
		WHERE user_id = $1 AND club_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, clubID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var desc *string
		if err := rows.Scan(&t.ID, &t.UserID, &t.ClubID, &t.Amount, &t.Type, &desc, &t.CreatedAt); err != nil {
			return nil, err
		}
		if desc != nil {
			t.Description = *desc
		}
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}
