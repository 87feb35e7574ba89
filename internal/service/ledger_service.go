package service

import (
	"context"
	"errors"

	"flips_backend/internal/domain"
	"flips_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerService mutates per-(user, club) chip balances. Every successful
// mutation appends a transactions row inside the same database transaction,
// and balance rows are locked FOR UPDATE so concurrent tables hitting the
// same membership serialize at the row lock.
type LedgerService struct {
	db              *pgxpool.Pool
	transactionRepo *repository.TransactionRepository
}

func NewLedgerService(db *pgxpool.Pool) *LedgerService {
	return &LedgerService{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// GetBalance returns the chip balance for a club membership. A user without
// a membership row has a balance of zero.
func (s *LedgerService) GetBalance(ctx context.Context, userID, clubID int64) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx, `
		SELECT balance FROM club_members WHERE user_id = $1 AND club_id = $2
	`, userID, clubID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}

// Deduct removes chips from a balance. It reports false without mutating
// anything when the amount is negative or the balance cannot cover it.
func (s *LedgerService) Deduct(ctx context.Context, userID, clubID, amount int64, reason string) (bool, error) {
	if amount < 0 {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance int64
	err = tx.QueryRow(ctx, `
		SELECT balance FROM club_members WHERE user_id = $1 AND club_id = $2 FOR UPDATE
	`, userID, clubID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if balance < amount {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE club_members SET balance = balance - $1 WHERE user_id = $2 AND club_id = $3
	`, amount, userID, clubID)
	if err != nil {
		return false, err
	}

	entry := &domain.Transaction{
		UserID:      userID,
		ClubID:      clubID,
		Amount:      -amount,
		Type:        domain.TxTypeGameFee,
		Description: reason,
	}
	if err := s.transactionRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Transactions returns the most recent ledger entries for one membership.
func (s *LedgerService) Transactions(ctx context.Context, userID, clubID int64, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.transactionRepo.GetByUserAndClub(ctx, userID, clubID, limit)
}

// Credit adds chips to a balance. Negative amounts are ignored.
func (s *LedgerService) Credit(ctx context.Context, userID, clubID, amount int64, reason string) error {
	if amount < 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE club_members SET balance = balance + $1 WHERE user_id = $2 AND club_id = $3
	`, amount, userID, clubID)
	if err != nil {
		return err
	}

	entry := &domain.Transaction{
		UserID:      userID,
		ClubID:      clubID,
		Amount:      amount,
		Type:        domain.TxTypeGameWin,
		Description: reason,
	}
	if err := s.transactionRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
