package service

import (
	"context"

	"flips_backend/internal/domain"
	"flips_backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryService persists finished games and serves them back for display.
type HistoryService struct {
	repo *repository.HistoryRepository
}

func NewHistoryService(db *pgxpool.Pool) *HistoryService {
	return &HistoryService{
		repo: repository.NewHistoryRepository(db),
	}
}

func (s *HistoryService) SaveGame(ctx context.Context, tableID, clubID int64, resultJSON string) error {
	rec := &domain.GameRecord{
		TableID:    tableID,
		ClubID:     clubID,
		ResultJSON: resultJSON,
	}
	return s.repo.Create(ctx, rec)
}

func (s *HistoryService) GetByTable(ctx context.Context, tableID int64, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetByTable(ctx, tableID, limit)
}

func (s *HistoryService) GetByClub(ctx context.Context, clubID int64, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.GetByClub(ctx, clubID, limit)
}
