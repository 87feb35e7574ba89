package repository

import (
	"context"

	"flips_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepository stores finished games.
type HistoryRepository struct {
	db *pgxpool.Pool
}

func NewHistoryRepository(db *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Create(ctx context.Context, rec *domain.GameRecord) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO games (table_id, club_id, result_json, end_time)
		VALUES ($1, $2, $3, now())
		RETURNING id
	`, rec.TableID, rec.ClubID, rec.ResultJSON).Scan(&rec.ID)
}

func (r *HistoryRepository) GetByTable(ctx context.Context, tableID int64, limit int) ([]*domain.GameRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, table_id, club_id, start_time, end_time, result_json
		FROM games
		WHERE table_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGameRecords(rows)
}

func (r *HistoryRepository) GetByClub(ctx context.Context, clubID int64, limit int) ([]*domain.GameRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, table_id, club_id, start_time, end_time, result_json
		FROM games
		WHERE club_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, clubID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGameRecords(rows)
}

func scanGameRecords(rows pgx.Rows) ([]*domain.GameRecord, error) {
	var records []*domain.GameRecord
	for rows.Next() {
		var rec domain.GameRecord
		var resultJSON *string
		if err := rows.Scan(&rec.ID, &rec.TableID, &rec.ClubID, &rec.StartTime, &rec.EndTime, &resultJSON); err != nil {
			return nil, err
		}
		if resultJSON != nil {
			rec.ResultJSON = *resultJSON
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
