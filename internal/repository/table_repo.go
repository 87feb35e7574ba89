package repository

import (
	"context"
	"errors"

	"flips_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTableNotFound = errors.New("table not found")

// TableRepository reads game tables. Tables are managed elsewhere; the
// engine only resolves and lists them.
type TableRepository struct {
	db *pgxpool.Pool
}

func NewTableRepository(db *pgxpool.Pool) *TableRepository {
	return &TableRepository{db: db}
}

func (r *TableRepository) GetByID(ctx context.Context, id int64) (*domain.Table, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, club_id, name, status, config_json, created_at
		FROM tables
		WHERE id = $1
	`, id)

	var t domain.Table
	var configJSON *string
	if err := row.Scan(&t.ID, &t.ClubID, &t.Name, &t.Status, &configJSON, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	if configJSON != nil {
		t.ConfigJSON = *configJSON
	}
	return &t, nil
}

func (r *TableRepository) GetByClubID(ctx context.Context, clubID int64) ([]*domain.Table, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, club_id, name, status, config_json, created_at
		FROM tables
		WHERE club_id = $1 AND status = 'active'
	`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*domain.Table
	for rows.Next() {
		var t domain.Table
		var configJSON *string
		if err := rows.Scan(&t.ID, &t.ClubID, &t.Name, &t.Status, &configJSON, &t.CreatedAt); err != nil {
			return nil, err
		}
		if configJSON != nil {
			t.ConfigJSON = *configJSON
		}
		tables = append(tables, &t)
	}
	return tables, rows.Err()
}

// ResolveClub maps a table to its owning club.
func (r *TableRepository) ResolveClub(ctx context.Context, tableID int64) (int64, error) {
	var clubID int64
	err := r.db.QueryRow(ctx, `SELECT club_id FROM tables WHERE id = $1`, tableID).Scan(&clubID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrTableNotFound
		}
		return 0, err
	}
	return clubID, nil
}
