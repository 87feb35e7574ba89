package db

import (
	"context"

	"flips_backend/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	avatar TEXT,
	role TEXT DEFAULT 'user',
	created_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS clubs (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	code TEXT UNIQUE NOT NULL,
	owner_id BIGINT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS club_members (
	club_id BIGINT NOT NULL REFERENCES clubs(id),
	user_id BIGINT NOT NULL REFERENCES users(id),
	role TEXT DEFAULT 'member',
	joined_at TIMESTAMPTZ DEFAULT now(),
	balance BIGINT DEFAULT 0,
	PRIMARY KEY (club_id, user_id)
);

CREATE TABLE IF NOT EXISTS tables (
	id BIGSERIAL PRIMARY KEY,
	club_id BIGINT NOT NULL REFERENCES clubs(id),
	name TEXT NOT NULL,
	status TEXT DEFAULT 'active',
	config_json TEXT,
	created_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS games (
	id BIGSERIAL PRIMARY KEY,
	table_id BIGINT NOT NULL REFERENCES tables(id),
	club_id BIGINT NOT NULL REFERENCES clubs(id),
	start_time TIMESTAMPTZ DEFAULT now(),
	end_time TIMESTAMPTZ,
	result_json TEXT
);

CREATE TABLE IF NOT EXISTS transactions (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id),
	club_id BIGINT NOT NULL REFERENCES clubs(id),
	amount BIGINT NOT NULL,
	type TEXT NOT NULL,
	description TEXT,
	created_at TIMESTAMPTZ DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_transactions_user_club ON transactions (user_id, club_id);
CREATE INDEX IF NOT EXISTS idx_games_table ON games (table_id);
`

// Migrate applies the schema. Statements are idempotent so this runs on
// every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Fatal("failed to apply schema", "error", err)
	}
	logger.Info("schema up to date")
}
