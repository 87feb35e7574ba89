package domain

import "time"

// Table is a game table inside a club. Tables are created by club managers
// through an external surface; the engine only reads them.
type Table struct {
	ID         int64     `db:"id" json:"id"`
	ClubID     int64     `db:"club_id" json:"club_id"`
	Name       string    `db:"name" json:"name"`
	Status     string    `db:"status" json:"status"`
	ConfigJSON string    `db:"config_json" json:"config_json,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

const (
	TableStatusActive = "active"
	TableStatusClosed = "closed"
)
