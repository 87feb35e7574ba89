package domain

import "time"

// GameRecord is one finished game persisted for history display.
// ResultJSON carries the final pot, winners and per-player outcome.
type GameRecord struct {
	ID         int64      `db:"id" json:"id"`
	TableID    int64      `db:"table_id" json:"table_id"`
	ClubID     int64      `db:"club_id" json:"club_id"`
	StartTime  time.Time  `db:"start_time" json:"start_time"`
	EndTime    *time.Time `db:"end_time" json:"end_time,omitempty"`
	ResultJSON string     `db:"result_json" json:"result_json"`
}
