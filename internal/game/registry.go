package game

import (
	"context"
	"errors"
	"sync"

	"flips_backend/internal/logger"
	"flips_backend/internal/metrics"

	"github.com/coder/quartz"
)

var ErrTableNotFound = errors.New("Table not found")

// Registry owns every live session, keyed by table id. Sessions are created
// lazily on first join and kept for the life of the process; an idle session
// just sits in the waiting phase.
type Registry struct {
	ledger  Ledger
	history History
	tables  TableDirectory
	clock   quartz.Clock
	ante    int64

	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewRegistry(ledger Ledger, history History, tables TableDirectory, ante int64, clock quartz.Clock) *Registry {
	return &Registry{
		ledger:   ledger,
		history:  history,
		tables:   tables,
		clock:    clock,
		ante:     ante,
		sessions: make(map[int64]*Session),
	}
}

// GetOrCreate returns the table's session, creating it on first use. The
// table must resolve to a club; otherwise no session comes into existence.
func (r *Registry) GetOrCreate(ctx context.Context, tableID int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[tableID]; ok {
		return s, nil
	}

	clubID, err := r.tables.ResolveClub(ctx, tableID)
	if err != nil {
		logger.Warn("table resolution failed", "table_id", tableID, "error", err)
		return nil, ErrTableNotFound
	}

	s := NewSession(tableID, clubID, r.ante, r.ledger, r.history, r.clock)
	r.sessions[tableID] = s
	metrics.ActiveSessions.Inc()
	logger.Info("session created", "table_id", tableID, "club_id", clubID)

	return s, nil
}

// Get returns the session for a table, or nil when none exists yet.
func (r *Registry) Get(tableID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[tableID]
}

// All returns a stable copy of the live sessions, used by the sync layer to
// sweep a disconnected user out of every table they sat at.
func (r *Registry) All() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
