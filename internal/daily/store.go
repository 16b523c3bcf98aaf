package daily

import (
	"context"
	"database/sql"
	"sort"
	"sync"
)

// DefaultLeaderboardLimit is used when Leaderboard gets limit <= 0.
const DefaultLeaderboardLimit = 20

// Result is one player's finished daily run.
type Result struct {
	UserID       string `json:"userId"`
	Date         string `json:"date"`
	Score        int    `json:"score"`
	ModesCleared int    `json:"modesCleared"`
	ElapsedMs    int64  `json:"elapsedMs"`
}

// LBRow is one leaderboard line.
type LBRow struct {
	UserID       string `json:"userId"`
	Score        int    `json:"score"`
	ModesCleared int    `json:"modesCleared"`
	ElapsedMs    int64  `json:"elapsedMs"`
}

// Store records daily results. Each player has at most one result per date;
// later inserts for the same (user, date) are ignored.
type Store interface {
	AlreadyPlayed(ctx context.Context, userID, date string) (bool, error)
	InsertResult(ctx context.Context, r Result) error
	// Leaderboard orders by score desc, then elapsed time, then first finisher.
	Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error)
}

type sqlStore struct{ db *sql.DB }

func NewStore(db *sql.DB) Store { return &sqlStore{db: db} }

func (s *sqlStore) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

func (s *sqlStore) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results (user_id, date, score, modes_cleared, elapsed_ms)
        VALUES (?, ?, ?, ?, ?)`,
		r.UserID, r.Date, r.Score, r.ModesCleared, r.ElapsedMs,
	)
	return err
}

func (s *sqlStore) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT user_id, score, modes_cleared, elapsed_ms
        FROM daily_results
        WHERE date=?
        ORDER BY score DESC, elapsed_ms ASC, created_at ASC, id ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Score, &r.ModesCleared, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type memoryStore struct {
	mu      sync.RWMutex
	results []Result
}

// NewMemoryStore returns a process-local Store.
func NewMemoryStore() Store { return &memoryStore{} }

func (m *memoryStore) AlreadyPlayed(_ context.Context, userID, date string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.results {
		if e.UserID == userID && e.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) InsertResult(ctx context.Context, r Result) error {
	if played, _ := m.AlreadyPlayed(ctx, r.UserID, r.Date); played {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *memoryStore) Leaderboard(_ context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	m.mu.RLock()
	var day []Result
	for _, e := range m.results {
		if e.Date == date {
			day = append(day, e)
		}
	}
	m.mu.RUnlock()

	// stable: equal results keep insertion order
	sort.SliceStable(day, func(i, j int) bool {
		if day[i].Score != day[j].Score {
			return day[i].Score > day[j].Score
		}
		return day[i].ElapsedMs < day[j].ElapsedMs
	})
	out := make([]LBRow, 0, min(limit, len(day)))
	for _, e := range day {
		if len(out) == limit {
			break
		}
		out = append(out, LBRow{UserID: e.UserID, Score: e.Score, ModesCleared: e.ModesCleared, ElapsedMs: e.ElapsedMs})
	}
	return out, nil
}
