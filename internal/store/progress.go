// internal/store/progress.go
//
// Run-boundary progress per player.
// Responsibilities:
//   - Fold mode:completed and run:ended payloads into a Progress record.
//   - Load/save Progress (SQLite in production, memory in tests).
//
// Notes:
//   - Nothing mid-hand is ever saved. A restarted process loses live runs
//     but keeps best scores and unlocked blessings.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robalobadob/cursed-dice/internal/blessing"
	"github.com/robalobadob/cursed-dice/internal/events"
)

// Progress is what survives between runs.
type Progress struct {
	PlayerID         string        `json:"playerId"`
	Cumulative       int           `json:"cumulative"`
	BestScore        int           `json:"bestScore"`
	BestModesCleared int           `json:"bestModesCleared"`
	RunsPlayed       int           `json:"runsPlayed"`
	RunsCompleted    int           `json:"runsCompleted"`
	Unlocked         []blessing.ID `json:"unlockedBlessings"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// ApplyModeCompleted records a mode boundary. unlocked is the run's full
// unlocked set; it is merged, never shrunk.
func (p *Progress) ApplyModeCompleted(e events.ModeCompletedPayload, unlocked []blessing.ID) {
	if e.Passed {
		p.Cumulative = e.Cumulative
		p.BestScore = max(p.BestScore, e.Cumulative)
	} else {
		p.Cumulative = 0
	}
	for _, id := range unlocked {
		if !p.HasUnlocked(id) {
			p.Unlocked = append(p.Unlocked, id)
		}
	}
}

// ApplyRunEnded records the end of a run.
func (p *Progress) ApplyRunEnded(e events.RunEndedPayload) {
	p.RunsPlayed++
	if e.Won {
		p.RunsCompleted++
	}
	p.BestScore = max(p.BestScore, e.Cumulative)
	p.BestModesCleared = max(p.BestModesCleared, e.ModesCleared)
	p.Cumulative = 0
}

func (p *Progress) HasUnlocked(id blessing.ID) bool {
	for _, u := range p.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}

// ProgressStore loads and saves Progress. LoadProgress returns an empty
// record (not an error) for a player it has never seen.
type ProgressStore interface {
	LoadProgress(ctx context.Context, playerID string) (Progress, error)
	SaveProgress(ctx context.Context, p Progress) error
}

type sqlProgress struct{ db *sql.DB }

// NewProgressStore returns a ProgressStore over the progress table.
func NewProgressStore(db *sql.DB) ProgressStore { return &sqlProgress{db: db} }

func (s *sqlProgress) LoadProgress(ctx context.Context, playerID string) (Progress, error) {
	p := Progress{PlayerID: playerID}
	var unlocked, updated string
	err := s.db.QueryRowContext(ctx, `
        SELECT cumulative, best_score, best_modes_cleared, runs_played, runs_completed, unlocked, updated_at
        FROM progress WHERE player_id=?`, playerID,
	).Scan(&p.Cumulative, &p.BestScore, &p.BestModesCleared, &p.RunsPlayed, &p.RunsCompleted, &unlocked, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("load progress %s: %w", playerID, err)
	}
	if unlocked != "" {
		if err := json.Unmarshal([]byte(unlocked), &p.Unlocked); err != nil {
			return Progress{}, fmt.Errorf("decode unlocked for %s: %w", playerID, err)
		}
	}
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return p, nil
}

func (s *sqlProgress) SaveProgress(ctx context.Context, p Progress) error {
	if p.PlayerID == "" {
		return errors.New("save progress: empty player id")
	}
	if p.Unlocked == nil {
		p.Unlocked = []blessing.ID{}
	}
	unlocked, err := json.Marshal(p.Unlocked)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO progress
            (player_id, cumulative, best_score, best_modes_cleared, runs_played, runs_completed, unlocked, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(player_id) DO UPDATE SET
            cumulative=excluded.cumulative,
            best_score=excluded.best_score,
            best_modes_cleared=excluded.best_modes_cleared,
            runs_played=excluded.runs_played,
            runs_completed=excluded.runs_completed,
            unlocked=excluded.unlocked,
            updated_at=excluded.updated_at`,
		p.PlayerID, p.Cumulative, p.BestScore, p.BestModesCleared, p.RunsPlayed, p.RunsCompleted,
		string(unlocked), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save progress %s: %w", p.PlayerID, err)
	}
	return nil
}

type memoryProgress struct {
	mu sync.RWMutex
	m  map[string]Progress
}

// NewMemoryProgressStore returns a process-local ProgressStore.
func NewMemoryProgressStore() ProgressStore {
	return &memoryProgress{m: make(map[string]Progress)}
}

func (m *memoryProgress) LoadProgress(_ context.Context, playerID string) (Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.m[playerID]
	if !ok {
		return Progress{PlayerID: playerID}, nil
	}
	p.Unlocked = append([]blessing.ID(nil), p.Unlocked...)
	return p, nil
}

func (m *memoryProgress) SaveProgress(_ context.Context, p Progress) error {
	if p.PlayerID == "" {
		return errors.New("save progress: empty player id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Unlocked = append([]blessing.ID(nil), p.Unlocked...)
	p.UpdatedAt = time.Now().UTC()
	m.m[p.PlayerID] = p
	return nil
}
