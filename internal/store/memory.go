// internal/store/memory.go
//
// In-memory store of live runs.
// Runs are only ever held in memory; the process keeps the session, its
// command history and the owning player together under one mutex.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts. Progress that must survive
//     lives in ProgressStore.
//   - Get returns ErrNotFound for unknown ids.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/cursed-dice/internal/command"
	"github.com/robalobadob/cursed-dice/internal/game"
)

// Run is a live session plus everything the HTTP layer keeps beside it.
// Callers hold the embedded mutex for every use of Session or History.
type Run struct {
	sync.Mutex
	Session   *game.Session
	History   *command.History
	OwnerID   string
	Daily     string // date key when this is the daily run, else ""
	CreatedAt time.Time
}

// ID is the session id.
func (r *Run) ID() string { return r.Session.ID() }

// RunStore defines persistence for live runs.
type RunStore interface {
	// Save adds or replaces a run.
	Save(ctx context.Context, r *Run) error

	// Get retrieves a run by id.
	Get(ctx context.Context, id string) (*Run, error)

	// Delete forgets a run. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error

	// Sweep drops runs created before cutoff and reports how many went.
	Sweep(ctx context.Context, cutoff time.Time) int
}

type memory struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryStore constructs an empty RunStore.
func NewMemoryStore() RunStore {
	return &memory{runs: make(map[string]*Run)}
}

func (m *memory) Save(_ context.Context, r *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[r.ID()] = r
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.runs[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, id)
	return nil
}

func (m *memory) Sweep(_ context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, r := range m.runs {
		if r.CreatedAt.Before(cutoff) {
			delete(m.runs, id)
			n++
		}
	}
	return n
}
