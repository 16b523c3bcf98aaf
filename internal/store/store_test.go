package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cursed-dice/assets"
	"github.com/robalobadob/cursed-dice/internal/blessing"
	"github.com/robalobadob/cursed-dice/internal/command"
	"github.com/robalobadob/cursed-dice/internal/events"
	"github.com/robalobadob/cursed-dice/internal/game"
	"github.com/robalobadob/cursed-dice/internal/settings"
	"github.com/robalobadob/cursed-dice/internal/store"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db, assets.FS, assets.MigrationsDir))
	return db
}

func TestRunStore(t *testing.T) {
	ctx := context.Background()
	runs := store.NewMemoryStore()
	old := &store.Run{Session: game.NewSession(game.Options{ID: "old"}), History: command.NewHistory(0), CreatedAt: time.Now().Add(-2 * time.Hour)}
	fresh := &store.Run{Session: game.NewSession(game.Options{ID: "fresh"}), History: command.NewHistory(0), CreatedAt: time.Now()}
	require.NoError(t, runs.Save(ctx, old))
	require.NoError(t, runs.Save(ctx, fresh))

	got, err := runs.Get(ctx, "old")
	require.NoError(t, err)
	assert.Same(t, old, got)

	assert.Equal(t, 1, runs.Sweep(ctx, time.Now().Add(-time.Hour)))
	_, err = runs.Get(ctx, "old")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, runs.Delete(ctx, "fresh"))
	require.NoError(t, runs.Delete(ctx, "fresh"))
	_, err = runs.Get(ctx, "fresh")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProgressFolding(t *testing.T) {
	p := store.Progress{PlayerID: "p1"}

	p.ApplyModeCompleted(events.ModeCompletedPayload{Mode: 1, Score: 260, Passed: true, Cumulative: 260},
		[]blessing.ID{blessing.IDSanctuary, blessing.IDMercy})
	p.ApplyModeCompleted(events.ModeCompletedPayload{Mode: 2, Score: 280, Passed: true, Cumulative: 540},
		[]blessing.ID{blessing.IDSanctuary, blessing.IDMercy, blessing.IDSixthDie})

	assert.Equal(t, 540, p.Cumulative)
	assert.Equal(t, 540, p.BestScore)
	assert.Equal(t, []blessing.ID{blessing.IDSanctuary, blessing.IDMercy, blessing.IDSixthDie}, p.Unlocked)

	p.ApplyModeCompleted(events.ModeCompletedPayload{Mode: 3, Score: 100}, nil)
	p.ApplyRunEnded(events.RunEndedPayload{Reason: game.ReasonThreshold, Cumulative: 540, ModesCleared: 2})

	assert.Equal(t, 0, p.Cumulative)
	assert.Equal(t, 540, p.BestScore)
	assert.Equal(t, 2, p.BestModesCleared)
	assert.Equal(t, 1, p.RunsPlayed)
	assert.Equal(t, 0, p.RunsCompleted)
	assert.Len(t, p.Unlocked, 3, "unlocks are never lost")

	p.ApplyRunEnded(events.RunEndedPayload{Won: true, Cumulative: 1100, ModesCleared: 4})
	assert.Equal(t, 2, p.RunsPlayed)
	assert.Equal(t, 1, p.RunsCompleted)
	assert.Equal(t, 1100, p.BestScore)
}

func testProgressStore(t *testing.T, ps store.ProgressStore) {
	ctx := context.Background()

	empty, err := ps.LoadProgress(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", empty.PlayerID)
	assert.Zero(t, empty.RunsPlayed)

	want := store.Progress{
		PlayerID:      "p1",
		BestScore:     777,
		RunsPlayed:    3,
		RunsCompleted: 1,
		Unlocked:      []blessing.ID{blessing.IDMercy},
	}
	require.NoError(t, ps.SaveProgress(ctx, want))
	want.RunsPlayed = 4
	require.NoError(t, ps.SaveProgress(ctx, want))

	got, err := ps.LoadProgress(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 777, got.BestScore)
	assert.Equal(t, 4, got.RunsPlayed)
	assert.Equal(t, []blessing.ID{blessing.IDMercy}, got.Unlocked)
	assert.False(t, got.UpdatedAt.IsZero())

	assert.Error(t, ps.SaveProgress(ctx, store.Progress{}))
}

func TestMemoryProgressStore(t *testing.T) { testProgressStore(t, store.NewMemoryProgressStore()) }

func TestSQLiteProgressStore(t *testing.T) {
	testProgressStore(t, store.NewProgressStore(openTestDB(t)))
}

func testUserStore(t *testing.T, us store.UserStore) {
	ctx := context.Background()

	u, err := us.CreateUser(ctx, "Dicey", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = us.CreateUser(ctx, "dicey", "other")
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	byName, err := us.FindByUsername(ctx, "DICEY")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := us.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dicey", byID.Username)

	_, err = us.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryUserStore(t *testing.T) { testUserStore(t, store.NewMemoryUserStore()) }

func TestSQLiteUserStore(t *testing.T) { testUserStore(t, store.NewUserStore(openTestDB(t))) }

func TestSQLiteSettingsProvider(t *testing.T) {
	ctx := context.Background()
	p := store.NewSettingsProvider(openTestDB(t))

	got, err := p.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults(), got)

	require.NoError(t, p.Save(ctx, "p1", settings.Settings{SFXEnabled: false, MusicEnabled: true}))
	require.NoError(t, p.Save(ctx, "p1", settings.Settings{SFXEnabled: false, MusicEnabled: false}))

	got, err = p.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, settings.Settings{}, got)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, store.Migrate(db, assets.FS, assets.MigrationsDir))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)
}
