// main.go
//
// Entry point for the cursed-dice server.
//   - Loads configuration (.env + environment).
//   - Sets the zerolog level from LOG_LEVEL.
//   - Opens SQLite, applies embedded migrations, loads the mode ladder.
//   - Serves HTTP and sweeps abandoned runs in the background.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cursed-dice/assets"
	"github.com/robalobadob/cursed-dice/internal/config"
	"github.com/robalobadob/cursed-dice/internal/daily"
	"github.com/robalobadob/cursed-dice/internal/httpserver"
	"github.com/robalobadob/cursed-dice/internal/progression"
	"github.com/robalobadob/cursed-dice/internal/store"
)

// Runs older than this are dropped from memory.
const runTTL = 12 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
	}
	defer db.Close()
	if err := store.Migrate(db, assets.FS, assets.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	modes, err := loadModes(cfg.ModesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load modes")
	}

	runs := store.NewMemoryStore()
	go sweepRuns(runs)

	srv := httpserver.New(httpserver.Deps{
		Config:   cfg,
		Modes:    modes,
		Runs:     runs,
		Users:    store.NewUserStore(db),
		Progress: store.NewProgressStore(db),
		Settings: store.NewSettingsProvider(db),
		Daily:    daily.NewStore(db),
	})
	log.Info().Str("port", cfg.Port).Int("modes", len(modes.Modes)).Msg("starting cursed-dice server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// loadModes reads MODES_FILE when set, else the embedded ladder.
func loadModes(path string) (progression.File, error) {
	if path == "" {
		return assets.Modes()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return progression.File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return progression.ParseModes(b)
}

func sweepRuns(runs store.RunStore) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for range t.C {
		if n := runs.Sweep(context.Background(), time.Now().Add(-runTTL)); n > 0 {
			log.Info().Int("runs", n).Msg("swept stale runs")
		}
	}
}
