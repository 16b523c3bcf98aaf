package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/cursed-dice/internal/settings"
)

type sqlSettings struct{ db *sql.DB }

// NewSettingsProvider returns a settings.Provider over the settings table.
func NewSettingsProvider(db *sql.DB) settings.Provider { return &sqlSettings{db: db} }

func (s *sqlSettings) Load(ctx context.Context, playerID string) (settings.Settings, error) {
	var out settings.Settings
	err := s.db.QueryRowContext(ctx,
		`SELECT sfx_enabled, music_enabled FROM settings WHERE player_id=?`, playerID,
	).Scan(&out.SFXEnabled, &out.MusicEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Defaults(), nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load settings %s: %w", playerID, err)
	}
	return out, nil
}

func (s *sqlSettings) Save(ctx context.Context, playerID string, v settings.Settings) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO settings (player_id, sfx_enabled, music_enabled, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(player_id) DO UPDATE SET
            sfx_enabled=excluded.sfx_enabled,
            music_enabled=excluded.music_enabled,
            updated_at=excluded.updated_at`,
		playerID, v.SFXEnabled, v.MusicEnabled, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save settings %s: %w", playerID, err)
	}
	return nil
}
