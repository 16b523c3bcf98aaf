// internal/settings/settings.go
//
// Player-facing settings (sound effects, music).
// The engine never reads settings; presentation layers load them through a
// Provider and save them explicitly. There is no global settings object.
package settings

import (
	"context"
	"sync"
)

// Settings are per-player preferences.
type Settings struct {
	SFXEnabled   bool `json:"sfxEnabled"`
	MusicEnabled bool `json:"musicEnabled"`
}

// Defaults is what a player without saved settings gets.
func Defaults() Settings {
	return Settings{SFXEnabled: true, MusicEnabled: true}
}

// Provider loads and saves settings for a player.
type Provider interface {
	Load(ctx context.Context, playerID string) (Settings, error)
	Save(ctx context.Context, playerID string, s Settings) error
}

type memory struct {
	mu sync.RWMutex
	m  map[string]Settings
}

// NewMemoryProvider returns a process-local Provider.
func NewMemoryProvider() Provider {
	return &memory{m: make(map[string]Settings)}
}

func (p *memory) Load(_ context.Context, playerID string) (Settings, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.m[playerID]; ok {
		return s, nil
	}
	return Defaults(), nil
}

func (p *memory) Save(_ context.Context, playerID string, s Settings) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[playerID] = s
	return nil
}
