// internal/config/config.go
//
// Process configuration for the cursed-dice server.
// Responsibilities:
//   - Load an optional .env file (local development).
//   - Parse environment variables into a typed Config with defaults.
//
// Notes:
//   - Variable names match the ones the server has always read (PORT,
//     JWT_SECRET, COOKIE_NAME, ...), so existing .env files keep working.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full server configuration.
type Config struct {
	Port           string `env:"PORT" envDefault:"5175"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"./data/app.db"`
	ModesFile      string `env:"MODES_FILE"`
	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"cursed_dice_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	DailySalt      string `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	Environment    string `env:"NODE_ENV" envDefault:"development"`
	// TickInterval is how often live event streams push timer:tick.
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.Environment == "production" }

// JWTTTL is the lifetime of issued auth tokens.
func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}

// ParseEnv parses environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.JWTExpiresDays <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_DAYS must be > 0, got %d", cfg.JWTExpiresDays)
	}
	return cfg, nil
}
