// Package assets embeds the files the server ships with: the default mode
// ladder and the SQL migrations.
package assets

import (
	"embed"

	"github.com/robalobadob/cursed-dice/internal/progression"
)

//go:embed modes.yaml sql/*.sql
var FS embed.FS

// MigrationsDir is the directory in FS holding *.sql migrations.
const MigrationsDir = "sql"

// Modes returns the embedded mode ladder.
func Modes() (progression.File, error) {
	return progression.LoadModes(FS, "modes.yaml")
}
