package assets

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cursed-dice/internal/progression"
)

func TestEmbeddedModesMatchDefaults(t *testing.T) {
	f, err := Modes()

	require.NoError(t, err)
	assert.Equal(t, progression.DefaultModes(), f)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	names, err := fs.Glob(FS, MigrationsDir+"/*.sql")

	require.NoError(t, err)
	assert.Equal(t, []string{"sql/001_init.sql", "sql/002_daily.sql"}, names)
}
