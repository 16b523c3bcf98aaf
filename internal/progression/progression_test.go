package progression

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cursed-dice/internal/dice"
	"github.com/robalobadob/cursed-dice/internal/events"
	"github.com/robalobadob/cursed-dice/internal/scoring"
)

func TestPassAdvancesAndAccumulates(t *testing.T) {
	c := NewController(DefaultModes(), nil, nil)

	res := c.CompleteMode(250)

	assert.True(t, res.Passed)
	require.NotNil(t, res.NextMode)
	assert.Equal(t, 2, *res.NextMode)
	assert.Equal(t, 250, c.Cumulative())
	assert.Equal(t, 1, c.ModesCleared())
	assert.True(t, c.Current().CursedDice)
}

func TestFailRestartsTheWholeRun(t *testing.T) {
	c := NewController(DefaultModes(), nil, nil)
	c.CompleteMode(300)
	c.CompleteMode(260)
	require.Equal(t, 3, c.ModeIndex())

	res := c.CompleteMode(249)

	assert.False(t, res.Passed)
	require.NotNil(t, res.NextMode)
	assert.Equal(t, 1, *res.NextMode)
	assert.Equal(t, 0, c.Cumulative())
	assert.Equal(t, 1, c.ModeIndex())
}

func TestRunCompletesAfterLastMode(t *testing.T) {
	c := NewController(DefaultModes(), nil, nil)
	for i := 0; i < 3; i++ {
		require.True(t, c.CompleteMode(280).Passed)
	}

	res := c.CompleteMode(251)

	assert.True(t, res.Passed)
	assert.True(t, res.RunComplete)
	assert.Nil(t, res.NextMode)
	assert.Equal(t, 1091, c.Cumulative())
	assert.Equal(t, 4, c.ModesCleared())

	c.Reset()
	assert.False(t, c.RunComplete())
	assert.Equal(t, 0, c.ModesCleared())
}

func TestLockCount(t *testing.T) {
	f := DefaultModes()
	tests := []struct {
		name     string
		mode     int
		unfilled int
		want     int
	}{
		{"classic locks nothing", 0, 13, 0},
		{"sealed locks three", 2, 13, 3},
		{"sealed leaves one open", 2, 3, 2},
		{"sealed with one left", 2, 1, 0},
		{"gauntlet all but one", 3, 13, 12},
		{"gauntlet near the end", 3, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(f, nil, nil)
			c.idx = tt.mode
			assert.Equal(t, tt.want, c.LockCount(tt.unfilled))
		})
	}
}

func TestBeginTurnPublishesLockedSet(t *testing.T) {
	bus := events.NewBus()
	var got events.LockedCategoriesPayload
	bus.Subscribe(events.ModeLockedCategories, func(e events.Event) {
		got = e.Payload.(events.LockedCategoriesPayload)
	})
	c := NewController(DefaultModes(), dice.NewSeededSource(9), bus)
	c.idx = 2

	unfilled := []scoring.CategoryID{scoring.Ones, scoring.Twos, scoring.Chance, scoring.Yahtzee, scoring.FullHouse}
	locked := c.BeginTurn(unfilled)

	require.Len(t, locked, 3)
	assert.Len(t, got.Categories, 3)
	seen := map[scoring.CategoryID]bool{}
	for _, id := range locked {
		assert.Contains(t, unfilled, id)
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}

func TestStartModePublishesGauntlet(t *testing.T) {
	bus := events.NewBus()
	var gauntlet []bool
	bus.Subscribe(events.ModeGauntlet, func(e events.Event) { gauntlet = append(gauntlet, e.Payload.(bool)) })
	c := NewController(DefaultModes(), nil, bus)

	c.StartMode()
	c.idx = 3
	c.StartMode()

	assert.Equal(t, []bool{false, true}, gauntlet)
}

func TestLoadModes(t *testing.T) {
	fsys := fstest.MapFS{
		"modes.yaml": &fstest.MapFile{Data: []byte(`
pass_threshold: 200
modes:
  - index: 1
    name: Warmup
    time_limit: 90s
  - index: 2
    name: Hex
    cursed_dice: true
    locked_categories: 2
`)},
	}

	f, err := LoadModes(fsys, "modes.yaml")

	require.NoError(t, err)
	assert.Equal(t, 200, f.PassThreshold)
	require.Len(t, f.Modes, 2)
	assert.Equal(t, 90*time.Second, f.Modes[0].TimeLimit)
	assert.True(t, f.Modes[1].CursedDice)
	assert.Equal(t, 2, f.Modes[1].LockedCategories)
}

func TestValidateModes(t *testing.T) {
	bad := File{
		PassThreshold: 250,
		Modes: []ModeConfig{
			{Index: 1, Name: "ok"},
			{Index: 5, Name: "", LockedCategories: 2, LockAllButOne: true},
		},
	}

	err := ValidateModes(bad)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "modes[1].index must be 2")
	assert.Contains(t, err.Error(), "modes[1].name is required")
	assert.Contains(t, err.Error(), "exclusive")
	assert.NoError(t, ValidateModes(DefaultModes()))
}

func TestParseModesRejectsGarbage(t *testing.T) {
	_, err := ParseModes([]byte("modes: [this is: not valid"))
	assert.Error(t, err)
}
