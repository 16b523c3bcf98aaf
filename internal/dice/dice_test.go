package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cursed-dice/internal/dice"
	"github.com/robalobadob/cursed-dice/internal/events"
)

func TestInitialRollDoesNotSpendReroll(t *testing.T) {
	d := dice.New(dice.Faces(1, 2, 3, 4, 5), nil)

	require.True(t, d.Roll(true))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, d.Values())
	assert.Equal(t, dice.MaxRerolls, d.RerollsLeft())
	assert.True(t, d.HasRolled())
}

func TestRerollsExhaust(t *testing.T) {
	d := dice.New(dice.NewSeededSource(7), nil)
	require.True(t, d.Roll(true))

	for i := 0; i < dice.MaxRerolls; i++ {
		require.True(t, d.Roll(false), "reroll %d", i+1)
	}
	before := d.Values()

	assert.False(t, d.Roll(false))
	assert.Equal(t, before, d.Values())
	assert.Equal(t, 0, d.RerollsLeft())
}

func TestLockedDiceKeepTheirFaces(t *testing.T) {
	d := dice.New(dice.Faces(6, 6, 1, 1, 1, 2, 2, 2), nil)
	require.True(t, d.Roll(true))
	require.True(t, d.ToggleLock(0))
	require.True(t, d.ToggleLock(1))

	require.True(t, d.Roll(false))

	assert.Equal(t, []int{6, 6, 2, 2, 2}, d.Values())
	assert.Equal(t, []bool{true, true, false, false, false}, d.Locked())
}

func TestCursedDieIsLockedAndCannotToggle(t *testing.T) {
	bus := events.NewBus()
	var refused []events.LockRefusedPayload
	bus.Subscribe(events.DiceLockRefused, func(e events.Event) {
		refused = append(refused, e.Payload.(events.LockRefusedPayload))
	})
	d := dice.New(dice.Faces(3, 3, 3, 3, 3, 5), bus)
	require.True(t, d.Roll(true))
	require.True(t, d.SetCursedDie(2))

	assert.True(t, d.IsLocked(2))
	assert.False(t, d.ToggleLock(2))
	require.Len(t, refused, 1)
	assert.Equal(t, dice.RefusedCursed, refused[0].Reason)

	require.True(t, d.Roll(false))
	assert.Equal(t, 3, d.Values()[2], "cursed die is never rerolled")
}

func TestCurseAlwaysMoves(t *testing.T) {
	d := dice.New(dice.NewSeededSource(42), nil)
	prev := d.CurseRandom()
	for i := 0; i < 100; i++ {
		next := d.CurseRandom()
		require.NotEqual(t, prev, next, "iteration %d", i)
		require.GreaterOrEqual(t, next, 0)
		require.Less(t, next, dice.StandardCount)
		prev = next
	}
}

func TestCurseMovesAcrossReset(t *testing.T) {
	d := dice.New(dice.NewSequence(0), nil)
	require.Equal(t, 0, d.CurseRandom())

	d.Reset()
	assert.Equal(t, dice.NoCurse, d.CursedIndex())
	assert.NotEqual(t, 0, d.CurseRandom())
	assert.False(t, d.SetCursedDie(d.CursedIndex()))
}

func TestFreshHandCanCurseAnyDie(t *testing.T) {
	d := dice.New(dice.NewSeededSource(1), nil)
	assert.Equal(t, dice.NoCurse, d.CursedIndex())
	assert.True(t, d.SetCursedDie(0))

	d = dice.New(dice.NewSequence(0), nil)
	d.Reset()
	assert.Equal(t, 0, d.CurseRandom())
}

func TestCurseMovesArePublished(t *testing.T) {
	bus := events.NewBus()
	var moves []int
	bus.Subscribe(events.DiceCursed, func(e events.Event) {
		moves = append(moves, e.Payload.(events.DiceCursedPayload).Index)
	})
	d := dice.New(dice.NewSequence(2), bus)

	require.True(t, d.SetCursedDie(1))
	require.Equal(t, 3, d.CurseRandom())
	d.ClearCurse()
	d.ClearCurse()

	assert.Equal(t, []int{1, 3, dice.NoCurse}, moves)
}

func TestToggleLockRefusals(t *testing.T) {
	d := dice.New(dice.NewSeededSource(1), nil)

	assert.False(t, d.ToggleLock(0), "locks refused before the first roll")
	d.Roll(true)
	assert.False(t, d.ToggleLock(-1))
	assert.False(t, d.ToggleLock(5))

	d.SetLockPolicy(func(i int) bool { return i != 4 })
	assert.False(t, d.ToggleLock(4))
	assert.True(t, d.ToggleLock(3))
	assert.True(t, d.ToggleLock(3))
	assert.False(t, d.IsLocked(3))
}

func TestSixthDie(t *testing.T) {
	d := dice.New(dice.Faces(1, 2, 3, 4, 5, 6, 1, 1, 1, 1, 1), nil)
	d.Roll(true)

	require.True(t, d.AddDie())
	assert.False(t, d.AddDie())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, d.Values())
	assert.True(t, d.IsLocked(5))
	assert.False(t, d.ToggleLock(5))

	d.Roll(false)
	assert.Equal(t, 6, d.Values()[5], "sixth die is not rerolled")

	d.RemoveExtraDie()
	assert.Len(t, d.Values(), dice.StandardCount)

	d.AddDie()
	d.Reset()
	assert.Len(t, d.Values(), dice.StandardCount)
	assert.False(t, d.HasExtraDie())
}

func TestResetRestoresDefaults(t *testing.T) {
	d := dice.New(dice.NewSeededSource(3), nil)
	d.Roll(true)
	d.ToggleLock(1)
	d.Roll(false)
	d.CurseRandom()
	d.AddRerolls(2)

	d.Reset()

	assert.Equal(t, dice.MaxRerolls, d.RerollsLeft())
	assert.Equal(t, []bool{false, false, false, false, false}, d.Locked())
	assert.Equal(t, dice.NoCurse, d.CursedIndex())
	assert.False(t, d.HasRolled())
}

func TestSetValues(t *testing.T) {
	d := dice.New(nil, nil)

	assert.ErrorIs(t, d.SetValues([]int{1, 2, 3}), dice.ErrBadHand)
	assert.ErrorIs(t, d.SetValues([]int{1, 2, 3, 4, 9}), dice.ErrBadHand)
	require.NoError(t, d.SetValues([]int{6, 6, 6, 6, 6}))
	assert.Equal(t, []int{6, 6, 6, 6, 6}, d.Values())
	assert.True(t, d.HasRolled())
}

func TestRollPublishes(t *testing.T) {
	bus := events.NewBus()
	var rolls []events.DiceRolledPayload
	bus.Subscribe(events.DiceRolled, func(e events.Event) {
		rolls = append(rolls, e.Payload.(events.DiceRolledPayload))
	})
	d := dice.New(dice.Faces(2, 2, 2, 2, 2), bus)

	d.Roll(true)
	d.Roll(false)

	require.Len(t, rolls, 2)
	assert.True(t, rolls[0].IsInitial)
	assert.False(t, rolls[1].IsInitial)
	assert.Equal(t, []int{2, 2, 2, 2, 2}, rolls[1].Values)
}

func TestValuesAreCopies(t *testing.T) {
	d := dice.New(dice.Faces(4), nil)
	d.Roll(true)
	v := d.Values()
	v[0] = 1
	assert.Equal(t, 4, d.Values()[0])
}
