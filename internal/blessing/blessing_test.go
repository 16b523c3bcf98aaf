package blessing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cursed-dice/internal/blessing"
	"github.com/robalobadob/cursed-dice/internal/events"
)

func TestSanctuaryRestoreNeedsAnActionAfterBanking(t *testing.T) {
	bus := events.NewBus()
	s := blessing.NewSanctuary(bus)
	s.OnModeStart()

	require.True(t, s.Bank([]int{6, 6, 6, 6, 6}))
	assert.False(t, s.Bank([]int{1, 1, 1, 1, 1}), "one bank per mode")

	assert.Nil(t, s.Restore(), "restore straight after banking is refused")
	assert.Equal(t, []int{6, 6, 6, 6, 6}, s.BankedDice(), "refusal keeps the bank")

	bus.Publish(events.DiceRolled, events.DiceRolledPayload{})

	assert.Equal(t, []int{6, 6, 6, 6, 6}, s.Restore())
	st := s.State().(blessing.SanctuaryState)
	assert.False(t, st.CanRestore)
	assert.False(t, st.CanBank)
	assert.False(t, s.CanUse())
}

func TestSanctuaryScoreCountsAsAction(t *testing.T) {
	bus := events.NewBus()
	s := blessing.NewSanctuary(bus)
	s.OnModeStart()
	s.Bank([]int{1, 2, 3, 4, 5})

	bus.Publish(events.ScoreUpdated, events.ScoreUpdatedPayload{})

	assert.True(t, s.State().(blessing.SanctuaryState).CanRestore)
}

func TestSanctuaryResetsEachMode(t *testing.T) {
	bus := events.NewBus()
	s := blessing.NewSanctuary(bus)
	s.OnModeStart()
	s.Bank([]int{1, 2, 3, 4, 5})
	bus.Publish(events.DiceRolled, nil)
	s.Restore()

	s.OnModeStart()

	assert.True(t, s.State().(blessing.SanctuaryState).CanBank)
}

func TestSanctuaryStateIsACopy(t *testing.T) {
	s := blessing.NewSanctuary(nil)
	s.OnModeStart()
	s.Bank([]int{2, 2, 2, 2, 2})

	st := s.State().(blessing.SanctuaryState)
	st.BankedDice[0] = 6

	assert.Equal(t, []int{2, 2, 2, 2, 2}, s.BankedDice())
}

func TestMercyOncePerMode(t *testing.T) {
	bus := events.NewBus()
	var used int
	bus.Subscribe(events.BlessingTopic("mercy", "used"), func(events.Event) { used++ })
	m := blessing.NewMercy(bus)
	m.OnModeStart()

	assert.True(t, m.Use())
	assert.False(t, m.Use())
	assert.Equal(t, 1, used)

	m.OnModeStart()
	assert.True(t, m.CanUse())
}

func TestMercyCountsRefusals(t *testing.T) {
	bus := events.NewBus()
	m := blessing.NewMercy(bus)

	bus.Publish(events.DiceLockRefused, events.LockRefusedPayload{Index: 2, Reason: "cursed"})
	bus.Publish(events.DiceLockRefused, events.LockRefusedPayload{Index: 3, Reason: "cursed"})

	assert.Equal(t, 2, m.State().(blessing.MercyState).Refusals)
}

func TestSixthDieCharges(t *testing.T) {
	s := blessing.NewSixthDie(nil, 0)
	s.OnModeStart()

	for hand := 0; hand < blessing.DefaultSixthDieCharges; hand++ {
		s.OnNewHand()
		require.True(t, s.Activate(), "hand %d", hand)
		assert.False(t, s.Activate(), "only once per hand")
	}
	s.OnNewHand()
	assert.False(t, s.Activate(), "charges exhausted")

	s.OnModeStart()
	st := s.State().(blessing.SixthDieState)
	assert.Equal(t, 3, st.Charges)
	assert.Equal(t, 3, st.MaxCharges)
}

func TestExpansionPublishesOnModeStart(t *testing.T) {
	bus := events.NewBus()
	enabled := 0
	bus.Subscribe(blessing.ExpansionEnabled, func(events.Event) { enabled++ })
	e := blessing.NewExpansion(bus)

	e.OnModeStart()

	assert.Equal(t, 1, enabled)
	assert.False(t, e.CanUse())
	assert.True(t, e.State().(blessing.ExpansionState).Enabled)
}

func TestDestroyUnsubscribes(t *testing.T) {
	bus := events.NewBus()
	s := blessing.NewSanctuary(bus)
	m := blessing.NewMercy(bus)
	require.Equal(t, 3, bus.Len())

	s.Destroy()
	m.Destroy()
	m.Destroy()

	assert.Equal(t, 0, bus.Len())
	assert.False(t, m.Use())
	assert.False(t, s.Bank([]int{1, 2, 3, 4, 5}))
}

func TestRegistry(t *testing.T) {
	reg := blessing.Defaults()
	bus := events.NewBus()

	assert.Equal(t, []blessing.ID{blessing.IDSanctuary, blessing.IDMercy, blessing.IDSixthDie, blessing.IDExpansion}, reg.IDs())

	b, err := reg.Create(blessing.IDSixthDie, blessing.Deps{Bus: bus, SixthDieCharges: 5})
	require.NoError(t, err)
	assert.Equal(t, blessing.IDSixthDie, b.ID())
	assert.Equal(t, 5, b.State().(blessing.SixthDieState).MaxCharges)

	_, err = reg.Create("phoenix", blessing.Deps{Bus: bus})
	assert.ErrorIs(t, err, blessing.ErrUnknownBlessing)
}

func TestRegistryUnlockTiers(t *testing.T) {
	reg := blessing.Defaults()

	tests := []struct {
		cleared int
		want    []blessing.ID
	}{
		{0, nil},
		{1, []blessing.ID{blessing.IDSanctuary, blessing.IDMercy}},
		{2, []blessing.ID{blessing.IDSanctuary, blessing.IDMercy, blessing.IDSixthDie}},
		{3, []blessing.ID{blessing.IDSanctuary, blessing.IDMercy, blessing.IDSixthDie, blessing.IDExpansion}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reg.Unlocked(tt.cleared), "cleared=%d", tt.cleared)
	}
}
