package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{999 * time.Millisecond, "0:01"},
		{59 * time.Second, "0:59"},
		{90 * time.Second, "1:30"},
		{10*time.Minute + 5*time.Second, "10:05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRemaining(tt.in), tt.in.String())
	}
}

func TestTimerPauseResume(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	tm := NewTimer(2 * time.Minute)
	tm.Start(t0)

	tm.Pause(t0.Add(30 * time.Second))
	assert.False(t, tm.Running())
	assert.Equal(t, 90*time.Second, tm.Remaining(t0.Add(time.Hour)))

	tm.Resume(t0.Add(time.Hour))
	assert.Equal(t, 80*time.Second, tm.Remaining(t0.Add(time.Hour+10*time.Second)))
	assert.False(t, tm.Expired(t0.Add(time.Hour+10*time.Second)))
	assert.True(t, tm.Expired(t0.Add(time.Hour+90*time.Second)))
}

func TestUntimedNeverExpires(t *testing.T) {
	tm := NewTimer(0)
	tm.Start(time.Unix(0, 0))

	assert.True(t, tm.Untimed())
	assert.False(t, tm.Expired(time.Unix(1<<40, 0)))
}

func TestStoppedTimerHoldsRemaining(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	tm := NewTimer(time.Minute)
	tm.Start(t0)
	tm.Stop(t0.Add(20 * time.Second))

	assert.Equal(t, 40*time.Second, tm.Remaining(t0.Add(time.Hour)))
	assert.False(t, tm.Expired(t0.Add(time.Hour)))
}
