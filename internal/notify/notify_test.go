package notify

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_RaisesAndExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	toaster := NewToaster(clock, 0, nil)

	toast := toaster.Error("failed to fetch user info")

	assert.NotEmpty(t, toast.ID)
	assert.Equal(t, LevelError, toast.Level)
	assert.Equal(t, clock.Now().Add(DefaultTTL), toast.ExpiresAt)
	require.Len(t, toaster.Active(), 1)

	clock.Advance(DefaultTTL - time.Millisecond)
	assert.Len(t, toaster.Active(), 1)

	clock.Advance(time.Millisecond)
	assert.Empty(t, toaster.Active())
}

func TestNotify_OrderAndLevels(t *testing.T) {
	clock := clockwork.NewFakeClock()
	toaster := NewToaster(clock, time.Second, nil)

	toaster.Success("a")
	clock.Advance(500 * time.Millisecond)
	toaster.Info("b")
	toaster.Warning("c")

	active := toaster.Active()
	require.Len(t, active, 3)
	assert.Equal(t, []Level{LevelSuccess, LevelInfo, LevelWarning},
		[]Level{active[0].Level, active[1].Level, active[2].Level})

	clock.Advance(600 * time.Millisecond)
	active = toaster.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "b", active[0].Message)
}

func TestNotify_Sink(t *testing.T) {
	var got []Toast
	toaster := NewToaster(clockwork.NewFakeClock(), 0, func(t Toast) { got = append(got, t) })

	toast := toaster.Warning("no posts available yet")

	require.Len(t, got, 1)
	assert.Equal(t, toast, got[0])
}

func TestDismiss(t *testing.T) {
	toaster := NewToaster(clockwork.NewFakeClock(), 0, nil)
	first := toaster.Info("one")
	toaster.Info("two")

	assert.True(t, toaster.Dismiss(first.ID))
	assert.False(t, toaster.Dismiss(first.ID))

	active := toaster.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "two", active[0].Message)
}

func TestActiveReturnsCopy(t *testing.T) {
	toaster := NewToaster(clockwork.NewFakeClock(), 0, nil)
	toaster.Info("one")

	active := toaster.Active()
	active[0].Message = "changed"

	assert.Equal(t, "one", toaster.Active()[0].Message)
}
