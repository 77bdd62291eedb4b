package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManual_FiresInDueOrder(t *testing.T) {
	clock := NewManual()
	var order []string

	clock.AfterFunc(300*time.Millisecond, func() { order = append(order, "late") })
	clock.AfterFunc(100*time.Millisecond, func() { order = append(order, "early") })
	clock.AfterFunc(100*time.Millisecond, func() { order = append(order, "early-second") })

	clock.Advance(99 * time.Millisecond)
	require.Empty(t, order)

	clock.Advance(time.Millisecond)
	require.Equal(t, []string{"early", "early-second"}, order)

	clock.Advance(time.Second)
	require.Equal(t, []string{"early", "early-second", "late"}, order)
	require.Equal(t, 1100*time.Millisecond, clock.Now())
}

func TestManual_StopPreventsFire(t *testing.T) {
	clock := NewManual()
	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	require.False(t, timer.Stop())
	clock.Advance(2 * time.Second)
	require.False(t, fired)
	require.Zero(t, clock.Pending())
}

func TestManual_TimerArmedDuringAdvance(t *testing.T) {
	clock := NewManual()
	count := 0
	clock.AfterFunc(100*time.Millisecond, func() {
		count++
		clock.AfterFunc(100*time.Millisecond, func() { count++ })
	})

	clock.Advance(250 * time.Millisecond)
	require.Equal(t, 2, count)
}

func TestDebouncer_OnlyLastArmRuns(t *testing.T) {
	clock := NewManual()
	d := NewDebouncer(clock, 2*time.Second)

	var ran []int
	for i := 1; i <= 5; i++ {
		i := i
		d.Arm(func() { ran = append(ran, i) })
		clock.Advance(500 * time.Millisecond)
	}
	require.Empty(t, ran)
	require.True(t, d.Pending())

	clock.Advance(2 * time.Second)
	require.Equal(t, []int{5}, ran)
	require.False(t, d.Pending())
	require.Zero(t, clock.Pending())
}

func TestDebouncer_CancelAndFlush(t *testing.T) {
	clock := NewManual()
	d := NewDebouncer(clock, time.Second)

	ran := 0
	d.Arm(func() { ran++ })
	require.True(t, d.Cancel())
	clock.Advance(time.Second)
	require.Zero(t, ran)
	require.False(t, d.Cancel())

	d.Arm(func() { ran++ })
	require.True(t, d.Flush())
	require.Equal(t, 1, ran)
	clock.Advance(time.Second)
	require.Equal(t, 1, ran, "flushed callback must not fire again")
	require.False(t, d.Flush())
}
