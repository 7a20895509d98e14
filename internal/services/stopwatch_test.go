package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopwatchStartsPaused(t *testing.T) {
	w := NewStopwatch()

	assert.False(t, w.Running())
	assert.False(t, w.Finished())
	assert.Equal(t, 1, w.Half())
	assert.Equal(t, "00:00", w.Clock())
}

func TestStopwatchStartPause(t *testing.T) {
	w := NewStopwatch()

	require.NoError(t, w.Start())
	assert.True(t, w.Running())

	// Start is idempotent while running.
	require.NoError(t, w.Start())
	assert.True(t, w.Running())

	w.Pause()
	assert.False(t, w.Running())
	elapsed := w.Elapsed()

	// Pause on a paused clock keeps the elapsed value.
	w.Pause()
	assert.Equal(t, elapsed, w.Elapsed())
}

func TestStopwatchSetElapsed(t *testing.T) {
	w := NewStopwatch()

	require.NoError(t, w.SetElapsed(754))
	assert.Equal(t, "12:34", w.Clock())

	assert.Error(t, w.SetElapsed(-1))
	assert.Equal(t, "12:34", w.Clock())
}

func TestStopwatchEndHalf(t *testing.T) {
	w := NewStopwatch()
	require.NoError(t, w.SetElapsed(1800))

	require.NoError(t, w.EndHalf())
	assert.Equal(t, 2, w.Half())
	assert.Equal(t, "00:00", w.Clock())
	assert.False(t, w.Running())

	// Half 2 is a second half, EndHalf does not apply.
	assert.Error(t, w.EndHalf())
}

func TestStopwatchEndPeriodFinishes(t *testing.T) {
	w := NewStopwatch()
	require.NoError(t, w.EndHalf())

	require.NoError(t, w.EndPeriod(false))
	assert.True(t, w.Finished())
	assert.Error(t, w.Start())
	assert.Error(t, w.EndHalf())
	assert.Error(t, w.EndPeriod(true))
}

func TestStopwatchExtensionPeriods(t *testing.T) {
	w := NewStopwatch()

	// Regulation, then both extension periods.
	require.NoError(t, w.EndHalf())
	require.NoError(t, w.EndPeriod(true))
	assert.Equal(t, 3, w.Half())

	require.NoError(t, w.EndHalf())
	require.NoError(t, w.EndPeriod(true))
	assert.Equal(t, 5, w.Half())

	require.NoError(t, w.EndHalf())
	assert.Equal(t, 6, w.Half())

	// No extension after the last half.
	assert.Error(t, w.EndPeriod(true))
	require.NoError(t, w.EndPeriod(false))
	assert.True(t, w.Finished())
}

func TestStopwatchEndPeriodOnFirstHalf(t *testing.T) {
	w := NewStopwatch()

	assert.Error(t, w.EndPeriod(false))
	assert.Error(t, w.EndPeriod(true))
}

func TestStopwatchStamp(t *testing.T) {
	w := NewStopwatch()
	require.NoError(t, w.SetElapsed(754))

	band, exact, half := w.Stamp(30)
	assert.Equal(t, "10~15", band)
	assert.Equal(t, "12:34", exact)
	assert.Equal(t, 1, half)

	require.NoError(t, w.EndHalf())
	require.NoError(t, w.SetElapsed(60))
	band, exact, half = w.Stamp(30)
	assert.Equal(t, "30~35", band)
	assert.Equal(t, "01:00", exact)
	assert.Equal(t, 2, half)
}

func TestStopwatchStampDefaultsHalfDuration(t *testing.T) {
	w := NewStopwatch()
	require.NoError(t, w.EndHalf())
	require.NoError(t, w.SetElapsed(0))

	band, _, _ := w.Stamp(0)
	assert.Equal(t, "30~35", band)
}

func TestStopwatchSnapshotRestore(t *testing.T) {
	w := NewStopwatch()
	require.NoError(t, w.EndHalf())
	require.NoError(t, w.SetElapsed(300))
	w.Finish()

	st := w.Snapshot()
	assert.Equal(t, 300.0, st.Elapsed)
	assert.Equal(t, 2, st.Half)
	assert.True(t, st.Finished)

	restored := RestoreStopwatch(st)
	assert.Equal(t, 2, restored.Half())
	assert.Equal(t, 5*time.Minute, restored.Elapsed())
	assert.True(t, restored.Finished())
	assert.False(t, restored.Running())
}

func TestRestoreStopwatchZeroValue(t *testing.T) {
	restored := RestoreStopwatch(StopwatchState{})

	assert.Equal(t, 1, restored.Half())
	assert.Equal(t, time.Duration(0), restored.Elapsed())
	assert.False(t, restored.Finished())
}

func TestStopwatchFinishPausesClock(t *testing.T) {
	w := NewStopwatch()
	require.NoError(t, w.Start())

	w.Finish()
	assert.False(t, w.Running())
	assert.True(t, w.Finished())
}
