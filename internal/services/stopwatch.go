package services

import (
	"fmt"
	"time"

	"github.com/courtlog/handball-tracker/internal/handball"
)

// StopwatchState is the persisted snapshot of the match clock, stored
// under "_stopwatch" in the session payload.
type StopwatchState struct {
	Elapsed  float64 `json:"elapsed"` // seconds into the current half
	Half     int     `json:"half"`
	Finished bool    `json:"finished"`
}

// Stopwatch tracks elapsed time within the current half. It is not
// self-locking: the owning live match serializes access, matching the
// single-operator model of the rest of the session.
//
// Halves 1 and 2 are regulation; 3/4 and 5/6 are the two extension
// periods.
type Stopwatch struct {
	elapsed   time.Duration
	half      int
	running   bool
	finished  bool
	startedAt time.Time
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{half: 1}
}

func (w *Stopwatch) Running() bool  { return w.running }
func (w *Stopwatch) Finished() bool { return w.finished }
func (w *Stopwatch) Half() int      { return w.half }

// Elapsed returns time into the current half, including the running
// segment.
func (w *Stopwatch) Elapsed() time.Duration {
	if w.running {
		return w.elapsed + time.Since(w.startedAt)
	}
	return w.elapsed
}

// Clock renders the current half time as "MM:SS".
func (w *Stopwatch) Clock() string {
	return handball.FormatClock(int(w.Elapsed().Seconds()))
}

func (w *Stopwatch) Start() error {
	if w.finished {
		return fmt.Errorf("match already finished")
	}
	if w.running {
		return nil
	}
	w.running = true
	w.startedAt = time.Now()
	return nil
}

func (w *Stopwatch) Pause() {
	if !w.running {
		return
	}
	w.elapsed += time.Since(w.startedAt)
	w.running = false
}

// SetElapsed corrects the clock, keeping the running segment anchored
// to the new value.
func (w *Stopwatch) SetElapsed(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("elapsed time cannot be negative")
	}
	w.elapsed = time.Duration(seconds) * time.Second
	if w.running {
		w.startedAt = time.Now()
	}
	return nil
}

// EndHalf closes the first half of the current period: regulation half
// 1, or the first half of an extension. The clock pauses and resets
// for the second half.
func (w *Stopwatch) EndHalf() error {
	if w.finished {
		return fmt.Errorf("match already finished")
	}
	if w.half%2 == 0 {
		return fmt.Errorf("half %d is a second half", w.half)
	}
	w.Pause()
	w.half++
	w.elapsed = 0
	return nil
}

// EndPeriod closes the second half of the current period. With
// goExtension the match continues into the next extension period;
// otherwise it finishes. The last extension cannot be extended.
func (w *Stopwatch) EndPeriod(goExtension bool) error {
	if w.finished {
		return fmt.Errorf("match already finished")
	}
	if w.half%2 != 0 {
		return fmt.Errorf("half %d is a first half", w.half)
	}
	w.Pause()
	if goExtension {
		if w.half >= 6 {
			return fmt.Errorf("no further extension after half %d", w.half)
		}
		w.half++
		w.elapsed = 0
		return nil
	}
	w.finished = true
	return nil
}

// Finish force-ends the match regardless of the current half.
func (w *Stopwatch) Finish() {
	w.Pause()
	w.finished = true
}

// Stamp captures the timing context for an event commit.
func (w *Stopwatch) Stamp(halfDuration int) (band, exact string, half int) {
	secs := int(w.Elapsed().Seconds())
	if halfDuration <= 0 {
		halfDuration = 30
	}
	return handball.TimeBandAt(secs, w.half, halfDuration), handball.FormatClock(secs), w.half
}

// Snapshot freezes the clock for persistence.
func (w *Stopwatch) Snapshot() StopwatchState {
	return StopwatchState{
		Elapsed:  w.Elapsed().Seconds(),
		Half:     w.half,
		Finished: w.finished,
	}
}

// RestoreStopwatch rebuilds a paused clock from a persisted snapshot.
func RestoreStopwatch(st StopwatchState) *Stopwatch {
	w := NewStopwatch()
	if st.Half > 0 {
		w.half = st.Half
	}
	w.elapsed = time.Duration(st.Elapsed * float64(time.Second))
	w.finished = st.Finished
	return w
}
