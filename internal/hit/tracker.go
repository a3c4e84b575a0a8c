package hit

import "time"

// Tracker accumulates a running maximum of each pad's readings while a
// time-bounded active window is open. One Tracker instance covers all four
// pads of a frame; the window is shared because a single strike excites
// several sensors at once and must resolve to a single winner.
type Tracker[T Value] struct {
	counters  [NumButtons]T
	remaining time.Duration
	window    time.Duration
}

// NewTracker creates a Tracker with the given active-window duration.
// The tracker starts in the done state.
func NewTracker[T Value](window time.Duration) *Tracker[T] {
	return &Tracker[T]{window: window}
}

// Track folds a frame of readings into the per-pad maximums (max-hold: a
// higher value seen earlier in the window is never forgotten). If the
// tracker was done, the call starts the active window. A call on an
// already-active tracker does NOT extend the window, so a sustained
// vibration cannot prolong detection indefinitely.
func (t *Tracker[T]) Track(values [NumButtons]T) {
	for i, v := range values {
		if v > t.counters[i] {
			t.counters[i] = v
		}
	}
	if t.remaining == 0 {
		t.remaining = t.window
	}
}

// Update ages the active window by dt, flooring at zero. dt must be
// non-negative and reflect actual elapsed time so the window stays
// calibrated to wall time regardless of the sampling rate.
func (t *Tracker[T]) Update(dt time.Duration) {
	t.remaining -= dt
	if t.remaining < 0 {
		t.remaining = 0
	}
}

// Active reports whether the tracker is inside an open window.
func (t *Tracker[T]) Active() bool {
	return t.remaining > 0
}

// Done reports whether the window has elapsed (or never started).
func (t *Tracker[T]) Done() bool {
	return !t.Active()
}

// MaxIndex returns the pad with the highest accumulated value. Ties resolve
// to the lowest index: the scan only moves on a strictly greater value.
func (t *Tracker[T]) MaxIndex() int {
	maxIdx := 0
	maxVal := t.counters[0]
	for i := 1; i < NumButtons; i++ {
		if t.counters[i] > maxVal {
			maxVal = t.counters[i]
			maxIdx = i
		}
	}
	return maxIdx
}

// MaxValue returns the highest accumulated value across all pads.
func (t *Tracker[T]) MaxValue() T {
	maxVal := t.counters[0]
	for i := 1; i < NumButtons; i++ {
		if t.counters[i] > maxVal {
			maxVal = t.counters[i]
		}
	}
	return maxVal
}

// Reset zeroes the counters and the window timer. The tracker is
// immediately done; the next Track call starts a fresh window.
func (t *Tracker[T]) Reset() {
	t.counters = [NumButtons]T{}
	t.remaining = 0
}
