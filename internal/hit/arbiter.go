package hit

import "time"

// arbiterState is the explicit window state machine. Modelling the
// active→done edge as a state transition (rather than comparing Active()
// before and after every Update) is what makes the at-most-one-hit-per-
// window guarantee direct: the press decision happens exactly once, on the
// tracking→idle transition.
type arbiterState int

const (
	stateIdle arbiterState = iota
	stateTracking
)

// Arbiter feeds sensor frames into a Tracker and decides, once per
// completed window, which single pad (if any) was really hit. A resolved
// press is followed by exactly one release after the hold duration, so a
// consumer sees clean down/up pairs.
type Arbiter[T Value] struct {
	tracker   *Tracker[T]
	threshold T
	hold      time.Duration

	state arbiterState
	holds [NumButtons]time.Duration
	hits  Counts
}

// NewArbiter creates an Arbiter.
//
// window is the active-window duration: how long readings accumulate before
// a winner is picked. threshold is the minimum winning magnitude; windows
// that never reach it are discarded as noise. hold is how long a resolved
// press is held before the matching release is emitted.
func NewArbiter[T Value](window, hold time.Duration, threshold T) *Arbiter[T] {
	return &Arbiter[T]{
		tracker:   NewTracker[T](window),
		threshold: threshold,
		hold:      hold,
	}
}

// Process consumes one frame of readings and the elapsed time since the
// previous frame, and returns the press/release decisions for this tick.
// Releases for expired holds are ordered before a press resolved in the
// same tick.
//
// An all-zero frame does not open a window; a silent drum stays idle.
func (a *Arbiter[T]) Process(values [NumButtons]T, dt time.Duration) []Event {
	var events []Event

	// Age hold countdowns first so a pad released and re-hit in the same
	// tick emits the release before the new press.
	for i := range a.holds {
		if a.holds[i] == 0 {
			continue
		}
		a.holds[i] -= dt
		if a.holds[i] <= 0 {
			a.holds[i] = 0
			events = append(events, Event{Type: EventRelease, Button: i})
		}
	}

	if anyNonZero(values) {
		a.tracker.Track(values)
		if a.state == stateIdle && a.tracker.Active() {
			a.state = stateTracking
		}
	}
	a.tracker.Update(dt)

	if a.state == stateTracking && a.tracker.Done() {
		// Window just elapsed: resolve at most one winner, then reset so
		// the next reading starts a fresh window.
		if a.tracker.MaxValue() >= a.threshold {
			button := a.tracker.MaxIndex()
			events = append(events, Event{
				Type:   EventPress,
				Button: button,
				Value:  float64(a.tracker.MaxValue()),
			})
			// A press on a pad already holding restarts its hold; the
			// earlier press still gets exactly one release.
			a.holds[button] = a.hold
			a.hits[button]++
		}
		a.tracker.Reset()
		a.state = stateIdle
	}

	return events
}

// Tracking reports whether a window is currently open.
func (a *Arbiter[T]) Tracking() bool {
	return a.state == stateTracking
}

// Holding reports whether the given pad has a release pending.
func (a *Arbiter[T]) Holding(button int) bool {
	return a.holds[button] > 0
}

// HitCounts returns the number of resolved hits per pad since startup.
func (a *Arbiter[T]) HitCounts() Counts {
	return a.hits
}

func anyNonZero[T Value](values [NumButtons]T) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}
