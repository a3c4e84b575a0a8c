package hit

import (
	"testing"
	"time"
)

func TestNewTrackerStartsDone(t *testing.T) {
	tr := NewTracker[int](5 * time.Millisecond)
	if tr.Active() {
		t.Error("new tracker should not be active")
	}
	if !tr.Done() {
		t.Error("new tracker should be done")
	}
}

func TestTrackStartsWindow(t *testing.T) {
	tr := NewTracker[int](5 * time.Millisecond)

	tr.Track([NumButtons]int{1, 0, 0, 0})
	if !tr.Active() {
		t.Error("tracker should be active after Track on a done tracker")
	}
	if tr.remaining != 5*time.Millisecond {
		t.Errorf("expected full window remaining, got %v", tr.remaining)
	}
}

func TestTrackDoesNotExtendActiveWindow(t *testing.T) {
	tr := NewTracker[int](5 * time.Millisecond)

	tr.Track([NumButtons]int{1, 0, 0, 0})
	tr.Update(2 * time.Millisecond)

	// A second Track while the window is open must not restart the timer.
	tr.Track([NumButtons]int{9, 0, 0, 0})
	if tr.remaining != 3*time.Millisecond {
		t.Errorf("expected 3ms remaining after mid-window Track, got %v", tr.remaining)
	}
}

func TestTrackMaxHold(t *testing.T) {
	tr := NewTracker[int](5 * time.Millisecond)

	tr.Track([NumButtons]int{10, 3, 2, 1})
	tr.Track([NumButtons]int{4, 7, 1, 0})

	// Pad 0 keeps its earlier peak, pad 1 takes the new higher reading.
	if got := tr.MaxIndex(); got != 0 {
		t.Errorf("expected max index 0, got %d", got)
	}
	if got := tr.MaxValue(); got != 10 {
		t.Errorf("expected max value 10, got %d", got)
	}
	if tr.counters[1] != 7 {
		t.Errorf("expected pad 1 counter 7, got %d", tr.counters[1])
	}
}

func TestUpdateFloorsAtZero(t *testing.T) {
	tr := NewTracker[int](5 * time.Millisecond)

	tr.Track([NumButtons]int{1, 0, 0, 0})
	tr.Update(time.Hour)
	if tr.remaining != 0 {
		t.Errorf("expected remaining floored at 0, got %v", tr.remaining)
	}
	if tr.Active() {
		t.Error("tracker should be done after oversized delta")
	}
}

func TestActiveDoneComplementary(t *testing.T) {
	tr := NewTracker[int](5 * time.Millisecond)

	steps := []time.Duration{0, time.Millisecond, 2 * time.Millisecond, 10 * time.Millisecond}
	tr.Track([NumButtons]int{3, 0, 0, 0})
	for i, dt := range steps {
		tr.Update(dt)
		if tr.Active() == tr.Done() {
			t.Errorf("step %d: Active and Done must be complementary", i)
		}
		if tr.Active() != (tr.remaining > 0) {
			t.Errorf("step %d: Active must match remaining > 0", i)
		}
	}
}

func TestMaxIndexTieResolvesToLowest(t *testing.T) {
	tr := NewTracker[int](5 * time.Millisecond)

	tr.Track([NumButtons]int{5, 5, 2, 0})
	if got := tr.MaxIndex(); got != 0 {
		t.Errorf("tie should resolve to lowest index, got %d", got)
	}

	tr.Reset()
	tr.Track([NumButtons]int{0, 4, 4, 4})
	if got := tr.MaxIndex(); got != 1 {
		t.Errorf("tie should resolve to lowest index, got %d", got)
	}
}

func TestReset(t *testing.T) {
	tr := NewTracker[int](5 * time.Millisecond)

	tr.Track([NumButtons]int{9, 8, 7, 6})
	tr.Reset()

	if tr.Active() {
		t.Error("tracker should be done immediately after Reset")
	}
	if got := tr.MaxValue(); got != 0 {
		t.Errorf("expected counters zeroed, max value %d", got)
	}

	// The next Track starts a fresh window.
	tr.Track([NumButtons]int{2, 0, 0, 0})
	if !tr.Active() {
		t.Error("Track after Reset should start a new window")
	}
	if got := tr.MaxValue(); got != 2 {
		t.Errorf("expected fresh counters, max value %d", got)
	}
}

func TestTrackerFloatValues(t *testing.T) {
	tr := NewTracker[float64](15 * time.Millisecond)

	tr.Track([NumButtons]float64{0.5, 4.2, 1.0, 3.3})
	if got := tr.MaxIndex(); got != 1 {
		t.Errorf("expected max index 1, got %d", got)
	}
	if got := tr.MaxValue(); got != 4.2 {
		t.Errorf("expected max value 4.2, got %v", got)
	}
}
