// Package keys converts hit decisions into idempotent key press/release
// calls. Emission backends (virtual keyboard, MIDI) are abstracted so the
// debounce state machine can be tested without hardware.
package keys

import "github.com/sweeney/taiko-sensor/internal/hit"

// DefaultBinding is the keyboard layout of the four pads, left rim to right
// rim. Matches the usual taiko game bindings.
var DefaultBinding = [hit.NumButtons]string{"d", "f", "j", "k"}

// Emitter sends key-down and key-up events to some output device.
// Implementations must be safe to call in any down/up sequence the
// Debouncer produces; the Debouncer guarantees alternation per button.
type Emitter interface {
	// KeyDown emits a down event for the given pad. value is the hit
	// magnitude; backends that carry velocity (MIDI) scale it, others
	// ignore it.
	KeyDown(button int, value float64) error

	// KeyUp emits an up event for the given pad.
	KeyUp(button int) error

	// Close releases the output device.
	Close() error
}

// StateSink receives lit-state changes for visual feedback.
type StateSink interface {
	SetButtonState(button int, pressed bool)
}

// Debouncer tracks which pads are held and suppresses duplicate
// emissions: pressing a held pad or releasing an idle pad is a no-op that
// reaches neither the emitter nor the feedback sink.
type Debouncer struct {
	down     [hit.NumButtons]bool
	emitter  Emitter
	feedback StateSink // may be nil
}

// NewDebouncer creates a Debouncer. feedback may be nil when the deployment
// has no LEDs.
func NewDebouncer(emitter Emitter, feedback StateSink) *Debouncer {
	return &Debouncer{emitter: emitter, feedback: feedback}
}

// Press marks the pad down and emits a key-down. Idempotent: a second
// Press without an intervening Release does nothing.
func (d *Debouncer) Press(button int, value float64) error {
	if d.down[button] {
		return nil
	}
	d.down[button] = true
	if d.feedback != nil {
		d.feedback.SetButtonState(button, true)
	}
	return d.emitter.KeyDown(button, value)
}

// Release marks the pad up and emits a key-up. Idempotent.
func (d *Debouncer) Release(button int) error {
	if !d.down[button] {
		return nil
	}
	d.down[button] = false
	if d.feedback != nil {
		d.feedback.SetButtonState(button, false)
	}
	return d.emitter.KeyUp(button)
}

// ReleaseAll releases every held pad. Used on mode resets and shutdown;
// safe when some or all pads are already up. The first emitter error is
// returned, but every pad is released regardless.
func (d *Debouncer) ReleaseAll() error {
	var firstErr error
	for i := 0; i < hit.NumButtons; i++ {
		if err := d.Release(i); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Pressed reports whether the pad is currently held. Pure query.
func (d *Debouncer) Pressed(button int) bool {
	return d.down[button]
}
