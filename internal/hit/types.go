// Package hit contains the pure hit-detection logic for the controller.
// This package has NO hardware dependencies (no serial, uinput, MQTT, or
// time.Sleep). Time only advances through the deltas passed in by the caller.
package hit

// NumButtons is the number of pads on the drum. The topology is fixed;
// button indices are always in [0, NumButtons).
const NumButtons = 4

// Value is the numeric type of a sensor intensity. The ADC on the drum
// reports integers, but the tracker also works on floats so a deployment
// can apply per-pad sensitivity scaling before detection.
type Value interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// EventType distinguishes press and release decisions from the arbiter.
type EventType string

const (
	EventPress   EventType = "PRESS"
	EventRelease EventType = "RELEASE"
)

// Event is a single press or release decision for one button.
type Event struct {
	Type   EventType
	Button int
	// Value is the winning magnitude of the window that produced a press.
	// Zero for releases.
	Value float64
}

// Counts tracks resolved hits per button since startup.
type Counts [NumButtons]int
