// Package gpio reads the drum's function button with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the function button state.
type Reader interface {
	// Read returns whether the button is currently held.
	// The raw GPIO value is inverted: the button pulls the line to ground,
	// so raw low = pressed.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultPinButton is the function button pin (BCM numbering).
const DefaultPinButton = 26
