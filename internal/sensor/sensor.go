// Package sensor provides the four-pad intensity source with hardware
// abstraction. The real implementation decodes frames from the drum MCU's
// serial link; the fake allows testing without hardware.
package sensor

import (
	"time"

	"github.com/sweeney/taiko-sensor/internal/hit"
)

// Reading is one frame of simultaneous pad intensities plus the elapsed
// time since the previous frame, as measured by the MCU's clock.
type Reading struct {
	Values [hit.NumButtons]int
	Delta  time.Duration
}

// Reader yields sensor readings.
type Reader interface {
	// Read blocks until the next reading is available.
	Read() (Reading, error)

	// Close releases the underlying source.
	Close() error
}
