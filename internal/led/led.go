// Package led drives the feedback strip on the drum. The Driver owns the
// per-pad lit state and a dirty flag so the bus is only touched when
// something actually changed; Strip implementations do the transmission.
package led

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB triple, the strip's native format.
type Color struct {
	R, G, B uint8
}

// Off is the color of an unlit region.
var Off = Color{}

// DefaultColors matches the original drum: blue rims, red heads.
var DefaultColors = [4]Color{
	{0, 0, 128},
	{128, 0, 0},
	{128, 0, 0},
	{0, 0, 128},
}

// ParseColor parses a "#rrggbb" hex string.
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Strip is the LED hardware abstraction. SetRegion only stages; Transmit
// is the single operation that touches the physical bus.
type Strip interface {
	// SetRegion stages a color over the inclusive LED range [start, end].
	SetRegion(start, end int, c Color)

	// Transmit pushes all staged regions to the hardware.
	Transmit() error
}
