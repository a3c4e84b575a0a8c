package led

import (
	"github.com/sweeney/taiko-sensor/internal/link"
)

// LinkStrip sends staged regions to the drum MCU, which drives the WS2812
// strip. One CmdSetRegions frame goes out per Transmit; the MCU latches
// region colors, so only changed regions need to be carried.
type LinkStrip struct {
	port   link.Port
	staged []link.Region
}

// NewLinkStrip creates a Strip over an open link port.
func NewLinkStrip(port link.Port) *LinkStrip {
	return &LinkStrip{port: port}
}

// SetRegion stages a region color. Re-staging the same range before a
// transmit replaces the earlier color instead of queueing both.
func (s *LinkStrip) SetRegion(start, end int, c Color) {
	r := link.Region{Start: byte(start), End: byte(end), R: c.R, G: c.G, B: c.B}
	for i, prev := range s.staged {
		if prev.Start == r.Start && prev.End == r.End {
			s.staged[i] = r
			return
		}
	}
	s.staged = append(s.staged, r)
}

// Transmit sends all staged regions in one frame and clears the stage.
func (s *LinkStrip) Transmit() error {
	if len(s.staged) == 0 {
		return nil
	}
	if err := s.port.WriteFrame(link.CmdSetRegions, link.SetRegionsPayload(s.staged)); err != nil {
		return err
	}
	s.staged = s.staged[:0]
	return nil
}
