package led

// StagedRegion records one SetRegion call.
type StagedRegion struct {
	Start, End int
	Color      Color
}

// FakeStrip records staged regions and transmissions for test assertions.
type FakeStrip struct {
	// Staged contains every SetRegion call in order.
	Staged []StagedRegion

	// Transmits counts Transmit calls.
	Transmits int

	// TransmitError, if set, is returned by Transmit.
	TransmitError error
}

// NewFakeStrip creates a FakeStrip for testing.
func NewFakeStrip() *FakeStrip {
	return &FakeStrip{}
}

// SetRegion records the staging call.
func (f *FakeStrip) SetRegion(start, end int, c Color) {
	f.Staged = append(f.Staged, StagedRegion{Start: start, End: end, Color: c})
}

// Transmit counts the transmission.
func (f *FakeStrip) Transmit() error {
	if f.TransmitError != nil {
		return f.TransmitError
	}
	f.Transmits++
	return nil
}

// LastFor returns the most recently staged color for the given range and
// whether one exists.
func (f *FakeStrip) LastFor(start, end int) (Color, bool) {
	for i := len(f.Staged) - 1; i >= 0; i-- {
		if f.Staged[i].Start == start && f.Staged[i].End == end {
			return f.Staged[i].Color, true
		}
	}
	return Color{}, false
}
