package keys

// Emission records one KeyDown call.
type Emission struct {
	Button int
	Value  float64
}

// FakeEmitter records emissions for test assertions.
type FakeEmitter struct {
	// Downs contains every KeyDown call in order.
	Downs []Emission

	// Ups contains the button of every KeyUp call in order.
	Ups []int

	// DownError, if set, is returned by KeyDown.
	DownError error

	// UpError, if set, is returned by KeyUp.
	UpError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeEmitter creates a FakeEmitter for testing.
func NewFakeEmitter() *FakeEmitter {
	return &FakeEmitter{}
}

// KeyDown records the emission.
func (f *FakeEmitter) KeyDown(button int, value float64) error {
	if f.DownError != nil {
		return f.DownError
	}
	f.Downs = append(f.Downs, Emission{Button: button, Value: value})
	return nil
}

// KeyUp records the emission.
func (f *FakeEmitter) KeyUp(button int) error {
	if f.UpError != nil {
		return f.UpError
	}
	f.Ups = append(f.Ups, button)
	return nil
}

// Close marks the emitter as closed.
func (f *FakeEmitter) Close() error {
	f.Closed = true
	return nil
}
