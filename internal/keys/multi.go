package keys

// MultiEmitter fans out every event to several backends, so a deployment
// can drive the virtual keyboard and a MIDI synth at the same time.
type MultiEmitter []Emitter

// KeyDown forwards to every backend. All backends are attempted; the
// first error is returned.
func (m MultiEmitter) KeyDown(button int, value float64) error {
	var firstErr error
	for _, e := range m {
		if err := e.KeyDown(button, value); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// KeyUp forwards to every backend.
func (m MultiEmitter) KeyUp(button int) error {
	var firstErr error
	for _, e := range m {
		if err := e.KeyUp(button); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every backend.
func (m MultiEmitter) Close() error {
	var firstErr error
	for _, e := range m {
		if err := e.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
