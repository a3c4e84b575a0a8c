package link

import "errors"

// ErrNoFrames is returned by FakePort.ReadFrame when the script runs out.
var ErrNoFrames = errors.New("no frames configured")

// FakePort is a test double that returns scripted inbound frames and
// records every outbound frame.
type FakePort struct {
	// Frames contains scripted inbound frames. Each ReadFrame call
	// consumes the next one; when exhausted, ReadFrame returns ErrNoFrames.
	Frames []Frame

	// Written contains every frame passed to WriteFrame.
	Written []Frame

	// ReadError, if set, is returned by ReadFrame.
	ReadError error

	// WriteError, if set, is returned by WriteFrame.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool

	index int
}

// NewFakePort creates a FakePort with the given inbound script.
func NewFakePort(frames []Frame) *FakePort {
	return &FakePort{Frames: frames}
}

// ReadFrame returns the next scripted frame.
func (f *FakePort) ReadFrame() (Frame, error) {
	if f.ReadError != nil {
		return Frame{}, f.ReadError
	}
	if f.index >= len(f.Frames) {
		return Frame{}, ErrNoFrames
	}
	fr := f.Frames[f.index]
	f.index++
	return fr, nil
}

// WriteFrame records the outbound frame.
func (f *FakePort) WriteFrame(cmd byte, payload []byte) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Written = append(f.Written, Frame{Cmd: cmd, Payload: append([]byte(nil), payload...)})
	return nil
}

// Close marks the port as closed.
func (f *FakePort) Close() error {
	f.Closed = true
	return nil
}
