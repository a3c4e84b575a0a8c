package link

// Port is a framed, bidirectional connection to the drum MCU.
// The real implementation runs over a serial device; the fake allows
// testing without hardware.
//
// ReadFrame and WriteFrame operate on independent directions of the port
// and may be called from different goroutines, but each direction has a
// single owner: one reader, one writer.
type Port interface {
	// ReadFrame blocks until the next complete, checksum-valid frame.
	ReadFrame() (Frame, error)

	// WriteFrame encodes and transmits one frame.
	WriteFrame(cmd byte, payload []byte) error

	// Close releases the underlying device.
	Close() error
}
