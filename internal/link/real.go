package link

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// DefaultBaud matches the rate the drum firmware configures.
const DefaultBaud = 115200

// SerialPort is a Port over a real serial device.
type SerialPort struct {
	port    serial.Port
	decoder Decoder
	readBuf [256]byte
	pending []byte
}

// OpenSerial opens the named serial device at the given baud rate.
func OpenSerial(device string, baud int) (*SerialPort, error) {
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	return &SerialPort{port: p}, nil
}

// ReadFrame blocks until the next valid frame arrives. Checksum failures
// and garbage bytes are skipped silently; the decoder counts them.
func (s *SerialPort) ReadFrame() (Frame, error) {
	for {
		for len(s.pending) > 0 {
			b := s.pending[0]
			s.pending = s.pending[1:]
			if f := s.decoder.Feed(b); f != nil {
				return *f, nil
			}
		}

		n, err := s.port.Read(s.readBuf[:])
		if err != nil {
			return Frame{}, fmt.Errorf("serial read: %w", err)
		}
		if n == 0 {
			return Frame{}, io.EOF
		}
		s.pending = s.readBuf[:n]
	}
}

// WriteFrame encodes and writes one frame to the device.
func (s *SerialPort) WriteFrame(cmd byte, payload []byte) error {
	data := Encode(cmd, payload)
	if _, err := s.port.Write(data); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

// Close closes the underlying serial port.
func (s *SerialPort) Close() error {
	return s.port.Close()
}
