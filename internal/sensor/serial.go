package sensor

import (
	"time"

	"github.com/sweeney/taiko-sensor/internal/link"
)

// LinkReader reads sensor frames from the MCU link. Frames with other
// commands or malformed payloads are skipped; the link carries LED traffic
// in the opposite direction only, so anything unexpected here is firmware
// noise. Only I/O errors from the port itself are returned.
type LinkReader struct {
	port link.Port

	malformed int
}

// NewLinkReader creates a Reader over an open link port.
func NewLinkReader(port link.Port) *LinkReader {
	return &LinkReader{port: port}
}

// Read blocks until the next sensor frame arrives and decodes it.
func (r *LinkReader) Read() (Reading, error) {
	for {
		frame, err := r.port.ReadFrame()
		if err != nil {
			return Reading{}, err
		}
		if frame.Cmd != link.CmdSensorData {
			continue
		}
		data, err := link.DecodeSensorData(frame.Payload)
		if err != nil {
			// Checksum-valid but wrong-length payload. Dropping one frame
			// costs a couple of milliseconds of readings; killing the
			// stream would cost the session.
			r.malformed++
			continue
		}
		var reading Reading
		for i, v := range data.Values {
			reading.Values[i] = int(v)
		}
		reading.Delta = time.Duration(data.DeltaMicros) * time.Microsecond
		return reading, nil
	}
}

// Malformed returns the number of sensor frames skipped because their
// payload did not decode.
func (r *LinkReader) Malformed() int {
	return r.malformed
}

// Close closes the underlying port.
func (r *LinkReader) Close() error {
	return r.port.Close()
}
