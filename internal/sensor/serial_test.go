package sensor

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/taiko-sensor/internal/link"
)

func sensorFrame(values [link.NumSensors]uint16, deltaMicros uint32) link.Frame {
	payload := link.SensorDataPayload(link.SensorData{Values: values, DeltaMicros: deltaMicros})
	return link.Frame{Cmd: link.CmdSensorData, Payload: payload}
}

func TestLinkReaderDecodesSensorFrames(t *testing.T) {
	port := link.NewFakePort([]link.Frame{
		sensorFrame([link.NumSensors]uint16{193, 187, 193, 196}, 980),
	})
	r := NewLinkReader(port)

	reading, err := r.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [4]int{193, 187, 193, 196}
	if reading.Values != want {
		t.Errorf("values: got %v, want %v", reading.Values, want)
	}
	if reading.Delta != 980*time.Microsecond {
		t.Errorf("delta: got %v, want 980µs", reading.Delta)
	}
}

func TestLinkReaderSkipsOtherCommands(t *testing.T) {
	port := link.NewFakePort([]link.Frame{
		{Cmd: 0x7F, Payload: []byte{1, 2, 3}},
		sensorFrame([link.NumSensors]uint16{10, 0, 0, 0}, 1000),
	})
	r := NewLinkReader(port)

	reading, err := r.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.Values[0] != 10 {
		t.Errorf("expected the sensor frame after the foreign command, got %v", reading.Values)
	}
}

func TestLinkReaderSkipsTruncatedPayload(t *testing.T) {
	// A truncated sensor payload must not end the stream: the next good
	// frame still comes through, and the skip is counted.
	port := link.NewFakePort([]link.Frame{
		{Cmd: link.CmdSensorData, Payload: []byte{1, 2, 3}},
		sensorFrame([link.NumSensors]uint16{42, 0, 0, 0}, 2000),
	})
	r := NewLinkReader(port)

	reading, err := r.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.Values[0] != 42 {
		t.Errorf("expected the good frame after the truncated one, got %v", reading.Values)
	}
	if r.Malformed() != 1 {
		t.Errorf("malformed count: got %d, want 1", r.Malformed())
	}
}

func TestLinkReaderReturnsPortErrors(t *testing.T) {
	port := link.NewFakePort(nil)
	port.ReadError = errors.New("device gone")
	r := NewLinkReader(port)

	if _, err := r.Read(); err == nil {
		t.Error("expected I/O error from the port to propagate")
	}
}

func TestLinkReaderClose(t *testing.T) {
	port := link.NewFakePort(nil)
	r := NewLinkReader(port)

	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !port.Closed {
		t.Error("expected underlying port closed")
	}
}

func TestFakeReaderRepeatsLastReading(t *testing.T) {
	f := NewFakeReader([]Reading{
		{Values: [4]int{1, 0, 0, 0}, Delta: time.Millisecond},
		{Values: [4]int{2, 0, 0, 0}, Delta: time.Millisecond},
	})

	for i, want := range []int{1, 2, 2, 2} {
		r, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if r.Values[0] != want {
			t.Errorf("read %d: got %d, want %d", i, r.Values[0], want)
		}
	}
}
