// Package link implements the serial wire protocol shared with the drum's
// microcontroller. The MCU streams sensor frames to the host; the host sends
// LED region frames back on the same port.
//
// Every frame has the layout
//
//	[SOF0][SOF1][LEN][CMD][payload...][CKS]
//
// where LEN counts CMD plus payload bytes and CKS is the XOR of LEN, CMD and
// every payload byte. The decoder resynchronizes on the start-of-frame pair,
// so garbage between frames (or joining a stream mid-frame) only costs the
// bytes until the next SOF.
package link

import (
	"encoding/binary"
	"fmt"
)

const (
	SOF0 = 0xAA
	SOF1 = 0x55

	// CmdSensorData is MCU→host: four uint16 pad intensities plus a uint32
	// elapsed-time delta in microseconds, all little-endian.
	CmdSensorData = 0x01

	// CmdSetRegions is host→MCU: a count byte followed by count regions of
	// (start, end, r, g, b).
	CmdSetRegions = 0x20
)

const (
	// NumSensors is the number of pad intensities in a sensor frame.
	NumSensors = 4

	sensorPayloadLen = NumSensors*2 + 4
	regionEntryLen   = 5

	// maxPayload bounds LEN so a corrupt length byte cannot make the
	// decoder swallow the stream.
	maxPayload = 255
)

// Frame is one decoded message.
type Frame struct {
	Cmd     byte
	Payload []byte
}

// SensorData is the decoded payload of a CmdSensorData frame.
type SensorData struct {
	Values      [NumSensors]uint16
	DeltaMicros uint32
}

// Region is one LED region entry of a CmdSetRegions frame. Start and End
// are inclusive physical LED indices.
type Region struct {
	Start, End byte
	R, G, B    byte
}

// Encode builds the on-wire representation of a frame.
func Encode(cmd byte, payload []byte) []byte {
	length := byte(len(payload) + 1) // +1 for CMD
	cks := length ^ cmd
	for _, b := range payload {
		cks ^= b
	}

	out := make([]byte, 0, len(payload)+5)
	out = append(out, SOF0, SOF1, length, cmd)
	out = append(out, payload...)
	out = append(out, cks)
	return out
}

// SensorDataPayload serializes a CmdSensorData payload. The host never
// sends these; it exists for MCU simulators and tests.
func SensorDataPayload(d SensorData) []byte {
	payload := make([]byte, sensorPayloadLen)
	for i, v := range d.Values {
		binary.LittleEndian.PutUint16(payload[i*2:], v)
	}
	binary.LittleEndian.PutUint32(payload[NumSensors*2:], d.DeltaMicros)
	return payload
}

// EncodeSensorData builds a full CmdSensorData frame.
func EncodeSensorData(d SensorData) []byte {
	return Encode(CmdSensorData, SensorDataPayload(d))
}

// DecodeSensorData parses a CmdSensorData payload.
func DecodeSensorData(payload []byte) (SensorData, error) {
	if len(payload) != sensorPayloadLen {
		return SensorData{}, fmt.Errorf("sensor payload: got %d bytes, want %d", len(payload), sensorPayloadLen)
	}
	var d SensorData
	for i := range d.Values {
		d.Values[i] = binary.LittleEndian.Uint16(payload[i*2:])
	}
	d.DeltaMicros = binary.LittleEndian.Uint32(payload[NumSensors*2:])
	return d, nil
}

// SetRegionsPayload serializes a CmdSetRegions payload.
func SetRegionsPayload(regions []Region) []byte {
	payload := make([]byte, 0, 1+len(regions)*regionEntryLen)
	payload = append(payload, byte(len(regions)))
	for _, r := range regions {
		payload = append(payload, r.Start, r.End, r.R, r.G, r.B)
	}
	return payload
}

// EncodeSetRegions builds a full CmdSetRegions frame.
func EncodeSetRegions(regions []Region) []byte {
	return Encode(CmdSetRegions, SetRegionsPayload(regions))
}

// DecodeSetRegions parses a CmdSetRegions payload. The host never receives
// these; it exists for MCU simulators and tests.
func DecodeSetRegions(payload []byte) ([]Region, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("regions payload: empty")
	}
	n := int(payload[0])
	if len(payload) != 1+n*regionEntryLen {
		return nil, fmt.Errorf("regions payload: got %d bytes, want %d for %d regions", len(payload), 1+n*regionEntryLen, n)
	}
	regions := make([]Region, n)
	for i := range regions {
		e := payload[1+i*regionEntryLen:]
		regions[i] = Region{Start: e[0], End: e[1], R: e[2], G: e[3], B: e[4]}
	}
	return regions, nil
}

// decodeState is the byte-at-a-time decoder state.
type decodeState int

const (
	waitSOF0 decodeState = iota
	waitSOF1
	waitLen
	waitCmd
	waitPayload
	waitCks
)

// Decoder is an incremental frame decoder. Feed it bytes as they arrive;
// it yields a Frame when one completes. Not safe for concurrent use.
type Decoder struct {
	state   decodeState
	length  int
	cmd     byte
	payload []byte
	cks     byte

	// BadFrames counts checksum failures and resyncs since creation.
	BadFrames int
}

// Feed consumes one byte and returns a completed frame, or nil.
func (d *Decoder) Feed(b byte) *Frame {
	switch d.state {
	case waitSOF0:
		if b == SOF0 {
			d.state = waitSOF1
		}
	case waitSOF1:
		if b == SOF1 {
			d.state = waitLen
		} else if b != SOF0 {
			// An SOF0 here may be the real frame start; stay put for it.
			d.state = waitSOF0
		}
	case waitLen:
		if b == 0 || int(b) > maxPayload {
			d.resync()
			return nil
		}
		d.length = int(b)
		d.cks = b
		d.state = waitCmd
	case waitCmd:
		d.cmd = b
		d.cks ^= b
		d.payload = d.payload[:0]
		if d.length == 1 {
			d.state = waitCks
		} else {
			d.state = waitPayload
		}
	case waitPayload:
		d.payload = append(d.payload, b)
		d.cks ^= b
		if len(d.payload) == d.length-1 {
			d.state = waitCks
		}
	case waitCks:
		d.state = waitSOF0
		if b != d.cks {
			d.BadFrames++
			return nil
		}
		f := &Frame{Cmd: d.cmd, Payload: append([]byte(nil), d.payload...)}
		return f
	}
	return nil
}

func (d *Decoder) resync() {
	d.state = waitSOF0
	d.BadFrames++
}
