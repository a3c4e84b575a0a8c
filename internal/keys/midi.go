package keys

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/sweeney/taiko-sensor/internal/hit"
)

// DefaultNotes maps the four pads to General MIDI percussion: side stick,
// bass drum, bass drum, snare — rims outside, heads inside.
var DefaultNotes = [hit.NumButtons]uint8{37, 36, 36, 38}

// maxADC is the full-scale sensor reading used to scale velocity.
const maxADC = 1023

// MIDIEmitter emits NoteOn/NoteOff on a MIDI output port, with velocity
// scaled from the hit magnitude.
type MIDIEmitter struct {
	out     drivers.Out
	send    func(midi.Message) error
	channel uint8
	notes   [hit.NumButtons]uint8
}

// NewMIDIEmitter opens the named MIDI output port (the first available
// port when name is empty). channel is 0-based; percussion is channel 9.
func NewMIDIEmitter(portName string, channel uint8, notes [hit.NumButtons]uint8) (*MIDIEmitter, error) {
	var out drivers.Out
	if portName == "" {
		outs := midi.GetOutPorts()
		if len(outs) == 0 {
			return nil, fmt.Errorf("no MIDI output ports available")
		}
		out = outs[0]
	} else {
		var err error
		out, err = midi.FindOutPort(portName)
		if err != nil {
			return nil, fmt.Errorf("find MIDI port %q: %w", portName, err)
		}
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open MIDI port %q: %w", out.String(), err)
	}

	return &MIDIEmitter{out: out, send: send, channel: channel, notes: notes}, nil
}

// KeyDown sends NoteOn with the magnitude mapped onto 1..127.
func (m *MIDIEmitter) KeyDown(button int, value float64) error {
	return m.send(midi.NoteOn(m.channel, m.notes[button], velocity(value)))
}

// KeyUp sends NoteOff for the pad's note.
func (m *MIDIEmitter) KeyUp(button int) error {
	return m.send(midi.NoteOff(m.channel, m.notes[button]))
}

// Close shuts down the MIDI driver.
func (m *MIDIEmitter) Close() error {
	midi.CloseDriver()
	return nil
}

// velocity maps a sensor magnitude onto MIDI velocity 1..127. A resolved
// hit is never silent, so the floor is 1 rather than 0 (velocity 0 would
// read as NoteOff on many synths).
func velocity(value float64) uint8 {
	v := value * 127 / maxADC
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
