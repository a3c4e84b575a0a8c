//go:build linux

package keys

import (
	"fmt"

	"github.com/bendahl/uinput"

	"github.com/sweeney/taiko-sensor/internal/hit"
)

// keyCodes maps config key names to uinput key codes.
var keyCodes = map[string]int{
	"a": uinput.KeyA, "b": uinput.KeyB, "c": uinput.KeyC, "d": uinput.KeyD,
	"e": uinput.KeyE, "f": uinput.KeyF, "g": uinput.KeyG, "h": uinput.KeyH,
	"i": uinput.KeyI, "j": uinput.KeyJ, "k": uinput.KeyK, "l": uinput.KeyL,
	"m": uinput.KeyM, "n": uinput.KeyN, "o": uinput.KeyO, "p": uinput.KeyP,
	"q": uinput.KeyQ, "r": uinput.KeyR, "s": uinput.KeyS, "t": uinput.KeyT,
	"u": uinput.KeyU, "v": uinput.KeyV, "w": uinput.KeyW, "x": uinput.KeyX,
	"y": uinput.KeyY, "z": uinput.KeyZ,
	"0": uinput.Key0, "1": uinput.Key1, "2": uinput.Key2, "3": uinput.Key3,
	"4": uinput.Key4, "5": uinput.Key5, "6": uinput.Key6, "7": uinput.Key7,
	"8": uinput.Key8, "9": uinput.Key9,
	"space": uinput.KeySpace, "enter": uinput.KeyEnter, "esc": uinput.KeyEsc,
}

// UinputEmitter emits presses on a virtual keyboard via /dev/uinput.
type UinputEmitter struct {
	kb    uinput.Keyboard
	codes [hit.NumButtons]int
}

// NewUinputEmitter creates the virtual keyboard and resolves the per-pad
// key binding. Requires write access to /dev/uinput.
func NewUinputEmitter(binding [hit.NumButtons]string) (*UinputEmitter, error) {
	var codes [hit.NumButtons]int
	for i, name := range binding {
		code, ok := keyCodes[name]
		if !ok {
			return nil, fmt.Errorf("unknown key name %q for pad %d", name, i)
		}
		codes[i] = code
	}

	kb, err := uinput.CreateKeyboard("/dev/uinput", []byte("taiko-sensor"))
	if err != nil {
		return nil, fmt.Errorf("create virtual keyboard: %w", err)
	}

	return &UinputEmitter{kb: kb, codes: codes}, nil
}

// KeyDown presses the pad's bound key. The hit magnitude is ignored;
// keyboards have no velocity.
func (u *UinputEmitter) KeyDown(button int, _ float64) error {
	return u.kb.KeyDown(u.codes[button])
}

// KeyUp releases the pad's bound key.
func (u *UinputEmitter) KeyUp(button int) error {
	return u.kb.KeyUp(u.codes[button])
}

// Close destroys the virtual keyboard device.
func (u *UinputEmitter) Close() error {
	return u.kb.Close()
}
