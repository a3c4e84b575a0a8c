//go:build !linux

package keys

import (
	"errors"

	"github.com/sweeney/taiko-sensor/internal/hit"
)

// UinputEmitter is not available on non-Linux platforms.
type UinputEmitter struct{}

// NewUinputEmitter returns an error on non-Linux platforms.
func NewUinputEmitter(binding [hit.NumButtons]string) (*UinputEmitter, error) {
	return nil, errors.New("keys: uinput not supported on this platform (requires Linux)")
}

// KeyDown is not implemented on non-Linux platforms.
func (u *UinputEmitter) KeyDown(button int, _ float64) error {
	return errors.New("keys: uinput not supported")
}

// KeyUp is not implemented on non-Linux platforms.
func (u *UinputEmitter) KeyUp(button int) error {
	return errors.New("keys: uinput not supported")
}

// Close is not implemented on non-Linux platforms.
func (u *UinputEmitter) Close() error {
	return nil
}
