//go:build !linux

package led

import (
	"errors"

	"github.com/sweeney/truthsignal-device/internal/logic"
)

// RGBStrip is not available on non-Linux platforms.
type RGBStrip struct{}

// NewRGBStrip returns an error on non-Linux platforms.
func NewRGBStrip(chipName string, pinR, pinG, pinB int, commonAnode bool) (*RGBStrip, error) {
	return nil, errors.New("led: not supported on this platform (requires Linux)")
}

// SetPixel is not implemented on non-Linux platforms.
func (s *RGBStrip) SetPixel(index int, c logic.Color) error {
	return errors.New("led: not supported")
}

// Show is not implemented on non-Linux platforms.
func (s *RGBStrip) Show() error {
	return errors.New("led: not supported")
}

// SetBrightness is a no-op on non-Linux platforms.
func (s *RGBStrip) SetBrightness(level uint8) {}

// Close is not implemented on non-Linux platforms.
func (s *RGBStrip) Close() error {
	return nil
}
