// Package led drives the single status pixel with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package led

import (
	"errors"

	"github.com/sweeney/truthsignal-device/internal/logic"
)

// NumPixels is the number of pixels on the strip.
const NumPixels = 1

// DefaultBrightness matches the brightness used for the status pixel at boot.
const DefaultBrightness = 150

// Pin definitions (BCM numbering)
const (
	DefaultPinR = 17
	DefaultPinG = 27
	DefaultPinB = 22
)

// ErrPixelRange is returned by SetPixel for an index outside the strip.
var ErrPixelRange = errors.New("led: pixel index out of range")

// Strip is an addressable light.
type Strip interface {
	// SetPixel stages a color; nothing changes until Show.
	SetPixel(index int, c logic.Color) error

	// Show latches the staged colors onto the hardware.
	Show() error

	// SetBrightness scales all subsequent Show calls (0-255).
	SetBrightness(level uint8)

	// Close turns the light off and releases resources.
	Close() error
}

// Scale applies a 0-255 brightness to a color.
func Scale(c logic.Color, level uint8) logic.Color {
	s := func(v uint8) uint8 {
		return uint8(uint16(v) * (uint16(level) + 1) >> 8)
	}
	return logic.Color{R: s(c.R), G: s(c.G), B: s(c.B)}
}

// Fill sets every pixel to c and shows it.
func Fill(s Strip, c logic.Color) error {
	for i := 0; i < NumPixels; i++ {
		if err := s.SetPixel(i, c); err != nil {
			return err
		}
	}
	return s.Show()
}
