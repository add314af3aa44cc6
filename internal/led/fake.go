package led

import "github.com/sweeney/truthsignal-device/internal/logic"

// FakeStrip is a test double that records every color shown.
type FakeStrip struct {
	// Shown contains the staged pixel color at each Show call, brightness not applied.
	Shown []logic.Color

	// Brightness is the last level passed to SetBrightness.
	Brightness uint8

	// ShowError, if set, will be returned by Show.
	ShowError error

	// Closed tracks if Close was called
	Closed bool

	staged logic.Color
}

// NewFakeStrip creates a FakeStrip.
func NewFakeStrip() *FakeStrip {
	return &FakeStrip{Brightness: DefaultBrightness}
}

// SetPixel stages a color.
func (f *FakeStrip) SetPixel(index int, c logic.Color) error {
	if index < 0 || index >= NumPixels {
		return ErrPixelRange
	}
	f.staged = c
	return nil
}

// Show records the staged color.
func (f *FakeStrip) Show() error {
	if f.ShowError != nil {
		return f.ShowError
	}
	f.Shown = append(f.Shown, f.staged)
	return nil
}

// SetBrightness records the level.
func (f *FakeStrip) SetBrightness(level uint8) {
	f.Brightness = level
}

// Close marks the strip as closed.
func (f *FakeStrip) Close() error {
	f.Closed = true
	return nil
}

// Current returns the last shown color, or off if nothing was shown.
func (f *FakeStrip) Current() logic.Color {
	if len(f.Shown) == 0 {
		return logic.ColorOff
	}
	return f.Shown[len(f.Shown)-1]
}

// Count returns how many times c was shown.
func (f *FakeStrip) Count(c logic.Color) int {
	n := 0
	for _, s := range f.Shown {
		if s == c {
			n++
		}
	}
	return n
}

// Reset clears recorded colors.
func (f *FakeStrip) Reset() {
	f.Shown = nil
	f.ShowError = nil
	f.Closed = false
	f.staged = logic.ColorOff
}
