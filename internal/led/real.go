//go:build linux

package led

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/truthsignal-device/internal/logic"
)

// RGBStrip drives a single RGB LED from three GPIO output lines.
// A channel is lit when its brightness-scaled component is non-zero.
type RGBStrip struct {
	chip        *gpiocdev.Chip
	lines       [3]*gpiocdev.Line
	commonAnode bool
	brightness  uint8
	staged      logic.Color
}

// NewRGBStrip requests the R, G and B lines as outputs, initially dark.
// With commonAnode set, a lit channel is driven low.
func NewRGBStrip(chipName string, pinR, pinG, pinB int, commonAnode bool) (*RGBStrip, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	s := &RGBStrip{
		chip:        chip,
		commonAnode: commonAnode,
		brightness:  DefaultBrightness,
	}

	for i, pin := range []int{pinR, pinG, pinB} {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(s.level(false)))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("request %c pin %d: %w", "RGB"[i], pin, err)
		}
		s.lines[i] = line
	}

	return s, nil
}

func (s *RGBStrip) level(on bool) int {
	if on != s.commonAnode {
		return 1
	}
	return 0
}

// SetPixel stages the color for the only pixel.
func (s *RGBStrip) SetPixel(index int, c logic.Color) error {
	if index < 0 || index >= NumPixels {
		return ErrPixelRange
	}
	s.staged = c
	return nil
}

// Show drives the lines from the staged color.
func (s *RGBStrip) Show() error {
	c := Scale(s.staged, s.brightness)
	for i, v := range []uint8{c.R, c.G, c.B} {
		if s.lines[i] == nil {
			continue
		}
		if err := s.lines[i].SetValue(s.level(v > 0)); err != nil {
			return fmt.Errorf("set %c line: %w", "RGB"[i], err)
		}
	}
	return nil
}

// SetBrightness sets the brightness used by Show.
func (s *RGBStrip) SetBrightness(level uint8) {
	s.brightness = level
}

// Close turns the LED off and releases the lines.
// Lines are reconfigured as inputs so the pins float as they do at boot.
func (s *RGBStrip) Close() error {
	var errs []error

	for i, line := range s.lines {
		if line == nil {
			continue
		}
		if err := line.SetValue(s.level(false)); err != nil {
			errs = append(errs, fmt.Errorf("clear %c line: %w", "RGB"[i], err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %c line: %w", "RGB"[i], err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %c line: %w", "RGB"[i], err))
		}
		s.lines[i] = nil
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		s.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
