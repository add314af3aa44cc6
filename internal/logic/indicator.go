package logic

import "time"

// DefaultBlinkInterval is the minimum time between blink phase toggles.
const DefaultBlinkInterval = 500 * time.Millisecond

// Indicator maps the connectivity state to a light pattern.
type Indicator struct {
	blinkInterval time.Duration

	// last evaluated state; the blink phase resets whenever it changes
	state ConnectivityState

	blinkOn    bool
	lastToggle time.Time
	toggles    int
}

// NewIndicator creates an indicator that toggles the reconnecting blink at the given interval.
func NewIndicator(blinkInterval time.Duration) *Indicator {
	return &Indicator{blinkInterval: blinkInterval}
}

// Evaluate returns the color to show for the given state at the given instant.
// Calling it again with the same state and instant returns the same color.
func (i *Indicator) Evaluate(state ConnectivityState, now time.Time) Color {
	entered := state != i.state
	i.state = state

	switch state {
	case StateConnected:
		return ColorConnected

	case StateBrokerDown:
		if entered {
			i.blinkOn = true
			i.lastToggle = now
		} else if now.Sub(i.lastToggle) >= i.blinkInterval {
			i.blinkOn = !i.blinkOn
			i.lastToggle = now
			i.toggles++
		}
		if i.blinkOn {
			return ColorReconnecting
		}
		return ColorOff

	default:
		// Network down: dark rather than whatever was shown last.
		return ColorOff
	}
}

// Toggles returns how many blink toggles have been applied since startup.
func (i *Indicator) Toggles() int {
	return i.toggles
}
