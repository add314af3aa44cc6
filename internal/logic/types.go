// Package logic contains the pure connectivity and alert decision logic of the device.
// This package has NO external dependencies (no GPIO, MQTT, audio, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "fmt"

// ConnectivityState is derived on every loop iteration from live queries to the
// network link and the broker client. It is never cached.
type ConnectivityState string

const (
	StateNetworkDown ConnectivityState = "NETWORK_DOWN"
	StateBrokerDown  ConnectivityState = "BROKER_DOWN"
	StateConnected   ConnectivityState = "CONNECTED"
)

// Derive computes the connectivity state from the network and broker status.
func Derive(networkUp, brokerUp bool) ConnectivityState {
	switch {
	case !networkUp:
		return StateNetworkDown
	case !brokerUp:
		return StateBrokerDown
	default:
		return StateConnected
	}
}

// Color is a single RGB pixel value.
type Color struct {
	R, G, B uint8
}

// Named indicator colors.
var (
	ColorOff          = Color{}
	ColorConnected    = Color{G: 255}
	ColorReconnecting = Color{B: 255}
	ColorAlert        = Color{R: 255}
)

// IsOff reports whether all channels are dark.
func (c Color) IsOff() bool {
	return c == ColorOff
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HSV converts a hue/saturation/value triple to RGB using the 0-255 hue wheel
// of common LED libraries (0 = red, 85 = green, 170 = blue).
func HSV(h, s, v uint8) Color {
	if s == 0 {
		return Color{R: v, G: v, B: v}
	}

	region := h / 43
	rem := int(h-region*43) * 6

	vv := int(v)
	p := vv * (255 - int(s)) / 255
	q := vv * (255 - int(s)*rem/255) / 255
	t := vv * (255 - int(s)*(255-rem)/255) / 255

	switch region {
	case 0:
		return Color{R: v, G: uint8(t), B: uint8(p)}
	case 1:
		return Color{R: uint8(q), G: v, B: uint8(p)}
	case 2:
		return Color{R: uint8(p), G: v, B: uint8(t)}
	case 3:
		return Color{R: uint8(p), G: uint8(q), B: v}
	case 4:
		return Color{R: uint8(t), G: uint8(p), B: v}
	default:
		return Color{R: v, G: uint8(p), B: uint8(q)}
	}
}

// SelfTestHues are the hues swept by the one-time LED self-test.
var SelfTestHues = []uint8{0, 85, 170}

// ClientID builds the broker client identifier from a fixed prefix and a random suffix.
// The suffix only avoids collisions between devices; it is not a credential.
func ClientID(prefix string, suffix uint16) string {
	return fmt.Sprintf("%s%x", prefix, suffix)
}
