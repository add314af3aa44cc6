// Package device runs the notification device: it keeps the network link and the
// broker session alive, drives the status light and plays the alert when a
// verified notification arrives.
package device

import (
	"time"

	"github.com/sweeney/truthsignal-device/internal/led"
	"github.com/sweeney/truthsignal-device/internal/logic"
	"github.com/sweeney/truthsignal-device/internal/mqtt"
)

// Startup link wait: up to LinkWaitAttempts polls, LinkWaitInterval apart.
const (
	LinkWaitAttempts = 30
	LinkWaitInterval = 500 * time.Millisecond
)

// SelfTestDelay is the pause between the first broker session and the self-test.
const SelfTestDelay = 500 * time.Millisecond

// Config holds the runtime tunables. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	SSID     string
	Password string
	Topic    string

	ClientIDPrefix string

	RetryDelay        time.Duration
	MaxRetries        int
	BlinkInterval     time.Duration
	HeartbeatInterval time.Duration
	Brightness        uint8
}

// DefaultConfig returns the compiled-in device settings.
func DefaultConfig() Config {
	return Config{
		SSID:              "TruthSignal",
		Topic:             mqtt.Topic,
		ClientIDPrefix:    mqtt.ClientIDPrefix,
		RetryDelay:        logic.DefaultRetryDelay,
		MaxRetries:        logic.DefaultMaxRetries,
		BlinkInterval:     logic.DefaultBlinkInterval,
		HeartbeatInterval: logic.DefaultHeartbeatInterval,
		Brightness:        led.DefaultBrightness,
	}
}
