// Package mqtt provides the broker subscription with abstraction for testing.
package mqtt

import (
	"errors"
	"fmt"
)

// Topic is the notification topic the device subscribes to.
const Topic = "truthsignal/device/ATOM-1/notify"

// ClientIDPrefix is combined with a random hex suffix to form the client id.
const ClientIDPrefix = "TruthSignal-ATOM-"

// Session state codes reported by State. Positive values are CONNACK refusal codes
// returned by the broker (1 = bad protocol version ... 5 = not authorized), or
// StateNetworkError when the broker could not be reached at all.
const (
	StateConnectionTimeout = -4
	StateConnectionLost    = -3
	StateConnectFailed     = -2
	StateDisconnected      = -1
	StateConnected         = 0

	// StateNetworkError matches paho's packets.ErrNetworkError return code.
	StateNetworkError = 0xFE
)

var (
	// ErrNotConnected is returned when subscribing without a session.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed wraps every failed connection attempt.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrSubscribeFailed is returned when a subscribe operation fails.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("mqtt: operation timed out")
)

// ConnectError describes a failed connection attempt.
type ConnectError struct {
	Code int   // session state code, see State*
	Err  error // underlying cause
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("%v: rc=%d: %v", ErrConnectionFailed, e.Code, e.Err)
}

// Unwrap lets errors.Is match both ErrConnectionFailed and the cause.
func (e *ConnectError) Unwrap() []error {
	return []error{ErrConnectionFailed, e.Err}
}

// MessageHandler is called for each received message, on the goroutine calling Poll.
type MessageHandler func(topic string, payload []byte)

// Message is a received notification.
type Message struct {
	Topic   string
	Payload []byte
}

// ConnectionStatus reports whether the broker session is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Subscriber is the publish/subscribe client collaborator.
type Subscriber interface {
	ConnectionStatus

	// Connect opens a new session with the given client id.
	// Returns a *ConnectError on failure (should not crash the process).
	Connect(clientID string) error

	// Subscribe subscribes the current session to a topic.
	Subscribe(topic string) error

	// SetMessageHandler installs the handler invoked by Poll.
	SetMessageHandler(h MessageHandler)

	// Poll delivers messages received since the last call. Must be called frequently.
	Poll()

	// State returns the session state code of the last connection attempt.
	State() int

	// Close disconnects from the broker.
	Close() error
}
