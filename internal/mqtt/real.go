package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Connection constants.
const (
	// defaultConnectTimeout bounds a single connection attempt.
	defaultConnectTimeout = 10 * time.Second

	// defaultSubscribeTimeout is the maximum time to wait for a SUBACK.
	defaultSubscribeTimeout = 5 * time.Second

	// defaultKeepAlive is the keepalive interval for the session.
	defaultKeepAlive = 15 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending work on disconnect.
	defaultDisconnectQuiesce = 250 // milliseconds
)

// RealSubscriber subscribes on an actual MQTT broker.
//
// paho delivers messages on its own goroutines; they are queued in a small
// ring and handed to the MessageHandler from Poll, so all handling happens on
// the caller's loop. Reconnection is left to the caller: every Connect builds
// a fresh paho client with the new client id and auto-reconnect disabled.
type RealSubscriber struct {
	broker         string
	connectTimeout time.Duration

	mu      sync.Mutex
	client  paho.Client
	handler MessageHandler
	inbox   *ringBuffer
	state   int
}

// NewRealSubscriber creates a subscriber for the given broker URL (tcp://host:port).
// It does not connect.
func NewRealSubscriber(broker string) *RealSubscriber {
	return &RealSubscriber{
		broker:         broker,
		connectTimeout: defaultConnectTimeout,
		inbox:          newRingBuffer(inboxCapacity),
		state:          StateDisconnected,
	}
}

func (s *RealSubscriber) options(clientID string) *paho.ClientOptions {
	return paho.NewClientOptions().
		AddBroker(s.broker).
		SetClientID(clientID).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetConnectTimeout(s.connectTimeout).
		SetKeepAlive(defaultKeepAlive).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
			s.setState(StateConnectionLost)
		})
}

// Connect opens a new session, replacing any previous client.
func (s *RealSubscriber) Connect(clientID string) error {
	s.mu.Lock()
	old := s.client
	s.client = nil
	s.mu.Unlock()
	if old != nil {
		old.Disconnect(0)
	}

	client := paho.NewClient(s.options(clientID))
	token := client.Connect()
	if !token.WaitTimeout(s.connectTimeout) {
		client.Disconnect(0)
		return s.fail(StateConnectionTimeout, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		code := StateConnectFailed
		if ct, ok := token.(*paho.ConnectToken); ok {
			if rc := ct.ReturnCode(); rc != 0 {
				code = int(rc)
			}
		}
		return s.fail(code, err)
	}

	s.mu.Lock()
	s.client = client
	s.state = StateConnected
	s.mu.Unlock()
	return nil
}

func (s *RealSubscriber) fail(code int, err error) error {
	s.setState(code)
	return &ConnectError{Code: code, Err: err}
}

func (s *RealSubscriber) setState(code int) {
	s.mu.Lock()
	s.state = code
	s.mu.Unlock()
}

// IsConnected reports whether the current session is open.
func (s *RealSubscriber) IsConnected() bool {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	return client != nil && client.IsConnectionOpen()
}

// Subscribe subscribes the current session to topic at QoS 0.
func (s *RealSubscriber) Subscribe(topic string) error {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil || !client.IsConnectionOpen() {
		return ErrNotConnected
	}

	token := client.Subscribe(topic, 0, s.onMessage)
	if !token.WaitTimeout(defaultSubscribeTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultSubscribeTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}

// onMessage runs on a paho goroutine.
func (s *RealSubscriber) onMessage(_ paho.Client, msg paho.Message) {
	payload := make([]byte, len(msg.Payload()))
	copy(payload, msg.Payload())

	s.mu.Lock()
	s.inbox.push(Message{Topic: msg.Topic(), Payload: payload})
	s.mu.Unlock()
}

// SetMessageHandler installs the handler invoked by Poll.
func (s *RealSubscriber) SetMessageHandler(h MessageHandler) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

// Poll hands queued messages to the handler on the calling goroutine.
func (s *RealSubscriber) Poll() {
	s.mu.Lock()
	msgs := s.inbox.drainAll()
	h := s.handler
	s.mu.Unlock()

	if h == nil {
		return
	}
	for _, m := range msgs {
		h(m.Topic, m.Payload)
	}
}

// State returns the session state code.
func (s *RealSubscriber) State() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close disconnects from the broker.
func (s *RealSubscriber) Close() error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.state = StateDisconnected
	s.mu.Unlock()

	if client != nil {
		client.Disconnect(defaultDisconnectQuiesce)
	}
	return nil
}
