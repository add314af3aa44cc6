package mqtt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConnectErrorIs(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := error(&ConnectError{Code: StateConnectFailed, Err: cause})

	if !errors.Is(err, ErrConnectionFailed) {
		t.Error("expected errors.Is(err, ErrConnectionFailed)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}

	var ce *ConnectError
	if !errors.As(err, &ce) {
		t.Fatal("expected errors.As to find *ConnectError")
	}
	if ce.Code != StateConnectFailed {
		t.Errorf("code: got %d, want %d", ce.Code, StateConnectFailed)
	}
	if !strings.Contains(err.Error(), "rc=-2") {
		t.Errorf("expected rc in message, got %q", err.Error())
	}
}

func TestFakeSubscriberScriptedFailures(t *testing.T) {
	f := NewFakeSubscriber()
	f.FailNext(2, StateConnectionTimeout)

	for i := 0; i < 2; i++ {
		err := f.Connect("id")
		if err == nil {
			t.Fatalf("attempt %d: expected failure", i)
		}
		if f.IsConnected() {
			t.Errorf("attempt %d: should not be connected", i)
		}
		if f.State() != StateConnectionTimeout {
			t.Errorf("attempt %d: state %d, want %d", i, f.State(), StateConnectionTimeout)
		}
	}

	if err := f.Connect("id"); err != nil {
		t.Fatalf("third attempt: unexpected error %v", err)
	}
	if !f.IsConnected() || f.State() != StateConnected {
		t.Error("expected connected after script exhausted")
	}
	if len(f.ClientIDs) != 3 {
		t.Errorf("expected 3 recorded client ids, got %d", len(f.ClientIDs))
	}
}

func TestFakeSubscriberSubscribeRequiresSession(t *testing.T) {
	f := NewFakeSubscriber()
	if err := f.Subscribe(Topic); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	f.Connect("id")
	if err := f.Subscribe(Topic); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Subscriptions) != 1 || f.Subscriptions[0] != Topic {
		t.Errorf("unexpected subscriptions: %v", f.Subscriptions)
	}
}

func TestFakeSubscriberPollDelivers(t *testing.T) {
	f := NewFakeSubscriber()
	var got []string
	f.SetMessageHandler(func(topic string, payload []byte) {
		got = append(got, topic+"="+string(payload))
	})

	f.Inject(Topic, []byte("a"))
	f.Inject(Topic, []byte("b"))
	if len(got) != 0 {
		t.Fatal("messages must not be delivered before Poll")
	}

	f.Poll()
	if len(got) != 2 || got[0] != Topic+"=a" || got[1] != Topic+"=b" {
		t.Errorf("unexpected deliveries: %v", got)
	}
	f.Poll()
	if len(got) != 2 {
		t.Errorf("second poll redelivered messages: %v", got)
	}
	if f.Polls != 2 {
		t.Errorf("expected 2 polls, got %d", f.Polls)
	}
}

func TestFakeSubscriberDropAndClose(t *testing.T) {
	f := NewFakeSubscriber()
	f.Connect("id")
	f.Drop()
	if f.IsConnected() || f.State() != StateConnectionLost {
		t.Error("expected lost session after Drop")
	}
	f.Close()
	if !f.Closed || f.State() != StateDisconnected {
		t.Error("expected closed and disconnected")
	}
}

type testMessage struct {
	topic   string
	payload []byte
}

func (m *testMessage) Duplicate() bool   { return false }
func (m *testMessage) Qos() byte         { return 0 }
func (m *testMessage) Retained() bool    { return false }
func (m *testMessage) Topic() string     { return m.topic }
func (m *testMessage) MessageID() uint16 { return 0 }
func (m *testMessage) Payload() []byte   { return m.payload }
func (m *testMessage) Ack()              {}

func TestRealSubscriberPollHandsOffMessages(t *testing.T) {
	s := NewRealSubscriber("tcp://127.0.0.1:1883")

	var got []Message
	s.SetMessageHandler(func(topic string, payload []byte) {
		got = append(got, Message{Topic: topic, Payload: payload})
	})

	raw := []byte(`{"verified":true}`)
	done := make(chan struct{})
	go func() {
		s.onMessage(nil, &testMessage{topic: Topic, payload: raw})
		close(done)
	}()
	<-done

	// paho may reuse its buffer; the queued copy must not change
	raw[1] = 'X'

	if len(got) != 0 {
		t.Fatal("handler must only run from Poll")
	}
	s.Poll()
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if string(got[0].Payload) != `{"verified":true}` {
		t.Errorf("payload: got %s", got[0].Payload)
	}
}

func TestRealSubscriberPollWithoutHandler(t *testing.T) {
	s := NewRealSubscriber("tcp://127.0.0.1:1883")
	s.onMessage(nil, &testMessage{topic: Topic, payload: []byte("x")})
	s.Poll() // must not panic
	if s.inbox.len() != 0 {
		t.Error("expected inbox drained")
	}
}

func TestRealSubscriberInitialState(t *testing.T) {
	s := NewRealSubscriber("tcp://127.0.0.1:1883")
	if s.IsConnected() {
		t.Error("new subscriber should not be connected")
	}
	if s.State() != StateDisconnected {
		t.Errorf("state: got %d, want %d", s.State(), StateDisconnected)
	}
	if err := s.Subscribe(Topic); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestRealSubscriberConnectRefused(t *testing.T) {
	// Port 1 on loopback is not expected to have a listener.
	s := NewRealSubscriber("tcp://127.0.0.1:1")
	s.connectTimeout = 2 * time.Second

	err := s.Connect(ClientIDPrefix + "test")
	if err == nil {
		s.Close()
		t.Skip("something is listening on 127.0.0.1:1")
	}

	var ce *ConnectError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConnectError, got %T: %v", err, err)
	}
	if ce.Code != StateNetworkError {
		t.Errorf("expected rc=%d for an unreachable broker, got %d", StateNetworkError, ce.Code)
	}
	if s.State() != ce.Code {
		t.Errorf("State() = %d, want %d", s.State(), ce.Code)
	}
	if s.IsConnected() {
		t.Error("should not be connected")
	}
}
