package mqtt

// FakeSubscriber is a scripted broker client for tests.
type FakeSubscriber struct {
	// Connected controls the return value of IsConnected.
	Connected bool

	// ConnectResults scripts the outcome of successive Connect calls.
	// A nil entry, or an exhausted list, means success.
	ConnectResults []error

	// ClientIDs records the client id of every Connect call.
	ClientIDs []string

	// Subscriptions records subscribed topics.
	Subscriptions []string

	// SubscribeError, if set, will be returned by Subscribe.
	SubscribeError error

	// Pending holds messages delivered by the next Poll.
	Pending []Message

	// Polls counts Poll calls.
	Polls int

	// Closed tracks if Close was called.
	Closed bool

	handler MessageHandler
	state   int
}

// NewFakeSubscriber creates a disconnected FakeSubscriber.
func NewFakeSubscriber() *FakeSubscriber {
	return &FakeSubscriber{state: StateDisconnected}
}

// FailNext scripts the next n Connect calls to fail with the given state code.
func (f *FakeSubscriber) FailNext(n, code int) {
	for i := 0; i < n; i++ {
		f.ConnectResults = append(f.ConnectResults, &ConnectError{Code: code, Err: ErrTimeout})
	}
}

// Connect consumes the next scripted result.
func (f *FakeSubscriber) Connect(clientID string) error {
	f.ClientIDs = append(f.ClientIDs, clientID)

	var err error
	if len(f.ConnectResults) > 0 {
		err = f.ConnectResults[0]
		f.ConnectResults = f.ConnectResults[1:]
	}
	if err != nil {
		f.Connected = false
		f.state = StateConnectFailed
		if ce, ok := err.(*ConnectError); ok {
			f.state = ce.Code
		}
		return err
	}

	f.Connected = true
	f.state = StateConnected
	return nil
}

// IsConnected reports the scripted connection state.
func (f *FakeSubscriber) IsConnected() bool {
	return f.Connected
}

// Subscribe records the topic.
func (f *FakeSubscriber) Subscribe(topic string) error {
	if f.SubscribeError != nil {
		return f.SubscribeError
	}
	if !f.Connected {
		return ErrNotConnected
	}
	f.Subscriptions = append(f.Subscriptions, topic)
	return nil
}

// SetMessageHandler installs the handler.
func (f *FakeSubscriber) SetMessageHandler(h MessageHandler) {
	f.handler = h
}

// Inject queues a message for the next Poll.
func (f *FakeSubscriber) Inject(topic string, payload []byte) {
	f.Pending = append(f.Pending, Message{Topic: topic, Payload: payload})
}

// Poll delivers pending messages.
func (f *FakeSubscriber) Poll() {
	f.Polls++
	msgs := f.Pending
	f.Pending = nil
	if f.handler == nil {
		return
	}
	for _, m := range msgs {
		f.handler(m.Topic, m.Payload)
	}
}

// Drop simulates the broker closing the session.
func (f *FakeSubscriber) Drop() {
	f.Connected = false
	f.state = StateConnectionLost
}

// State returns the scripted state code.
func (f *FakeSubscriber) State() int {
	return f.state
}

// Close marks the subscriber as closed.
func (f *FakeSubscriber) Close() error {
	f.Closed = true
	f.Connected = false
	f.state = StateDisconnected
	return nil
}
