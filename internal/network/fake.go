package network

import "errors"

// FakeLink is a test double for the wireless link.
type FakeLink struct {
	// Up controls the return value of Connected.
	Up bool

	// Address is returned by LocalAddress while Up.
	Address string

	// ConnectError, if set, will be returned by Connect.
	ConnectError error

	// UpAfterConnect, if set, makes Connect bring the link up.
	UpAfterConnect bool

	// Calls records method invocations in order ("connect", "disconnect", "reconnect").
	Calls []string

	// SSID and Password record the last Connect arguments.
	SSID     string
	Password string
}

// NewFakeLink creates a FakeLink that is up with the given address.
func NewFakeLink(up bool, address string) *FakeLink {
	return &FakeLink{Up: up, Address: address}
}

// Connect records the call.
func (f *FakeLink) Connect(ssid, password string) error {
	f.Calls = append(f.Calls, "connect")
	f.SSID = ssid
	f.Password = password
	if f.ConnectError != nil {
		return f.ConnectError
	}
	if f.UpAfterConnect {
		f.Up = true
	}
	return nil
}

// Connected reports the scripted state.
func (f *FakeLink) Connected() bool {
	return f.Up
}

// Disconnect records the call and takes the link down.
func (f *FakeLink) Disconnect() error {
	f.Calls = append(f.Calls, "disconnect")
	f.Up = false
	return nil
}

// Reconnect records the call and brings the link up.
func (f *FakeLink) Reconnect() error {
	f.Calls = append(f.Calls, "reconnect")
	if f.Address == "" {
		return errors.New("no address")
	}
	f.Up = true
	return nil
}

// LocalAddress returns Address while up.
func (f *FakeLink) LocalAddress() string {
	if !f.Up {
		return ""
	}
	return f.Address
}

// Count returns how many times the named call was made.
func (f *FakeLink) Count(call string) int {
	n := 0
	for _, c := range f.Calls {
		if c == call {
			n++
		}
	}
	return n
}
