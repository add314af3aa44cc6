// Package network manages the station-mode wireless link with abstraction for testing.
package network

// DefaultInterface is the wireless interface used when none is configured.
const DefaultInterface = "wlan0"

// Link is the wireless network collaborator.
type Link interface {
	// Connect starts association with the access point.
	Connect(ssid, password string) error

	// Connected reports whether the link is up with an address assigned.
	Connected() bool

	// Disconnect drops the association.
	Disconnect() error

	// Reconnect re-establishes the last association.
	Reconnect() error

	// LocalAddress returns the IPv4 address of the link, or "" if none.
	LocalAddress() string
}
