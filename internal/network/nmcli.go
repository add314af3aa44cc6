package network

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// commandTimeout bounds every nmcli invocation.
const commandTimeout = 30 * time.Second

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// NMLink controls a Wi-Fi interface through NetworkManager's nmcli.
type NMLink struct {
	iface   string
	sysfs   string
	run     Runner
	addrsOf func(iface string) ([]net.Addr, error)
}

// NewNMLink creates a link for the given interface.
func NewNMLink(iface string) *NMLink {
	return &NMLink{
		iface:   iface,
		sysfs:   "/sys/class/net",
		run:     execRunner,
		addrsOf: interfaceAddrs,
	}
}

func interfaceAddrs(iface string) ([]net.Addr, error) {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return nil, err
	}
	return ifi.Addrs()
}

func (l *NMLink) nmcli(args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := l.run(ctx, "nmcli", args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("nmcli %s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("nmcli %s: %w", args[0], err)
	}
	return nil
}

// Connect associates with the access point.
func (l *NMLink) Connect(ssid, password string) error {
	args := []string{"device", "wifi", "connect", ssid}
	if password != "" {
		args = append(args, "password", password)
	}
	args = append(args, "ifname", l.iface)
	return l.nmcli(args...)
}

// Disconnect drops the association.
func (l *NMLink) Disconnect() error {
	return l.nmcli("device", "disconnect", l.iface)
}

// Reconnect brings the interface back up with its last connection profile.
func (l *NMLink) Reconnect() error {
	return l.nmcli("device", "connect", l.iface)
}

// Connected reports whether the interface is operationally up with an IPv4 address.
func (l *NMLink) Connected() bool {
	state, err := os.ReadFile(filepath.Join(l.sysfs, l.iface, "operstate"))
	if err != nil {
		return false
	}
	if !bytes.Equal(bytes.TrimSpace(state), []byte("up")) {
		return false
	}
	return l.LocalAddress() != ""
}

// LocalAddress returns the first IPv4 address on the interface.
func (l *NMLink) LocalAddress() string {
	addrs, err := l.addrsOf(l.iface)
	if err != nil {
		return ""
	}
	for _, a := range addrs {
		ipn, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		if ip4 := ipn.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return ""
}
