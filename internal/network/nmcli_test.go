package network

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type recordedCmd struct {
	name string
	args []string
}

func newTestLink(t *testing.T, operstate string, addrs []net.Addr) (*NMLink, *[]recordedCmd) {
	t.Helper()
	dir := t.TempDir()
	if operstate != "" {
		if err := os.MkdirAll(filepath.Join(dir, "wlan0"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "wlan0", "operstate"), []byte(operstate+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var cmds []recordedCmd
	l := NewNMLink("wlan0")
	l.sysfs = dir
	l.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		cmds = append(cmds, recordedCmd{name: name, args: args})
		return nil, nil
	}
	l.addrsOf = func(string) ([]net.Addr, error) { return addrs, nil }
	return l, &cmds
}

func ipNet(s string) *net.IPNet {
	ip, n, _ := net.ParseCIDR(s)
	n.IP = ip
	return n
}

func TestNMLinkConnectArgs(t *testing.T) {
	l, cmds := newTestLink(t, "up", nil)

	if err := l.Connect("TruthSignal", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"device", "wifi", "connect", "TruthSignal", "password", "secret", "ifname", "wlan0"}
	if len(*cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(*cmds))
	}
	if (*cmds)[0].name != "nmcli" {
		t.Errorf("expected nmcli, got %s", (*cmds)[0].name)
	}
	if !reflect.DeepEqual((*cmds)[0].args, want) {
		t.Errorf("args: got %v, want %v", (*cmds)[0].args, want)
	}
}

func TestNMLinkConnectOpenNetwork(t *testing.T) {
	l, cmds := newTestLink(t, "up", nil)

	if err := l.Connect("open-ap", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range (*cmds)[0].args {
		if a == "password" {
			t.Error("password argument must be omitted for open networks")
		}
	}
}

func TestNMLinkCycle(t *testing.T) {
	l, cmds := newTestLink(t, "up", nil)

	if err := l.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if err := l.Reconnect(); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	want := [][]string{
		{"device", "disconnect", "wlan0"},
		{"device", "connect", "wlan0"},
	}
	for i, w := range want {
		if !reflect.DeepEqual((*cmds)[i].args, w) {
			t.Errorf("command %d: got %v, want %v", i, (*cmds)[i].args, w)
		}
	}
}

func TestNMLinkCommandError(t *testing.T) {
	l, _ := newTestLink(t, "up", nil)
	l.run = func(context.Context, string, ...string) ([]byte, error) {
		return []byte("Error: No network with SSID 'x' found.\n"), errors.New("exit status 10")
	}

	err := l.Connect("x", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "No network with SSID") {
		t.Errorf("expected nmcli output in error, got %v", err)
	}
}

func TestNMLinkConnected(t *testing.T) {
	v4 := []net.Addr{ipNet("fe80::1/64"), ipNet("192.168.0.42/24")}
	v6only := []net.Addr{ipNet("fe80::1/64")}

	tests := []struct {
		name      string
		operstate string
		addrs     []net.Addr
		want      bool
		wantAddr  string
	}{
		{"up with ipv4", "up", v4, true, "192.168.0.42"},
		{"up without ipv4", "up", v6only, false, ""},
		{"down", "down", v4, false, "192.168.0.42"},
		{"dormant", "dormant", v4, false, "192.168.0.42"},
		{"missing interface", "", v4, false, "192.168.0.42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLink(t, tt.operstate, tt.addrs)
			if got := l.Connected(); got != tt.want {
				t.Errorf("Connected() = %v, want %v", got, tt.want)
			}
			if got := l.LocalAddress(); got != tt.wantAddr {
				t.Errorf("LocalAddress() = %q, want %q", got, tt.wantAddr)
			}
		})
	}
}

func TestNMLinkAddrError(t *testing.T) {
	l, _ := newTestLink(t, "up", nil)
	l.addrsOf = func(string) ([]net.Addr, error) { return nil, errors.New("no such interface") }
	if l.LocalAddress() != "" {
		t.Error("expected empty address on error")
	}
	if l.Connected() {
		t.Error("expected not connected on error")
	}
}

func TestFakeLinkCycle(t *testing.T) {
	f := NewFakeLink(true, "10.0.0.2")
	f.Disconnect()
	if f.Connected() || f.LocalAddress() != "" {
		t.Error("expected link down after Disconnect")
	}
	if err := f.Reconnect(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Connected() || f.LocalAddress() != "10.0.0.2" {
		t.Error("expected link up after Reconnect")
	}
	if f.Count("disconnect") != 1 || f.Count("reconnect") != 1 {
		t.Errorf("unexpected calls: %v", f.Calls)
	}
}
