package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/truthsignal-device/internal/logic"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 20, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 20 {
		t.Errorf("Config.PollMs: got %d, want 20", snap.Config.PollMs)
	}
	if snap.State != logic.StateNetworkDown {
		t.Errorf("State: got %s, want NETWORK_DOWN", snap.State)
	}
	if snap.Phase != logic.PhaseDisconnected {
		t.Errorf("Phase: got %s, want DISCONNECTED", snap.Phase)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
	if snap.SelfTestDone {
		t.Error("expected SelfTestDone=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(Connectivity{
		State:         logic.StateBrokerDown,
		Phase:         logic.PhaseConnecting,
		Retries:       4,
		Recoveries:    1,
		MQTTConnected: false,
		MQTTState:     -2,
		LocalAddr:     "192.168.0.42",
	})

	snap := tr.Snapshot()
	if snap.State != logic.StateBrokerDown {
		t.Errorf("State: got %s", snap.State)
	}
	if snap.Retries != 4 {
		t.Errorf("Retries: got %d, want 4", snap.Retries)
	}
	if snap.Recoveries != 1 {
		t.Errorf("Recoveries: got %d, want 1", snap.Recoveries)
	}
	if snap.MQTTState != -2 {
		t.Errorf("MQTTState: got %d, want -2", snap.MQTTState)
	}
	if snap.LocalAddr != "192.168.0.42" {
		t.Errorf("LocalAddr: got %q", snap.LocalAddr)
	}
}

func TestRecordMessage(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tr.RecordMessage(false, at)
	tr.RecordMessage(true, at.Add(time.Minute))
	tr.RecordMessage(false, at.Add(2*time.Minute))

	snap := tr.Snapshot()
	if snap.Counts.Messages != 3 {
		t.Errorf("Messages: got %d, want 3", snap.Counts.Messages)
	}
	if snap.Counts.Alerts != 1 {
		t.Errorf("Alerts: got %d, want 1", snap.Counts.Alerts)
	}
	if snap.Counts.Ignored != 2 {
		t.Errorf("Ignored: got %d, want 2", snap.Counts.Ignored)
	}
	if !snap.LastAlert.Equal(at.Add(time.Minute)) {
		t.Errorf("LastAlert: got %v", snap.LastAlert)
	}
}

func TestSetSelfTestDone(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.SetSelfTestDone()
	if !tr.Snapshot().SelfTestDone {
		t.Error("expected SelfTestDone=true")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(Connectivity{State: logic.StateConnected, MQTTConnected: true})

	snap1 := tr.Snapshot()

	tr.Update(Connectivity{State: logic.StateBrokerDown})

	// snap1 should still reflect old state
	if snap1.State != logic.StateConnected {
		t.Error("snapshot should be a copy; State was modified")
	}
	if !snap1.MQTTConnected {
		t.Error("snapshot should be a copy; MQTTConnected was modified")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Connectivity: Connectivity{
			State:         logic.StateConnected,
			Phase:         logic.PhaseConnected,
			MQTTConnected: true,
			LocalAddr:     "192.168.0.42",
			Recoveries:    2,
		},
		Counts:       Counts{Messages: 5, Alerts: 3, Ignored: 2},
		SelfTestDone: true,
		LastAlert:    start.Add(time.Hour),
		StartTime:    start,
		Now:          start.Add(2*time.Hour + 500*time.Millisecond),
		Config: Config{
			Broker:    "tcp://54.36.178.49:1883",
			Topic:     "truthsignal/device/ATOM-1/notify",
			SSID:      "TruthSignal",
			Interface: "wlan0",
			PollMs:    20,
			HTTPAddr:  ":80",
		},
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	s := parsed.Status

	if s.State != "CONNECTED" {
		t.Errorf("State: got %q", s.State)
	}
	if s.UptimeSeconds != 7200 {
		t.Errorf("UptimeSeconds: got %d, want 7200", s.UptimeSeconds)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("StartTime: got %q", s.StartTime)
	}
	if s.LastAlert != "2026-01-01T01:00:00Z" {
		t.Errorf("LastAlert: got %q", s.LastAlert)
	}
	if !s.SelfTestDone {
		t.Error("expected SelfTestDone")
	}
	if !s.Network.Up || s.Network.IP != "192.168.0.42" || s.Network.SSID != "TruthSignal" {
		t.Errorf("Network: got %+v", s.Network)
	}
	if s.Network.Recoveries != 2 {
		t.Errorf("Network.Recoveries: got %d, want 2", s.Network.Recoveries)
	}
	if !s.MQTT.Connected || s.MQTT.Phase != "CONNECTED" || s.MQTT.Topic != "truthsignal/device/ATOM-1/notify" {
		t.Errorf("MQTT: got %+v", s.MQTT)
	}
	if s.Counts.Messages != 5 || s.Counts.Alerts != 3 || s.Counts.Ignored != 2 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Config.PollMs != 20 || s.Config.HTTPAddr != ":80" {
		t.Errorf("Config: got %+v", s.Config)
	}
}

func TestFormatJSONUnknownState(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.State != "UNKNOWN" {
		t.Errorf("State: got %q, want UNKNOWN", parsed.Status.State)
	}
	if parsed.Status.Network.Up {
		t.Error("expected network down for unknown state")
	}
	if parsed.Status.LastAlert != "" {
		t.Errorf("LastAlert: got %q, want empty", parsed.Status.LastAlert)
	}
}

func TestFormatJSONNetworkDown(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Connectivity: Connectivity{State: logic.StateNetworkDown},
		StartTime:    start,
		Now:          start,
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Network.Up {
		t.Error("expected network down")
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(Connectivity{State: logic.StateBrokerDown, Retries: i % 11})
			tr.RecordMessage(i%2 == 0, time.Now())
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
			_ = FormatJSON(snap)
		}
	}()

	wg.Wait()
}
