package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/truthsignal-device/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	State         string      `json:"state"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	SelfTestDone  bool        `json:"self_test_done"`
	LastAlert     string      `json:"last_alert,omitempty"`
	Network       NetworkJSON `json:"network"`
	MQTT          MQTTStatus  `json:"mqtt"`
	Counts        CountsJSON  `json:"message_counts"`
	Config        ConfigJSON  `json:"config"`
}

// NetworkJSON reports the wireless link.
type NetworkJSON struct {
	Up         bool   `json:"up"`
	IP         string `json:"ip,omitempty"`
	SSID       string `json:"ssid"`
	Interface  string `json:"interface"`
	Recoveries int    `json:"recoveries"`
}

// MQTTStatus reports the broker session.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
	Topic     string `json:"topic"`
	Phase     string `json:"phase"`
	Retries   int    `json:"retries"`
	RC        int    `json:"rc"`
}

// CountsJSON is the JSON representation of message counts.
type CountsJSON struct {
	Messages int `json:"messages"`
	Alerts   int `json:"alerts"`
	Ignored  int `json:"ignored"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs   int64  `json:"poll_ms"`
	HTTPAddr string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	inner := StatusInner{
		State:         state,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		SelfTestDone:  snap.SelfTestDone,
		Network: NetworkJSON{
			Up:         snap.State == logic.StateBrokerDown || snap.State == logic.StateConnected,
			IP:         snap.LocalAddr,
			SSID:       snap.Config.SSID,
			Interface:  snap.Config.Interface,
			Recoveries: snap.Recoveries,
		},
		MQTT: MQTTStatus{
			Connected: snap.MQTTConnected,
			Broker:    snap.Config.Broker,
			Topic:     snap.Config.Topic,
			Phase:     string(snap.Phase),
			Retries:   snap.Retries,
			RC:        snap.MQTTState,
		},
		Counts: CountsJSON{
			Messages: snap.Counts.Messages,
			Alerts:   snap.Counts.Alerts,
			Ignored:  snap.Counts.Ignored,
		},
		Config: ConfigJSON{
			PollMs:   snap.Config.PollMs,
			HTTPAddr: snap.Config.HTTPAddr,
		},
	}
	if !snap.LastAlert.IsZero() {
		inner.LastAlert = snap.LastAlert.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
