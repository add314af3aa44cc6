// Package status provides a thread-safe status tracker for the device daemon.
// The main loop writes it; the HTTP status server reads it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/truthsignal-device/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Broker    string
	Topic     string
	SSID      string
	Interface string
	PollMs    int64
	HTTPAddr  string
}

// Connectivity is the per-iteration connectivity view.
type Connectivity struct {
	State         logic.ConnectivityState
	Phase         logic.Phase
	Retries       int
	Recoveries    int
	MQTTConnected bool
	MQTTState     int
	LocalAddr     string
}

// Counts tracks received notifications since startup.
type Counts struct {
	Messages int
	Alerts   int
	Ignored  int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Connectivity
	Counts       Counts
	SelfTestDone bool
	LastAlert    time.Time
	StartTime    time.Time
	Now          time.Time
	Config       Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Connectivity: Connectivity{
				State: logic.StateNetworkDown,
				Phase: logic.PhaseDisconnected,
			},
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the connectivity view. Called from the main loop on every iteration.
func (t *Tracker) Update(c Connectivity) {
	t.mu.Lock()
	t.snap.Connectivity = c
	t.mu.Unlock()
}

// RecordMessage counts a received notification and whether it triggered the alert.
func (t *Tracker) RecordMessage(verified bool, at time.Time) {
	t.mu.Lock()
	t.snap.Counts.Messages++
	if verified {
		t.snap.Counts.Alerts++
		t.snap.LastAlert = at
	} else {
		t.snap.Counts.Ignored++
	}
	t.mu.Unlock()
}

// SetSelfTestDone marks the one-time self-test as completed.
func (t *Tracker) SetSelfTestDone() {
	t.mu.Lock()
	t.snap.SelfTestDone = true
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
