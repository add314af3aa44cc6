package logic

import "time"

// DefaultHeartbeatInterval throttles the status log line.
const DefaultHeartbeatInterval = 10 * time.Second

// OneShot guards an action that must run exactly once per process lifetime.
type OneShot struct {
	done bool
}

// Claim returns true the first time it is called and false afterwards.
func (o *OneShot) Claim() bool {
	if o.done {
		return false
	}
	o.done = true
	return true
}

// Done reports whether the guard has been claimed.
func (o *OneShot) Done() bool {
	return o.done
}

// Heartbeat fires at most once per interval.
type Heartbeat struct {
	interval time.Duration
	last     time.Time
}

// NewHeartbeat creates a heartbeat timer starting at the given time.
func NewHeartbeat(interval time.Duration, start time.Time) *Heartbeat {
	return &Heartbeat{interval: interval, last: start}
}

// Check returns true if the interval has elapsed since the last beat.
// An interval <= 0 disables the heartbeat.
func (h *Heartbeat) Check(now time.Time) bool {
	if h.interval <= 0 {
		return false
	}
	if now.Sub(h.last) < h.interval {
		return false
	}
	h.last = now
	return true
}
