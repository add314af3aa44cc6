package logic

import "time"

// Supervisor defaults.
const (
	DefaultRetryDelay = 2 * time.Second
	DefaultMaxRetries = 10
)

// Phase is the supervisor's view of the broker session.
type Phase string

const (
	PhaseDisconnected    Phase = "DISCONNECTED"
	PhaseConnecting      Phase = "CONNECTING"
	PhaseConnected       Phase = "CONNECTED"
	PhaseRecoveryPending Phase = "RECOVERY_PENDING"
)

// Action tells the runtime what to do on this loop iteration.
type Action int

const (
	ActionNone Action = iota
	ActionConnect
	ActionRecoverNetwork
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionConnect:
		return "connect"
	case ActionRecoverNetwork:
		return "recover-network"
	default:
		return "unknown"
	}
}

// Supervisor decides when to attempt a broker connection and when to give up on
// the broker and cycle the network link instead. It never sleeps: the retry delay
// is enforced by comparing the injected time against the next allowed attempt.
type Supervisor struct {
	retryDelay time.Duration
	maxRetries int

	phase       Phase
	retries     int
	nextAttempt time.Time
	recoveries  int
}

// NewSupervisor creates a supervisor with the given delay between failed attempts
// and the number of failures tolerated before the network link is cycled.
func NewSupervisor(retryDelay time.Duration, maxRetries int) *Supervisor {
	return &Supervisor{
		retryDelay: retryDelay,
		maxRetries: maxRetries,
		phase:      PhaseDisconnected,
	}
}

// Next returns the action for the current broker status. The network state is
// not consulted; attempts against a dead link fail and count towards the
// escalation that cycles it.
func (s *Supervisor) Next(brokerUp bool, now time.Time) Action {
	if brokerUp {
		s.phase = PhaseConnected
		return ActionNone
	}

	if s.phase == PhaseConnected {
		// Session lost; reconnect straight away.
		s.phase = PhaseDisconnected
		s.nextAttempt = now
	}

	if now.Before(s.nextAttempt) {
		return ActionNone
	}

	if s.phase == PhaseRecoveryPending {
		return ActionRecoverNetwork
	}
	return ActionConnect
}

// ConnectFailed records a failed broker connection attempt. It returns true when
// the failure count has exceeded the threshold and the network must be cycled.
func (s *Supervisor) ConnectFailed(now time.Time) bool {
	s.retries++
	s.nextAttempt = now.Add(s.retryDelay)
	if s.retries > s.maxRetries {
		s.phase = PhaseRecoveryPending
		return true
	}
	s.phase = PhaseConnecting
	return false
}

// RecoveryDone records that the network link has been cycled.
func (s *Supervisor) RecoveryDone() {
	s.retries = 0
	s.recoveries++
	s.phase = PhaseDisconnected
}

// ConnectSucceeded records a successful broker connection.
func (s *Supervisor) ConnectSucceeded() {
	s.retries = 0
	s.phase = PhaseConnected
}

// Retries returns the number of consecutive failed attempts in the current cycle.
func (s *Supervisor) Retries() int {
	return s.retries
}

// Phase returns the current supervisor phase.
func (s *Supervisor) Phase() Phase {
	return s.phase
}

// Recoveries returns how many times the network link has been cycled.
func (s *Supervisor) Recoveries() int {
	return s.recoveries
}
