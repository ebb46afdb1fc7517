package timers

import (
	"errors"
	"time"
)

var (
	ErrNotRunning       = errors.New("session is not running")
	ErrNotPaused        = errors.New("session is not paused")
	ErrAlreadyStarted   = errors.New("session already started")
	ErrPauseUnsupported = errors.New("this session type cannot be paused")
)

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateComplete State = "complete"
)

const (
	KindBreathing  = "breathing"
	KindMeditation = "meditation"
)

// Clock is the tick source; tests drive it by hand.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Status is a read-only snapshot of a timer.
type Status struct {
	Kind             string  `json:"kind"`
	Type             string  `json:"type"`
	Name             string  `json:"name"`
	State            State   `json:"state"`
	Phase            string  `json:"phase,omitempty"`
	PhaseRemaining   float64 `json:"phaseRemaining,omitempty"`
	Cycles           int     `json:"cycles,omitempty"`
	TargetCycles     int     `json:"targetCycles,omitempty"`
	ElapsedSeconds   float64 `json:"elapsedSeconds"`
	RemainingSeconds float64 `json:"remainingSeconds,omitempty"`
}

// Timer is a session driven by external ticks. Tick reports true exactly
// once, on the tick that completes the session.
type Timer interface {
	Start(now time.Time) error
	Tick(now time.Time) bool
	Pause(now time.Time) error
	Resume(now time.Time) error
	Status() Status
}
