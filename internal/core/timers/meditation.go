package timers

import (
	"time"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

// Meditation counts down a fixed duration. It cannot be paused.
type Meditation struct {
	meditation domain.Meditation

	state     State
	remaining time.Duration
	lastTick  time.Time
}

func NewMeditation(key string) (*Meditation, error) {
	m, err := domain.LookupMeditation(key)
	if err != nil {
		return nil, err
	}
	if m.Duration <= 0 {
		return nil, domain.ErrInvalidSession
	}
	return &Meditation{
		meditation: m,
		state:      StateIdle,
		remaining:  time.Duration(m.Duration) * time.Second,
	}, nil
}

func (m *Meditation) Start(now time.Time) error {
	if m.state != StateIdle {
		return ErrAlreadyStarted
	}
	m.state = StateRunning
	m.lastTick = now
	return nil
}

func (m *Meditation) Tick(now time.Time) bool {
	if m.state != StateRunning {
		return false
	}

	elapsed := now.Sub(m.lastTick)
	m.lastTick = now
	if elapsed <= 0 {
		return false
	}

	m.remaining -= elapsed
	if m.remaining <= 0 {
		m.remaining = 0
		m.state = StateComplete
		return true
	}
	return false
}

func (m *Meditation) Pause(time.Time) error {
	return ErrPauseUnsupported
}

func (m *Meditation) Resume(time.Time) error {
	return ErrPauseUnsupported
}

func (m *Meditation) Session(now time.Time) domain.MeditationSession {
	return domain.MeditationSession{
		Type:     m.meditation.Key,
		Duration: float64(m.meditation.Duration),
		Category: m.meditation.Category,
		Date:     now.UTC(),
	}
}

func (m *Meditation) Status() Status {
	total := time.Duration(m.meditation.Duration) * time.Second
	return Status{
		Kind:             KindMeditation,
		Type:             m.meditation.Key,
		Name:             m.meditation.Name,
		State:            m.state,
		ElapsedSeconds:   (total - m.remaining).Seconds(),
		RemainingSeconds: m.remaining.Seconds(),
	}
}
