package timers

import (
	"time"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

type Phase int

const (
	PhaseInhale Phase = iota
	PhaseHoldIn
	PhaseExhale
	PhaseHoldOut
)

func (p Phase) String() string {
	switch p {
	case PhaseInhale:
		return "Breathe In"
	case PhaseHoldIn:
		return "Hold"
	case PhaseExhale:
		return "Breathe Out"
	case PhaseHoldOut:
		return "Hold Empty"
	}
	return "unknown"
}

// Breathing walks a four-phase pattern for a number of cycles. Time spent
// paused is not counted toward the session duration.
type Breathing struct {
	exercise domain.BreathingExercise

	state          State
	phase          Phase
	phaseRemaining time.Duration
	cycles         int
	active         time.Duration
	lastTick       time.Time
}

func NewBreathing(key string) (*Breathing, error) {
	ex, err := domain.LookupExercise(key)
	if err != nil {
		return nil, err
	}
	return NewBreathingFor(ex)
}

// NewBreathingFor builds a timer for an arbitrary pattern.
func NewBreathingFor(ex domain.BreathingExercise) (*Breathing, error) {
	total := 0
	for _, s := range ex.Pattern {
		if s < 0 {
			return nil, domain.ErrInvalidSession
		}
		total += s
	}
	if total == 0 || ex.Cycles <= 0 {
		return nil, domain.ErrInvalidSession
	}

	return &Breathing{exercise: ex, state: StateIdle}, nil
}

func (b *Breathing) Start(now time.Time) error {
	if b.state != StateIdle {
		return ErrAlreadyStarted
	}
	b.state = StateRunning
	b.lastTick = now
	b.phase = PhaseInhale
	b.phaseRemaining = b.phaseLength(PhaseInhale)
	if b.phaseRemaining == 0 {
		b.advance()
	}
	return nil
}

func (b *Breathing) Tick(now time.Time) bool {
	if b.state != StateRunning {
		return false
	}

	elapsed := now.Sub(b.lastTick)
	b.lastTick = now
	if elapsed <= 0 {
		return false
	}

	for elapsed > 0 && b.state == StateRunning {
		if elapsed < b.phaseRemaining {
			b.phaseRemaining -= elapsed
			b.active += elapsed
			return false
		}
		elapsed -= b.phaseRemaining
		b.active += b.phaseRemaining
		b.phaseRemaining = 0
		b.advance()
	}

	return b.state == StateComplete
}

// advance moves to the next non-empty phase. Leaving HoldOut closes a
// cycle, even when HoldOut itself has zero length.
func (b *Breathing) advance() {
	for {
		if b.phase == PhaseHoldOut {
			b.cycles++
			if b.cycles >= b.exercise.Cycles {
				b.state = StateComplete
				return
			}
		}
		b.phase = (b.phase + 1) % 4
		if d := b.phaseLength(b.phase); d > 0 {
			b.phaseRemaining = d
			return
		}
	}
}

func (b *Breathing) phaseLength(p Phase) time.Duration {
	return time.Duration(b.exercise.Pattern[p]) * time.Second
}

// Pause freezes the timer. Callers tick up to now first so the time before
// the pause is counted.
func (b *Breathing) Pause(time.Time) error {
	if b.state != StateRunning {
		return ErrNotRunning
	}
	b.state = StatePaused
	return nil
}

func (b *Breathing) Resume(now time.Time) error {
	if b.state != StatePaused {
		return ErrNotPaused
	}
	b.state = StateRunning
	b.lastTick = now
	return nil
}

// Session converts a completed run into the persisted record.
func (b *Breathing) Session(now time.Time) domain.BreathingSession {
	return domain.BreathingSession{
		Type:     b.exercise.Key,
		Duration: b.active.Seconds(),
		Cycles:   b.cycles,
		Date:     now.UTC(),
	}
}

func (b *Breathing) Status() Status {
	st := Status{
		Kind:           KindBreathing,
		Type:           b.exercise.Key,
		Name:           b.exercise.Name,
		State:          b.state,
		Cycles:         b.cycles,
		TargetCycles:   b.exercise.Cycles,
		ElapsedSeconds: b.active.Seconds(),
	}
	if b.state == StateRunning || b.state == StatePaused {
		st.Phase = b.phase.String()
		st.PhaseRemaining = b.phaseRemaining.Seconds()
	}
	return st
}
