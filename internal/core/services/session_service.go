package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/timers"
)

var (
	ErrSessionBusy     = errors.New("another session is already in progress")
	ErrNoActiveSession = errors.New("no session in progress")
	ErrUnknownKind     = errors.New("unknown session kind (must be breathing or meditation)")
)

const DefaultTickInterval = 100 * time.Millisecond

// SessionRecorder persists completed sessions.
type SessionRecorder interface {
	CompleteBreathingSession(ctx context.Context, session domain.BreathingSession) (*WriteResult[domain.BreathingSession], error)
	CompleteMeditationSession(ctx context.Context, session domain.MeditationSession) (*WriteResult[domain.MeditationSession], error)
}

type SessionOutcome struct {
	Status      timers.Status        `json:"status"`
	Unlocked    []domain.Achievement `json:"unlocked"`
	Warning     string               `json:"warning,omitempty"`
	CompletedAt time.Time            `json:"completedAt"`
}

type SessionState struct {
	Active        *timers.Status  `json:"active"`
	LastCompleted *SessionOutcome `json:"lastCompleted"`
}

// SessionManager allows at most one breathing or meditation timer at a time
// and records it when it completes.
type SessionManager struct {
	mu       sync.Mutex
	active   timers.Timer
	last     *SessionOutcome
	recorder SessionRecorder
	clock    timers.Clock
	interval time.Duration
	logger   *zap.Logger
}

func NewSessionManager(recorder SessionRecorder, clock timers.Clock, interval time.Duration, logger *zap.Logger) *SessionManager {
	if clock == nil {
		clock = timers.SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		recorder: recorder,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

func (m *SessionManager) Start(kind, key string) (timers.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return timers.Status{}, ErrSessionBusy
	}

	var (
		t   timers.Timer
		err error
	)
	switch kind {
	case timers.KindBreathing:
		t, err = timers.NewBreathing(key)
	case timers.KindMeditation:
		t, err = timers.NewMeditation(key)
	default:
		return timers.Status{}, ErrUnknownKind
	}
	if err != nil {
		return timers.Status{}, err
	}

	if err := t.Start(m.clock.Now()); err != nil {
		return timers.Status{}, err
	}
	m.active = t

	m.logger.Info("Session started", zap.String("kind", kind), zap.String("type", key))
	return t.Status(), nil
}

func (m *SessionManager) Pause(ctx context.Context) (timers.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return timers.Status{}, ErrNoActiveSession
	}

	now := m.clock.Now()
	t := m.active
	if t.Tick(now) {
		m.completeLocked(ctx, t, now)
		return t.Status(), timers.ErrNotRunning
	}
	if err := t.Pause(now); err != nil {
		return t.Status(), err
	}
	return t.Status(), nil
}

func (m *SessionManager) Resume() (timers.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return timers.Status{}, ErrNoActiveSession
	}
	if err := m.active.Resume(m.clock.Now()); err != nil {
		return m.active.Status(), err
	}
	return m.active.Status(), nil
}

// Stop abandons the active session without recording anything.
func (m *SessionManager) Stop() (timers.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return timers.Status{}, ErrNoActiveSession
	}
	st := m.active.Status()
	m.active = nil

	m.logger.Info("Session stopped", zap.String("kind", st.Kind), zap.String("type", st.Type))
	return st, nil
}

func (m *SessionManager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	var state SessionState
	if m.active != nil {
		st := m.active.Status()
		state.Active = &st
	}
	if m.last != nil {
		last := *m.last
		state.LastCompleted = &last
	}
	return state
}

// Tick advances the active timer to the clock's current time and records
// the session if it completed. It returns the outcome on completion.
func (m *SessionManager) Tick(ctx context.Context) *SessionOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil
	}

	now := m.clock.Now()
	t := m.active
	if !t.Tick(now) {
		return nil
	}
	return m.completeLocked(ctx, t, now)
}

// Run ticks at the configured interval until ctx is cancelled.
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *SessionManager) completeLocked(ctx context.Context, t timers.Timer, now time.Time) *SessionOutcome {
	m.active = nil
	outcome := &SessionOutcome{Status: t.Status(), CompletedAt: now.UTC(), Unlocked: []domain.Achievement{}}

	var err error
	switch timer := t.(type) {
	case *timers.Breathing:
		var res *WriteResult[domain.BreathingSession]
		if res, err = m.recorder.CompleteBreathingSession(ctx, timer.Session(now)); err == nil {
			outcome.Unlocked, outcome.Warning = res.Unlocked, res.Warning
		}
	case *timers.Meditation:
		var res *WriteResult[domain.MeditationSession]
		if res, err = m.recorder.CompleteMeditationSession(ctx, timer.Session(now)); err == nil {
			outcome.Unlocked, outcome.Warning = res.Unlocked, res.Warning
		}
	}

	if err != nil {
		m.logger.Error("Failed to record completed session", zap.Error(err), zap.String("type", outcome.Status.Type))
		outcome.Warning = err.Error()
	} else {
		m.logger.Info("Session completed",
			zap.String("kind", outcome.Status.Kind),
			zap.String("type", outcome.Status.Type),
			zap.Float64("seconds", outcome.Status.ElapsedSeconds),
		)
	}

	m.last = outcome
	return outcome
}
