package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/timers"
)

func newSessionEnv(t *testing.T) (*testEnv, *services.SessionManager) {
	t.Helper()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(context.Background()))
	return env, services.NewSessionManager(env.svc, env.clock, time.Millisecond, nil)
}

func TestSessionManager_Breathing(t *testing.T) {
	ctx := context.Background()
	env, mgr := newSessionEnv(t)

	st, err := mgr.Start(timers.KindBreathing, "coherent")
	require.NoError(t, err)
	assert.Equal(t, timers.StateRunning, st.State)

	t.Run("Error: Only one session at a time", func(t *testing.T) {
		_, err := mgr.Start(timers.KindMeditation, "calm-waters")
		assert.ErrorIs(t, err, services.ErrSessionBusy)
	})

	t.Run("Pause excludes idle time", func(t *testing.T) {
		env.clock.Advance(40 * time.Second)
		st, err := mgr.Pause(ctx)
		require.NoError(t, err)
		assert.Equal(t, timers.StatePaused, st.State)
		assert.Equal(t, 4, st.Cycles)

		env.clock.Advance(10 * time.Minute)
		assert.Nil(t, mgr.Tick(ctx))

		_, err = mgr.Resume()
		require.NoError(t, err)
	})

	t.Run("Completion records the session", func(t *testing.T) {
		env.clock.Advance(59 * time.Second)
		assert.Nil(t, mgr.Tick(ctx))

		env.clock.Advance(time.Second)
		outcome := mgr.Tick(ctx)
		require.NotNil(t, outcome)
		assert.Equal(t, timers.StateComplete, outcome.Status.State)
		assert.Empty(t, outcome.Warning)

		snap, _ := env.svc.Snapshot()
		require.Len(t, snap.BreathingSessions, 1)
		assert.Equal(t, 100.0, snap.BreathingSessions[0].Duration)
		assert.Equal(t, 10, snap.BreathingSessions[0].Cycles)

		state := mgr.State()
		assert.Nil(t, state.Active)
		require.NotNil(t, state.LastCompleted)
	})

	t.Run("A new session can start afterwards", func(t *testing.T) {
		_, err := mgr.Start(timers.KindMeditation, "laser-focus")
		require.NoError(t, err)
	})
}

func TestSessionManager_StopDiscards(t *testing.T) {
	ctx := context.Background()
	env, mgr := newSessionEnv(t)

	_, err := mgr.Start(timers.KindMeditation, "peaceful-night")
	require.NoError(t, err)

	_, err = mgr.Pause(ctx)
	assert.ErrorIs(t, err, timers.ErrPauseUnsupported)

	env.clock.Advance(10 * time.Minute)
	mgr.Tick(ctx)

	st, err := mgr.Stop()
	require.NoError(t, err)
	assert.Equal(t, 600.0, st.ElapsedSeconds)

	env.clock.Advance(time.Hour)
	assert.Nil(t, mgr.Tick(ctx))

	snap, _ := env.svc.Snapshot()
	assert.Empty(t, snap.MeditationSessions)

	_, err = mgr.Stop()
	assert.ErrorIs(t, err, services.ErrNoActiveSession)
}

func TestSessionManager_Validation(t *testing.T) {
	_, mgr := newSessionEnv(t)

	_, err := mgr.Start("yoga", "coherent")
	assert.ErrorIs(t, err, services.ErrUnknownKind)

	_, err = mgr.Start(timers.KindBreathing, "box")
	assert.ErrorIs(t, err, domain.ErrUnknownExercise)

	_, err = mgr.Resume()
	assert.ErrorIs(t, err, services.ErrNoActiveSession)
}

func TestSessionManager_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	env, mgr := newSessionEnv(t)
	_, err := mgr.Start(timers.KindMeditation, "calm-waters")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		mgr.Run(ctx)
		close(done)
	}()

	env.clock.Advance(601 * time.Second)

	assert.Eventually(t, func() bool {
		return mgr.State().LastCompleted != nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	snap, _ := env.svc.Snapshot()
	require.Len(t, snap.MeditationSessions, 1)
	assert.Equal(t, "calm-waters", snap.MeditationSessions[0].Type)
}
