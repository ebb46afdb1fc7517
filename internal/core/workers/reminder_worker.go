package workers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

type ReminderTarget interface {
	Preferences() domain.Preferences
	Notify(n domain.Notification)
}

// ReminderWorker fires the daily mood check-in at the preferred time.
type ReminderWorker struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	target  ReminderTarget
	logger  *zap.Logger
	stopped chan struct{}
}

func NewReminderWorker(target ReminderTarget, loc *time.Location, logger *zap.Logger) *ReminderWorker {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderWorker{
		cron:    cron.New(cron.WithLocation(loc)),
		target:  target,
		logger:  logger,
		stopped: make(chan struct{}),
	}
}

// CronSpec turns an "HH:MM" reminder into a daily five-field cron spec.
func CronSpec(reminder string) (string, error) {
	if !domain.ValidClockTime(reminder) {
		return "", domain.ErrInvalidReminder
	}
	parts := strings.SplitN(reminder, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

func (w *ReminderWorker) Start(ctx context.Context) error {
	if err := w.Reschedule(w.target.Preferences()); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("Reminder scheduler started")

	go func() {
		<-ctx.Done()
		stopCtx := w.cron.Stop()
		<-stopCtx.Done()
		w.logger.Info("Reminder scheduler shutting down...")
		close(w.stopped)
	}()
	return nil
}

// Stopped is closed after the scheduler has drained running jobs.
func (w *ReminderWorker) Stopped() <-chan struct{} {
	return w.stopped
}

// Reschedule replaces the daily job. With notifications disabled no job is
// scheduled.
func (w *ReminderWorker) Reschedule(prefs domain.Preferences) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.entry != 0 {
		w.cron.Remove(w.entry)
		w.entry = 0
	}
	if !prefs.Notifications || prefs.ReminderTime == "" {
		w.logger.Info("Mood reminder disabled")
		return nil
	}

	spec, err := CronSpec(prefs.ReminderTime)
	if err != nil {
		return err
	}
	id, err := w.cron.AddFunc(spec, w.fire)
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	w.entry = id

	w.logger.Info("Mood reminder scheduled", zap.String("time", prefs.ReminderTime))
	return nil
}

// NextRun reports when the reminder fires next, or the zero time when none
// is scheduled.
func (w *ReminderWorker) NextRun(now time.Time) time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.entry == 0 {
		return time.Time{}
	}
	return w.cron.Entry(w.entry).Schedule.Next(now)
}

func (w *ReminderWorker) fire() {
	w.target.Notify(domain.NewNotification(
		domain.NotificationReminder,
		"Time for your mood check-in!",
		"Take a moment to reflect on how you're feeling",
		"🔔",
		time.Now(),
	))
	w.logger.Info("Mood reminder sent")
}
