package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

const defaultFeedSize = 50

// Notifier receives one-shot events such as unlocked achievements and
// reminders.
type Notifier interface {
	Notify(n domain.Notification)
}

// NotificationFeed keeps the most recent events in memory, newest last.
type NotificationFeed struct {
	mu     sync.Mutex
	events []domain.Notification
	size   int
}

func NewNotificationFeed(size int) *NotificationFeed {
	if size <= 0 {
		size = defaultFeedSize
	}
	return &NotificationFeed{size: size}
}

func (f *NotificationFeed) Notify(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, n)
	if len(f.events) > f.size {
		f.events = f.events[len(f.events)-f.size:]
	}
}

func (f *NotificationFeed) List() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Notification, len(f.events))
	copy(out, f.events)
	return out
}

// Clear drops all stored events and reports how many were removed.
func (f *NotificationFeed) Clear() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.events)
	f.events = nil
	return n
}

func achievementNotification(a domain.Achievement, now time.Time) domain.Notification {
	return domain.NewNotification(
		domain.NotificationAchievement,
		"Achievement Unlocked!",
		fmt.Sprintf("%s: %s (+%d XP)", a.Name, a.Description, a.XP),
		a.Icon,
		now,
	)
}

// statusNotifications derives the check-in and streak milestone prompts
// from the current record.
func statusNotifications(r *domain.Record, now time.Time) []domain.Notification {
	var out []domain.Notification

	if len(r.Moods) == 0 || now.Sub(r.Moods[len(r.Moods)-1].Date) > 24*time.Hour {
		out = append(out, domain.NewNotification(
			domain.NotificationMoodCheckIn,
			"Mood Check-in",
			"Time for your daily mood check-in",
			"😊",
			now,
		))
	}

	if r.Streak > 0 && r.Streak%7 == 0 {
		out = append(out, domain.NewNotification(
			domain.NotificationStreak,
			"Streak Milestone!",
			fmt.Sprintf("Amazing! %d day streak!", r.Streak),
			"🔥",
			now,
		))
	}

	return out
}
