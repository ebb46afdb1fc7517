package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationAchievement  = "achievement"
	NotificationMoodCheckIn  = "mood_check_in"
	NotificationStreak       = "streak_milestone"
	NotificationReminder     = "reminder"
	NotificationPersistError = "persist_warning"
)

type Notification struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Icon    string    `json:"icon,omitempty"`
	Date    time.Time `json:"date"`
}

func NewNotification(kind, title, message, icon string, now time.Time) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Title:   title,
		Message: message,
		Icon:    icon,
		Date:    now.UTC(),
	}
}
