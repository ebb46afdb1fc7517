package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
)

func TestWellnessService_Init(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts fresh when nothing is stored", func(t *testing.T) {
		env := newTestEnv(now)
		require.NoError(t, env.svc.Init(ctx))

		snap, err := env.svc.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Streak)
		assert.Equal(t, 1, snap.Level)
		assert.Equal(t, "2026-10-19", snap.LastVisit)
		assert.Equal(t, domain.DefaultPreferences(), snap.Preferences)
	})

	t.Run("Malformed stored data falls back to defaults", func(t *testing.T) {
		env := newTestEnv(now)
		env.blobs.store[domain.RecordKey] = []byte("{not json")
		env.blobs.store[domain.AchievementsKey] = []byte("[]")

		require.NoError(t, env.svc.Init(ctx))
		snap, err := env.svc.Snapshot()
		require.NoError(t, err)
		assert.Empty(t, snap.Moods)
		assert.Len(t, env.svc.Achievements(), 18)
	})

	t.Run("Visit the day after extends the streak", func(t *testing.T) {
		env := newTestEnv(now)
		r := domain.NewRecord(now.AddDate(0, 0, -1))
		r.Streak = 2
		data, _ := json.Marshal(r)
		env.blobs.store[domain.RecordKey] = data

		require.NoError(t, env.svc.Init(ctx))
		snap, _ := env.svc.Snapshot()
		assert.Equal(t, 3, snap.Streak)
		assert.Equal(t, "2026-10-19", snap.LastVisit)

		assert.True(t, findAchievement(env.svc.Achievements(), domain.AchConsistentUser).Unlocked,
			"consistentUser unlocks at a 3 day streak")
	})

	t.Run("A gap resets the streak", func(t *testing.T) {
		env := newTestEnv(now)
		r := domain.NewRecord(now.AddDate(0, 0, -3))
		r.Streak = 9
		data, _ := json.Marshal(r)
		env.blobs.store[domain.RecordKey] = data

		require.NoError(t, env.svc.Init(ctx))
		snap, _ := env.svc.Snapshot()
		assert.Equal(t, 1, snap.Streak)
	})

	t.Run("A second visit the same day keeps the streak", func(t *testing.T) {
		env := newTestEnv(now)
		r := domain.NewRecord(now)
		r.Streak = 4
		data, _ := json.Marshal(r)
		env.blobs.store[domain.RecordKey] = data

		require.NoError(t, env.svc.Init(ctx))
		snap, _ := env.svc.Snapshot()
		assert.Equal(t, 4, snap.Streak)
	})
}

func TestWellnessService_RecordMood(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Date(2026, 10, 19, 8, 15, 0, 0, time.UTC))
	require.NoError(t, env.svc.Init(ctx))

	t.Run("Success: first mood unlocks firstMood and earlyBird", func(t *testing.T) {
		res, err := env.svc.RecordMood(ctx, services.MoodInput{
			Emotion:   &domain.Emotion{Name: "Joy"},
			Intensity: 2,
			Factors:   []string{"Sleep"},
			Note:      "I feel great",
		})
		require.NoError(t, err)

		assert.Equal(t, "Joy", res.Item.Emotion.Name)
		require.NotNil(t, res.Item.Sentiment)
		assert.Positive(t, res.Item.Sentiment.Score)
		assert.Equal(t, []string{domain.AchFirstMood, domain.AchEarlyBird}, unlockedIDs(res.Unlocked))
		assert.Empty(t, res.Warning)
		assert.Len(t, res.Suggestions, 1)

		snap, _ := env.svc.Snapshot()
		assert.Equal(t, 30, snap.TotalXP)
		assert.Equal(t, 1, snap.Level)
		assert.Equal(t, []int{2}, snap.Analytics.MoodPatterns["Monday"])
	})

	t.Run("Second mood unlocks nothing new", func(t *testing.T) {
		res, err := env.svc.RecordMood(ctx, services.MoodInput{Emotion: &domain.Emotion{Name: "Fear"}, Intensity: 3})
		require.NoError(t, err)
		assert.Empty(t, res.Unlocked)
		assert.Nil(t, res.Item.Sentiment, "No note means no sentiment")
	})

	t.Run("Error: Empty selection leaves the record untouched", func(t *testing.T) {
		before, _ := env.svc.Snapshot()
		_, err := env.svc.RecordMood(ctx, services.MoodInput{Intensity: 3})
		assert.ErrorIs(t, err, domain.ErrMoodSelectionEmpty)

		after, _ := env.svc.Snapshot()
		assert.Len(t, after.Moods, len(before.Moods))
	})

	t.Run("Using every category unlocks moodExplorer", func(t *testing.T) {
		var last *services.WriteResult[domain.MoodEntry]
		for _, name := range []string{"Sadness", "Anger", "Surprise", "Disgust"} {
			res, err := env.svc.RecordMood(ctx, services.MoodInput{Emotion: &domain.Emotion{Name: name}, Intensity: 5})
			require.NoError(t, err)
			last = res
		}
		assert.Contains(t, unlockedIDs(last.Unlocked), domain.AchMoodExplorer)
	})
}

func TestWellnessService_BreathingProUnlocksOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	session := domain.BreathingSession{Type: "coherent", Duration: 100, Cycles: 10, Date: now}

	unlockCount := 0
	for i := 1; i <= 6; i++ {
		res, err := env.svc.CompleteBreathingSession(ctx, session)
		require.NoError(t, err)

		ids := unlockedIDs(res.Unlocked)
		if i == 5 {
			assert.Contains(t, ids, domain.AchBreathingPro, "Fifth session unlocks breathingPro")
		}
		for _, id := range ids {
			if id == domain.AchBreathingPro {
				unlockCount++
			}
		}
	}
	assert.Equal(t, 1, unlockCount)

	snap, _ := env.svc.Snapshot()
	assert.Equal(t, 25, snap.TotalXP)
}

func TestWellnessService_LongJournal(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		words      int
		wantUnlock bool
	}{
		{"480 words", 480, false},
		{"520 words", 520, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(now)
			require.NoError(t, env.svc.Init(ctx))

			res, err := env.svc.RecordJournal(ctx, services.JournalInput{Content: strings.Repeat("calm ", tt.words)})
			require.NoError(t, err)

			assert.Equal(t, tt.words, res.Item.WordCount)
			assert.Contains(t, unlockedIDs(res.Unlocked), domain.AchFirstJournal)
			if tt.wantUnlock {
				assert.Contains(t, unlockedIDs(res.Unlocked), domain.AchLongJournal)
			} else {
				assert.NotContains(t, unlockedIDs(res.Unlocked), domain.AchLongJournal)
			}
		})
	}
}

func TestWellnessService_RecordJournal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	res, err := env.svc.RecordJournal(ctx, services.JournalInput{
		Content: "Work was a struggle but I am grateful for my family",
		Tags:    []string{"evening"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Gratitude", "Challenges", "Relationships"}, res.Item.Themes)
	require.NotNil(t, res.Item.Sentiment)
	assert.Len(t, res.Suggestions, 2)

	_, err = env.svc.RecordJournal(ctx, services.JournalInput{Content: "   "})
	assert.ErrorIs(t, err, domain.ErrJournalEmpty)
}

func TestWellnessService_PersistFailureIsAWarning(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	env.blobs.setError(errors.New("disk full"))

	res, err := env.svc.LogSleep(ctx, services.SleepInput{Bedtime: "23:00", WakeTime: "07:00", Quality: "good"})
	require.NoError(t, err, "Persistence failure must not fail the write")
	assert.Equal(t, services.PersistWarning, res.Warning)

	snap, _ := env.svc.Snapshot()
	assert.Len(t, snap.SleepLogs, 1, "In-memory record stays authoritative")

	env.blobs.setError(nil)
	require.NoError(t, env.svc.Save(ctx))

	stored, err := env.blobs.Get(ctx, domain.RecordKey)
	require.NoError(t, err)
	assert.Contains(t, string(stored), `"wakeTime":"07:00"`)
}

func TestWellnessService_LogSleepValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	_, err := env.svc.LogSleep(ctx, services.SleepInput{Bedtime: "23:00", Quality: "good"})
	assert.ErrorIs(t, err, domain.ErrSleepTimesRequired)

	res, err := env.svc.LogSleep(ctx, services.SleepInput{Bedtime: "23:30", WakeTime: "06:00", Quality: "excellent"})
	require.NoError(t, err)
	assert.InDelta(t, 6.5, res.Item.Duration, 1e-9)
}

func TestWellnessService_CommunityChatShare(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	for i := 0; i < 4; i++ {
		_, err := env.svc.AddCommunityPost(ctx, "You are not alone")
		require.NoError(t, err)
	}
	res, err := env.svc.AddCommunityPost(ctx, "Sending support")
	require.NoError(t, err)
	assert.Contains(t, unlockedIDs(res.Unlocked), domain.AchCommunityHelper)

	chat, err := env.svc.Chat(ctx, "I feel anxious")
	require.NoError(t, err)
	assert.Contains(t, chat.Item.AI, "anxious")

	_, err = env.svc.Chat(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrMessageEmpty)

	_, err = env.svc.ShareWithTherapist(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	share, err := env.svc.ShareWithTherapist(ctx, "dr@clinic.org")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportTypeComprehensive, share.Item.ReportType)

	snap, _ := env.svc.Snapshot()
	assert.Len(t, snap.AIConversations, 1)
	assert.Len(t, snap.TherapistShares, 1)
}

func TestWellnessService_UpdatePreferences(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	var seen []domain.Preferences
	env.svc.OnPreferencesChanged(func(p domain.Preferences) { seen = append(seen, p) })

	_, err := env.svc.UpdatePreferences(ctx, domain.Preferences{ReminderTime: "7:00", Theme: "dark"})
	assert.ErrorIs(t, err, domain.ErrInvalidReminder)
	assert.Empty(t, seen)

	res, err := env.svc.UpdatePreferences(ctx, domain.Preferences{ReminderTime: "20:30", Theme: " Light "})
	require.NoError(t, err)
	assert.Equal(t, "light", res.Item.Theme)
	assert.Equal(t, "20:30", env.svc.Preferences().ReminderTime)
	require.Len(t, seen, 1)
	assert.Equal(t, "20:30", seen[0].ReminderTime)
}

func TestWellnessService_ViewAnalytics(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	var last *services.WriteResult[domain.WellnessScore]
	for i := 0; i < 10; i++ {
		last = env.svc.ViewAnalytics(ctx)
	}
	assert.Equal(t, []string{domain.AchInsightfulUser}, unlockedIDs(last.Unlocked))
	assert.Equal(t, 51, last.Item.Total)
}

func TestWellnessService_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	_, err := env.svc.RecordMood(ctx, services.MoodInput{Emotion: &domain.Emotion{Name: "Joy"}, Value: ptr(4), Intensity: 6, Factors: []string{"Work"}, Note: "good day"})
	require.NoError(t, err)
	_, err = env.svc.RecordJournal(ctx, services.JournalInput{Content: "I learned a lot", Tags: []string{"growth"}})
	require.NoError(t, err)
	_, err = env.svc.LogSleep(ctx, services.SleepInput{Bedtime: "22:00", WakeTime: "06:00", Quality: "fair"})
	require.NoError(t, err)
	_, err = env.svc.CompleteMeditationSession(ctx, domain.MeditationSession{Type: "calm-waters", Duration: 600, Category: "anxiety", Date: now})
	require.NoError(t, err)

	data, name, err := env.svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "mindfulme_pro_data_2026-10-19.json", name)

	var artifact map[string]any
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.Equal(t, "2.0", artifact["version"])
	assert.Contains(t, artifact, "exportDate")
	assert.Contains(t, artifact, "achievements")

	original, err := env.svc.Snapshot()
	require.NoError(t, err)

	other := newTestEnv(now)
	require.NoError(t, other.svc.Init(ctx))
	res, err := other.svc.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Item.Moods)
	assert.Equal(t, 1, res.Item.Sessions)

	imported, err := other.svc.Snapshot()
	require.NoError(t, err)

	if diff := cmp.Diff(original, imported, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Record mismatch after export/import (-want +got):\n%s", diff)
	}

	for _, a := range env.svc.Achievements() {
		if a.Unlocked {
			assert.True(t, findAchievement(other.svc.Achievements(), a.ID).Unlocked, a.ID)
		}
	}
}

func TestWellnessService_ImportNeverRelocks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	_, err := env.svc.RecordMood(ctx, services.MoodInput{Emotion: &domain.Emotion{Name: "Joy"}, Intensity: 5})
	require.NoError(t, err)

	payload := `{"moods":[],"achievements":{"firstMood":{"id":"firstMood","unlocked":false}}}`
	_, err = env.svc.Import(ctx, []byte(payload))
	require.NoError(t, err)

	assert.True(t, findAchievement(env.svc.Achievements(), domain.AchFirstMood).Unlocked)

	t.Run("Error: Not an export", func(t *testing.T) {
		_, err := env.svc.Import(ctx, []byte(`{"hello":"world"}`))
		assert.ErrorIs(t, err, services.ErrInvalidImport)

		_, err = env.svc.Import(ctx, []byte(`garbage`))
		assert.ErrorIs(t, err, services.ErrInvalidImport)
	})
}

func TestWellnessService_Notifications(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	n := env.svc.Notifications()
	require.Len(t, n, 1)
	assert.Equal(t, domain.NotificationMoodCheckIn, n[0].Kind)

	_, err := env.svc.RecordMood(ctx, services.MoodInput{Emotion: &domain.Emotion{Name: "Joy"}, Intensity: 2})
	require.NoError(t, err)

	n = env.svc.Notifications()
	require.Len(t, n, 1)
	assert.Equal(t, domain.NotificationAchievement, n[0].Kind)
	assert.Contains(t, n[0].Message, "First Step")

	assert.Equal(t, 1, env.svc.ClearNotifications())
	assert.Empty(t, env.svc.Notifications())
}

func findAchievement(list []domain.Achievement, id string) domain.Achievement {
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	return domain.Achievement{}
}

func TestWellnessService_StreakAdvancesWhileRunning(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	var last *services.WriteResult[domain.MoodEntry]
	for day := 0; day < 7; day++ {
		env.clock.Set(now.AddDate(0, 0, day))
		res, err := env.svc.RecordMood(ctx, services.MoodInput{Emotion: &domain.Emotion{Name: "Joy"}, Intensity: 5})
		require.NoError(t, err)
		last = res
	}

	snap, _ := env.svc.Snapshot()
	assert.Equal(t, 7, snap.Streak)
	assert.Equal(t, "2026-10-25", snap.LastVisit)
	assert.Contains(t, unlockedIDs(last.Unlocked), domain.AchWeekStreak)
	assert.True(t, findAchievement(env.svc.Achievements(), domain.AchConsistentUser).Unlocked)

	kinds := make([]string, 0)
	for _, n := range env.svc.Notifications() {
		kinds = append(kinds, n.Kind)
	}
	assert.Contains(t, kinds, domain.NotificationStreak)

	t.Run("A second write on the same day keeps the streak", func(t *testing.T) {
		_, err := env.svc.RecordJournal(ctx, services.JournalInput{Content: "Still going"})
		require.NoError(t, err)

		snap, _ := env.svc.Snapshot()
		assert.Equal(t, 7, snap.Streak)
	})

	t.Run("Metrics refresh lapses a broken streak without counting a visit", func(t *testing.T) {
		env.clock.Set(now.AddDate(0, 0, 9))
		score := env.svc.RefreshMetrics(ctx)

		snap, _ := env.svc.Snapshot()
		assert.Equal(t, 1, snap.Streak)
		assert.Equal(t, "2026-10-25", snap.LastVisit)
		assert.InDelta(t, 0.5, score.Consistency, 0.001)
		assert.True(t, findAchievement(env.svc.Achievements(), domain.AchWeekStreak).Unlocked,
			"Streak achievements stay unlocked")
	})
}

func TestWellnessService_ImportKeepsXPInSync(t *testing.T) {
	ctx := context.Background()

	t.Run("Local unlocks are still credited after importing a fresh record", func(t *testing.T) {
		env := newTestEnv(now)
		require.NoError(t, env.svc.Init(ctx))
		_, err := env.svc.RecordMood(ctx, services.MoodInput{Emotion: &domain.Emotion{Name: "Joy"}, Intensity: 5})
		require.NoError(t, err)

		payload, err := json.Marshal(domain.NewRecord(now))
		require.NoError(t, err)
		_, err = env.svc.Import(ctx, payload)
		require.NoError(t, err)

		earned := 0
		for _, a := range env.svc.Achievements() {
			if a.Unlocked {
				earned += a.XP
			}
		}
		require.Positive(t, earned)

		snap, _ := env.svc.Snapshot()
		assert.Equal(t, earned, snap.TotalXP)
		assert.Equal(t, domain.LevelForXP(earned), snap.Level)
	})

	t.Run("Imported XP above the earned total is kept", func(t *testing.T) {
		env := newTestEnv(now)
		require.NoError(t, env.svc.Init(ctx))

		r := domain.NewRecord(now)
		r.TotalXP = 450
		payload, err := json.Marshal(r)
		require.NoError(t, err)
		_, err = env.svc.Import(ctx, payload)
		require.NoError(t, err)

		snap, _ := env.svc.Snapshot()
		assert.Equal(t, 450, snap.TotalXP)
		assert.Equal(t, 5, snap.Level)
	})
}

func TestWellnessService_PersistFailureRequestsRetry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(now)
	require.NoError(t, env.svc.Init(ctx))

	retries := 0
	env.svc.OnPersistFailed(func() { retries++ })

	_, err := env.svc.LogSleep(ctx, services.SleepInput{Bedtime: "23:00", WakeTime: "07:00", Quality: "good"})
	require.NoError(t, err)
	assert.Equal(t, 0, retries)

	env.blobs.setError(errors.New("disk full"))
	_, err = env.svc.LogSleep(ctx, services.SleepInput{Bedtime: "23:30", WakeTime: "07:00", Quality: "fair"})
	require.NoError(t, err)
	assert.Equal(t, 1, retries)
}
