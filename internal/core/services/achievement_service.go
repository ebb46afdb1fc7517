package services

import (
	"time"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

const (
	breathingProSessions    = 5
	meditationMasterTarget  = 10
	zenMasterSeconds        = 1800
	communityHelperPosts    = 5
	insightfulViews         = 10
	sleepChampionNights     = 7
	wellnessWarriorScore    = 80
	earlyBirdBeforeHour     = 9
	nightOwlAfterHour       = 21
	consistentUserStreak    = 3
	weekStreakTarget        = 7
	monthStreakTarget       = 30
	tenMoodsTarget          = 10
	fiftyMoodsTarget        = 50
	allEmotionCategoryCount = 6
)

// AchievementTracker evaluates unlock conditions against the record.
type AchievementTracker struct {
	analytics *AnalyticsService
}

func NewAchievementTracker(analytics *AnalyticsService) *AchievementTracker {
	return &AchievementTracker{analytics: analytics}
}

// Evaluate unlocks every achievement whose condition now holds, credits its
// XP to the record and returns only the newly unlocked ones, in catalog
// order. Already-unlocked achievements are never returned again.
func (t *AchievementTracker) Evaluate(r *domain.Record, reg domain.Registry, now time.Time) []domain.Achievement {
	conditions := t.conditions(r, now)

	var unlocked []domain.Achievement
	for _, id := range domain.AchievementIDs() {
		if reg.IsUnlocked(id) {
			continue
		}
		check, ok := conditions[id]
		if !ok || !check() {
			continue
		}
		if a, ok := reg.Unlock(id); ok {
			r.AddXP(a.XP)
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

func (t *AchievementTracker) conditions(r *domain.Record, now time.Time) map[string]func() bool {
	loc := t.analytics.Location()

	return map[string]func() bool{
		domain.AchFirstMood:      func() bool { return len(r.Moods) >= 1 },
		domain.AchTenMoods:       func() bool { return len(r.Moods) >= tenMoodsTarget },
		domain.AchFiftyMoods:     func() bool { return len(r.Moods) >= fiftyMoodsTarget },
		domain.AchWeekStreak:     func() bool { return r.Streak >= weekStreakTarget },
		domain.AchMonthStreak:    func() bool { return r.Streak >= monthStreakTarget },
		domain.AchConsistentUser: func() bool { return r.Streak >= consistentUserStreak },
		domain.AchFirstJournal:   func() bool { return len(r.Journals) >= 1 },
		domain.AchLongJournal: func() bool {
			for _, j := range r.Journals {
				if j.WordCount >= domain.LongJournalWordTarget {
					return true
				}
			}
			return false
		},
		domain.AchBreathingPro:     func() bool { return len(r.BreathingSessions) >= breathingProSessions },
		domain.AchMeditationMaster: func() bool { return len(r.MeditationSessions) >= meditationMasterTarget },
		domain.AchEarlyBird: func() bool {
			for _, m := range r.Moods {
				if m.Date.In(loc).Hour() < earlyBirdBeforeHour {
					return true
				}
			}
			return false
		},
		domain.AchNightOwl: func() bool {
			for _, m := range r.Moods {
				if m.Date.In(loc).Hour() > nightOwlAfterHour {
					return true
				}
			}
			return false
		},
		domain.AchMoodExplorer: func() bool {
			n := 0
			for _, c := range domain.EmotionWheel {
				if r.UsedEmotions.Has(c.Name) {
					n++
				}
			}
			return n >= allEmotionCategoryCount
		},
		domain.AchZenMaster: func() bool {
			total := 0.0
			for _, b := range r.BreathingSessions {
				total += b.Duration
			}
			return total >= zenMasterSeconds
		},
		domain.AchCommunityHelper: func() bool { return len(r.CommunityPosts) >= communityHelperPosts },
		domain.AchInsightfulUser:  func() bool { return r.InsightViews >= insightfulViews },
		domain.AchSleepChampion: func() bool {
			n := 0
			for _, l := range r.SleepLogs {
				if l.Quality.Restful() {
					n++
				}
			}
			return n >= sleepChampionNights
		},
		domain.AchWellnessWarrior: func() bool {
			return t.analytics.WellnessScore(r, now).Total >= wellnessWarriorScore
		},
	}
}

// reconcileXP raises totalXP to at least the XP of unlocked achievements and
// recomputes the level.
func reconcileXP(r *domain.Record, reg domain.Registry) {
	if earned := reg.UnlockedXP(); earned > r.TotalXP {
		r.TotalXP = earned
	}
	r.Level = domain.LevelForXP(r.TotalXP)
}
