package domain

import "errors"

var (
	ErrAchievementNotFound = errors.New("achievement not found")
)

const XPPerLevel = 100

const (
	AchFirstMood        = "firstMood"
	AchWeekStreak       = "weekStreak"
	AchMonthStreak      = "monthStreak"
	AchTenMoods         = "tenMoods"
	AchFiftyMoods       = "fiftyMoods"
	AchFirstJournal     = "firstJournal"
	AchLongJournal      = "longJournal"
	AchBreathingPro     = "breathingPro"
	AchMeditationMaster = "meditationMaster"
	AchEarlyBird        = "earlyBird"
	AchNightOwl         = "nightOwl"
	AchMoodExplorer     = "moodExplorer"
	AchConsistentUser   = "consistentUser"
	AchZenMaster        = "zenMaster"
	AchCommunityHelper  = "communityHelper"
	AchInsightfulUser   = "insightfulUser"
	AchSleepChampion    = "sleepChampion"
	AchWellnessWarrior  = "wellnessWarrior"
)

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
	XP          int    `json:"xp"`
}

var achievementCatalog = []Achievement{
	{AchFirstMood, "First Step", "Track your first mood", "🌱", false, 10},
	{AchWeekStreak, "Week Warrior", "Maintain a 7-day streak", "🔥", false, 50},
	{AchMonthStreak, "Monthly Master", "Maintain a 30-day streak", "💎", false, 200},
	{AchTenMoods, "Mood Master", "Track 10 moods", "📊", false, 30},
	{AchFiftyMoods, "Emotion Expert", "Track 50 moods", "🎯", false, 100},
	{AchFirstJournal, "Dear Diary", "Write your first journal entry", "📝", false, 15},
	{AchLongJournal, "Wordsmith", "Write a 500+ word journal entry", "📚", false, 40},
	{AchBreathingPro, "Breathing Pro", "Complete 5 breathing sessions", "🌬️", false, 25},
	{AchMeditationMaster, "Meditation Master", "Complete 10 meditation sessions", "🧘", false, 60},
	{AchEarlyBird, "Early Bird", "Track mood before 9 AM", "🌅", false, 20},
	{AchNightOwl, "Night Owl", "Track mood after 9 PM", "🌙", false, 20},
	{AchMoodExplorer, "Mood Explorer", "Use all emotion categories", "🎭", false, 35},
	{AchConsistentUser, "Consistent User", "Use app 3 days in a row", "⭐", false, 25},
	{AchZenMaster, "Zen Master", "30 minutes of breathing exercises", "☮️", false, 80},
	{AchCommunityHelper, "Community Helper", "Help 5 community members", "🤝", false, 45},
	{AchInsightfulUser, "Insightful", "View analytics 10 times", "💡", false, 30},
	{AchSleepChampion, "Sleep Champion", "Log 7 nights of good sleep", "😴", false, 50},
	{AchWellnessWarrior, "Wellness Warrior", "Achieve 80+ wellness score", "🏆", false, 100},
}

// Registry holds achievements by id. Unlocking is one-way.
type Registry map[string]*Achievement

func NewRegistry() Registry {
	r := make(Registry, len(achievementCatalog))
	for _, a := range achievementCatalog {
		cp := a
		r[a.ID] = &cp
	}
	return r
}

// AchievementIDs returns ids in catalog order.
func AchievementIDs() []string {
	ids := make([]string, len(achievementCatalog))
	for i, a := range achievementCatalog {
		ids[i] = a.ID
	}
	return ids
}

// Unlock flips the achievement to unlocked. It reports false when the id is
// unknown or the achievement was already unlocked.
func (r Registry) Unlock(id string) (Achievement, bool) {
	a, ok := r[id]
	if !ok || a.Unlocked {
		return Achievement{}, false
	}
	a.Unlocked = true
	return *a, true
}

func (r Registry) IsUnlocked(id string) bool {
	a, ok := r[id]
	return ok && a.Unlocked
}

// Merge copies unlocked flags from other. Locked entries in other never
// re-lock anything here; unknown ids are ignored.
func (r Registry) Merge(other Registry) {
	for id, a := range other {
		if a == nil || !a.Unlocked {
			continue
		}
		if mine, ok := r[id]; ok {
			mine.Unlocked = true
		}
	}
}

// List returns copies in catalog order.
func (r Registry) List() []Achievement {
	out := make([]Achievement, 0, len(r))
	for _, id := range AchievementIDs() {
		if a, ok := r[id]; ok {
			out = append(out, *a)
		}
	}
	return out
}

func (r Registry) UnlockedCount() int {
	n := 0
	for _, a := range r {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// UnlockedXP sums the XP of every unlocked achievement.
func (r Registry) UnlockedXP() int {
	xp := 0
	for _, a := range r {
		if a.Unlocked {
			xp += a.XP
		}
	}
	return xp
}

func (r Registry) Clone() Registry {
	out := make(Registry, len(r))
	for id, a := range r {
		cp := *a
		out[id] = &cp
	}
	return out
}

func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}
