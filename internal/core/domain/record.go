package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidReminder = errors.New("invalid reminder format (must be HH:MM 24h)")
	ErrInvalidTheme    = errors.New("invalid theme (must be dark or light)")
)

const (
	DateLayout      = "2006-01-02"
	ExportVersion   = "2.0"
	DefaultReminder = "09:00"
	ThemeDark       = "dark"
	ThemeLight      = "light"
	InitialStreak   = 1
	InitialLevel    = 1
)

type Preferences struct {
	ReminderTime  string `json:"reminderTime" yaml:"reminder_time"`
	Theme         string `json:"theme" yaml:"theme"`
	Notifications bool   `json:"notifications" yaml:"notifications"`
	SoundEnabled  bool   `json:"soundEnabled" yaml:"sound_enabled"`
	PrivacyMode   bool   `json:"privacyMode" yaml:"privacy_mode"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		ReminderTime:  DefaultReminder,
		Theme:         ThemeDark,
		Notifications: true,
		SoundEnabled:  true,
		PrivacyMode:   false,
	}
}

func (p Preferences) Validate() error {
	if p.ReminderTime != "" && !clockRegex.MatchString(p.ReminderTime) {
		return ErrInvalidReminder
	}
	switch strings.ToLower(p.Theme) {
	case ThemeDark, ThemeLight:
	default:
		return ErrInvalidTheme
	}
	return nil
}

// Analytics is the cached per-day and per-factor intensity history that is
// appended on every mood save.
type Analytics struct {
	MoodPatterns       map[string][]int `json:"moodPatterns"`
	SleepPatterns      map[string][]int `json:"sleepPatterns"`
	FactorCorrelations map[string][]int `json:"factorCorrelations"`
	WeeklyTrends       []float64        `json:"weeklyTrends"`
}

func NewAnalytics() Analytics {
	return Analytics{
		MoodPatterns:       map[string][]int{},
		SleepPatterns:      map[string][]int{},
		FactorCorrelations: map[string][]int{},
		WeeklyTrends:       []float64{},
	}
}

// Record is the whole persisted state of the journal.
type Record struct {
	Moods              []MoodEntry         `json:"moods"`
	Journals           []JournalEntry      `json:"journals"`
	BreathingSessions  []BreathingSession  `json:"breathingSessions"`
	MeditationSessions []MeditationSession `json:"meditationSessions"`
	SleepLogs          []SleepLog          `json:"sleepLogs"`
	CommunityPosts     []CommunityPost     `json:"communityPosts"`
	AIConversations    []AIConversation    `json:"aiConversations"`
	TherapistShares    []TherapistShare    `json:"therapistShares"`
	LastVisit          string              `json:"lastVisit"`
	Streak             int                 `json:"streak"`
	TotalXP            int                 `json:"totalXP"`
	Level              int                 `json:"level"`
	UsedMoodValues     Set[int]            `json:"usedMoodValues"`
	UsedEmotions       Set[string]         `json:"usedEmotions"`
	PuzzlesCompleted   int                 `json:"puzzlesCompleted"`
	InsightViews       int                 `json:"insightViews"`
	Preferences        Preferences         `json:"preferences"`
	Analytics          Analytics           `json:"analytics"`
}

func NewRecord(now time.Time) *Record {
	return &Record{
		Moods:              []MoodEntry{},
		Journals:           []JournalEntry{},
		BreathingSessions:  []BreathingSession{},
		MeditationSessions: []MeditationSession{},
		SleepLogs:          []SleepLog{},
		CommunityPosts:     []CommunityPost{},
		AIConversations:    []AIConversation{},
		TherapistShares:    []TherapistShare{},
		LastVisit:          now.Format(DateLayout),
		Streak:             InitialStreak,
		TotalXP:            0,
		Level:              InitialLevel,
		UsedMoodValues:     NewSet[int](),
		UsedEmotions:       NewSet[string](),
		Preferences:        DefaultPreferences(),
		Analytics:          NewAnalytics(),
	}
}

// Normalize fills collections that older or partial records left empty so
// callers can append without nil checks.
func (r *Record) Normalize() {
	if r.Moods == nil {
		r.Moods = []MoodEntry{}
	}
	if r.Journals == nil {
		r.Journals = []JournalEntry{}
	}
	if r.BreathingSessions == nil {
		r.BreathingSessions = []BreathingSession{}
	}
	if r.MeditationSessions == nil {
		r.MeditationSessions = []MeditationSession{}
	}
	if r.SleepLogs == nil {
		r.SleepLogs = []SleepLog{}
	}
	if r.CommunityPosts == nil {
		r.CommunityPosts = []CommunityPost{}
	}
	if r.AIConversations == nil {
		r.AIConversations = []AIConversation{}
	}
	if r.TherapistShares == nil {
		r.TherapistShares = []TherapistShare{}
	}
	if r.UsedMoodValues == nil {
		r.UsedMoodValues = NewSet[int]()
	}
	if r.UsedEmotions == nil {
		r.UsedEmotions = NewSet[string]()
	}
	if r.Streak < InitialStreak {
		r.Streak = InitialStreak
	}
	if r.Level < InitialLevel {
		r.Level = LevelForXP(r.TotalXP)
	}
	if r.Preferences == (Preferences{}) {
		r.Preferences = DefaultPreferences()
	}
	if r.Analytics.MoodPatterns == nil {
		r.Analytics.MoodPatterns = map[string][]int{}
	}
	if r.Analytics.SleepPatterns == nil {
		r.Analytics.SleepPatterns = map[string][]int{}
	}
	if r.Analytics.FactorCorrelations == nil {
		r.Analytics.FactorCorrelations = map[string][]int{}
	}
	if r.Analytics.WeeklyTrends == nil {
		r.Analytics.WeeklyTrends = []float64{}
	}
}

// AddXP credits experience and recomputes the derived level.
func (r *Record) AddXP(xp int) {
	r.TotalXP += xp
	r.Level = LevelForXP(r.TotalXP)
}

// TrackMood appends the entry and updates the per-weekday and per-factor
// intensity history plus the used-emotion sets.
func (r *Record) TrackMood(m MoodEntry, loc *time.Location) {
	r.Moods = append(r.Moods, m)

	day := m.Date.In(loc).Weekday().String()
	r.Analytics.MoodPatterns[day] = append(r.Analytics.MoodPatterns[day], m.Intensity)

	for _, f := range m.Factors {
		r.Analytics.FactorCorrelations[f] = append(r.Analytics.FactorCorrelations[f], m.Intensity)
	}

	if m.Emotion != nil {
		r.UsedEmotions.Add(m.Emotion.Name)
	}
	if m.Value != nil {
		r.UsedMoodValues.Add(*m.Value)
	}
}

// Export is the downloadable artifact: the record plus achievements and
// export metadata.
type Export struct {
	Record
	ExportDate   time.Time `json:"exportDate"`
	Version      string    `json:"version"`
	Achievements Registry  `json:"achievements"`
}

func ExportFileName(now time.Time) string {
	return "mindfulme_pro_data_" + now.UTC().Format(DateLayout) + ".json"
}
