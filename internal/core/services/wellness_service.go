package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/timers"
)

const PersistWarning = "Your changes are kept but could not be saved yet; saving will be retried automatically."

// WriteResult is returned by every write: the created item, achievements
// unlocked by the write and a warning when persisting failed.
type WriteResult[T any] struct {
	Item        T                    `json:"item"`
	Unlocked    []domain.Achievement `json:"unlocked"`
	Suggestions []domain.Suggestion  `json:"suggestions,omitempty"`
	Warning     string               `json:"warning,omitempty"`
}

type MoodInput struct {
	Emotion   *domain.Emotion `json:"emotion"`
	Value     *int            `json:"value"`
	Intensity int             `json:"intensity"`
	Factors   []string        `json:"factors"`
	Note      string          `json:"note"`
}

type JournalInput struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Mood    string   `json:"mood"`
}

type SleepInput struct {
	Bedtime  string `json:"bedtime"`
	WakeTime string `json:"wakeTime"`
	Quality  string `json:"quality"`
	Dreams   string `json:"dreams"`
}

type Dashboard struct {
	WellnessScore      domain.WellnessScore   `json:"wellnessScore"`
	Streak             int                    `json:"streak"`
	TotalXP            int                    `json:"totalXP"`
	Level              int                    `json:"level"`
	MoodCount          int                    `json:"moodCount"`
	JournalCount       int                    `json:"journalCount"`
	BreathingCount     int                    `json:"breathingCount"`
	MeditationCount    int                    `json:"meditationCount"`
	SleepCount         int                    `json:"sleepCount"`
	UnlockedCount      int                    `json:"unlockedAchievements"`
	ActivityStreaks    domain.ActivityStreaks `json:"activityStreaks"`
	RecentMoods        []domain.MoodEntry     `json:"recentMoods"`
	NotificationsCount int                    `json:"notificationsCount"`
}

type ImportSummary struct {
	Moods    int `json:"moods"`
	Journals int `json:"journals"`
	Sessions int `json:"sessions"`
}

// WellnessService owns the single record. Every mutation and its persist
// run under one lock, so a concurrent save never sees a half-applied write.
type WellnessService struct {
	mu       sync.Mutex
	record   *domain.Record
	registry domain.Registry

	store     *DataStore
	analytics *AnalyticsService
	tracker   *AchievementTracker
	feed      *NotificationFeed
	clock     timers.Clock
	logger    *zap.Logger

	prefsHooks         []func(domain.Preferences)
	persistFailedHooks []func()
}

func NewWellnessService(store *DataStore, analytics *AnalyticsService, feed *NotificationFeed, clock timers.Clock, logger *zap.Logger) *WellnessService {
	if clock == nil {
		clock = timers.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if feed == nil {
		feed = NewNotificationFeed(0)
	}
	return &WellnessService{
		store:     store,
		analytics: analytics,
		tracker:   NewAchievementTracker(analytics),
		feed:      feed,
		clock:     clock,
		logger:    logger,
	}
}

// OnPreferencesChanged registers a callback run after preferences are
// updated or a record is imported. Callbacks run with the service lock held
// and must not call back into the service.
func (s *WellnessService) OnPreferencesChanged(fn func(domain.Preferences)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefsHooks = append(s.prefsHooks, fn)
}

// OnPersistFailed registers a callback run when saving a write fails. It
// runs with the service lock held and must not block.
func (s *WellnessService) OnPersistFailed(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistFailedHooks = append(s.persistFailedHooks, fn)
}

// Init loads the record, advances the daily streak and evaluates
// achievements that may already hold.
func (s *WellnessService) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.record, s.registry = s.store.Load(ctx, now)

	changed := CheckDailyStreak(s.record, now, s.analytics.Location())
	unlocked := s.evaluateLocked(now)
	if changed || len(unlocked) > 0 {
		if err := s.store.Save(ctx, s.record, s.registry); err != nil {
			s.logger.Warn("Initial save failed", zap.Error(err))
		}
	}

	s.logger.Info("Wellness record loaded",
		zap.Int("moods", len(s.record.Moods)),
		zap.Int("journals", len(s.record.Journals)),
		zap.Int("streak", s.record.Streak),
		zap.Int("level", s.record.Level),
	)
	return nil
}

// Shutdown performs the final save.
func (s *WellnessService) Shutdown(ctx context.Context) error {
	return s.Save(ctx)
}

func (s *WellnessService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil {
		return nil
	}
	return s.store.Save(ctx, s.record, s.registry)
}

// RefreshMetrics lapses a broken streak, recomputes the wellness score and
// unlocks score-based achievements. It returns the fresh score.
func (s *WellnessService) RefreshMetrics(ctx context.Context) domain.WellnessScore {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expired := ExpireStreak(s.record, now, s.analytics.Location())
	score := s.analytics.WellnessScore(s.record, now)
	if unlocked := s.evaluateLocked(now); expired || len(unlocked) > 0 {
		s.persistLocked(ctx)
	}
	return score
}

func (s *WellnessService) RecordMood(ctx context.Context, in MoodInput) (*WriteResult[domain.MoodEntry], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, err := domain.NewMoodEntry(in.Emotion, in.Value, in.Intensity, in.Factors, in.Note, now)
	if err != nil {
		return nil, err
	}
	if entry.Note != "" {
		sent := AnalyzeSentiment(entry.Note)
		entry.Sentiment = &sent
	}

	s.record.TrackMood(*entry, s.analytics.Location())

	res := &WriteResult[domain.MoodEntry]{
		Item:        *entry,
		Suggestions: []domain.Suggestion{MoodSuggestion(len(s.record.Moods) - 1)},
	}
	s.finishLocked(ctx, now, &res.Unlocked, &res.Warning)
	return res, nil
}

func (s *WellnessService) RecordJournal(ctx context.Context, in JournalInput) (*WriteResult[domain.JournalEntry], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, err := domain.NewJournalEntry(in.Content, in.Tags, in.Mood, now)
	if err != nil {
		return nil, err
	}
	sent := AnalyzeSentiment(entry.Content)
	entry.Sentiment = &sent
	entry.Themes = ExtractThemes(entry.Content)

	s.record.Journals = append(s.record.Journals, *entry)

	res := &WriteResult[domain.JournalEntry]{
		Item:        *entry,
		Suggestions: JournalSuggestions(entry.Sentiment, entry.Themes),
	}
	s.finishLocked(ctx, now, &res.Unlocked, &res.Warning)
	return res, nil
}

func (s *WellnessService) CompleteBreathingSession(ctx context.Context, session domain.BreathingSession) (*WriteResult[domain.BreathingSession], error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session.Date = session.Date.UTC()
	s.record.BreathingSessions = append(s.record.BreathingSessions, session)

	res := &WriteResult[domain.BreathingSession]{Item: session}
	s.finishLocked(ctx, now, &res.Unlocked, &res.Warning)
	return res, nil
}

func (s *WellnessService) CompleteMeditationSession(ctx context.Context, session domain.MeditationSession) (*WriteResult[domain.MeditationSession], error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session.Date = session.Date.UTC()
	s.record.MeditationSessions = append(s.record.MeditationSessions, session)

	res := &WriteResult[domain.MeditationSession]{Item: session}
	s.finishLocked(ctx, now, &res.Unlocked, &res.Warning)
	return res, nil
}

func (s *WellnessService) LogSleep(ctx context.Context, in SleepInput) (*WriteResult[domain.SleepLog], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, err := domain.NewSleepLog(in.Bedtime, in.WakeTime, in.Quality, in.Dreams, now)
	if err != nil {
		return nil, err
	}

	s.record.SleepLogs = append(s.record.SleepLogs, *entry)
	day := now.In(s.analytics.Location()).Weekday().String()
	s.record.Analytics.SleepPatterns[day] = append(s.record.Analytics.SleepPatterns[day], int(entry.Quality.Points()))

	res := &WriteResult[domain.SleepLog]{Item: *entry}
	s.finishLocked(ctx, now, &res.Unlocked, &res.Warning)
	return res, nil
}

func (s *WellnessService) AddCommunityPost(ctx context.Context, content string) (*WriteResult[domain.CommunityPost], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	post, err := domain.NewCommunityPost(content, now)
	if err != nil {
		return nil, err
	}
	s.record.CommunityPosts = append(s.record.CommunityPosts, *post)

	res := &WriteResult[domain.CommunityPost]{Item: *post}
	s.finishLocked(ctx, now, &res.Unlocked, &res.Warning)
	return res, nil
}

func (s *WellnessService) Chat(ctx context.Context, message string) (*WriteResult[domain.AIConversation], error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrMessageEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	conv := domain.AIConversation{
		User: message,
		AI:   ChatReply(message, len(s.record.AIConversations)),
		Date: now.UTC(),
	}
	s.record.AIConversations = append(s.record.AIConversations, conv)

	res := &WriteResult[domain.AIConversation]{Item: conv}
	s.finishLocked(ctx, now, &res.Unlocked, &res.Warning)
	return res, nil
}

func (s *WellnessService) ShareWithTherapist(ctx context.Context, email string) (*WriteResult[domain.TherapistShare], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	share, err := domain.NewTherapistShare(email, now)
	if err != nil {
		return nil, err
	}
	s.record.TherapistShares = append(s.record.TherapistShares, *share)

	res := &WriteResult[domain.TherapistShare]{Item: *share}
	s.finishLocked(ctx, now, &res.Unlocked, &res.Warning)
	return res, nil
}

func (s *WellnessService) UpdatePreferences(ctx context.Context, prefs domain.Preferences) (*WriteResult[domain.Preferences], error) {
	prefs.Theme = strings.ToLower(strings.TrimSpace(prefs.Theme))
	if prefs.ReminderTime == "" {
		prefs.ReminderTime = domain.DefaultReminder
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.Preferences = prefs

	res := &WriteResult[domain.Preferences]{Item: prefs, Unlocked: []domain.Achievement{}}
	res.Warning = s.persistLocked(ctx)
	s.runPrefsHooksLocked()
	return res, nil
}

// ViewAnalytics counts a visit to the analytics dashboard and returns the
// current score.
func (s *WellnessService) ViewAnalytics(ctx context.Context) *WriteResult[domain.WellnessScore] {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.record.InsightViews++

	res := &WriteResult[domain.WellnessScore]{}
	s.finishLocked(ctx, now, &res.Unlocked, &res.Warning)
	res.Item = s.analytics.WellnessScore(s.record, now)
	return res
}

// Import replaces the record with an uploaded export. Achievements from the
// file are merged, so nothing already unlocked is ever locked again.
func (s *WellnessService) Import(ctx context.Context, data []byte) (*WriteResult[ImportSummary], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	record, registry, err := DecodeImport(data, now)
	if err != nil {
		return nil, err
	}

	s.record = record
	if registry != nil {
		s.registry.Merge(registry)
	}
	reconcileXP(s.record, s.registry)

	res := &WriteResult[ImportSummary]{Item: ImportSummary{
		Moods:    len(record.Moods),
		Journals: len(record.Journals),
		Sessions: len(record.BreathingSessions) + len(record.MeditationSessions),
	}}
	s.finishLocked(ctx, now, &res.Unlocked, &res.Warning)
	s.runPrefsHooksLocked()

	s.logger.Info("Record imported",
		zap.Int("moods", res.Item.Moods),
		zap.Int("journals", res.Item.Journals),
	)
	return res, nil
}

func (s *WellnessService) Export(ctx context.Context) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Export(s.record, s.registry, s.now())
}

// Snapshot returns a deep copy of the record that callers may read freely.
func (s *WellnessService) Snapshot() (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRecord(s.record)
}

func (s *WellnessService) Achievements() []domain.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registry.List()
}

func (s *WellnessService) Preferences() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.record.Preferences
}

func (s *WellnessService) WellnessScore() domain.WellnessScore {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.analytics.WellnessScore(s.record, s.now())
}

func (s *WellnessService) MoodPatterns(period string) (domain.MoodPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.analytics.MoodPatterns(s.record, period, s.now())
}

func (s *WellnessService) FactorCorrelations(factors []string) domain.CorrelationMatrix {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.analytics.FactorCorrelations(s.record, factors)
}

func (s *WellnessService) Predictions() []domain.Prediction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.analytics.Predictions(s.record)
}

func (s *WellnessService) Report(kind string) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.analytics.Report(s.record, s.registry, kind, s.now())
}

func (s *WellnessService) Dashboard() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	r := s.record
	recent := lastN(r.Moods, 5)

	return Dashboard{
		WellnessScore:      s.analytics.WellnessScore(r, now),
		Streak:             r.Streak,
		TotalXP:            r.TotalXP,
		Level:              r.Level,
		MoodCount:          len(r.Moods),
		JournalCount:       len(r.Journals),
		BreathingCount:     len(r.BreathingSessions),
		MeditationCount:    len(r.MeditationSessions),
		SleepCount:         len(r.SleepLogs),
		UnlockedCount:      s.registry.UnlockedCount(),
		ActivityStreaks:    s.analytics.ActivityStreaks(r, now),
		RecentMoods:        append([]domain.MoodEntry{}, recent...),
		NotificationsCount: len(statusNotifications(r, now)) + len(s.feed.List()),
	}
}

// Notifications lists derived prompts followed by stored one-shot events.
func (s *WellnessService) Notifications() []domain.Notification {
	s.mu.Lock()
	status := statusNotifications(s.record, s.now())
	s.mu.Unlock()

	return append(status, s.feed.List()...)
}

func (s *WellnessService) ClearNotifications() int {
	return s.feed.Clear()
}

// Notify forwards an external event, such as a scheduled reminder, to the
// feed.
func (s *WellnessService) Notify(n domain.Notification) {
	s.feed.Notify(n)
}

// finishLocked counts the write as a visit for the daily streak, unlocks
// whatever now holds and persists.
func (s *WellnessService) finishLocked(ctx context.Context, now time.Time, unlocked *[]domain.Achievement, warning *string) {
	CheckDailyStreak(s.record, now, s.analytics.Location())
	*unlocked = s.evaluateLocked(now)
	if *unlocked == nil {
		*unlocked = []domain.Achievement{}
	}
	*warning = s.persistLocked(ctx)
}

func (s *WellnessService) evaluateLocked(now time.Time) []domain.Achievement {
	unlocked := s.tracker.Evaluate(s.record, s.registry, now)
	for _, a := range unlocked {
		s.feed.Notify(achievementNotification(a, now))
		s.logger.Info("Achievement unlocked",
			zap.String("id", a.ID),
			zap.Int("xp", a.XP),
			zap.Int("total_xp", s.record.TotalXP),
		)
	}
	return unlocked
}

// persistLocked saves and turns a failure into a user-facing warning.
func (s *WellnessService) persistLocked(ctx context.Context) string {
	if err := s.store.Save(ctx, s.record, s.registry); err != nil {
		s.logger.Warn("Persist failed, keeping in-memory record", zap.Error(err))
		for _, fn := range s.persistFailedHooks {
			fn()
		}
		return PersistWarning
	}
	return ""
}

func (s *WellnessService) runPrefsHooksLocked() {
	for _, fn := range s.prefsHooks {
		fn(s.record.Preferences)
	}
}

func (s *WellnessService) now() time.Time {
	return s.clock.Now().In(s.analytics.Location())
}

func cloneRecord(r *domain.Record) (*domain.Record, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var out domain.Record
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	out.Normalize()
	return &out, nil
}
