package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

const (
	scoreBase              = 50.0
	scoreMoodWeight        = 30.0
	scoreActivityWeight    = 20.0
	scoreSleepWeight       = 20.0
	scoreConsistencyWeight = 15.0
	scoreCommunityWeight   = 15.0

	recentWindow        = 7
	communityWindowDays = 30
	recommendedSleep    = 7.0
)

// AnalyticsService computes derived views over a record. It never mutates
// the record and is safe to call with a snapshot.
type AnalyticsService struct {
	loc *time.Location
}

func NewAnalyticsService(loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{loc: loc}
}

func (s *AnalyticsService) Location() *time.Location {
	return s.loc
}

func (s *AnalyticsService) WellnessScore(r *domain.Record, now time.Time) domain.WellnessScore {
	ws := domain.WellnessScore{Base: scoreBase}

	if len(r.Moods) > 0 {
		recent := lastN(r.Moods, recentWindow)
		sum := 0.0
		for _, m := range recent {
			sum += moodLevel(m)
		}
		ws.Mood = math.Min(sum/float64(len(recent))/5, 1) * scoreMoodWeight
	}

	activities := s.recentActivityCount(r, now, recentWindow)
	ws.Activity = math.Min(float64(activities)/recentWindow, 1) * scoreActivityWeight

	if len(r.SleepLogs) > 0 {
		recent := lastN(r.SleepLogs, recentWindow)
		sum := 0.0
		for _, l := range recent {
			sum += l.Quality.Points()
		}
		ws.Sleep = sum / float64(len(recent)) / 4 * scoreSleepWeight
	}

	ws.Consistency = math.Min(float64(r.Streak)/30, 1) * scoreConsistencyWeight

	posts := 0
	for _, p := range r.CommunityPosts {
		if now.Sub(p.Date).Hours()/24 <= communityWindowDays {
			posts++
		}
	}
	ws.Community = math.Min(float64(posts)/10, 1) * scoreCommunityWeight

	total := ws.Base + ws.Mood + ws.Activity + ws.Sleep + ws.Consistency + ws.Community
	ws.Total = int(math.Floor(total + 0.5))
	return ws
}

// moodLevel prefers the legacy 1-5 value, then intensity, then 3.
func moodLevel(m domain.MoodEntry) float64 {
	switch {
	case m.Value != nil && *m.Value > 0:
		return float64(*m.Value)
	case m.Intensity > 0:
		return float64(m.Intensity)
	}
	return 3
}

func patternIntensity(m domain.MoodEntry) float64 {
	if m.Intensity > 0 {
		return float64(m.Intensity)
	}
	return domain.DefaultIntensity
}

func (s *AnalyticsService) recentActivityCount(r *domain.Record, now time.Time, days int) int {
	cutoff := now.AddDate(0, 0, -days)
	n := 0
	for _, m := range r.Moods {
		if m.Date.After(cutoff) {
			n++
		}
	}
	for _, j := range r.Journals {
		if j.Date.After(cutoff) {
			n++
		}
	}
	for _, b := range r.BreathingSessions {
		if b.Date.After(cutoff) {
			n++
		}
	}
	for _, m := range r.MeditationSessions {
		if m.Date.After(cutoff) {
			n++
		}
	}
	return n
}

func (s *AnalyticsService) MoodPatterns(r *domain.Record, period string, now time.Time) (domain.MoodPattern, error) {
	now = now.In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	p := domain.MoodPattern{Period: period}

	switch period {
	case domain.PeriodWeek:
		byDay := make(map[string][]float64)
		for _, m := range r.Moods {
			key := m.Date.In(s.loc).Format(domain.DateLayout)
			byDay[key] = append(byDay[key], patternIntensity(m))
		}

		currentDate := today.AddDate(0, 0, -(recentWindow - 1))
		for !currentDate.After(today) {
			p.Labels = append(p.Labels, currentDate.Format("Mon"))
			p.Values = append(p.Values, mean(byDay[currentDate.Format(domain.DateLayout)]))
			currentDate = currentDate.AddDate(0, 0, 1)
		}

	case domain.PeriodMonth:
		start := today.AddDate(0, -1, 0)
		for week := 0; week < 4; week++ {
			weekStart := start.AddDate(0, 0, week*7)
			weekEnd := weekStart.AddDate(0, 0, 7)

			var vals []float64
			for _, m := range r.Moods {
				d := m.Date.In(s.loc)
				if !d.Before(weekStart) && d.Before(weekEnd) {
					vals = append(vals, patternIntensity(m))
				}
			}
			p.Labels = append(p.Labels, fmt.Sprintf("Week %d", week+1))
			p.Values = append(p.Values, mean(vals))
		}

	case domain.PeriodYear:
		byMonth := make(map[time.Month][]float64)
		for _, m := range r.Moods {
			d := m.Date.In(s.loc)
			if d.Year() == now.Year() {
				byMonth[d.Month()] = append(byMonth[d.Month()], patternIntensity(m))
			}
		}
		for month := time.January; month <= time.December; month++ {
			p.Labels = append(p.Labels, month.String()[:3])
			p.Values = append(p.Values, mean(byMonth[month]))
		}

	default:
		return domain.MoodPattern{}, domain.ErrInvalidPeriod
	}

	return p, nil
}

// FactorCorrelations measures co-occurrence of factors across moods as
// both / sqrt(first * second). The matrix is symmetric with a unit diagonal.
func (s *AnalyticsService) FactorCorrelations(r *domain.Record, factors []string) domain.CorrelationMatrix {
	if len(factors) == 0 {
		factors = domain.DefaultFactors
	}

	counts := make([]int, len(factors))
	both := make([][]int, len(factors))
	for i := range both {
		both[i] = make([]int, len(factors))
	}

	for _, m := range r.Moods {
		has := make([]bool, len(factors))
		for i, f := range factors {
			has[i] = m.HasFactor(f)
			if has[i] {
				counts[i]++
			}
		}
		for i := range factors {
			for j := i + 1; j < len(factors); j++ {
				if has[i] && has[j] {
					both[i][j]++
				}
			}
		}
	}

	matrix := domain.CorrelationMatrix{
		Factors: append([]string(nil), factors...),
		Values:  make([][]float64, len(factors)),
	}
	for i := range factors {
		matrix.Values[i] = make([]float64, len(factors))
		matrix.Values[i][i] = 1
	}
	for i := range factors {
		for j := i + 1; j < len(factors); j++ {
			v := 0.0
			if counts[i] > 0 && counts[j] > 0 {
				v = float64(both[i][j]) / math.Sqrt(float64(counts[i]*counts[j]))
			}
			matrix.Values[i][j] = v
			matrix.Values[j][i] = v
		}
	}
	return matrix
}

func (s *AnalyticsService) Predictions(r *domain.Record) []domain.Prediction {
	predictions := []domain.Prediction{}

	if len(r.Moods) >= 2*recentWindow {
		recent := lastN(r.Moods, 2*recentWindow)
		first, second := 0.0, 0.0
		for i, m := range recent {
			if i < recentWindow {
				first += patternIntensity(m)
			} else {
				second += patternIntensity(m)
			}
		}
		if second > first {
			predictions = append(predictions, domain.Prediction{
				Kind:  domain.PredictionPositiveTrend,
				Title: "Positive Trend",
				Text:  "Your mood has been improving! Keep up the good habits.",
			})
		}
	}

	if len(r.SleepLogs) >= recentWindow {
		sum := 0.0
		for _, l := range lastN(r.SleepLogs, recentWindow) {
			sum += l.Duration
		}
		if sum/recentWindow < recommendedSleep {
			predictions = append(predictions, domain.Prediction{
				Kind:  domain.PredictionSleepAlert,
				Title: "Sleep Alert",
				Text:  "Your average sleep is below recommended. Try going to bed 30 minutes earlier.",
			})
		}
	}

	return predictions
}

// ActivityStreaks finds the current and longest runs of consecutive days
// with at least one mood, journal or session.
func (s *AnalyticsService) ActivityStreaks(r *domain.Record, now time.Time) domain.ActivityStreaks {
	var dates []time.Time
	for _, m := range r.Moods {
		dates = append(dates, m.Date)
	}
	for _, j := range r.Journals {
		dates = append(dates, j.Date)
	}
	for _, b := range r.BreathingSessions {
		dates = append(dates, b.Date)
	}
	for _, m := range r.MeditationSessions {
		dates = append(dates, m.Date)
	}

	current, longest := calculateStreaks(dates, now, s.loc)
	return domain.ActivityStreaks{Current: current, Longest: longest}
}

func calculateStreaks(dates []time.Time, now time.Time, loc *time.Location) (int, int) {
	if len(dates) == 0 {
		return 0, 0
	}

	uniqueDays := make(map[string]bool)
	var sortedDates []time.Time

	for _, d := range dates {
		dateKey := d.In(loc).Format(domain.DateLayout)
		if !uniqueDays[dateKey] {
			uniqueDays[dateKey] = true
			t, _ := time.Parse(domain.DateLayout, dateKey)
			sortedDates = append(sortedDates, t)
		}
	}

	sort.Slice(sortedDates, func(i, j int) bool {
		return sortedDates[i].After(sortedDates[j])
	})

	currentStreak := 0
	today, _ := time.Parse(domain.DateLayout, now.In(loc).Format(domain.DateLayout))
	diff := today.Sub(sortedDates[0]).Hours() / 24

	if diff <= 1 {
		currentStreak = 1
		for i := 0; i < len(sortedDates)-1; i++ {
			if sortedDates[i].Sub(sortedDates[i+1]).Hours() == 24 {
				currentStreak++
			} else {
				break
			}
		}
	}

	longestStreak := 0
	tempStreak := 1

	for i := 0; i < len(sortedDates)-1; i++ {
		if sortedDates[i].Sub(sortedDates[i+1]).Hours() == 24 {
			tempStreak++
		} else {
			if tempStreak > longestStreak {
				longestStreak = tempStreak
			}
			tempStreak = 1
		}
	}
	if tempStreak > longestStreak {
		longestStreak = tempStreak
	}

	return currentStreak, longestStreak
}

func (s *AnalyticsService) Report(r *domain.Record, reg domain.Registry, kind string, now time.Time) (*domain.Report, error) {
	report := &domain.Report{Type: kind, GeneratedDate: now.UTC()}

	switch kind {
	case domain.ReportMonthly:
		report.Monthly = s.monthlyReport(r, now)

	case domain.ReportPatterns:
		pr := &domain.PatternsReport{
			Correlations: s.FactorCorrelations(r, nil),
			Predictions:  s.Predictions(r),
		}
		pr.Week, _ = s.MoodPatterns(r, domain.PeriodWeek, now)
		pr.Month, _ = s.MoodPatterns(r, domain.PeriodMonth, now)
		pr.Year, _ = s.MoodPatterns(r, domain.PeriodYear, now)
		report.Patterns = pr

	case domain.ReportProgress:
		report.Progress = &domain.ProgressReport{
			TotalXP:              r.TotalXP,
			Level:                r.Level,
			UnlockedAchievements: reg.UnlockedCount(),
			TotalAchievements:    len(reg),
			Streak:               r.Streak,
			ActivityStreaks:      s.ActivityStreaks(r, now),
			WellnessScore:        s.WellnessScore(r, now).Total,
		}

	default:
		return nil, domain.ErrInvalidReportType
	}

	return report, nil
}

func (s *AnalyticsService) monthlyReport(r *domain.Record, now time.Time) *domain.MonthlyReport {
	now = now.In(s.loc)
	inMonth := func(t time.Time) bool {
		t = t.In(s.loc)
		return t.Year() == now.Year() && t.Month() == now.Month()
	}

	mr := &domain.MonthlyReport{TopFactors: []string{}}
	factorCount := make(map[string]int)
	sum := 0.0

	for _, m := range r.Moods {
		if !inMonth(m.Date) {
			continue
		}
		mr.MoodEntries++
		sum += patternIntensity(m)
		for _, f := range m.Factors {
			factorCount[f]++
		}
	}
	for _, j := range r.Journals {
		if inMonth(j.Date) {
			mr.JournalEntries++
		}
	}
	for _, b := range r.BreathingSessions {
		if inMonth(b.Date) {
			mr.BreathingSessions++
		}
	}

	if mr.MoodEntries > 0 {
		mr.AverageMood = math.Round(sum/float64(mr.MoodEntries)*10) / 10
	}

	for f := range factorCount {
		mr.TopFactors = append(mr.TopFactors, f)
	}
	sort.Slice(mr.TopFactors, func(i, j int) bool {
		a, b := mr.TopFactors[i], mr.TopFactors[j]
		if factorCount[a] != factorCount[b] {
			return factorCount[a] > factorCount[b]
		}
		return a < b
	})
	if len(mr.TopFactors) > 3 {
		mr.TopFactors = mr.TopFactors[:3]
	}

	return mr
}

func lastN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

func mean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	avg := sum / float64(len(vals))
	return &avg
}
