package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidPeriod     = errors.New("invalid period (must be week, month or year)")
	ErrInvalidReportType = errors.New("invalid report type (must be monthly, patterns or progress)")
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"

	ReportMonthly  = "monthly"
	ReportPatterns = "patterns"
	ReportProgress = "progress"
)

var DefaultFactors = []string{"Sleep", "Exercise", "Social", "Work", "Stress"}

type WellnessScore struct {
	Base        float64 `json:"base"`
	Mood        float64 `json:"mood"`
	Activity    float64 `json:"activity"`
	Sleep       float64 `json:"sleep"`
	Consistency float64 `json:"consistency"`
	Community   float64 `json:"community"`
	Total       int     `json:"total"`
}

// MoodPattern holds one bucket per label; a nil value means no entries.
type MoodPattern struct {
	Period string     `json:"period"`
	Labels []string   `json:"labels"`
	Values []*float64 `json:"values"`
}

type CorrelationMatrix struct {
	Factors []string    `json:"factors"`
	Values  [][]float64 `json:"values"`
}

// At returns the association strength between two factors, or 0 if either
// is not part of the matrix.
func (m CorrelationMatrix) At(a, b string) float64 {
	i, j := -1, -1
	for k, f := range m.Factors {
		if f == a {
			i = k
		}
		if f == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0
	}
	return m.Values[i][j]
}

const (
	PredictionPositiveTrend = "positive_trend"
	PredictionSleepAlert    = "sleep_alert"
)

type Prediction struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Suggestion struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

type ActivityStreaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type MonthlyReport struct {
	MoodEntries       int      `json:"moodEntries"`
	JournalEntries    int      `json:"journalEntries"`
	BreathingSessions int      `json:"breathingSessions"`
	AverageMood       float64  `json:"averageMood"`
	TopFactors        []string `json:"topFactors"`
}

type PatternsReport struct {
	Week         MoodPattern       `json:"week"`
	Month        MoodPattern       `json:"month"`
	Year         MoodPattern       `json:"year"`
	Correlations CorrelationMatrix `json:"correlations"`
	Predictions  []Prediction      `json:"predictions"`
}

type ProgressReport struct {
	TotalXP              int             `json:"totalXP"`
	Level                int             `json:"level"`
	UnlockedAchievements int             `json:"unlockedAchievements"`
	TotalAchievements    int             `json:"totalAchievements"`
	Streak               int             `json:"streak"`
	ActivityStreaks      ActivityStreaks `json:"activityStreaks"`
	WellnessScore        int             `json:"wellnessScore"`
}

type Report struct {
	Type          string          `json:"type"`
	GeneratedDate time.Time       `json:"generatedDate"`
	Monthly       *MonthlyReport  `json:"monthly,omitempty"`
	Patterns      *PatternsReport `json:"patterns,omitempty"`
	Progress      *ProgressReport `json:"progress,omitempty"`
}
