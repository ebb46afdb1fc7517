package domain

import (
	"errors"
	"slices"
	"strings"
	"time"
)

var (
	ErrMoodSelectionEmpty = errors.New("please select an emotion before saving")
	ErrInvalidIntensity   = errors.New("intensity must be between 1 and 10")
	ErrInvalidMoodValue   = errors.New("mood value must be between 1 and 5")
	ErrUnknownEmotion     = errors.New("unknown emotion category")
)

const (
	MinIntensity     = 1
	MaxIntensity     = 10
	DefaultIntensity = 5
)

type Emotion struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// EmotionCategory is one slice of the emotion wheel.
type EmotionCategory struct {
	Emotion
	Subcategories []string `json:"subcategories"`
}

var EmotionWheel = []EmotionCategory{
	{Emotion{"Joy", "#FFD93D"}, []string{"Happy", "Excited", "Grateful", "Proud"}},
	{Emotion{"Sadness", "#6C7A9C"}, []string{"Disappointed", "Lonely", "Grief", "Despair"}},
	{Emotion{"Anger", "#E74C3C"}, []string{"Frustrated", "Irritated", "Furious", "Resentful"}},
	{Emotion{"Fear", "#9B59B6"}, []string{"Anxious", "Worried", "Scared", "Nervous"}},
	{Emotion{"Surprise", "#3498DB"}, []string{"Shocked", "Amazed", "Confused", "Startled"}},
	{Emotion{"Disgust", "#27AE60"}, []string{"Contempt", "Revolted", "Disapproval", "Offended"}},
}

// LookupEmotion resolves a top-level category or a subcategory to its
// wheel category.
func LookupEmotion(name string) (EmotionCategory, bool) {
	name = strings.TrimSpace(name)
	for _, c := range EmotionWheel {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
		if slices.ContainsFunc(c.Subcategories, func(s string) bool { return strings.EqualFold(s, name) }) {
			return c, true
		}
	}
	return EmotionCategory{}, false
}

type Sentiment struct {
	Score       int      `json:"score"`
	Comparative float64  `json:"comparative"`
	Positive    []string `json:"positive,omitempty"`
	Negative    []string `json:"negative,omitempty"`
}

type MoodEntry struct {
	Emotion   *Emotion   `json:"emotion"`
	Intensity int        `json:"intensity"`
	Value     *int       `json:"value,omitempty"`
	Factors   []string   `json:"factors"`
	Note      string     `json:"note,omitempty"`
	Date      time.Time  `json:"date"`
	Sentiment *Sentiment `json:"sentiment"`
}

// NewMoodEntry validates the selection and builds an entry stamped at now.
// At least one of emotion or value must be provided.
func NewMoodEntry(emotion *Emotion, value *int, intensity int, factors []string, note string, now time.Time) (*MoodEntry, error) {
	if emotion == nil && value == nil {
		return nil, ErrMoodSelectionEmpty
	}

	if intensity == 0 {
		intensity = DefaultIntensity
	}
	if intensity < MinIntensity || intensity > MaxIntensity {
		return nil, ErrInvalidIntensity
	}

	if value != nil && (*value < 1 || *value > 5) {
		return nil, ErrInvalidMoodValue
	}

	var em *Emotion
	if emotion != nil {
		cat, ok := LookupEmotion(emotion.Name)
		if !ok {
			return nil, ErrUnknownEmotion
		}
		em = &Emotion{Name: cat.Name, Color: cat.Color}
		if emotion.Color != "" {
			em.Color = emotion.Color
		}
	}

	f := normalizeLabels(factors)
	if f == nil {
		f = []string{}
	}

	return &MoodEntry{
		Emotion:   em,
		Intensity: intensity,
		Value:     value,
		Factors:   f,
		Note:      strings.TrimSpace(note),
		Date:      now.UTC(),
	}, nil
}

func (m *MoodEntry) HasFactor(factor string) bool {
	return slices.Contains(m.Factors, factor)
}

func trimLabel(s string) string {
	return strings.TrimSpace(s)
}
