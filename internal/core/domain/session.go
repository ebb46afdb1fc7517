package domain

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrUnknownExercise   = errors.New("unknown breathing exercise")
	ErrUnknownMeditation = errors.New("unknown meditation")
	ErrInvalidSession    = errors.New("invalid session data")
)

type BreathingSession struct {
	Type     string    `json:"type"`
	Duration float64   `json:"duration"`
	Cycles   int       `json:"cycles"`
	Date     time.Time `json:"date"`
}

type MeditationSession struct {
	Type     string    `json:"type"`
	Duration float64   `json:"duration"`
	Category string    `json:"category,omitempty"`
	Date     time.Time `json:"date"`
}

// BreathingExercise describes a four-phase pattern in seconds:
// inhale, hold, exhale, hold.
type BreathingExercise struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Pattern     [4]int `json:"pattern"`
	Cycles      int    `json:"cycles"`
	Description string `json:"description"`
}

type Meditation struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Category string `json:"category"`
}

var breathingExercises = map[string]BreathingExercise{
	"coherent": {
		Key:         "coherent",
		Name:        "Coherent Breathing",
		Pattern:     [4]int{5, 0, 5, 0},
		Cycles:      10,
		Description: "Breathe at 5 breaths per minute for optimal heart rate variability",
	},
	"wim-hof": {
		Key:         "wim-hof",
		Name:        "Wim Hof Method",
		Pattern:     [4]int{2, 0, 1, 1},
		Cycles:      30,
		Description: "Power breathing followed by breath retention",
	},
	"pranayama": {
		Key:         "pranayama",
		Name:        "Pranayama",
		Pattern:     [4]int{4, 4, 4, 4},
		Cycles:      12,
		Description: "Ancient yogic breathing for balance",
	},
}

var meditations = map[string]Meditation{
	"calm-waters":    {Key: "calm-waters", Name: "Calm Waters", Duration: 600, Category: "anxiety"},
	"peaceful-night": {Key: "peaceful-night", Name: "Peaceful Night", Duration: 1200, Category: "sleep"},
	"laser-focus":    {Key: "laser-focus", Name: "Laser Focus", Duration: 900, Category: "focus"},
}

func LookupExercise(key string) (BreathingExercise, error) {
	ex, ok := breathingExercises[key]
	if !ok {
		return BreathingExercise{}, ErrUnknownExercise
	}
	return ex, nil
}

func LookupMeditation(key string) (Meditation, error) {
	m, ok := meditations[key]
	if !ok {
		return Meditation{}, ErrUnknownMeditation
	}
	return m, nil
}

func BreathingExercises() []BreathingExercise {
	out := make([]BreathingExercise, 0, len(breathingExercises))
	for _, ex := range breathingExercises {
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func Meditations() []Meditation {
	out := make([]Meditation, 0, len(meditations))
	for _, m := range meditations {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (s *BreathingSession) Validate() error {
	if s.Type == "" || s.Duration < 0 || s.Cycles < 0 || s.Date.IsZero() {
		return ErrInvalidSession
	}
	return nil
}

func (s *MeditationSession) Validate() error {
	if s.Type == "" || s.Duration < 0 || s.Date.IsZero() {
		return ErrInvalidSession
	}
	return nil
}
