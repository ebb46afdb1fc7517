package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrSleepTimesRequired = errors.New("please enter both bedtime and wake time")
	ErrInvalidClockTime   = errors.New("invalid time format (must be HH:MM 24h)")
	ErrInvalidSleepRating = errors.New("invalid sleep quality (must be excellent, good, fair or poor)")
)

var clockRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

type SleepQuality string

const (
	SleepExcellent SleepQuality = "excellent"
	SleepGood      SleepQuality = "good"
	SleepFair      SleepQuality = "fair"
	SleepPoor      SleepQuality = "poor"
)

// Points maps a quality to the 1–4 scale used by the wellness score.
// Unknown values count as fair.
func (q SleepQuality) Points() float64 {
	switch q {
	case SleepExcellent:
		return 4
	case SleepGood:
		return 3
	case SleepFair:
		return 2
	case SleepPoor:
		return 1
	}
	return 2
}

func (q SleepQuality) Restful() bool {
	return q == SleepExcellent || q == SleepGood
}

func ParseSleepQuality(s string) (SleepQuality, error) {
	q := SleepQuality(strings.ToLower(strings.TrimSpace(s)))
	switch q {
	case SleepExcellent, SleepGood, SleepFair, SleepPoor:
		return q, nil
	}
	return "", ErrInvalidSleepRating
}

type SleepLog struct {
	Bedtime  string       `json:"bedtime"`
	WakeTime string       `json:"wakeTime"`
	Duration float64      `json:"duration"`
	Quality  SleepQuality `json:"quality"`
	Dreams   string       `json:"dreams,omitempty"`
	Date     time.Time    `json:"date"`
}

func NewSleepLog(bedtime, wakeTime, quality, dreams string, now time.Time) (*SleepLog, error) {
	bedtime = strings.TrimSpace(bedtime)
	wakeTime = strings.TrimSpace(wakeTime)
	if bedtime == "" || wakeTime == "" {
		return nil, ErrSleepTimesRequired
	}

	q, err := ParseSleepQuality(quality)
	if err != nil {
		return nil, err
	}

	hours, err := SleepDuration(bedtime, wakeTime)
	if err != nil {
		return nil, err
	}

	return &SleepLog{
		Bedtime:  bedtime,
		WakeTime: wakeTime,
		Duration: hours,
		Quality:  q,
		Dreams:   strings.TrimSpace(dreams),
		Date:     now.UTC(),
	}, nil
}

// SleepDuration returns the hours between two HH:MM clock times, rolling the
// wake time over to the next day when it is earlier than the bedtime.
func SleepDuration(bedtime, wakeTime string) (float64, error) {
	bed, err := minutesOfDay(bedtime)
	if err != nil {
		return 0, err
	}
	wake, err := minutesOfDay(wakeTime)
	if err != nil {
		return 0, err
	}

	if wake < bed {
		wake += 24 * 60
	}
	return float64(wake-bed) / 60, nil
}

func minutesOfDay(clock string) (int, error) {
	if !clockRegex.MatchString(clock) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, clock)
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func ValidClockTime(clock string) bool {
	return clockRegex.MatchString(clock)
}
