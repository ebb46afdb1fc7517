package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrJournalEmpty = errors.New("please write something before analyzing")
)

const (
	MaxThemes             = 3
	LongJournalWordTarget = 500
)

type JournalEntry struct {
	Content   string     `json:"content"`
	WordCount int        `json:"wordCount"`
	Themes    []string   `json:"themes"`
	Sentiment *Sentiment `json:"sentiment"`
	Tags      []string   `json:"tags"`
	Mood      string     `json:"mood,omitempty"`
	Date      time.Time  `json:"date"`
}

// NewJournalEntry trims the content and counts whitespace-separated words.
// Themes and sentiment are attached by the caller.
func NewJournalEntry(content string, tags []string, mood string, now time.Time) (*JournalEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrJournalEmpty
	}

	t := normalizeLabels(tags)
	if t == nil {
		t = []string{}
	}

	return &JournalEntry{
		Content:   content,
		WordCount: CountWords(content),
		Themes:    []string{},
		Tags:      t,
		Mood:      strings.TrimSpace(mood),
		Date:      now.UTC(),
	}, nil
}

func CountWords(text string) int {
	return len(strings.Fields(text))
}
