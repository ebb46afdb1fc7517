package services

import (
	"slices"
	"strings"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

type theme struct {
	name     string
	keywords []string
}

// Declaration order decides which themes survive the cap.
var themeKeywords = []theme{
	{"Growth", []string{"grow", "learn", "improve", "better", "progress"}},
	{"Gratitude", []string{"grateful", "thankful", "appreciate", "blessed", "fortunate"}},
	{"Challenges", []string{"difficult", "hard", "struggle", "challenge", "problem"}},
	{"Relationships", []string{"friend", "family", "love", "relationship", "people"}},
	{"Work", []string{"work", "job", "career", "project", "task"}},
	{"Health", []string{"health", "exercise", "sleep", "energy", "tired"}},
	{"Emotions", []string{"feel", "emotion", "happy", "sad", "angry", "anxious"}},
}

// ExtractThemes matches keywords as lower-case substrings, so "learning"
// counts for Growth.
func ExtractThemes(content string) []string {
	lower := strings.ToLower(content)
	themes := make([]string, 0, domain.MaxThemes)

	for _, t := range themeKeywords {
		if slices.ContainsFunc(t.keywords, func(k string) bool { return strings.Contains(lower, k) }) {
			themes = append(themes, t.name)
			if len(themes) == domain.MaxThemes {
				break
			}
		}
	}
	return themes
}

func JournalSuggestions(sentiment *domain.Sentiment, themes []string) []domain.Suggestion {
	var out []domain.Suggestion

	if sentiment != nil && sentiment.Comparative < -0.5 {
		out = append(out, domain.Suggestion{
			Icon: "💙",
			Text: "Your journal shows some challenging emotions. Consider trying a mood-lifting activity or reaching out to someone you trust.",
		})
	}
	if slices.Contains(themes, "Challenges") {
		out = append(out, domain.Suggestion{
			Icon: "💪",
			Text: "You're facing challenges head-on. Remember to celebrate small victories and be kind to yourself.",
		})
	}
	if slices.Contains(themes, "Gratitude") {
		out = append(out, domain.Suggestion{
			Icon: "🙏",
			Text: "Practicing gratitude is powerful! Keep nurturing this positive mindset.",
		})
	}

	if len(out) == 0 {
		out = append(out, domain.Suggestion{
			Icon: "✨",
			Text: "Keep up the great journaling habit! Regular reflection helps build self-awareness.",
		})
	}
	return out
}

var moodSuggestions = []domain.Suggestion{
	{Icon: "🌬️", Text: "Try a calming breathing exercise"},
	{Icon: "🧘", Text: "A short meditation might help"},
	{Icon: "📝", Text: "Writing about your feelings can provide clarity"},
	{Icon: "👥", Text: "Connect with others who understand"},
}

// MoodSuggestion rotates through the follow-up activities by mood count.
func MoodSuggestion(moodCount int) domain.Suggestion {
	if moodCount < 0 {
		moodCount = 0
	}
	return moodSuggestions[moodCount%len(moodSuggestions)]
}
