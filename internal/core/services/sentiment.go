package services

import (
	"strings"
	"unicode"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

const maxSentimentWords = 5

// lexicon is a small AFINN-style word list scored from -5 to +5.
var lexicon = map[string]int{
	"abandoned": -2, "afraid": -2, "alone": -2, "angry": -3, "annoyed": -2,
	"anxious": -2, "ashamed": -2, "awful": -3, "bad": -3, "bitter": -2,
	"broken": -1, "confused": -2, "cry": -1, "crying": -2, "depressed": -2,
	"desperate": -3, "disappointed": -2, "disgusted": -3, "down": -1, "dread": -2,
	"empty": -1, "exhausted": -2, "fail": -2, "failed": -2, "failure": -2,
	"fear": -2, "frustrated": -2, "furious": -3, "grief": -2, "guilty": -3,
	"hate": -3, "helpless": -2, "hopeless": -2, "horrible": -3, "hurt": -2,
	"irritated": -3, "lonely": -2, "lost": -3, "miserable": -3, "nervous": -2,
	"overwhelmed": -2, "pain": -2, "panic": -3, "problem": -2, "regret": -2,
	"sad": -2, "scared": -2, "sick": -2, "stress": -1, "stressed": -2,
	"struggle": -2, "terrible": -3, "tired": -2, "ugly": -3, "unhappy": -2,
	"upset": -2, "useless": -2, "worried": -3, "worry": -3, "worse": -3,
	"worst": -3, "worthless": -2,

	"amazing": 4, "appreciate": 2, "awesome": 4, "beautiful": 3, "best": 3,
	"better": 2, "blessed": 2, "bright": 1, "calm": 2, "celebrate": 3,
	"cheerful": 2, "comfort": 2, "confident": 2, "content": 2, "enjoy": 2,
	"enjoyed": 2, "excellent": 3, "excited": 3, "fantastic": 4, "fine": 2,
	"fortunate": 2, "free": 1, "fun": 4, "glad": 3, "good": 3,
	"grateful": 3, "great": 3, "happy": 3, "healthy": 2, "hope": 2,
	"hopeful": 2, "inspired": 2, "joy": 3, "kind": 2, "laugh": 1,
	"love": 3, "loved": 3, "lucky": 3, "nice": 3, "peace": 2,
	"peaceful": 2, "positive": 2, "productive": 2, "proud": 2, "relaxed": 2,
	"relief": 1, "rested": 2, "safe": 1, "smile": 2, "strong": 2,
	"success": 2, "support": 2, "thank": 2, "thankful": 2, "wonderful": 4,
}

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "dont": true, "don't": true,
	"cant": true, "can't": true, "isnt": true, "isn't": true, "wasnt": true, "wasn't": true,
}

// AnalyzeSentiment scores free text against the lexicon. A negator
// immediately before a scored word flips its sign.
func AnalyzeSentiment(text string) domain.Sentiment {
	tokens := tokenize(text)
	s := domain.Sentiment{Positive: []string{}, Negative: []string{}}
	if len(tokens) == 0 {
		return s
	}

	for i, tok := range tokens {
		v, ok := lexicon[tok]
		if !ok {
			continue
		}
		if i > 0 && negators[tokens[i-1]] {
			v = -v
		}
		s.Score += v
		switch {
		case v > 0 && len(s.Positive) < maxSentimentWords:
			s.Positive = append(s.Positive, tok)
		case v < 0 && len(s.Negative) < maxSentimentWords:
			s.Negative = append(s.Negative, tok)
		}
	}

	s.Comparative = float64(s.Score) / float64(len(tokens))
	return s
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
