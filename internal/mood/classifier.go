package mood

import (
	"strings"
	"unicode"
)

// Bucket is a coarse sentiment classification of free text.
type Bucket string

const (
	Positive Bucket = "positive"
	Negative Bucket = "negative"
	Neutral  Bucket = "neutral"
)

// lexicon maps lowercase words to polarity scores. Word-level sums keep the
// classifier deterministic and total; anything unscored lands on neutral.
var lexicon = map[string]int{
	// positive
	"happy": 2, "great": 2, "amazing": 2, "awesome": 2, "love": 2,
	"joy": 2, "joyful": 2, "excited": 2, "wonderful": 2, "fantastic": 2,
	"good": 1, "nice": 1, "fun": 1, "dance": 1, "dancing": 1,
	"celebrate": 2, "celebration": 2, "party": 1, "upbeat": 1, "energetic": 1,
	"sunny": 1, "bright": 1, "cheerful": 2, "smile": 1, "smiling": 1,
	"best": 1, "win": 1, "winning": 1, "delighted": 2, "thrilled": 2,

	// negative
	"sad": -2, "down": -1, "depressed": -2, "unhappy": -2, "miserable": -2,
	"angry": -2, "mad": -1, "upset": -2, "cry": -2, "crying": -2,
	"lonely": -2, "alone": -1, "heartbreak": -2, "heartbroken": -2,
	"tired": -1, "exhausted": -1, "stressed": -2, "anxious": -2,
	"worried": -1, "bad": -1, "terrible": -2, "awful": -2, "worst": -2,
	"lost": -1, "hurt": -1, "pain": -1, "gloomy": -2, "grief": -2,
}

// Classify scores free text against the lexicon and returns the matching
// bucket. It never fails: empty or unscored input is Neutral.
func Classify(text string) Bucket {
	score := 0
	for _, word := range tokenize(text) {
		score += lexicon[word]
	}

	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}

// tokenize splits text on word boundaries, lowercased.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
