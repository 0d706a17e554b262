package feedback

import "strings"

// Classify maps free text to a Sentiment by summing per-word polarity
// scores from the lexicon below: a positive total is positive, a negative
// total negative, and anything else (including empty or unscorable text)
// neutral. It is a pure function; identical text always yields the same
// label within one deployment.
func Classify(text string) Sentiment {
	score := 0
	for _, word := range tokenize(text) {
		score += lexicon[word]
	}
	switch {
	case score > 0:
		return SentimentPositive
	case score < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// tokenize lowercases the text and splits it on anything that is not a
// letter, digit or apostrophe.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == '\'':
			return false
		}
		return true
	})
}

// lexicon holds AFINN-style word valences in [-5, 5].
// Unknown words score 0.
var lexicon = map[string]int{
	// positive
	"amazing":       4,
	"awesome":       4,
	"best":          3,
	"brilliant":     4,
	"clear":         1,
	"engaging":      2,
	"enjoy":         2,
	"enjoyable":     2,
	"enjoyed":       2,
	"excellent":     3,
	"fantastic":     4,
	"fun":           4,
	"good":          3,
	"great":         3,
	"happy":         3,
	"helped":        2,
	"helpful":       2,
	"impressive":    3,
	"informative":   2,
	"inspiring":     2,
	"interesting":   2,
	"knowledgeable": 2,
	"like":          2,
	"liked":         2,
	"love":          3,
	"loved":         3,
	"nice":          3,
	"organized":     2,
	"outstanding":   5,
	"passionate":    2,
	"patient":       2,
	"perfect":       3,
	"recommend":     2,
	"recommended":   2,
	"superb":        5,
	"thorough":      2,
	"useful":        2,
	"wonderful":     4,

	// negative
	"awful":          -3,
	"bad":            -3,
	"boring":         -3,
	"confused":       -2,
	"confusing":      -2,
	"disappointed":   -2,
	"disappointing":  -2,
	"disorganized":   -2,
	"dislike":        -2,
	"disliked":       -2,
	"dreadful":       -3,
	"dull":           -2,
	"frustrated":     -2,
	"frustrating":    -2,
	"hard":           -1,
	"hate":           -3,
	"hated":          -3,
	"horrible":       -3,
	"incomprehensible": -2,
	"late":           -1,
	"lazy":           -1,
	"mediocre":       -2,
	"mess":           -2,
	"messy":          -2,
	"poor":           -2,
	"rude":           -2,
	"slow":           -2,
	"terrible":       -3,
	"unclear":        -2,
	"unhappy":        -2,
	"unhelpful":      -2,
	"unprepared":     -2,
	"useless":        -2,
	"waste":          -1,
	"worst":          -3,
	"wrong":          -2,
}
