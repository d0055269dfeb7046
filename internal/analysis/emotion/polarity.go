package emotion

import (
	"strings"
	"unicode"
)

// Word buckets for the lexical polarity scorer. Coverage leans toward the
// vocabulary of journal entries: feelings, work, sleep, relationships.
var positiveWords = map[string]bool{
	"good": true, "great": true, "happy": true, "joy": true, "joyful": true,
	"glad": true, "grateful": true, "thankful": true, "calm": true,
	"relaxed": true, "relieved": true, "excited": true, "proud": true,
	"hopeful": true, "love": true, "loved": true, "wonderful": true,
	"amazing": true, "awesome": true, "better": true, "progress": true,
	"accomplished": true, "peaceful": true, "rested": true, "energized": true,
	"fun": true, "supported": true, "confident": true, "optimistic": true,
}

var negativeWords = map[string]bool{
	"bad": true, "sad": true, "unhappy": true, "miserable": true,
	"depressed": true, "anxious": true, "anxiety": true, "worried": true,
	"worry": true, "scared": true, "afraid": true, "fear": true,
	"stressed": true, "stress": true, "overwhelmed": true, "exhausted": true,
	"tired": true, "angry": true, "furious": true, "annoyed": true,
	"frustrated": true, "lonely": true, "alone": true, "hopeless": true,
	"worthless": true, "panic": true, "panicked": true, "terrible": true,
	"awful": true, "horrible": true, "hurt": true, "pain": true,
	"crying": true, "cried": true, "hate": true, "guilty": true,
	"ashamed": true, "nervous": true, "dread": true, "worse": true,
}

var intensifiers = map[string]bool{
	"really": true, "very": true, "so": true, "extremely": true,
	"incredibly": true, "totally": true, "completely": true,
}

var negators = map[string]bool{
	"not": true, "never": true, "no": true, "hardly": true, "barely": true,
	"can't": true, "cannot": true, "don't": true, "didn't": true,
	"isn't": true, "wasn't": true,
}

// Polarity scores the signed sentiment of text in [-1, 1]. Pure and
// deterministic; the same text always produces the same value.
func Polarity(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var score float64
	for i, token := range tokens {
		var value float64
		switch {
		case positiveWords[token]:
			value = 1
		case negativeWords[token]:
			value = -1
		default:
			continue
		}

		// Look back a couple of tokens for negation and intensity.
		weight := 1.0
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if negators[tokens[j]] {
				value = -value
				break
			}
			if intensifiers[tokens[j]] {
				weight += 0.5
			}
		}

		score += value * weight
	}

	if score == 0 {
		return 0
	}

	// Squash into (-1, 1); two strong matches already push past ±0.5.
	polarity := score / (abs(score) + 2)
	if polarity > 1 {
		polarity = 1
	}
	if polarity < -1 {
		polarity = -1
	}
	return polarity
}

func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
