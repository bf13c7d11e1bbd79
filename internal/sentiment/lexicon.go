package sentiment

import (
	"regexp"
	"strings"
)

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "positive": {}, "up": {}, "bull": {}, "profit": {},
	"gain": {}, "beat": {}, "outperform": {}, "strong": {}, "improve": {},
	"increase": {}, "surge": {}, "rise": {}, "grow": {}, "growth": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "negative": {}, "down": {}, "bear": {}, "loss": {},
	"drop": {}, "miss": {}, "weak": {}, "decline": {}, "decrease": {}, "fall": {},
	"plunge": {},
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// LexiconScorer counts hits in fixed positive and negative word lists:
// (pos - neg) / max(1, tokens).
type LexiconScorer struct{}

func NewLexiconScorer() LexiconScorer { return LexiconScorer{} }

func (LexiconScorer) Name() string { return StrategyLexicon }

func (LexiconScorer) Score(text string) float64 {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return 0
	}
	pos, neg := 0, 0
	for _, tok := range tokens {
		if _, ok := positiveWords[tok]; ok {
			pos++
		} else if _, ok := negativeWords[tok]; ok {
			neg++
		}
	}
	return float64(pos-neg) / float64(len(tokens))
}
