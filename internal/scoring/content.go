// Package scoring combines validation verdicts and content heuristics into an
// overall application score and a ranked list of improvements.
package scoring

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/grant-assist/internal/keywords"
)

// Content score heuristics
const (
	contentBaseScore       = 0.5
	lengthBonus            = 0.1
	shortLengthThreshold   = 100
	longLengthThreshold    = 300
	keywordBonusWeight     = 0.3
	minImportantWordLength = 3 // exclusive
	minContentScore        = 0.1
	maxContentScore        = 1.0
)

// ContentScorer rates a piece of application content against reference text in [0, 1].
type ContentScorer interface {
	Score(content, reference string) float64
}

// ContentScorerFunc adapts a function to ContentScorer.
type ContentScorerFunc func(content, reference string) float64

// Score calls f(content, reference).
func (f ContentScorerFunc) Score(content, reference string) float64 {
	return f(content, reference)
}

// DefaultContentScorer is the length and keyword heuristic of ScoreContent.
var DefaultContentScorer ContentScorer = ContentScorerFunc(ScoreContent)

// ScoreContent is a coarse triage signal, not a measure of semantic quality.
// It starts at 0.5, adds 0.1 for more than 100 words and another 0.1 for more
// than 300, then adds up to 0.3 for the share of important reference words that
// appear in content. The result is clamped to [0.1, 1.0].
func ScoreContent(content, reference string) float64 {
	score := contentBaseScore

	wordCount := len(strings.Fields(content))
	if wordCount > shortLengthThreshold {
		score += lengthBonus
	}
	if wordCount > longLengthThreshold {
		score += lengthBonus
	}

	important := importantWords(reference)
	if len(important) > 0 {
		contentLower := strings.ToLower(content)
		matched := 0
		for _, word := range important {
			if strings.Contains(contentLower, word) {
				matched++
			}
		}
		score += keywordBonusWeight * float64(matched) / float64(len(important))
	}

	return clampScore(score, minContentScore, maxContentScore)
}

// importantWords returns the distinct reference tokens longer than three runes.
func importantWords(reference string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, w := range keywords.Tokenize(reference) {
		if utf8.RuneCountInString(w) <= minImportantWordLength || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

func clampScore(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
