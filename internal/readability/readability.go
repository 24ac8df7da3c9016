// Package readability estimates how easy a piece of prose is to read using the
// Flesch Reading Ease formula with a vowel-group syllable heuristic.
package readability

import (
	"regexp"
	"strings"

	"github.com/jonathan/grant-assist/internal/types"
)

// Flesch Reading Ease coefficients
const (
	fleschBase           = 206.835
	fleschSentenceWeight = 1.015
	fleschSyllableWeight = 84.6
)

const (
	minScore = 0.0
	maxScore = 100.0

	// improvementThreshold is the score below which rewrite hints are emitted.
	improvementThreshold = 60.0
)

// Grade levels
const (
	gradeElementary   = "Elementary"
	gradeMiddleSchool = "Middle School"
	gradeHighSchool   = "High School"
	gradeCollege      = "College"
	gradeGraduate     = "Graduate"
)

var (
	sentenceSplitter = regexp.MustCompile(`[.!?]+`)
	nonLetters       = regexp.MustCompile(`[^a-z]`)
	vowelGroups      = regexp.MustCompile(`[aeiou]+`)
)

// improvementHints are returned for texts scoring below the improvement threshold.
var improvementHints = []string{
	"Use shorter sentences",
	"Simplify complex words",
	"Break up long paragraphs",
}

// Score returns the clamped Flesch Reading Ease score of text in [0, 100].
// Text without sentences or words scores 0.
func Score(text string) float64 {
	sentences := countSentences(text)
	words := strings.Fields(text)
	if sentences == 0 || len(words) == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))
	score := fleschBase - fleschSentenceWeight*wordsPerSentence - fleschSyllableWeight*syllablesPerWord

	return clamp(score)
}

// Analyze scores text and attaches a grade level and improvement hints.
func Analyze(text string) types.ReadabilityReport {
	score := Score(text)

	improvements := []string{}
	if score < improvementThreshold {
		improvements = append(improvements, improvementHints...)
	}

	return types.ReadabilityReport{
		Score:        score,
		GradeLevel:   GradeLevel(score),
		Improvements: improvements,
	}
}

// GradeLevel buckets a reading-ease score into an education level.
func GradeLevel(score float64) string {
	switch {
	case score > 90:
		return gradeElementary
	case score > 80:
		return gradeMiddleSchool
	case score > 70:
		return gradeHighSchool
	case score > 60:
		return gradeCollege
	default:
		return gradeGraduate
	}
}

// countSentences counts the non-blank fragments between runs of terminal punctuation.
func countSentences(text string) int {
	count := 0
	for _, fragment := range sentenceSplitter.Split(text, -1) {
		if strings.TrimSpace(fragment) != "" {
			count++
		}
	}
	return count
}

// countSyllables counts vowel groups in the letters of word, with a floor of one.
func countSyllables(word string) int {
	letters := nonLetters.ReplaceAllString(strings.ToLower(word), "")
	groups := len(vowelGroups.FindAllStringIndex(letters, -1))
	if groups == 0 {
		return 1
	}
	return groups
}

func clamp(score float64) float64 {
	if score > maxScore {
		return maxScore
	}
	if score < minScore {
		return minScore
	}
	return score
}
