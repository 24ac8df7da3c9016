// Package keywords measures how well application content covers the salient
// terms of a reference text such as a grant description.
package keywords

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/grant-assist/internal/types"
)

const (
	// minKeywordLength is exclusive: candidates need more runes than this.
	minKeywordLength = 4
	// maxMissingKeywords caps the missing list, kept in reference order.
	maxMissingKeywords = 10
)

var stopWords = map[string]bool{
	"that": true, "this": true, "with": true, "from": true,
	"they": true, "have": true, "will": true, "been": true,
}

// Analyze reports, for each candidate keyword of reference, how densely it
// occurs in content (percentage of content words, one decimal), or lists it as
// missing. A content word matches when it contains the keyword as a substring.
func Analyze(content, reference string) types.KeywordAnalysis {
	result := types.KeywordAnalysis{
		MissingKeywords: []string{},
		KeywordDensity:  map[string]float64{},
	}

	contentWords := Tokenize(content)
	total := len(contentWords)

	for _, keyword := range Candidates(reference) {
		count := 0
		for _, word := range contentWords {
			if strings.Contains(word, keyword) {
				count++
			}
		}

		if count > 0 {
			result.KeywordDensity[keyword] = math.Round(float64(count)/float64(total)*1000) / 10
			continue
		}
		if len(result.MissingKeywords) < maxMissingKeywords {
			result.MissingKeywords = append(result.MissingKeywords, keyword)
		}
	}

	return result
}

// Candidates extracts the salient words of reference in first-occurrence order.
func Candidates(reference string) []string {
	seen := make(map[string]bool)
	var candidates []string
	for _, word := range Tokenize(reference) {
		if utf8.RuneCountInString(word) <= minKeywordLength || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		candidates = append(candidates, word)
	}
	return candidates
}

// Tokenize lower-cases text, splits it on whitespace and trims surrounding
// punctuation from each word. Words that are pure punctuation are dropped.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
