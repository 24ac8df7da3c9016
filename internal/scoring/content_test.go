package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestScoreContent(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		reference string
		expected  float64
	}{
		{"empty content and reference", "", "", 0.5},
		{"exactly 100 words gets no bonus", words(100), "", 0.5},
		{"over 100 words", words(150), "", 0.6},
		{"exactly 300 words", words(300), "", 0.6},
		{"over 300 words gets both bonuses", words(350), "", 0.7},
		{"half of important words", "Healthcare innovation", "Healthcare innovation for rural areas", 0.65},
		{"no important words matched", "unrelated", "Healthcare innovation", 0.5},
		{"short reference words ignored", "anything", "for the and", 0.5},
		{"full coverage capped at 1", words(350) + " healthcare innovation", "healthcare innovation", 1.0},
		{"substring matching", "telehealthcare platforms", "healthcare", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ScoreContent(tt.content, tt.reference), 1e-9)
		})
	}
}

func TestScoreContent_RepeatedReferenceWordsCountOnce(t *testing.T) {
	// important words are distinct: "grant" matches one of {grant, health}
	assert.InDelta(t, 0.65, ScoreContent("grant", "grant grant health"), 1e-9)
	assert.InDelta(t, 0.65, ScoreContent("grant", "Grant, grant. HEALTH!"), 1e-9)
	assert.Equal(t, []string{"grant", "health"}, importantWords("grant grant health"))
}

func TestScoreContent_Bounds(t *testing.T) {
	inputs := [][2]string{
		{"", ""},
		{words(1000), "word"},
		{"x", strings.Repeat("alpha beta gamma delta ", 50)},
	}
	for _, in := range inputs {
		score := ScoreContent(in[0], in[1])
		assert.GreaterOrEqual(t, score, 0.1)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestContentScorerFunc(t *testing.T) {
	scorer := ContentScorerFunc(func(content, reference string) float64 {
		return float64(len(content) + len(reference))
	})
	assert.Equal(t, 5.0, scorer.Score("abc", "de"))
	assert.InDelta(t, 0.5, DefaultContentScorer.Score("", ""), 1e-9)
}
