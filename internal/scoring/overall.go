package scoring

import (
	"math"

	"github.com/jonathan/grant-assist/internal/completion"
	"github.com/jonathan/grant-assist/internal/types"
)

// Weights for the overall score components
const (
	completionWeight = 0.4
	ruleWeight       = 0.3
	contentWeight    = 0.3
)

// OverallScore blends completion, rule pass rate and content quality into [0, 1],
// rounded to two decimals. The rule component contributes nothing when no rules
// ran, and the content component contributes nothing when no required field holds
// text. A nil scorer uses DefaultContentScorer.
func OverallScore(draft *types.Draft, template *types.Template, results []types.ValidationResult, reference string, scorer ContentScorer) float64 {
	if scorer == nil {
		scorer = DefaultContentScorer
	}

	score := completionWeight * float64(completion.Percentage(draft, template)) / 100

	if len(results) > 0 {
		passed := 0
		for _, r := range results {
			if r.Status == types.StatusPass {
				passed++
			}
		}
		score += ruleWeight * float64(passed) / float64(len(results))
	}

	total, scored := 0.0, 0
	for _, fieldID := range template.RequiredFields {
		text, ok := draft.TextValue(fieldID)
		if !ok {
			continue
		}
		total += clampScore(scorer.Score(text, reference), 0, 1)
		scored++
	}
	if scored > 0 {
		score += contentWeight * total / float64(scored)
	}

	return round2(clampScore(score, 0, 1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
