package scoring

import "github.com/jonathan/grant-assist/internal/types"

const (
	// highConfidence is exclusive: suggestions above it are promoted.
	highConfidence = 0.8
	// maxImprovements caps the prioritized list.
	maxImprovements = 10
)

// PrioritizeImprovements orders improvement actions by class and keeps the top ten:
// required-field failures first, then suggestions with confidence above 0.8, then
// every other violated rule, warnings included. Order within a class follows
// the input order.
func PrioritizeImprovements(results []types.ValidationResult, suggestions []types.Suggestion) []string {
	improvements := make([]string, 0, maxImprovements)

	improvements = append(improvements, CriticalIssues(results)...)

	for _, s := range suggestions {
		if s.Confidence > highConfidence {
			improvements = append(improvements, s.Text)
		}
	}

	for _, r := range results {
		if r.Status != types.StatusPass && !r.IsRequiredFailure() {
			improvements = append(improvements, r.Message)
		}
	}

	if len(improvements) > maxImprovements {
		improvements = improvements[:maxImprovements]
	}
	return improvements
}

// CriticalIssues returns the messages of failed required-field checks.
func CriticalIssues(results []types.ValidationResult) []string {
	issues := []string{}
	for _, r := range results {
		if r.IsRequiredFailure() {
			issues = append(issues, r.Message)
		}
	}
	return issues
}
