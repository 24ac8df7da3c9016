// Package types provides type definitions for structured data used throughout the grant-assist system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ValidationStatus is the verdict of a single rule evaluation.
type ValidationStatus string

// Validation statuses
const (
	StatusPass    ValidationStatus = "pass"
	StatusFail    ValidationStatus = "fail"
	StatusWarning ValidationStatus = "warning"
)

// ValidationResult is the verdict of one rule against one field.
type ValidationResult struct {
	FieldName        string           `json:"field_name"`
	RuleKind         RuleKind         `json:"rule_kind"`
	Status           ValidationStatus `json:"status"`
	Message          string           `json:"message"`
	AutoFixAvailable bool             `json:"auto_fix_available"`
}

// IsRequiredFailure reports whether the result is a failed required-field check.
func (r ValidationResult) IsRequiredFailure() bool {
	return r.Status == StatusFail && r.RuleKind == RuleRequired
}

// SuggestionKind categorizes an improvement suggestion.
type SuggestionKind string

// Suggestion kinds
const (
	SuggestionContent      SuggestionKind = "content"
	SuggestionStructure    SuggestionKind = "structure"
	SuggestionImprovement  SuggestionKind = "improvement"
	SuggestionErrorFix     SuggestionKind = "errorFix"
	SuggestionAutoComplete SuggestionKind = "autoComplete"
)

// Suggestion is an actionable recommendation for a section.
// Confidence is advisory; thresholds for acting on it belong to the caller.
type Suggestion struct {
	SectionID  string         `json:"section_id"`
	Kind       SuggestionKind `json:"kind"`
	Text       string         `json:"text"`
	Reasoning  string         `json:"reasoning,omitempty"`
	Confidence float64        `json:"confidence" validate:"min=0,max=1"`
}

// ScoreReport is the aggregate result of evaluating a draft against its template.
type ScoreReport struct {
	TemplateID              string             `json:"template_id,omitempty"`
	DraftID                 string             `json:"draft_id,omitempty"`
	ValidationResults       []ValidationResult `json:"validation_results"`
	OverallScore            float64            `json:"overall_score"`
	CompletionPercentage    int                `json:"completion_percentage"`
	CriticalIssues          []string           `json:"critical_issues"`
	PrioritizedImprovements []string           `json:"prioritized_improvements"`
}

// ReadabilityReport summarizes how easy a text is to read.
type ReadabilityReport struct {
	Score        float64  `json:"score"`
	GradeLevel   string   `json:"grade_level"`
	Improvements []string `json:"improvements"`
}

// KeywordAnalysis describes how well content covers the salient terms of a reference text.
type KeywordAnalysis struct {
	MissingKeywords []string           `json:"missing_keywords"`
	KeywordDensity  map[string]float64 `json:"keyword_density"`
}

// ContentScoreReport combines readability, keyword coverage and the heuristic content score.
type ContentScoreReport struct {
	Readability         ReadabilityReport `json:"readability"`
	KeywordOptimization KeywordAnalysis   `json:"keyword_optimization"`
	EstimatedScore      float64           `json:"estimated_score"`
}

// AutoCompleteResult is a generated value proposed for one field.
type AutoCompleteResult struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}
