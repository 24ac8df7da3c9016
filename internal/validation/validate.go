// Package validation runs template rules against the answers in a draft.
package validation

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/jonathan/grant-assist/internal/types"
)

// passedMessage is reported for rules that hold, and for every rule kind the
// validator does not check.
const passedMessage = "validation passed"

// ValidateDraft evaluates a draft against its template.
// Required-field checks come first, in RequiredFields order, followed by the
// template's custom rules in declaration order. Prioritization downstream relies
// on this ordering.
func ValidateDraft(draft *types.Draft, template *types.Template) []types.ValidationResult {
	results := make([]types.ValidationResult, 0, len(template.RequiredFields)+len(template.ValidationRules))

	for _, fieldID := range template.RequiredFields {
		results = append(results, checkRequired(draft, template, fieldID))
	}

	for _, rule := range template.ValidationRules {
		results = append(results, applyRule(draft, template, rule))
	}

	return results
}

// checkRequired fails when the field is absent, null, or a blank string.
func checkRequired(draft *types.Draft, template *types.Template, fieldID string) types.ValidationResult {
	label := template.FieldLabel(fieldID)
	if !draft.Filled(fieldID) {
		return types.ValidationResult{
			FieldName: fieldID,
			RuleKind:  types.RuleRequired,
			Status:    types.StatusFail,
			Message:   fmt.Sprintf("%s is required", label),
		}
	}
	return types.ValidationResult{
		FieldName: fieldID,
		RuleKind:  types.RuleRequired,
		Status:    types.StatusPass,
		Message:   fmt.Sprintf("%s is provided", label),
	}
}

// applyRule dispatches a custom rule on its kind.
func applyRule(draft *types.Draft, template *types.Template, rule types.Rule) types.ValidationResult {
	switch rule.Kind {
	case types.RuleMinLength:
		return checkMinLength(draft, template, rule)
	case types.RuleMaxLength:
		return checkMaxLength(draft, template, rule)
	case types.RuleRequired, types.RulePattern, types.RuleRange, types.RuleDependency:
		return passed(rule)
	default:
		// Unknown kinds are accepted so templates authored against a newer
		// schema keep validating.
		return passed(rule)
	}
}

func checkMinLength(draft *types.Draft, template *types.Template, rule types.Rule) types.ValidationResult {
	threshold := intParam(rule.Parameters, "minLength", 0)

	value, ok := draft.Value(rule.FieldName)
	if ok && !value.IsNull() && utf8.RuneCountInString(value.Stringify()) >= threshold {
		return passed(rule)
	}

	return violated(rule, fmt.Sprintf("%s must be at least %d characters", template.FieldLabel(rule.FieldName), threshold), false)
}

func checkMaxLength(draft *types.Draft, template *types.Template, rule types.Rule) types.ValidationResult {
	threshold := intParam(rule.Parameters, "maxLength", math.MaxInt)

	value, ok := draft.Value(rule.FieldName)
	if !ok || value.IsNull() || utf8.RuneCountInString(value.Stringify()) <= threshold {
		result := passed(rule)
		result.AutoFixAvailable = true
		return result
	}

	return violated(rule, fmt.Sprintf("%s must be at most %d characters", template.FieldLabel(rule.FieldName), threshold), true)
}

func passed(rule types.Rule) types.ValidationResult {
	return types.ValidationResult{
		FieldName: rule.FieldName,
		RuleKind:  rule.Kind,
		Status:    types.StatusPass,
		Message:   passedMessage,
	}
}

// violated builds a non-passing result. Rules authored with warning or info
// severity report a warning instead of a failure.
func violated(rule types.Rule, defaultMessage string, autoFix bool) types.ValidationResult {
	message := rule.Message
	if message == "" {
		message = defaultMessage
	}

	status := types.StatusFail
	if rule.Severity == types.SeverityWarning || rule.Severity == types.SeverityInfo {
		status = types.StatusWarning
	}

	return types.ValidationResult{
		FieldName:        rule.FieldName,
		RuleKind:         rule.Kind,
		Status:           status,
		Message:          message,
		AutoFixAvailable: autoFix,
	}
}
