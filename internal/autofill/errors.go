// Package autofill proposes values for empty grant application sections using an LLM.
package autofill

import "fmt"

// GenerationError reports a failed or unusable model call for one section.
type GenerationError struct {
	SectionID string
	Message   string
	Cause     error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("autofill error for section %q: %s: %v", e.SectionID, e.Message, e.Cause)
	}
	return fmt.Sprintf("autofill error for section %q: %s", e.SectionID, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
