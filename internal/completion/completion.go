// Package completion measures how much of an application template a draft has answered.
package completion

import (
	"math"

	"github.com/jonathan/grant-assist/internal/types"
)

// Percentage returns the share of tracked fields that hold an answer, 0-100.
// Required and optional fields are counted independently, so an ID listed in
// both sets carries double weight. A template that tracks no fields is complete.
func Percentage(draft *types.Draft, template *types.Template) int {
	total := len(template.RequiredFields) + len(template.OptionalFields)
	if total == 0 {
		return 100
	}

	filled := 0
	for _, fieldID := range template.RequiredFields {
		if draft.Filled(fieldID) {
			filled++
		}
	}
	for _, fieldID := range template.OptionalFields {
		if draft.Filled(fieldID) {
			filled++
		}
	}

	return roundHalfUp(float64(filled) / float64(total) * 100)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
