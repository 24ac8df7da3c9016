package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldReply mirrors the reply shape requested by the autofill prompt.
type fieldReply struct {
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func TestCleanJSONBlock_FieldReplies(t *testing.T) {
	const reply = `{"value": "Two mobile clinics serving 12 counties.", "confidence": 0.82, "reasoning": "Matches the project title"}`

	tests := []struct {
		name  string
		input string
	}{
		{"bare reply", reply},
		{"json fence", "```json\n" + reply + "\n```"},
		{"unlabelled fence", "```\n" + reply + "\n```"},
		{"fence with surrounding whitespace", "\n\n  ```json\n" + reply + "\n```  \n"},
		{"prose before", "Here is a draft answer for the Project Summary section:\n\n" + reply},
		{"prose after", reply + "\n\nLet me know if you want a longer version."},
		{"prose on both sides", "Sure. " + reply + " I kept it under the limit."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned := CleanJSONBlock(tt.input)
			assert.Equal(t, reply, cleaned)

			var parsed fieldReply
			require.NoError(t, json.Unmarshal([]byte(cleaned), &parsed))
			assert.Equal(t, "Two mobile clinics serving 12 counties.", parsed.Value)
			assert.Equal(t, 0.82, parsed.Confidence)
		})
	}
}

func TestCleanJSONBlock_BracesInsideStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "closing brace in value",
			input:    `Answer: {"value": "Budget covers staff} and travel", "confidence": 0.6} done`,
			expected: `{"value": "Budget covers staff} and travel", "confidence": 0.6}`,
		},
		{
			name:     "opening braces in reasoning",
			input:    `{"value": "Yes", "confidence": 0.9, "reasoning": "template uses {{.Field}} placeholders"}`,
			expected: `{"value": "Yes", "confidence": 0.9, "reasoning": "template uses {{.Field}} placeholders"}`,
		},
		{
			name:     "escaped quote before brace",
			input:    `{"value": "The \"Healthy Futures}\" initiative", "confidence": 0.7} trailing`,
			expected: `{"value": "The \"Healthy Futures}\" initiative", "confidence": 0.7}`,
		},
		{
			name:     "nested object value",
			input:    `{"value": {"lead": "Dr. Lee", "fte": 0.5}, "confidence": 0.4}`,
			expected: `{"value": {"lead": "Dr. Lee", "fte": 0.5}, "confidence": 0.4}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned := CleanJSONBlock(tt.input)
			assert.Equal(t, tt.expected, cleaned)
			assert.True(t, json.Valid([]byte(cleaned)), cleaned)
		})
	}
}

func TestCleanJSONBlock_ArrayValues(t *testing.T) {
	t.Run("array inside reply object", func(t *testing.T) {
		input := "```json\n" + `{"value": [{"name": "Dr. Lee", "role": "PI"}, {"name": "A. Cruz", "role": "Evaluator"}], "confidence": 0.5}` + "\n```"

		var parsed fieldReply
		require.NoError(t, json.Unmarshal([]byte(CleanJSONBlock(input)), &parsed))
		team, ok := parsed.Value.([]any)
		require.True(t, ok)
		assert.Len(t, team, 2)
	})

	t.Run("top-level array", func(t *testing.T) {
		input := `Milestones: ["Hire coordinator", "Launch clinic [phase 1]", "Report"] as listed.`
		assert.Equal(t, `["Hire coordinator", "Launch clinic [phase 1]", "Report"]`, CleanJSONBlock(input))
	})
}

func TestCleanJSONBlock_NoJSON(t *testing.T) {
	assert.Equal(t, "I cannot help with that.", CleanJSONBlock("I cannot help with that."))
	assert.Equal(t, "", CleanJSONBlock("   "))

	// An unterminated object cannot be extracted; the text comes back unchanged.
	truncated := `{"value": "We will deploy`
	assert.Equal(t, truncated, CleanJSONBlock(truncated))
}

func TestExtractBalanced(t *testing.T) {
	assert.Equal(t, `{"a": {"b": 1}}`, extractJSONObject(`{"a": {"b": 1}} tail`))
	assert.Equal(t, `[1, [2, 3]]`, extractJSONArray(`[1, [2, 3]], 4`))
	assert.Empty(t, extractJSONObject(`no object`))
	assert.Empty(t, extractJSONArray(`{"not": "array"}`))
	assert.Empty(t, extractJSONObject(""))
}
