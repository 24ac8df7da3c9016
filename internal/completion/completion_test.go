package completion

import (
	"testing"

	"github.com/jonathan/grant-assist/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	fiveFields := &types.Template{
		RequiredFields: []string{"f1", "f2", "f3"},
		OptionalFields: []string{"f4", "f5"},
	}

	tests := []struct {
		name     string
		template *types.Template
		data     map[string]types.FieldValue
		expected int
	}{
		{
			name:     "empty template is complete",
			template: &types.Template{},
			data:     nil,
			expected: 100,
		},
		{
			name:     "nothing filled",
			template: fiveFields,
			data:     map[string]types.FieldValue{},
			expected: 0,
		},
		{
			name:     "partial fill",
			template: fiveFields,
			data:     map[string]types.FieldValue{"f1": types.StringValue("x"), "f4": types.StringValue("y")},
			expected: 40,
		},
		{
			name:     "full fill",
			template: fiveFields,
			data: map[string]types.FieldValue{
				"f1": types.StringValue("a"),
				"f2": types.NumberValue(2),
				"f3": types.BoolValue(true),
				"f4": types.StringValue("d"),
				"f5": types.StringValue("e"),
			},
			expected: 100,
		},
		{
			name:     "blank and null values are unfilled",
			template: fiveFields,
			data:     map[string]types.FieldValue{"f1": types.StringValue("  "), "f2": types.NullValue(), "f3": types.StringValue("ok")},
			expected: 20,
		},
		{
			name:     "fields outside the template are ignored",
			template: fiveFields,
			data:     map[string]types.FieldValue{"other": types.StringValue("x")},
			expected: 0,
		},
		{
			name: "overlapping field counts twice",
			template: &types.Template{
				RequiredFields: []string{"a", "b"},
				OptionalFields: []string{"a"},
			},
			data:     map[string]types.FieldValue{"a": types.StringValue("x")},
			expected: 67,
		},
		{
			name: "rounds half up",
			template: &types.Template{
				RequiredFields: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
			},
			data:     map[string]types.FieldValue{"a": types.StringValue("x")},
			expected: 13, // 12.5
		},
		{
			name: "rounds down below half",
			template: &types.Template{
				RequiredFields: []string{"a", "b", "c"},
			},
			data:     map[string]types.FieldValue{"a": types.StringValue("x")},
			expected: 33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(&types.Draft{FormData: tt.data}, tt.template)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPercentage_Bounds(t *testing.T) {
	template := &types.Template{
		RequiredFields: []string{"a", "b", "a"},
		OptionalFields: []string{"c", "a"},
	}
	drafts := []*types.Draft{
		nil,
		{},
		{FormData: map[string]types.FieldValue{"a": types.StringValue("x")}},
		{FormData: map[string]types.FieldValue{"a": types.StringValue("x"), "b": types.StringValue("y"), "c": types.StringValue("z")}},
	}

	for _, d := range drafts {
		got := Percentage(d, template)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}
