// Package types provides type definitions for structured data used throughout the grant-assist system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of FieldValue.
type ValueKind string

// FieldValue variants
const (
	ValueNull       ValueKind = "null"
	ValueString     ValueKind = "string"
	ValueNumber     ValueKind = "number"
	ValueBool       ValueKind = "bool"
	ValueStructured ValueKind = "structured"
)

// FieldValue is the answer stored for one section of a draft.
// The zero value is the null variant.
type FieldValue struct {
	kind ValueKind
	str  string
	num  float64
	flag bool
	raw  json.RawMessage
}

// StringValue returns a string field value.
func StringValue(s string) FieldValue {
	return FieldValue{kind: ValueString, str: s}
}

// NumberValue returns a numeric field value.
func NumberValue(n float64) FieldValue {
	return FieldValue{kind: ValueNumber, num: n}
}

// BoolValue returns a boolean field value.
func BoolValue(b bool) FieldValue {
	return FieldValue{kind: ValueBool, flag: b}
}

// NullValue returns an explicit null field value.
func NullValue() FieldValue {
	return FieldValue{kind: ValueNull}
}

// StructuredValue wraps a JSON object or array (tables, file descriptors, multi-selects).
func StructuredValue(raw json.RawMessage) FieldValue {
	cp := make(json.RawMessage, len(raw))
	copy(cp, raw)
	return FieldValue{kind: ValueStructured, raw: cp}
}

// StructuredFrom marshals v into a structured field value.
func StructuredFrom(v any) (FieldValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return FieldValue{}, fmt.Errorf("failed to marshal structured value: %w", err)
	}
	var fv FieldValue
	if err := fv.UnmarshalJSON(raw); err != nil {
		return FieldValue{}, err
	}
	return fv, nil
}

// Kind returns the variant of the value.
func (v FieldValue) Kind() ValueKind {
	if v.kind == "" {
		return ValueNull
	}
	return v.kind
}

// String returns the text of a string value.
func (v FieldValue) String() (string, bool) {
	return v.str, v.Kind() == ValueString
}

// Number returns the number held by a numeric value.
func (v FieldValue) Number() (float64, bool) {
	return v.num, v.Kind() == ValueNumber
}

// Bool returns the flag held by a boolean value.
func (v FieldValue) Bool() (bool, bool) {
	return v.flag, v.Kind() == ValueBool
}

// Raw returns the JSON of a structured value.
func (v FieldValue) Raw() (json.RawMessage, bool) {
	return v.raw, v.Kind() == ValueStructured
}

// IsNull reports whether the value is the null variant.
func (v FieldValue) IsNull() bool {
	return v.Kind() == ValueNull
}

// IsFilled reports whether the value counts as an answer: non-null, and for strings
// non-empty after trimming whitespace.
func (v FieldValue) IsFilled() bool {
	switch v.Kind() {
	case ValueNull:
		return false
	case ValueString:
		return strings.TrimSpace(v.str) != ""
	case ValueNumber, ValueBool, ValueStructured:
		return true
	default:
		return false
	}
}

// Stringify renders the value as text for length-based rules.
func (v FieldValue) Stringify() string {
	switch v.Kind() {
	case ValueString:
		return v.str
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.flag)
	case ValueStructured:
		var buf bytes.Buffer
		if err := json.Compact(&buf, v.raw); err != nil {
			return string(v.raw)
		}
		return buf.String()
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case ValueString:
		return json.Marshal(v.str)
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.flag)
	case ValueStructured:
		if len(v.raw) == 0 {
			return []byte("null"), nil
		}
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler, selecting the variant from the JSON type.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		*v = NullValue()
		return nil
	}

	switch trimmed[0] {
	case 'n':
		*v = NullValue()
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("invalid string field value: %w", err)
		}
		*v = StringValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return fmt.Errorf("invalid boolean field value: %w", err)
		}
		*v = BoolValue(b)
	case '{', '[':
		if !json.Valid(trimmed) {
			return fmt.Errorf("invalid structured field value")
		}
		*v = StructuredValue(trimmed)
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("invalid numeric field value: %w", err)
		}
		*v = NumberValue(n)
	}
	return nil
}

// DraftStatus is the lifecycle state of a draft. Transitions are owned by the caller.
type DraftStatus string

// Draft statuses
const (
	DraftInProgress DraftStatus = "draft"
	DraftSubmitted  DraftStatus = "submitted"
)

// Draft is one user's in-progress answers against a Template.
// Keys missing from FormData are unfilled.
type Draft struct {
	ID         string                `json:"id,omitempty"`
	TemplateID string                `json:"template_id,omitempty"`
	UserID     string                `json:"user_id,omitempty"`
	Status     DraftStatus           `json:"status,omitempty"`
	FormData   map[string]FieldValue `json:"form_data"`
}

// Value returns the value stored for a field and whether the key is present.
func (d *Draft) Value(fieldID string) (FieldValue, bool) {
	if d == nil || d.FormData == nil {
		return FieldValue{}, false
	}
	v, ok := d.FormData[fieldID]
	return v, ok
}

// Filled reports whether the field holds an answer.
func (d *Draft) Filled(fieldID string) bool {
	v, ok := d.Value(fieldID)
	return ok && v.IsFilled()
}

// TextValue returns the non-blank string answer for a field.
func (d *Draft) TextValue(fieldID string) (string, bool) {
	v, ok := d.Value(fieldID)
	if !ok {
		return "", false
	}
	s, isString := v.String()
	if !isString || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
