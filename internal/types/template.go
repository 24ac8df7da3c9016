// Package types provides type definitions for structured data used throughout the grant-assist system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// SectionKind is the input shape a template section expects.
type SectionKind string

// Section kinds supported by application templates
const (
	SectionText      SectionKind = "text"
	SectionNumber    SectionKind = "number"
	SectionDate      SectionKind = "date"
	SectionFile      SectionKind = "file"
	SectionSelection SectionKind = "selection"
	SectionTable     SectionKind = "table"
	SectionNarrative SectionKind = "narrative"
)

// RuleKind identifies a validation rule. Kinds outside the closed set below are
// carried as-is and always pass, so newer template schemas never block submission.
type RuleKind string

// Rule kinds understood by the validator
const (
	RuleRequired   RuleKind = "required"
	RuleMinLength  RuleKind = "minLength"
	RuleMaxLength  RuleKind = "maxLength"
	RulePattern    RuleKind = "pattern"
	RuleRange      RuleKind = "range"
	RuleDependency RuleKind = "dependency"
)

// Known reports whether the kind belongs to the closed set of rule kinds.
func (k RuleKind) Known() bool {
	switch k {
	case RuleRequired, RuleMinLength, RuleMaxLength, RulePattern, RuleRange, RuleDependency:
		return true
	default:
		return false
	}
}

// Severity is how strongly a rule violation should be treated by the caller.
type Severity string

// Severity levels
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Section is one addressable unit of an application form (e.g. "Project Summary").
type Section struct {
	ID        string      `json:"id" yaml:"id" validate:"required"`
	Title     string      `json:"title" yaml:"title"`
	Kind      SectionKind `json:"kind" yaml:"kind" validate:"required,oneof=text number date file selection table narrative"`
	Required  bool        `json:"required" yaml:"required"`
	MinLength *int        `json:"min_length,omitempty" yaml:"min_length,omitempty" validate:"omitempty,min=0"`
	MaxLength *int        `json:"max_length,omitempty" yaml:"max_length,omitempty" validate:"omitempty,min=0"`
	Order     int         `json:"order" yaml:"order"`
}

// Label returns the human-facing name of the section, falling back to its ID.
func (s Section) Label() string {
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

// Rule is a declarative check attached to a single field.
type Rule struct {
	FieldName  string         `json:"field_name" yaml:"field_name" validate:"required"`
	Kind       RuleKind       `json:"kind" yaml:"kind" validate:"required"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Message    string         `json:"message,omitempty" yaml:"message,omitempty"`
	Severity   Severity       `json:"severity,omitempty" yaml:"severity,omitempty" validate:"omitempty,oneof=error warning info"`
}

// Template describes the shape of one application form for one grant.
// Templates are treated as immutable once constructed.
type Template struct {
	ID              string    `json:"id,omitempty" yaml:"id,omitempty"`
	GrantID         string    `json:"grant_id,omitempty" yaml:"grant_id,omitempty"`
	Name            string    `json:"name,omitempty" yaml:"name,omitempty"`
	Sections        []Section `json:"sections" yaml:"sections" validate:"unique=ID,dive"`
	RequiredFields  []string  `json:"required_fields" yaml:"required_fields" validate:"dive,required"`
	OptionalFields  []string  `json:"optional_fields" yaml:"optional_fields" validate:"dive,required"`
	ValidationRules []Rule    `json:"validation_rules" yaml:"validation_rules" validate:"dive"`
}

// Section looks up a section by ID.
func (t *Template) Section(id string) (Section, bool) {
	for _, s := range t.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// FieldLabel returns the section title for id when the template defines one.
func (t *Template) FieldLabel(id string) string {
	if s, ok := t.Section(id); ok {
		return s.Label()
	}
	return id
}

// structValidator caches struct metadata across Validate calls; it is safe for concurrent use.
var structValidator = validator.New()

// Validate performs structural checks on the template.
func (t *Template) Validate() error {
	if t == nil {
		return fmt.Errorf("template is nil")
	}
	return structValidator.Struct(t)
}
