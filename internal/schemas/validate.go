// Package schemas provides JSON Schema validation of template and draft documents.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	rootschemas "github.com/jonathan/grant-assist/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Document identifies which embedded schema a document is checked against.
type Document string

// Known documents
const (
	DocumentTemplate Document = "template"
	DocumentDraft    Document = "draft"
)

var schemaFiles = map[Document]string{
	DocumentTemplate: rootschemas.TemplateSchema,
	DocumentDraft:    rootschemas.DraftSchema,
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// DocumentError reports content that is not a JSON document at all.
type DocumentError struct {
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid document: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid document: %s", e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

var (
	compiled   = make(map[Document]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidateDocument validates JSON content against the embedded schema for doc.
func ValidateDocument(doc Document, jsonContent []byte) error {
	schema, err := load(doc)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(jsonContent))
	if err != nil {
		return &DocumentError{Message: fmt.Sprintf("%s is not valid JSON", doc), Cause: err}
	}
	return toValidationError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func load(doc Document) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[doc]; ok {
		return schema, nil
	}

	file, ok := schemaFiles[doc]
	if !ok {
		return nil, &SchemaLoadError{Path: string(doc), Message: "unknown document kind"}
	}

	data, err := rootschemas.FS.ReadFile(file)
	if err != nil {
		return nil, &SchemaLoadError{Path: file, Message: "schema not embedded", Cause: err}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: file, Message: "schema does not compile", Cause: err}
	}

	compiled[doc] = schema
	return schema, nil
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
