// Package forms loads application templates and drafts from JSON or YAML
// documents, checking them against the embedded schemas before decoding.
package forms

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/grant-assist/internal/schemas"
	"github.com/jonathan/grant-assist/internal/types"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a document.
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// LoadError reports a document that could not be read or decoded.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadTemplate reads and validates a template file.
func LoadTemplate(path string) (*types.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "cannot read file", Cause: err}
	}
	tmpl, err := ParseTemplate(data, FormatFromPath(path))
	if err != nil {
		return nil, &LoadError{Path: path, Message: "invalid template", Cause: err}
	}
	return tmpl, nil
}

// LoadDraft reads and validates a draft file.
func LoadDraft(path string) (*types.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "cannot read file", Cause: err}
	}
	draft, err := ParseDraft(data, FormatFromPath(path))
	if err != nil {
		return nil, &LoadError{Path: path, Message: "invalid draft", Cause: err}
	}
	return draft, nil
}

// ParseTemplate decodes a template document. The document must satisfy the
// template schema and the structural checks of types.Template.Validate.
func ParseTemplate(data []byte, format Format) (*types.Template, error) {
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateDocument(schemas.DocumentTemplate, doc); err != nil {
		return nil, err
	}

	var tmpl types.Template
	if err := json.Unmarshal(doc, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// ParseDraft decodes a draft document. A missing form_data object is rejected
// by the schema; values may be any JSON type.
func ParseDraft(data []byte, format Format) (*types.Draft, error) {
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateDocument(schemas.DocumentDraft, doc); err != nil {
		return nil, err
	}

	var draft types.Draft
	if err := json.Unmarshal(doc, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	if draft.FormData == nil {
		draft.FormData = map[string]types.FieldValue{}
	}
	return &draft, nil
}

// toJSON re-encodes YAML documents as JSON so both formats share one schema
// and one decoder.
func toJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	doc, err := nodeValue(&node)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}
	return out, nil
}

// nodeValue converts a YAML node into plain JSON-compatible values. Timestamp
// scalars keep their literal text so a date answer reads the same from YAML
// and JSON.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[n.Content[i].Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!timestamp" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, nil
}
