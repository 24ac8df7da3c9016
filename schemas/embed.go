// Package schemas embeds the JSON Schemas that application documents are
// checked against before they are decoded.
package schemas

import "embed"

// Schema file names
const (
	TemplateSchema = "template.schema.json"
	DraftSchema    = "draft.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
