package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	files, err := fs.Glob(FS, "*.schema.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{TemplateSchema, DraftSchema}, files)

	for _, name := range files {
		t.Run(name, func(t *testing.T) {
			data, err := FS.ReadFile(name)
			require.NoError(t, err)

			var schema map[string]any
			require.NoError(t, json.Unmarshal(data, &schema))
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schema["$schema"])
			assert.Equal(t, "object", schema["type"])
		})
	}
}
