package db

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseID("tmpl-1")
	var idErr *InvalidIDError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, "tmpl-1", idErr.Value)
	assert.Contains(t, err.Error(), `invalid id "tmpl-1"`)
}

func TestResolveID(t *testing.T) {
	fresh, err := resolveID("")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, fresh)

	id := uuid.New()
	got, err := resolveID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = resolveID("nope")
	assert.Error(t, err)
}

func TestSchemaSQL(t *testing.T) {
	for _, table := range []string{"grant_templates", "grant_drafts", "score_reports"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.True(t, strings.Contains(schemaSQL, "ON DELETE CASCADE"))
}
