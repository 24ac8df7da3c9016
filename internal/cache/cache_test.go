package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonathan/grant-assist/internal/config"
	"github.com/jonathan/grant-assist/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T, ttl time.Duration) (*ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := New(NewRedisClient(config.RedisConfig{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func sampleInputs() (*types.Template, *types.Draft) {
	template := &types.Template{
		ID:             "tmpl-1",
		Sections:       []types.Section{{ID: "summary", Title: "Summary", Kind: types.SectionNarrative}},
		RequiredFields: []string{"summary"},
		ValidationRules: []types.Rule{
			{FieldName: "summary", Kind: types.RuleMinLength, Parameters: map[string]any{"minLength": 10, "note": "x"}},
		},
	}
	draft := &types.Draft{ID: "d1", FormData: map[string]types.FieldValue{"summary": types.StringValue("Clinics")}}
	return template, draft
}

func TestKey(t *testing.T) {
	template, draft := sampleInputs()

	k1, err := Key(template, draft, "rural health")
	require.NoError(t, err)
	k2, err := Key(template, draft, "rural health")
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.True(t, strings.HasPrefix(k1, keyPrefix))
	assert.Len(t, strings.TrimPrefix(k1, keyPrefix), 64)

	k3, err := Key(template, draft, "urban health")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	changed := &types.Draft{ID: "d1", FormData: map[string]types.FieldValue{"summary": types.StringValue("Clinics!")}}
	k4, err := Key(template, changed, "rural health")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4)
}

func TestReportCache_RoundTrip(t *testing.T) {
	c, mr := setupCache(t, 10*time.Minute)
	ctx := context.Background()

	report := &types.ScoreReport{
		TemplateID: "tmpl-1",
		DraftID:    "d1",
		ValidationResults: []types.ValidationResult{
			{FieldName: "summary", RuleKind: types.RuleRequired, Status: types.StatusPass, Message: "Summary is provided"},
		},
		OverallScore:            0.85,
		CompletionPercentage:    100,
		CriticalIssues:          []string{},
		PrioritizedImprovements: []string{},
	}

	require.NoError(t, c.Put(ctx, "k", report))
	assert.Equal(t, 10*time.Minute, mr.TTL("k"))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestReportCache_Miss(t *testing.T) {
	c, _ := setupCache(t, time.Minute)

	got, err := c.Get(context.Background(), "absent")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportCache_Expiry(t *testing.T) {
	c, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", &types.ScoreReport{TemplateID: "t"}))
	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportCache_CorruptEntry(t *testing.T) {
	c, mr := setupCache(t, time.Minute)
	require.NoError(t, mr.Set("k", "not json"))

	_, err := c.Get(context.Background(), "k")
	assert.ErrorContains(t, err, "failed to decode cached report")
}

func TestReportCache_Unavailable(t *testing.T) {
	c, mr := setupCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	mr.Close()

	assert.Error(t, c.Ping(ctx))
	_, err := c.Get(ctx, "k")
	assert.ErrorContains(t, err, "failed to read cached report")
}
