//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/grant-assist/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func testTemplate() *types.Template {
	minLen := 20
	return &types.Template{
		GrantID: "rural-health-2026",
		Name:    "Rural Health Innovation Fund",
		Sections: []types.Section{
			{ID: "summary", Title: "Project Summary", Kind: types.SectionNarrative, Required: true, MinLength: &minLen, Order: 1},
			{ID: "budget", Title: "Budget", Kind: types.SectionNumber, Order: 2},
		},
		RequiredFields:  []string{"summary", "budget"},
		OptionalFields:  []string{},
		ValidationRules: []types.Rule{{FieldName: "summary", Kind: types.RuleMinLength, Parameters: map[string]any{"minLength": float64(20)}}},
	}
}

func TestIntegration_Store_RoundTrip(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	templateID, err := db.SaveTemplate(ctx, testTemplate())
	require.NoError(t, err)
	defer func() { _ = db.DeleteTemplate(ctx, templateID) }()

	t.Run("template", func(t *testing.T) {
		got, err := db.GetTemplate(ctx, templateID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, templateID.String(), got.ID)
		assert.Equal(t, "Rural Health Innovation Fund", got.Name)
		require.Len(t, got.Sections, 2)
		assert.Equal(t, 20, *got.Sections[0].MinLength)
	})

	draft := &types.Draft{
		TemplateID: templateID.String(),
		UserID:     "user-1",
		FormData: map[string]types.FieldValue{
			"summary": types.StringValue("Two mobile clinics."),
			"budget":  types.NumberValue(250000),
			"notes":   types.NullValue(),
		},
	}
	draftID, err := db.SaveDraft(ctx, draft)
	require.NoError(t, err)

	t.Run("draft", func(t *testing.T) {
		got, err := db.GetDraft(ctx, draftID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, types.DraftInProgress, got.Status)
		assert.Equal(t, "user-1", got.UserID)
		s, _ := got.FormData["summary"].String()
		assert.Equal(t, "Two mobile clinics.", s)
		assert.True(t, got.FormData["notes"].IsNull())
	})

	t.Run("draft update", func(t *testing.T) {
		draft.ID = draftID.String()
		draft.Status = types.DraftSubmitted
		_, err := db.SaveDraft(ctx, draft)
		require.NoError(t, err)

		got, err := db.GetDraft(ctx, draftID)
		require.NoError(t, err)
		assert.Equal(t, types.DraftSubmitted, got.Status)
	})

	t.Run("reports", func(t *testing.T) {
		none, err := db.GetLatestScoreReport(ctx, draftID)
		require.NoError(t, err)
		assert.Nil(t, none)

		_, err = db.SaveScoreReport(ctx, draftID, &types.ScoreReport{OverallScore: 0.4, CompletionPercentage: 50})
		require.NoError(t, err)
		second, err := db.SaveScoreReport(ctx, draftID, &types.ScoreReport{OverallScore: 0.9, CompletionPercentage: 100})
		require.NoError(t, err)

		latest, err := db.GetLatestScoreReport(ctx, draftID)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, second.ID, latest.ID)
		assert.Equal(t, 0.9, latest.Report.OverallScore)

		all, err := db.ListScoreReports(ctx, draftID, 10)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestIntegration_Store_NotFound(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	tmpl, err := db.GetTemplate(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, tmpl)

	draft, err := db.GetDraft(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, draft)
}

func TestIntegration_SaveDraft_UnknownTemplate(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	_, err := db.SaveDraft(context.Background(), &types.Draft{TemplateID: uuid.NewString()})
	assert.Error(t, err)
}
