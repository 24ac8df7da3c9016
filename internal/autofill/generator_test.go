package autofill

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/grant-assist/internal/engine"
	"github.com/jonathan/grant-assist/internal/llm"
	"github.com/jonathan/grant-assist/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateFunc        func(ctx context.Context, prompt string, opts llm.Options) (string, error)
	GetModelFunc        func(tier llm.ModelTier) string
	CloseFunc           func() error
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts)
	}
	return `{"value": "Mock value", "confidence": 0.6, "reasoning": "Mock reasoning"}`, nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string {
	if m.GetModelFunc != nil {
		return m.GetModelFunc(tier)
	}
	return "mock-" + string(tier)
}

func (m *MockLLMClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func intPtr(v int) *int { return &v }

func fixture() engine.FieldRequest {
	template := &types.Template{
		ID:   "tmpl-1",
		Name: "Rural Health Innovation Fund",
		Sections: []types.Section{
			{ID: "summary", Title: "Project Summary", Kind: types.SectionNarrative, MaxLength: intPtr(500), Order: 2},
			{ID: "title", Title: "Project Title", Kind: types.SectionText, Order: 1},
			{ID: "budget", Title: "Budget", Kind: types.SectionNumber, Order: 3},
		},
	}
	draft := &types.Draft{FormData: map[string]types.FieldValue{
		"title":  types.StringValue("Mobile Clinics for Appalachia"),
		"budget": types.NumberValue(250000),
	}}
	return engine.FieldRequest{Section: template.Sections[0], Template: template, Draft: draft}
}

func TestGenerateField_Success(t *testing.T) {
	var gotPrompt string
	var gotOpts llm.Options
	client := &MockLLMClient{
		GenerateFunc: func(_ context.Context, prompt string, opts llm.Options) (string, error) {
			gotPrompt, gotOpts = prompt, opts
			return "```json\n{\"value\": \"We will deploy two mobile clinics.\", \"confidence\": 0.82, \"reasoning\": \"Matches the title\"}\n```", nil
		},
	}

	g := New(client,
		WithTier(llm.TierAdvanced),
		WithSampling(0.7, 256),
		WithGrantContext("Funding for rural healthcare access."),
		WithLogger(zaptest.NewLogger(t)))

	result, err := g.GenerateField(context.Background(), fixture())
	require.NoError(t, err)

	assert.Equal(t, "We will deploy two mobile clinics.", result.Value)
	assert.Equal(t, 0.82, result.Confidence)
	assert.Equal(t, "Matches the title", result.Reasoning)

	assert.Equal(t, llm.Options{Model: "mock-advanced", Temperature: 0.7, MaxTokens: 256, JSON: true}, gotOpts)
	assert.Contains(t, gotPrompt, "Rural Health Innovation Fund")
	assert.Contains(t, gotPrompt, "Section: Project Summary (type: narrative)")
	assert.Contains(t, gotPrompt, "at most 500 characters")
	assert.Contains(t, gotPrompt, "Funding for rural healthcare access.")
	assert.Contains(t, gotPrompt, "- Project Title: Mobile Clinics for Appalachia\n- Budget: 250000")
	assert.NotContains(t, gotPrompt, "{{.")
}

func TestGenerateField_PromptWithoutContext(t *testing.T) {
	var gotPrompt string
	client := &MockLLMClient{
		GenerateFunc: func(_ context.Context, prompt string, _ llm.Options) (string, error) {
			gotPrompt = prompt
			return `{"value": "x", "confidence": 0.5}`, nil
		},
	}

	req := fixture()
	req.Section = req.Template.Sections[1]
	req.Draft = &types.Draft{}

	_, err := New(client).GenerateField(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, gotPrompt, noContext)
	assert.Contains(t, gotPrompt, noAnswers)
	assert.NotContains(t, gotPrompt, "Length limits")
}

func TestGenerateField_ReplyVariants(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		value      string
		confidence float64
		wantErr    bool
	}{
		{"confidence above one is clamped", `{"value": "a", "confidence": 1.7}`, "a", 1, false},
		{"negative confidence is clamped", `{"value": "a", "confidence": -0.2}`, "a", 0, false},
		{"missing confidence defaults", `{"value": "a"}`, "a", 0.5, false},
		{"numeric value", `{"value": 120000, "confidence": 0.9}`, "120000", 0.9, false},
		{"structured value", `{"value": [{"name": "Dr. Lee"}], "confidence": 0.4}`, `[{"name":"Dr. Lee"}]`, 0.4, false},
		{"prose around JSON", `Here you go: {"value": "b", "confidence": 0.3} Good luck!`, "b", 0.3, false},
		{"null value", `{"value": null, "confidence": 0.9}`, "", 0, true},
		{"missing value", `{"confidence": 0.9}`, "", 0, true},
		{"not JSON", `I cannot help with that.`, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockLLMClient{
				GenerateFunc: func(context.Context, string, llm.Options) (string, error) { return tt.reply, nil },
			}
			result, err := New(client).GenerateField(context.Background(), fixture())
			if tt.wantErr {
				var genErr *GenerationError
				require.ErrorAs(t, err, &genErr)
				assert.Equal(t, "summary", genErr.SectionID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, result.Value)
			assert.Equal(t, tt.confidence, result.Confidence)
		})
	}
}

func TestGenerateField_ClientError(t *testing.T) {
	upstream := errors.New("quota exceeded")
	client := &MockLLMClient{
		GenerateFunc: func(context.Context, string, llm.Options) (string, error) { return "", upstream },
	}

	_, err := New(client).GenerateField(context.Background(), fixture())

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, upstream)
	assert.Contains(t, err.Error(), "model call failed")
}

func TestGenerator_WithEngine(t *testing.T) {
	client := &MockLLMClient{}
	req := fixture()
	e := engine.New(engine.WithFieldGenerator(New(client)))

	results, err := e.AutoComplete(context.Background(), req.Template, req.Draft, []string{"summary", "budget", "ghost"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "Mock value", results["budget"].Value)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...", truncate("abc", 2))
	assert.Equal(t, "éé...", truncate("ééé", 2))
}
