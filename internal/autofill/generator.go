package autofill

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/grant-assist/internal/engine"
	"github.com/jonathan/grant-assist/internal/llm"
	"github.com/jonathan/grant-assist/internal/prompts"
	"github.com/jonathan/grant-assist/internal/types"
	"go.uber.org/zap"
)

const (
	// maxAnswerRunes truncates each existing answer quoted in the prompt.
	maxAnswerRunes = 600
	// maxContextRunes truncates the grant description quoted in the prompt.
	maxContextRunes = 4000
	noAnswers       = "(none yet)"
	noContext       = "(not provided)"
)

// Generator implements engine.FieldGenerator on top of an llm.Client.
type Generator struct {
	client       llm.Client
	tier         llm.ModelTier
	temperature  float32
	maxTokens    int32
	grantContext string
	logger       *zap.Logger
}

var _ engine.FieldGenerator = (*Generator)(nil)

// Option configures a Generator.
type Option func(*Generator)

// WithTier selects the model tier. Defaults to llm.TierStandard.
func WithTier(tier llm.ModelTier) Option {
	return func(g *Generator) { g.tier = tier }
}

// WithSampling overrides temperature and output token limit. Zero values keep
// the client defaults.
func WithSampling(temperature float32, maxTokens int32) Option {
	return func(g *Generator) {
		g.temperature = temperature
		g.maxTokens = maxTokens
	}
}

// WithGrantContext sets the grant description quoted in every prompt.
func WithGrantContext(text string) Option {
	return func(g *Generator) { g.grantContext = text }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Generator backed by client.
func New(client llm.Client, opts ...Option) *Generator {
	g := &Generator{
		client: client,
		tier:   llm.TierStandard,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// reply is the JSON shape the prompt asks the model for.
type reply struct {
	Value      json.RawMessage `json:"value"`
	Confidence *float64        `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
}

// GenerateField asks the model for a value for req.Section.
func (g *Generator) GenerateField(ctx context.Context, req engine.FieldRequest) (types.AutoCompleteResult, error) {
	sectionID := req.Section.ID

	prompt, err := g.buildPrompt(req)
	if err != nil {
		return types.AutoCompleteResult{}, &GenerationError{SectionID: sectionID, Message: "failed to build prompt", Cause: err}
	}

	raw, err := g.client.Generate(ctx, prompt, llm.Options{
		Model:       g.client.GetModel(g.tier),
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		JSON:        true,
	})
	if err != nil {
		return types.AutoCompleteResult{}, &GenerationError{SectionID: sectionID, Message: "model call failed", Cause: err}
	}

	result, err := parseReply(raw)
	if err != nil {
		g.logger.Warn("unparseable autofill reply",
			zap.String("section", sectionID),
			zap.Int("reply_bytes", len(raw)),
			zap.Error(err))
		return types.AutoCompleteResult{}, &GenerationError{SectionID: sectionID, Message: "invalid model reply", Cause: err}
	}

	g.logger.Debug("generated section value",
		zap.String("section", sectionID),
		zap.Float64("confidence", result.Confidence))
	return result, nil
}

func (g *Generator) buildPrompt(req engine.FieldRequest) (string, error) {
	key := prompts.KeyCompleteField
	limits := lengthLimits(req.Section)
	if limits != "" {
		key = prompts.KeyCompleteFieldStrict
	}

	template, err := prompts.Get(prompts.AutofillFile, key)
	if err != nil {
		return "", err
	}

	grantName := ""
	if req.Template != nil {
		grantName = req.Template.Name
		if grantName == "" {
			grantName = req.Template.ID
		}
	}

	grantContext := strings.TrimSpace(g.grantContext)
	if grantContext == "" {
		grantContext = noContext
	}

	return prompts.Format(template, map[string]string{
		"GrantName":       grantName,
		"SectionTitle":    req.Section.Label(),
		"SectionKind":     string(req.Section.Kind),
		"LengthLimits":    limits,
		"GrantContext":    truncate(grantContext, maxContextRunes),
		"ExistingAnswers": existingAnswers(req),
	}), nil
}

func lengthLimits(section types.Section) string {
	var parts []string
	if section.MinLength != nil {
		parts = append(parts, fmt.Sprintf("at least %d characters", *section.MinLength))
	}
	if section.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("at most %d characters", *section.MaxLength))
	}
	return strings.Join(parts, ", ")
}

// existingAnswers lists the filled sections other than the target, in section order.
func existingAnswers(req engine.FieldRequest) string {
	if req.Template == nil || req.Draft == nil {
		return noAnswers
	}

	sections := make([]types.Section, len(req.Template.Sections))
	copy(sections, req.Template.Sections)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })

	var sb strings.Builder
	for _, s := range sections {
		if s.ID == req.Section.ID || !req.Draft.Filled(s.ID) {
			continue
		}
		value, _ := req.Draft.Value(s.ID)
		fmt.Fprintf(&sb, "- %s: %s\n", s.Label(), truncate(value.Stringify(), maxAnswerRunes))
	}
	if sb.Len() == 0 {
		return noAnswers
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func parseReply(raw string) (types.AutoCompleteResult, error) {
	var r reply
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &r); err != nil {
		return types.AutoCompleteResult{}, fmt.Errorf("failed to parse JSON: %w", err)
	}

	value, err := replyValue(r.Value)
	if err != nil {
		return types.AutoCompleteResult{}, err
	}

	confidence := 0.5
	if r.Confidence != nil {
		confidence = clamp(*r.Confidence)
	}

	return types.AutoCompleteResult{
		Value:      value,
		Confidence: confidence,
		Reasoning:  strings.TrimSpace(r.Reasoning),
	}, nil
}

// replyValue accepts a JSON string as is and any other non-null JSON value in
// compact form.
func replyValue(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("reply has no value")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	compact, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(compact), nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
