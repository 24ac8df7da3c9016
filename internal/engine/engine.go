// Package engine exposes the application validation and scoring operations over a
// template and draft pair. Every operation is a pure function of its inputs except
// AutoComplete, which delegates value generation to an injected FieldGenerator.
// An Engine holds only immutable configuration and is safe for concurrent use.
package engine

import (
	"context"
	"fmt"

	"github.com/jonathan/grant-assist/internal/completion"
	"github.com/jonathan/grant-assist/internal/keywords"
	"github.com/jonathan/grant-assist/internal/readability"
	"github.com/jonathan/grant-assist/internal/scoring"
	"github.com/jonathan/grant-assist/internal/types"
	"github.com/jonathan/grant-assist/internal/validation"
)

const defaultConcurrency = 4

// FieldRequest describes one field the caller wants a value proposed for.
type FieldRequest struct {
	Section  types.Section
	Template *types.Template
	Draft    *types.Draft
}

// FieldGenerator proposes a value for a single section. Implementations own
// their own timeout and retry behaviour.
type FieldGenerator interface {
	GenerateField(ctx context.Context, req FieldRequest) (types.AutoCompleteResult, error)
}

// Engine evaluates drafts against templates.
type Engine struct {
	scorer      scoring.ContentScorer
	generator   FieldGenerator
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithContentScorer replaces the default content heuristic used for the overall score.
func WithContentScorer(s scoring.ContentScorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithFieldGenerator sets the collaborator used by AutoComplete.
func WithFieldGenerator(g FieldGenerator) Option {
	return func(e *Engine) {
		e.generator = g
	}
}

// WithConcurrency bounds how many fields AutoComplete generates at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		scorer:      scoring.DefaultContentScorer,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate runs the rule validator, completion calculator and scorer and returns
// the aggregate report. reference is the grant text content is scored against
// and may be empty. Identical inputs always produce identical reports.
func (e *Engine) Validate(template *types.Template, draft *types.Draft, reference string) (*types.ScoreReport, error) {
	if err := checkInputs(template, draft); err != nil {
		return nil, err
	}

	results := validation.ValidateDraft(draft, template)

	return &types.ScoreReport{
		TemplateID:              template.ID,
		DraftID:                 draft.ID,
		ValidationResults:       results,
		OverallScore:            scoring.OverallScore(draft, template, results, reference, e.scorer),
		CompletionPercentage:    completion.Percentage(draft, template),
		CriticalIssues:          scoring.CriticalIssues(results),
		PrioritizedImprovements: scoring.PrioritizeImprovements(results, nil),
	}, nil
}

// ScoreContent analyzes readability and keyword coverage of text against reference.
func (e *Engine) ScoreContent(text, reference string) types.ContentScoreReport {
	return types.ContentScoreReport{
		Readability:         readability.Analyze(text),
		KeywordOptimization: keywords.Analyze(text, reference),
		EstimatedScore:      e.scorer.Score(text, reference),
	}
}

// Recommend ranks validation failures and suggestions into improvement actions.
func (e *Engine) Recommend(results []types.ValidationResult, suggestions []types.Suggestion) []string {
	return scoring.PrioritizeImprovements(results, suggestions)
}

func checkInputs(template *types.Template, draft *types.Draft) error {
	if template == nil {
		return fmt.Errorf("%w: template is nil", ErrInvalidArgument)
	}
	if draft == nil {
		return fmt.Errorf("%w: draft is nil", ErrInvalidArgument)
	}
	if err := template.Validate(); err != nil {
		return fmt.Errorf("%w: malformed template: %v", ErrInvalidArgument, err)
	}
	return nil
}
