package main

import (
	"context"
	"fmt"

	"github.com/jonathan/grant-assist/internal/autofill"
	"github.com/jonathan/grant-assist/internal/config"
	"github.com/jonathan/grant-assist/internal/engine"
	"github.com/jonathan/grant-assist/internal/forms"
	"github.com/jonathan/grant-assist/internal/llm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var autocompleteCmd = &cobra.Command{
	Use:   "autocomplete",
	Short: "Propose values for empty sections of a draft",
	Long:  "Asks the configured language model for a value for each requested section, using the template, the draft's existing answers and the grant description as context.",
	RunE:  runAutoComplete,
}

var (
	autocompleteTemplate     string
	autocompleteDraft        string
	autocompleteFields       []string
	autocompleteReference    string
	autocompleteReferenceURL string
	autocompleteOutput       string
	autocompleteAPIKey       string
	autocompleteTier         string
)

func init() {
	autocompleteCmd.Flags().StringVarP(&autocompleteTemplate, "template", "t", "", "Path to template file, JSON or YAML (required)")
	autocompleteCmd.Flags().StringVarP(&autocompleteDraft, "draft", "d", "", "Path to draft file, JSON or YAML (required)")
	autocompleteCmd.Flags().StringSliceVarP(&autocompleteFields, "fields", "f", nil, "Section IDs to complete, comma separated (required)")
	autocompleteCmd.Flags().StringVarP(&autocompleteReference, "reference", "r", "", "Path to grant description (text or HTML) given to the model")
	autocompleteCmd.Flags().StringVar(&autocompleteReferenceURL, "reference-url", "", "URL of the grant description page")
	autocompleteCmd.Flags().StringVarP(&autocompleteOutput, "out", "o", "", "Path to output JSON (default stdout)")
	autocompleteCmd.Flags().StringVar(&autocompleteAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	autocompleteCmd.Flags().StringVar(&autocompleteTier, "tier", "", "Model tier: lite, standard or advanced")

	mustMarkRequired(autocompleteCmd, "template", "draft", "fields")
	rootCmd.AddCommand(autocompleteCmd)
}

func runAutoComplete(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(config.Config{
		LLM: config.LLMConfig{APIKey: autocompleteAPIKey, Tier: autocompleteTier},
	})
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	template, err := forms.LoadTemplate(autocompleteTemplate)
	if err != nil {
		return err
	}
	draft, err := forms.LoadDraft(autocompleteDraft)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	grantContext, err := readReference(ctx, autocompleteReference, autocompleteReferenceURL)
	if err != nil {
		return fmt.Errorf("failed to load reference text: %w", err)
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.LLM.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	generator := newGenerator(client, cfg.LLM, logger, grantContext)
	e := engine.New(engine.WithFieldGenerator(generator), engine.WithConcurrency(cfg.Engine.Concurrency))

	if cfg.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LLM.Timeout)
		defer cancel()
	}

	logger.Debug("auto-completing sections", zap.Strings("fields", autocompleteFields))
	results, err := e.AutoComplete(ctx, template, draft, autocompleteFields)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: none of the requested fields are sections of the template")
	}
	return writeJSON(cmd, autocompleteOutput, results)
}

// newGenerator builds an autofill generator from the LLM settings.
func newGenerator(client llm.Client, cfg config.LLMConfig, logger *zap.Logger, grantContext string) *autofill.Generator {
	return autofill.New(client,
		autofill.WithTier(llm.ParseTier(cfg.Tier)),
		autofill.WithSampling(float32(cfg.Temperature), int32(cfg.MaxTokens)),
		autofill.WithGrantContext(grantContext),
		autofill.WithLogger(logger),
	)
}
