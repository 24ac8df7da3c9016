package main

import (
	"fmt"

	"github.com/jonathan/grant-assist/internal/engine"
	"github.com/jonathan/grant-assist/internal/forms"
	"github.com/jonathan/grant-assist/internal/observability"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a draft against its template and score it",
	Long:  "Runs every template rule against the draft and prints a ScoreReport with completion, overall score, critical issues and prioritized improvements.",
	RunE:  runValidate,
}

var (
	validateTemplate       string
	validateDraft          string
	validateReference      string
	validateReferenceURL   string
	validateOutput         string
	validateFailOnCritical bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateTemplate, "template", "t", "", "Path to template file, JSON or YAML (required)")
	validateCmd.Flags().StringVarP(&validateDraft, "draft", "d", "", "Path to draft file, JSON or YAML (required)")
	validateCmd.Flags().StringVarP(&validateReference, "reference", "r", "", "Path to grant description (text or HTML) used for content scoring")
	validateCmd.Flags().StringVar(&validateReferenceURL, "reference-url", "", "URL of the grant description page")
	validateCmd.Flags().StringVarP(&validateOutput, "out", "o", "", "Path to output ScoreReport JSON (default stdout)")
	validateCmd.Flags().BoolVar(&validateFailOnCritical, "fail-on-critical", false, "Exit with an error when required fields are missing")

	mustMarkRequired(validateCmd, "template", "draft")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	template, err := forms.LoadTemplate(validateTemplate)
	if err != nil {
		return err
	}
	draft, err := forms.LoadDraft(validateDraft)
	if err != nil {
		return err
	}
	reference, err := readReference(cmd.Context(), validateReference, validateReferenceURL)
	if err != nil {
		return fmt.Errorf("failed to load reference text: %w", err)
	}

	report, err := engine.New().Validate(template, draft, reference)
	if err != nil {
		return err
	}
	if err := writeJSON(cmd, validateOutput, report); err != nil {
		return err
	}

	if verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintValidationResults(report.ValidationResults)
		printer.PrintScoreReport(report)
	}

	if validateFailOnCritical && len(report.CriticalIssues) > 0 {
		return fmt.Errorf("%d required field(s) missing", len(report.CriticalIssues))
	}
	return nil
}
