package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/grant-assist/internal/engine"
	"github.com/jonathan/grant-assist/internal/types"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank validation failures and suggestions into improvement actions",
	Long:  "Reads validation results (a JSON array or a ScoreReport) and optional suggestions, and prints the top improvement actions in priority order.",
	RunE:  runRecommend,
}

var (
	recommendResults     string
	recommendSuggestions string
	recommendJSON        bool
)

func init() {
	recommendCmd.Flags().StringVar(&recommendResults, "results", "", "Path to validation results or ScoreReport JSON, - for stdin (required)")
	recommendCmd.Flags().StringVar(&recommendSuggestions, "suggestions", "", "Path to suggestions JSON array")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Print the list as JSON")

	mustMarkRequired(recommendCmd, "results")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	var raw json.RawMessage
	if err := readJSONFile(cmd, recommendResults, &raw); err != nil {
		return err
	}
	results, err := decodeResults(raw)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", recommendResults, err)
	}

	var suggestions []types.Suggestion
	if recommendSuggestions != "" {
		if err := readJSONFile(cmd, recommendSuggestions, &suggestions); err != nil {
			return err
		}
		validate := validator.New()
		for i := range suggestions {
			if err := validate.Struct(suggestions[i]); err != nil {
				return fmt.Errorf("suggestion %d: %w", i, err)
			}
		}
	}

	improvements := engine.New().Recommend(results, suggestions)
	if recommendJSON {
		return writeJSON(cmd, "", improvements)
	}

	out := cmd.OutOrStdout()
	if len(improvements) == 0 {
		_, _ = fmt.Fprintln(out, "No improvements needed")
		return nil
	}
	for i, item := range improvements {
		_, _ = fmt.Fprintf(out, "%d. %s\n", i+1, item)
	}
	return nil
}

// decodeResults accepts either a bare results array or a full ScoreReport.
func decodeResults(raw json.RawMessage) ([]types.ValidationResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var results []types.ValidationResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, err
		}
		return results, nil
	}

	var report types.ScoreReport
	if err := json.Unmarshal(trimmed, &report); err != nil {
		return nil, err
	}
	return report.ValidationResults, nil
}
