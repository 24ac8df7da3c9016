package main

import (
	"fmt"

	"github.com/jonathan/grant-assist/internal/engine"
	"github.com/jonathan/grant-assist/internal/ingestion"
	"github.com/jonathan/grant-assist/internal/observability"
	"github.com/spf13/cobra"
)

var scoreContentCmd = &cobra.Command{
	Use:   "score-content",
	Short: "Score narrative text for readability and keyword coverage",
	Long:  "Analyzes a narrative answer for reading ease and for coverage of the salient terms of a grant description.",
	RunE:  runScoreContent,
}

var (
	scoreText         string
	scoreReference    string
	scoreReferenceURL string
	scoreOutput       string
)

func init() {
	scoreContentCmd.Flags().StringVarP(&scoreText, "text", "i", "", "Path to the narrative text file (required)")
	scoreContentCmd.Flags().StringVarP(&scoreReference, "reference", "r", "", "Path to grant description (text or HTML)")
	scoreContentCmd.Flags().StringVar(&scoreReferenceURL, "reference-url", "", "URL of the grant description page")
	scoreContentCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Path to output JSON (default stdout)")

	mustMarkRequired(scoreContentCmd, "text")
	rootCmd.AddCommand(scoreContentCmd)
}

func runScoreContent(cmd *cobra.Command, _ []string) error {
	text, err := ingestion.FromFile(scoreText)
	if err != nil {
		return fmt.Errorf("failed to load text: %w", err)
	}
	reference, err := readReference(cmd.Context(), scoreReference, scoreReferenceURL)
	if err != nil {
		return fmt.Errorf("failed to load reference text: %w", err)
	}

	report := engine.New().ScoreContent(text, reference)
	if err := writeJSON(cmd, scoreOutput, report); err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintContentScore(&report)
	}
	return nil
}
