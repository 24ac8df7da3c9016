package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/grant-assist/internal/config"
	"github.com/jonathan/grant-assist/internal/ingestion"
	"github.com/jonathan/grant-assist/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadConfig reads the config file and environment, then applies flag overrides.
func loadConfig(overrides config.Config) (*config.Config, error) {
	loaded, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		overrides.Log.Level = logLevel
	}
	merged := overrides.MergeWithDefaults(*loaded)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// readReference loads the grant reference text from a file or URL. Both empty
// yields an empty reference.
func readReference(ctx context.Context, path, url string) (string, error) {
	switch {
	case path != "" && url != "":
		return "", fmt.Errorf("cannot use --reference with --reference-url")
	case path != "":
		return ingestion.FromFile(path)
	case url != "":
		return ingestion.FromURL(ctx, url, nil)
	default:
		return "", nil
	}
}

// writeJSON writes v as indented JSON to path, or to the command's output when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Output: %s\n", path)
	return nil
}

// readJSONFile decodes a JSON file into v. "-" reads standard input.
func readJSONFile(cmd *cobra.Command, path string, v any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
