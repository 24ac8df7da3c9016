// Package ingestion turns grant descriptions (plain text, Markdown, HTML files
// or funder web pages) into the clean reference text content is scored against.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	spaceRun      = regexp.MustCompile(`\s+`)
	blankLineRun  = regexp.MustCompile(`\n\n\n+`)
	htmlExtension = map[string]bool{".html": true, ".htm": true, ".xhtml": true}
)

// CleanText normalizes line endings and whitespace while keeping Markdown
// headings, bullet lists and paragraph breaks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = blankLineRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	// Headings are flushed left as-is
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := strings.Repeat(" ", len(line)-len(trimmed))
	if isBulletLine(trimmed) {
		return indent + trimmed
	}
	return indent + spaceRun.ReplaceAllString(trimmed, " ")
}

func isBulletLine(trimmed string) bool {
	for _, marker := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// FromFile reads a grant description. HTML files are reduced to their main
// text; anything else is treated as plain text or Markdown.
func FromFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("reference file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read reference file: %w", err)
	}

	if htmlExtension[strings.ToLower(filepath.Ext(path))] {
		return ExtractText(string(content), GrantPageSelectors())
	}
	return CleanText(string(content)), nil
}
