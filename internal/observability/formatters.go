// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/grant-assist/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(shorten(line, boxWidth-4)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-fills s to the box interior width, counting runes so the
// box glyphs line up.
func pad(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= boxWidth-4 {
		return s
	}
	return s + strings.Repeat(" ", boxWidth-4-n)
}

func shorten(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

// PrintScoreReport outputs a human-readable summary of a draft evaluation.
func (p *Printer) PrintScoreReport(report *types.ScoreReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	if report.TemplateID != "" {
		sb.WriteString(fmt.Sprintf("Template:   %s\n", report.TemplateID))
	}
	if report.DraftID != "" {
		sb.WriteString(fmt.Sprintf("Draft:      %s\n", report.DraftID))
	}
	sb.WriteString(fmt.Sprintf("Completion: %d%%\n", report.CompletionPercentage))
	sb.WriteString(fmt.Sprintf("Score:      %.2f\n", report.OverallScore))

	passed, failed, warned := tally(report.ValidationResults)
	sb.WriteString(fmt.Sprintf("Rules:      %d passed, %d failed, %d warnings\n", passed, failed, warned))

	if len(report.CriticalIssues) > 0 {
		sb.WriteString("\nCritical Issues:\n")
		writeList(&sb, report.CriticalIssues, "  ✗ ")
	}

	if len(report.PrioritizedImprovements) > 0 {
		sb.WriteString("\nNext Steps:\n")
		writeList(&sb, report.PrioritizedImprovements, "  • ")
	}

	p.printBox("SCORE REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationResults outputs the rules that did not pass.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintValidationResults(results []types.ValidationResult) {
	var problems []types.ValidationResult
	for _, r := range results {
		if r.Status != types.StatusPass {
			problems = append(problems, r)
		}
	}

	if len(problems) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("✅ ALL RULES PASSED"))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(problems)))

	for i, r := range problems {
		marker := "✗"
		if r.Status == types.StatusWarning {
			marker = "⚠"
		}
		sb.WriteString(fmt.Sprintf("%s %s (%s)\n", marker, r.FieldName, r.RuleKind))
		sb.WriteString(fmt.Sprintf("  %s\n", r.Message))
		if r.AutoFixAvailable {
			sb.WriteString("  auto-fix available\n")
		}
		if i < len(problems)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RULE VIOLATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintContentScore outputs readability and keyword coverage for a piece of text.
func (p *Printer) PrintContentScore(report *types.ContentScoreReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Estimated:   %.2f\n", report.EstimatedScore))
	sb.WriteString(fmt.Sprintf("Readability: %.1f (%s)\n", report.Readability.Score, report.Readability.GradeLevel))

	if len(report.Readability.Improvements) > 0 {
		sb.WriteString("\nReadability:\n")
		writeList(&sb, report.Readability.Improvements, "  • ")
	}

	if missing := report.KeywordOptimization.MissingKeywords; len(missing) > 0 {
		sb.WriteString("\nMissing Keywords:\n")
		count := min(len(missing), maxItemsToShow)
		sb.WriteString("  " + strings.Join(missing[:count], ", ") + "\n")
		if len(missing) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(missing)-maxItemsToShow))
		}
	}

	p.printBox("CONTENT SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, items []string, prefix string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(prefix + items[i] + "\n")
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

func tally(results []types.ValidationResult) (passed, failed, warned int) {
	for _, r := range results {
		switch r.Status {
		case types.StatusPass:
			passed++
		case types.StatusFail:
			failed++
		case types.StatusWarning:
			warned++
		}
	}
	return passed, failed, warned
}
