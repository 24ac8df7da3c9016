package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector matches page chrome that never belongs to a grant description.
const noiseSelector = "nav, footer, header, script, style, noscript, form, iframe, .sidebar, .breadcrumb, .cookie-banner, .popup, .share, .related"

// ExtractText parses HTML and returns the text of the first element matching
// one of contentSelectors, falling back to the body. Block elements become
// line breaks so paragraphs survive.
func ExtractText(html string, contentSelectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	main.Find("li").Each(func(_ int, li *goquery.Selection) {
		li.PrependHtml("- ")
	})
	main.Find("p, div, section, li, h1, h2, h3, h4, h5, h6, br, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return collapseLines(main.Text()), nil
}

// GrantPageSelectors returns selectors for funder and grant portal pages.
func GrantPageSelectors() []string {
	return []string{
		".grant-description",
		".funding-opportunity",
		"#synopsis",
		".synopsis",
		"[data-testid='opportunity-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// collapseLines trims every line, drops empty ones and normalizes inner spacing.
func collapseLines(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = spaceRun.ReplaceAllString(strings.TrimSpace(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
