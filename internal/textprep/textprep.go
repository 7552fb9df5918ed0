package textprep

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.UGCPolicy()

// NormalizeSpace collapses runs of whitespace into single spaces and trims.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts a string to max length, appending ellipsis if truncated.
func Truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return text[:maxLen-3] + "..."
	}
	return text[:maxLen]
}

// HTMLToText converts an HTML email body to plain text. The markup is
// sanitized first so script/style payloads never leak into extraction input.
// Block-level boundaries become newlines so that line-oriented consumers
// (field and table extraction) still see document structure.
func HTMLToText(html string) string {
	sanitized := htmlPolicy.Sanitize(html)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sanitized))
	if err != nil {
		return NormalizeSpace(sanitized) // Fallback to sanitized input if parsing fails
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, tr, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	var lines []string
	for _, raw := range strings.Split(doc.Text(), "\n") {
		line := NormalizeSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// LooksLikeHTML reports whether a body is likely HTML rather than plain text.
func LooksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<body") ||
		strings.Contains(lower, "<div") || strings.Contains(lower, "<table") ||
		strings.Contains(lower, "<p>") || strings.Contains(lower, "<br")
}
