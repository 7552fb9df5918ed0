package docextract

import (
	"regexp"
	"strings"
)

const (
	confSameLineValue = 0.9
	confRemainder     = 0.7
	confNextLine      = 0.6
	confGlobal        = 0.5
)

var (
	numberedLineRe = regexp.MustCompile(`^\d{1,2}[.)]\s`)

	sectionKeywords = []string{
		"shipper", "consignee", "notify", "exporter", "importer",
		"description", "marks", "particulars", "declaration", "container",
		"vessel", "voyage", "invoice", "terms", "remarks",
	}
)

// extractField applies the tiered fallback for a single field spec: value
// pattern on the label line, remainder of the label line, the following line,
// then a global value-pattern search. Each weaker tier reports a lower
// confidence.
func extractField(field compiledField, lines []string, fullText string) (FieldValue, bool) {
	for _, label := range field.labels {
		lineIdx, labelEnd := findLabelLine(label, lines)
		if lineIdx < 0 {
			continue
		}
		line := lines[lineIdx]
		remainder := strings.TrimSpace(strings.TrimLeft(line[labelEnd:], " \t:.-#"))

		// (a) explicit value pattern against the remainder, then the line
		if len(field.values) > 0 {
			for _, value := range field.values {
				if m := firstMatch(value, remainder); m != "" {
					return FieldValue{Value: m, Confidence: confSameLineValue, Source: "same_line"}, true
				}
				if m := firstMatch(value, line); m != "" {
					return FieldValue{Value: m, Confidence: confSameLineValue, Source: "same_line"}, true
				}
			}
		}

		// (b) remainder of the label line
		if remainder != "" {
			return FieldValue{Value: remainder, Confidence: confRemainder, Source: "same_line"}, true
		}

		// (c) the next line, unless it reads like another label
		if lineIdx+1 < len(lines) {
			next := lines[lineIdx+1]
			if !looksLikeLabel(next) {
				return FieldValue{Value: next, Confidence: confNextLine, Source: "next_line"}, true
			}
		}
	}

	// (d) last resort: any value pattern anywhere in the document
	for _, value := range field.values {
		if m := firstMatch(value, fullText); m != "" {
			return FieldValue{Value: m, Confidence: confGlobal, Source: "global"}, true
		}
	}

	return FieldValue{}, false
}

// findLabelLine returns the index of the first line matching the label and
// the end offset of the label match within that line.
func findLabelLine(label *regexp.Regexp, lines []string) (int, int) {
	for i, line := range lines {
		if loc := label.FindStringIndex(line); loc != nil {
			return i, loc[1]
		}
	}
	return -1, 0
}

// firstMatch returns the first capture group of the first match, or the
// whole match when the expression has no groups.
func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	if len(m) > 1 && m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(m[0])
}

// looksLikeLabel is the heuristic that stops the next-line fallback from
// swallowing an adjacent field's label: a short all-caps line, a
// numbered-list line, or a known section keyword. Known to misfire on
// templates that print values in caps.
func looksLikeLabel(line string) bool {
	if numberedLineRe.MatchString(line) {
		return true
	}

	lower := strings.ToLower(line)
	for _, keyword := range sectionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	if len(line) <= 30 && strings.HasSuffix(strings.TrimSpace(line), ":") {
		return true
	}
	if len(line) <= 25 && line == strings.ToUpper(line) && strings.ContainsAny(line, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") && !strings.ContainsAny(line, "0123456789") {
		return true
	}

	return false
}
