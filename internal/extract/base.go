package extract

import "strings"

const contextRadius = 30

// scanRules runs one compiled rule set over text and returns candidates.
// Values already seen within this scan are skipped, so a reference repeated
// across an email thread yields one candidate. A zero-length match advances
// the cursor manually so a degenerate pattern cannot loop forever.
func scanRules(text string, entityType EntityType, rules []compiledRule, method string, category SenderCategory) []Candidate {
	var out []Candidate
	seen := make(map[string]struct{})

	for _, cr := range rules {
		pos := 0
		for pos <= len(text) {
			loc := cr.re.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				break
			}

			start, end := pos+loc[0], pos+loc[1]
			value := captureValue(text, pos, loc, cr.rule.CaptureGroup)

			if end == start {
				pos = start + 1
				continue
			}
			pos = end

			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			key := strings.ToUpper(value)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			confidence := cr.rule.Confidence
			if cr.rule.CarrierTag != "" && cr.rule.CarrierTag == category {
				confidence += 5
				if confidence > 100 {
					confidence = 100
				}
			}

			out = append(out, Candidate{
				EntityType: entityType,
				RawValue:   value,
				Confidence: confidence,
				Method:     method,
				Position:   start,
				Context:    contextWindow(text, start, end),
			})
		}
	}

	return out
}

// captureValue picks the configured capture group out of a submatch index
// slice, falling back to group 1 and then the whole match.
func captureValue(text string, offset int, loc []int, group int) string {
	if group == 0 {
		group = 1
	}
	gi := 2 * group
	if gi+1 < len(loc) && loc[gi] >= 0 {
		return text[offset+loc[gi] : offset+loc[gi+1]]
	}
	return text[offset+loc[0] : offset+loc[1]]
}

func contextWindow(text string, start, end int) string {
	from := start - contextRadius
	if from < 0 {
		from = 0
	}
	to := end + contextRadius
	if to > len(text) {
		to = len(text)
	}
	return strings.TrimSpace(strings.ReplaceAll(text[from:to], "\n", " "))
}

// ExtractBase applies the full base catalogue to text. Candidates are
// unvalidated; validation happens at merge time with the full source text.
func (l *Library) ExtractBase(text string, category SenderCategory) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []Candidate
	for _, entityType := range orderedTypes(l.base) {
		out = append(out, scanRules(text, entityType, l.base[entityType], "base_pattern", category)...)
	}
	return out
}
