package docextract

import (
	"regexp"
	"sort"
	"strings"
)

var (
	totalsLineRe  = regexp.MustCompile(`(?i)^\s*(?:grand\s+)?(?:total|sub\s*-?total|totals)\b`)
	multiSpaceRe  = regexp.MustCompile(`\s{2,}`)
	numericRunRe  = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)
	nonAmountRe   = regexp.MustCompile(`[^\d.\-]`)
	thousandSepRe = regexp.MustCompile(`,`)
)

const minTableRowLen = 10

// columnSpan is one detected column: the character range it occupies in the
// header line.
type columnSpan struct {
	name     string
	colType  string
	start    int
	end      int // exclusive; -1 means to end of line
}

// extractTable is a two-pass state machine over raw (untrimmed) lines:
// first locate the header line and fix each column's character span, then
// stream data rows until a totals line. Raw lines keep the header offsets
// aligned with the rows below them.
func extractTable(table compiledTable, rawLines []string) []map[string]string {
	headerIdx, spans := findTableHeader(table, rawLines)
	if headerIdx < 0 || len(spans) == 0 {
		return nil
	}

	var rows []map[string]string
	for _, line := range rawLines[headerIdx+1:] {
		if totalsLineRe.MatchString(line) {
			break
		}
		if len(strings.TrimSpace(line)) < minTableRowLen {
			continue
		}

		row := sliceRow(line, spans)
		if rowEmpty(row) {
			row = splitRowFallback(line, spans)
		}
		if rowEmpty(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// findTableHeader returns the first line matching any header pattern and
// the column spans detected in it. A column whose header pattern does not
// appear in the line is dropped; the remaining spans are ordered by start
// offset, each ending where the next begins.
func findTableHeader(table compiledTable, rawLines []string) (int, []columnSpan) {
	headerIdx := -1
	for i, line := range rawLines {
		for _, header := range table.headers {
			if header.MatchString(line) {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return -1, nil
	}

	headerLine := rawLines[headerIdx]
	var spans []columnSpan
	for _, column := range table.columns {
		for _, header := range column.headers {
			if loc := header.FindStringIndex(headerLine); loc != nil {
				spans = append(spans, columnSpan{
					name:    column.spec.Name,
					colType: column.spec.Type,
					start:   loc[0],
					end:     -1,
				})
				break
			}
		}
	}
	if len(spans) == 0 {
		return headerIdx, nil
	}

	// spans arrive in declared order, but the document's header may lay the
	// columns out differently; sort by detected offset before fixing ends
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 0; i < len(spans)-1; i++ {
		spans[i].end = spans[i+1].start
	}
	return headerIdx, spans
}

// sliceRow cuts a data line by the header's column offsets and coerces each
// cell by its declared type.
func sliceRow(line string, spans []columnSpan) map[string]string {
	row := make(map[string]string, len(spans))
	for _, span := range spans {
		start := span.start
		if start > len(line) {
			row[span.name] = ""
			continue
		}
		end := span.end
		if end < 0 || end > len(line) {
			end = len(line)
		}
		row[span.name] = coerceCell(strings.TrimSpace(line[start:end]), span.colType)
	}
	return row
}

// splitRowFallback handles rows whose spacing drifted off the header grid:
// split on runs of 2+ spaces and assign parts to columns in declared order.
func splitRowFallback(line string, spans []columnSpan) map[string]string {
	parts := multiSpaceRe.Split(strings.TrimSpace(line), -1)
	row := make(map[string]string, len(spans))
	for i, span := range spans {
		if i < len(parts) {
			row[span.name] = coerceCell(strings.TrimSpace(parts[i]), span.colType)
		} else {
			row[span.name] = ""
		}
	}
	return row
}

func rowEmpty(row map[string]string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// coerceCell normalizes a cell by column type: numbers lose thousands
// separators, amounts keep only digits/dot/minus, weights reduce to the
// first numeric run. Unknown types pass through.
func coerceCell(value, colType string) string {
	if value == "" {
		return ""
	}
	switch colType {
	case "number":
		return thousandSepRe.ReplaceAllString(value, "")
	case "amount":
		return nonAmountRe.ReplaceAllString(value, "")
	case "weight":
		return numericRunRe.FindString(strings.ReplaceAll(value, ",", ""))
	default:
		return value
	}
}
