package extract

import (
	"sort"
	"strings"
)

// orderedTypes returns map keys sorted so scans and merges iterate in a
// stable order. Output determinism depends on this.
func orderedTypes(m map[EntityType][]compiledRule) []EntityType {
	types := make([]EntityType, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// normalizeForGrounding reduces a value to the form used for the
// source-grounding substring check and for dedup keys: lowercase, no
// whitespace, no hyphens. "HL-123 456" and "hl123456" compare equal.
func normalizeForGrounding(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
