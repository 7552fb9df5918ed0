package extract

import (
	"regexp"
	"strings"
)

// valueDenylist holds conversational and boilerplate tokens that pattern
// scans occasionally pick up out of greeting lines, signatures and URLs.
// Matched case-insensitively against the whole value.
var valueDenylist = map[string]struct{}{
	"dear":       {},
	"hello":      {},
	"hi":         {},
	"regards":    {},
	"thanks":     {},
	"thank":      {},
	"please":     {},
	"kindly":     {},
	"from":       {},
	"to":         {},
	"for":        {},
	"with":       {},
	"the":        {},
	"and":        {},
	"this":       {},
	"that":       {},
	"team":       {},
	"department": {},
	"support":    {},
	"service":    {},
	"customer":   {},
	"attached":   {},
	"email":      {},
	"mailto":     {},
	"http":       {},
	"https":      {},
	"www":        {},
	"com":        {},
	"subject":    {},
	"confirmed":  {},
	"urgent":     {},
	"attention":  {},
}

var (
	// Indian mobile shape: 10 digits starting 7/8/9, optionally prefixed
	// with +91 or another 1–3 digit country code.
	indianMobileRe = regexp.MustCompile(`^(?:\+?\d{1,3}[\s-]?)?[789]\d{9}$`)

	// HS code chapter prefixes that regularly collide with numeric booking
	// shapes in customs correspondence.
	hsChapterPrefixRe = regexp.MustCompile(`^(?:0[1-9]|[1-9]\d)\d{2}\.?\d{2}`)

	phoneContextHints = []string{"phone", "mobile", "mob:", "tel", "cell", "contact", "call", "whatsapp", "fax"}

	containerShapeRe = regexp.MustCompile(`^[A-Z]{4}\d{7}$`)
	entryNumberRe    = regexp.MustCompile(`^[A-Z0-9]{3}-?\d{7}-?\d$`)
	appointmentRe    = regexp.MustCompile(`^[A-Z0-9-]{5,15}$`)

	vesselFragments = []string{"for the", "eta is", "etd is", "will be", "has been", "to the", "of the"}
	voyageSlogans   = map[string]struct{}{"together": {}, "forward": {}, "beyond": {}, "reliably": {}}
)

// Validate applies the universal gates and then the entity-specific rule for
// entityType. context is the candidate's surrounding snippet; sourceText,
// when non-empty, enables the source-grounding gate. A false return is a
// silent drop, never an error.
func Validate(entityType EntityType, value, context, sourceText string) bool {
	value = strings.TrimSpace(value)
	if len(value) < 2 {
		return false
	}

	if _, denied := valueDenylist[strings.ToLower(value)]; denied {
		return false
	}

	// Anti-hallucination gate: the value must actually appear in the source,
	// allowing whitespace/hyphen/case drift. Never skipped when source text
	// is available.
	if sourceText != "" {
		if !strings.Contains(normalizeForGrounding(sourceText), normalizeForGrounding(value)) {
			return false
		}
	}

	if rule, ok := typeValidators[entityType]; ok {
		return rule(value, context)
	}
	return true
}

// typeValidators maps each entity type with structural rules to its
// predicate. Types absent here pass on the universal gates alone. Adding a
// type means adding a row, not modifying Validate.
var typeValidators = map[EntityType]func(value, context string) bool{
	EntityBookingNumber:     validateBookingNumber,
	EntityContainerNumber:   func(v, _ string) bool { return IsValidContainerNumber(strings.ReplaceAll(v, " ", "")) },
	EntitySealNumber:        validateSealNumber,
	EntityVoyageNumber:      validateVoyageNumber,
	EntityVesselName:        validateVesselName,
	EntityEntryNumber:       func(v, _ string) bool { return entryNumberRe.MatchString(strings.ToUpper(v)) },
	EntityAppointmentNumber: validateAppointmentNumber,
	EntityPortOfLoading:     validatePortName,
	EntityPortOfDischarge:   validatePortName,
	EntityInlandLocation:    validatePortName,
}

func validateBookingNumber(value, context string) bool {
	compact := strings.ReplaceAll(strings.ReplaceAll(value, " ", ""), "-", "")

	if indianMobileRe.MatchString(compact) {
		return false
	}
	// HS codes are 6, 8 or 10 digits; 9-digit numerics are left alone so
	// carrier bookings of that length survive.
	if isAllDigits(compact) && (len(compact) == 6 || len(compact) == 8 || len(compact) == 10) && hsChapterPrefixRe.MatchString(compact) {
		return false
	}

	// A booking shape sitting right after contact-detail wording is a phone
	// number the patterns misread.
	lower := strings.ToLower(context)
	if idx := strings.Index(lower, strings.ToLower(value)); idx > 0 {
		preceding := lower[:idx]
		for _, hint := range phoneContextHints {
			if strings.Contains(preceding, hint) {
				return false
			}
		}
	}

	return true
}

func validateSealNumber(value, _ string) bool {
	// Container numbers misclassified as seals: exact ISO shape, or a known
	// owner-code prefix (three letters + U equipment category).
	upper := strings.ToUpper(strings.ReplaceAll(value, " ", ""))
	if containerShapeRe.MatchString(upper) {
		return false
	}
	if len(upper) >= 4 && upper[3] == 'U' && isAllLetters(upper[:4]) && len(upper) > 8 {
		return false
	}
	return true
}

func validateVoyageNumber(value, _ string) bool {
	if !strings.ContainsAny(value, "0123456789") {
		return false
	}
	if _, slogan := voyageSlogans[strings.ToLower(value)]; slogan {
		return false
	}
	return true
}

func validateVesselName(value, _ string) bool {
	if len(value) < 3 {
		return false
	}
	if value == strings.ToLower(value) {
		return false
	}
	lower := strings.ToLower(value)
	for _, fragment := range vesselFragments {
		if strings.Contains(lower, fragment) {
			return false
		}
	}
	return true
}

func validateAppointmentNumber(value, _ string) bool {
	return appointmentRe.MatchString(strings.ToUpper(strings.ReplaceAll(value, " ", "")))
}

// validatePortName gates location-ish fields: no multi-word sentence
// fragments, no special characters beyond basic punctuation.
func validatePortName(value, _ string) bool {
	if len(strings.Fields(value)) > 4 {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ', r == '.', r == ',', r == '-', r == '\'':
		default:
			return false
		}
	}
	return true
}

// containerLetterValues is the ISO 6346 letter table: A=10 through Z=38,
// skipping multiples of 11 (11, 22, 33).
var containerLetterValues = buildContainerLetterValues()

func buildContainerLetterValues() [26]int {
	var values [26]int
	v := 10
	for i := 0; i < 26; i++ {
		for v%11 == 0 {
			v++
		}
		values[i] = v
		v++
	}
	return values
}

// IsValidContainerNumber reports whether s is a well-formed ISO 6346
// container number: exactly 4 uppercase letters + 7 digits, with the 11th
// character equal to the check digit computed over the first 10. Each of the
// first 10 characters is weighted by 2^position; the check digit is
// (sum mod 11) mod 10.
func IsValidContainerNumber(s string) bool {
	if len(s) != 11 {
		return false
	}

	sum := 0
	weight := 1
	for i := 0; i < 10; i++ {
		c := s[i]
		var v int
		switch {
		case i < 4 && c >= 'A' && c <= 'Z':
			v = containerLetterValues[c-'A']
		case i >= 4 && c >= '0' && c <= '9':
			v = int(c - '0')
		default:
			return false
		}
		sum += v * weight
		weight *= 2
	}

	check := s[10]
	if check < '0' || check > '9' {
		return false
	}
	return (sum%11)%10 == int(check-'0')
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isAllLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return len(s) > 0
}
