package docextract

import (
	"regexp"
	"strings"
)

var (
	partyEmailRe  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	partyPhoneRe  = regexp.MustCompile(`(?i)(?:tel|phone|mob(?:ile)?|fax)?[:\s]*(\+?\d[\d\s().-]{7,18}\d)`)
	partyTaxIDRe  = regexp.MustCompile(`(?i)\b(?:GSTIN|GST|IEC|TAX\s*ID|TIN|EIN|VAT)\s*(?:no|#)?[:.\s]*([A-Z0-9-]{6,20})`)
	cityStateRe   = regexp.MustCompile(`(?i)^[A-Za-z .]+[,-]\s*[A-Za-z .]+(?:[,-]\s*\d{4,8})?$`)
	trailingZipRe = regexp.MustCompile(`(\d{4,8})\s*$`)
	attnSuffixRe  = regexp.MustCompile(`(?i)\s*\b(?:ATTN|ATTENTION)\b.*$`)
)

// countryNames is the fixed list used to spot the country line of an address
// block. Ordered so longer names match before their substrings.
var countryNames = []string{
	"united states of america", "united states", "usa", "u.s.a",
	"united kingdom", "great britain", "uk",
	"united arab emirates", "uae",
	"india", "china", "singapore", "malaysia", "indonesia", "thailand",
	"vietnam", "bangladesh", "sri lanka", "pakistan", "japan", "south korea",
	"korea", "taiwan", "hong kong", "germany", "netherlands", "belgium",
	"france", "spain", "italy", "poland", "turkey", "egypt", "saudi arabia",
	"qatar", "oman", "kuwait", "bahrain", "australia", "new zealand",
	"canada", "mexico", "brazil", "argentina", "chile", "colombia", "peru",
	"south africa", "nigeria", "kenya", "morocco", "israel", "jordan",
}

// extractParty pulls one party block: the text between a start marker line
// and the next end marker line. The first non-empty line is the party name;
// the rest classify in order as email, phone, tax ID, country (with optional
// trailing postal code), city/state heading, or free address lines.
func extractParty(section SectionSpec, lines []string) (PartyInfo, bool) {
	start := -1
	for i, line := range lines {
		if matchesAnyMarker(line, section.StartMarkers) {
			start = i
			break
		}
	}
	if start < 0 {
		return PartyInfo{}, false
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if matchesAnyMarker(lines[i], section.EndMarkers) {
			end = i
			break
		}
	}

	body := lines[start+1 : end]
	if len(body) == 0 {
		return PartyInfo{}, false
	}

	var party PartyInfo
	party.Name = strings.TrimSpace(attnSuffixRe.ReplaceAllString(body[0], ""))
	if party.Name == "" {
		return PartyInfo{}, false
	}

	for _, line := range body[1:] {
		classifyPartyLine(&party, line)
	}
	return party, true
}

func matchesAnyMarker(line string, markers []string) bool {
	lower := strings.ToLower(line)
	for _, marker := range markers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

func classifyPartyLine(party *PartyInfo, line string) {
	if m := partyEmailRe.FindString(line); m != "" && party.Email == "" {
		party.Email = m
		return
	}
	if looksLikePhoneLine(line) && party.Phone == "" {
		if m := partyPhoneRe.FindStringSubmatch(line); m != nil {
			party.Phone = strings.TrimSpace(m[1])
			return
		}
	}
	if m := partyTaxIDRe.FindStringSubmatch(line); m != nil && party.TaxID == "" {
		party.TaxID = m[1]
		return
	}

	if country, postal := matchCountryLine(line); country != "" && party.Country == "" {
		party.Country = country
		if postal != "" && party.PostalCode == "" {
			party.PostalCode = postal
		}
		return
	}

	if cityStateRe.MatchString(line) && party.CityLine == "" {
		party.CityLine = line
		if m := trailingZipRe.FindStringSubmatch(line); m != nil && party.PostalCode == "" {
			party.PostalCode = m[1]
		}
		return
	}

	if party.AddressLine1 == "" {
		party.AddressLine1 = line
	} else if party.AddressLine2 == "" {
		party.AddressLine2 = line
	} else {
		party.AddressLine2 += ", " + line
	}
}

// looksLikePhoneLine gates the permissive phone regex behind an explicit
// hint or a digit-heavy line, so street numbers don't classify as phones.
func looksLikePhoneLine(line string) bool {
	lower := strings.ToLower(line)
	for _, hint := range []string{"tel", "phone", "mob", "fax", "call"} {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	digits := 0
	for _, r := range line {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return strings.HasPrefix(strings.TrimSpace(line), "+") && digits >= 8
}

// matchCountryLine reports the canonical country match and any trailing
// postal code on the same line.
func matchCountryLine(line string) (string, string) {
	lower := strings.ToLower(line)
	for _, country := range countryNames {
		idx := strings.Index(lower, country)
		if idx < 0 {
			continue
		}
		// word boundary check: "oman" must not match inside "romania"
		if idx > 0 && isWordChar(lower[idx-1]) {
			continue
		}
		after := idx + len(country)
		if after < len(lower) && isWordChar(lower[after]) {
			continue
		}

		postal := ""
		if m := trailingZipRe.FindStringSubmatch(line); m != nil {
			postal = m[1]
		}
		return strings.ToUpper(country), postal
	}
	return "", ""
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
