package extract

import "strings"

// SenderCategory is a coarse classification of a correspondence originator,
// used to select which entity types are worth extracting.
type SenderCategory string

const (
	CategoryMaersk           SenderCategory = "maersk"
	CategoryMSC              SenderCategory = "msc"
	CategoryCMACGM           SenderCategory = "cma_cgm"
	CategoryHapag            SenderCategory = "hapag"
	CategoryONE              SenderCategory = "one"
	CategoryEvergreen        SenderCategory = "evergreen"
	CategoryCOSCO            SenderCategory = "cosco"
	CategoryYangMing         SenderCategory = "yang_ming"
	CategoryZIM              SenderCategory = "zim"
	CategoryHMM              SenderCategory = "hmm"
	CategoryCustomsBroker    SenderCategory = "customs_broker"
	CategoryFreightForwarder SenderCategory = "freight_forwarder"
	CategoryTerminal         SenderCategory = "terminal"
	CategoryTrucking         SenderCategory = "trucking"
	CategoryRail             SenderCategory = "rail"
	CategoryOtherCarrier     SenderCategory = "other_carrier"
	CategoryOther            SenderCategory = "other"
)

// AllCategories lists every category in detection order. Carrier-specific
// entries come first so that e.g. a forwarder relaying a Maersk notice from a
// maersk.com address still classifies as the carrier.
var AllCategories = []SenderCategory{
	CategoryMaersk, CategoryMSC, CategoryCMACGM, CategoryHapag, CategoryONE,
	CategoryEvergreen, CategoryCOSCO, CategoryYangMing, CategoryZIM, CategoryHMM,
	CategoryCustomsBroker, CategoryFreightForwarder, CategoryTerminal,
	CategoryTrucking, CategoryRail,
}

// senderHints maps each category to the substrings that identify it. A hint
// matches against the full lowercased address and against the bare domain.
var senderHints = map[SenderCategory][]string{
	CategoryMaersk:           {"maersk", "sealand", "safmarine"},
	CategoryMSC:              {"msc.com", "@msc", "mscgva", "medlog"},
	CategoryCMACGM:           {"cma-cgm", "cmacgm", "anl.com.au", "apl.com"},
	CategoryHapag:            {"hapag", "hlag", "hapag-lloyd"},
	CategoryONE:              {"one-line", "oneline", "ocean-network"},
	CategoryEvergreen:        {"evergreen-line", "evergreen-marine", "evergreen-shipping"},
	CategoryCOSCO:            {"cosco", "coscoshipping", "oocl"},
	CategoryYangMing:         {"yangming", "yml.com"},
	CategoryZIM:              {"zim.com", "@zim", "zimline"},
	CategoryHMM:              {"hmm21", "hyundai-mm", "hmm.co.kr"},
	CategoryCustomsBroker:    {"customs", "broker", "chb", "clearance"},
	CategoryFreightForwarder: {"forward", "logistics", "freight", "expeditors", "flexport", "kuehne", "dbschenker", "dsv.com", "agility"},
	CategoryTerminal:         {"terminal", "apmterminals", "dpworld", "psa", "wharf"},
	CategoryTrucking:         {"truck", "drayage", "haulage", "cartage", "transport"},
	CategoryRail:             {"rail", "bnsf", "unionpacific", "csx.com", "norfolksouthern"},
}

// senderTokenHints hold hints too short to match as raw substrings; each
// must equal a whole token of the address (split on non-alphanumeric runs),
// so "port" matches ops@port-newark.com but not export@ or support@
// addresses, nor domains containing "transport".
var senderTokenHints = map[SenderCategory][]string{
	CategoryTerminal: {"port"},
}

// genericCarrierHints mark a domain as some unrecognized ocean carrier.
var genericCarrierHints = []string{"line", "shipping"}

// DetectSenderCategory classifies a sender address into a category. It tests
// the category tables in fixed order and returns the first whose any hint
// matches the full address or the bare domain. Pure function of its input.
func DetectSenderCategory(address string) SenderCategory {
	addr := strings.ToLower(strings.TrimSpace(address))
	if addr == "" {
		return CategoryOther
	}

	domain := addr
	if at := strings.LastIndex(addr, "@"); at >= 0 && at < len(addr)-1 {
		domain = addr[at+1:]
	}

	for _, category := range AllCategories {
		for _, hint := range senderHints[category] {
			if strings.Contains(addr, hint) || strings.Contains(domain, hint) {
				return category
			}
		}
		for _, hint := range senderTokenHints[category] {
			if containsToken(addr, hint) {
				return category
			}
		}
	}

	for _, hint := range genericCarrierHints {
		if strings.Contains(domain, hint) {
			return CategoryOtherCarrier
		}
	}

	return CategoryOther
}

func containsToken(s, token string) bool {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, part := range parts {
		if part == token {
			return true
		}
	}
	return false
}

// DetectSenderCategoryWithFallback prefers the category of the true sender
// (resolved from forwarding headers) when it is meaningful, falling back to
// the envelope sender otherwise.
func DetectSenderCategoryWithFallback(primary, trueSender string) SenderCategory {
	if trueSender != "" {
		if cat := DetectSenderCategory(trueSender); cat != CategoryOther {
			return cat
		}
	}
	return DetectSenderCategory(primary)
}
