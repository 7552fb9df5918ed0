package extract

import (
	"regexp"
	"strings"
)

// deepPatternSets is the higher-precision catalogue. These only run for
// entity types the extraction configuration marks as relevant for the
// detected sender category, so a trucking email is never scanned for ISF
// numbers. A new entity type is added by registering a group here plus its
// relevance rows in the configuration store; the extractor code is untouched.
var deepPatternSets = map[EntityType][]PatternRule{
	EntityITNumber: {
		{Pattern: `(?i:\bI\.?T\.?\s*(?:no|number|#)?\s*[:.#-]?\s*)(V?\d{9,12})`, Confidence: 90, Description: "in-bond IT number"},
	},
	EntityISFNumber: {
		{Pattern: `(?i:\bISF\s*(?:no|number|#|transaction)?\s*[:.#-]?\s*)([A-Z0-9]{6,15})`, Confidence: 90, Description: "ISF transaction number"},
	},
	EntityAMSNumber: {
		{Pattern: `(?i:\bAMS\s*(?:no|number|#|bl)?\s*[:.#-]?\s*)([A-Z0-9]{6,15})`, Confidence: 88, Description: "AMS filing number"},
	},
	EntityEntryNumber: {
		{Pattern: `(?i:\bentry\s*(?:no|number|#)?\s*[:.#-]?\s*)([A-Z0-9]{3}-?\d{7}-?\d)`, Confidence: 92, Description: "customs entry number"},
	},
	EntityGrossWeight: {
		{Pattern: `(?i:\bgross\s*(?:weight|wt)\s*[:.#-]?\s*)([\d,]+(?:\.\d+)?)\s*(?i:kgs?|lbs?|mt|tons?)`, Confidence: 90, Description: "gross weight with unit"},
		{Pattern: `(?i:\bg\.?w\.?\s*[:.#-]?\s*)([\d,]+(?:\.\d+)?)\s*(?i:kgs?|lbs?|mt)`, Confidence: 85, Description: "G.W. shorthand"},
	},
	EntityNetWeight: {
		{Pattern: `(?i:\bnet\s*(?:weight|wt)\s*[:.#-]?\s*)([\d,]+(?:\.\d+)?)\s*(?i:kgs?|lbs?|mt|tons?)`, Confidence: 90, Description: "net weight with unit"},
	},
	EntityTareWeight: {
		{Pattern: `(?i:\btare\s*(?:weight|wt)?\s*[:.#-]?\s*)([\d,]+(?:\.\d+)?)\s*(?i:kgs?|lbs?|mt)`, Confidence: 88, Description: "tare weight"},
	},
	EntityVGMWeight: {
		{Pattern: `(?i:\bvgm\s*(?:weight)?\s*[:.#-]?\s*)([\d,]+(?:\.\d+)?)\s*(?i:kgs?|lbs?|mt)`, Confidence: 90, Description: "verified gross mass"},
	},
	EntityVolume: {
		{Pattern: `(?i:\b(?:volume|vol|measurement)\s*[:.#-]?\s*)([\d,]+(?:\.\d+)?)\s*(?i:cbm|m3|cu\.?\s?m)`, Confidence: 88, Description: "volume in CBM"},
		{Pattern: `([\d,]+(?:\.\d+)?)\s*(?i:cbm)\b`, Confidence: 80, Description: "bare CBM figure"},
	},
	EntityPackageCount: {
		{Pattern: `(?i)\b(\d{1,5})\s*(?:pkgs?|packages|cartons|ctns?|pallets|plts|pieces|pcs|bags|drums)\b`, Confidence: 85, Description: "package count with unit"},
	},
	EntityContainerType: {
		{Pattern: `\b(\d{2}\s?(?:GP|HC|HQ|RF|RH|OT|FR|TK|DV))\b`, Confidence: 85, Description: "ISO container size/type"},
		{Pattern: `(?i)\b(\d{2}\s?(?:ft|')\s?(?:standard|high\s?cube|reefer|open\s?top|flat\s?rack))\b`, Confidence: 80, Description: "spelled-out container type"},
	},
	EntityAppointmentNumber: {
		{Pattern: `(?i:\bapp(?:ointmen)?t\.?\s*(?:no|number|#|conf)?\s*[:.#-]?\s*)([A-Z0-9]{5,15})`, Confidence: 88, Description: "terminal appointment"},
	},
	EntityInlandLocation: {
		{Pattern: `(?i:\b(?:rail\s*ramp|ramp|inland\s*point|door\s*delivery|final\s*destination|place\s*of\s*delivery)\s*[:#-]?\s+)([A-Z][A-Za-z .,]{2,40}?)(?:[\r\n;]|$)`, Confidence: 85, Description: "labeled inland location"},
	},
	EntityTemperature: {
		{Pattern: `(?i:\b(?:temp(?:erature)?|set\s*point)\s*[:.#-]?\s*)(-?\d{1,2}(?:\.\d)?)\s*(?:°\s*)?(?i:c|f)\b`, Confidence: 88, Description: "reefer set point"},
	},
	EntityIncoterms: {
		{Pattern: `\b(EXW|FCA|FAS|FOB|CFR|CIF|CPT|CIP|DAP|DPU|DDP)\b`, Confidence: 85, Description: "Incoterms 2020 code"},
	},
	EntityAmount: {
		{Pattern: `(?:USD|EUR|GBP|INR|CNY|JPY)\s*([\d,]+(?:\.\d{1,2})?)`, Confidence: 88, Description: "ISO currency prefixed amount"},
		{Pattern: `[$€£₹]\s*([\d,]+(?:\.\d{1,2})?)`, Confidence: 85, Description: "symbol prefixed amount"},
	},
	EntityPONumber: {
		{Pattern: `(?i:\bP\.?O\.?\s*(?:no|number|#)?\s*[:.#-]?\s*)([A-Z0-9][A-Z0-9-]{3,14})`, Confidence: 88, Description: "purchase order"},
	},
	EntityJobNumber: {
		{Pattern: `(?i:\bjob\s*(?:no|number|#)?\s*[:.#-]?\s*)([A-Z0-9][A-Z0-9-]{3,14})`, Confidence: 88, Description: "forwarder job number"},
	},
	EntityInvoiceNumber: {
		{Pattern: `(?i:\binv(?:oice)?\.?\s*(?:no|number|#)?\s*[:.#-]?\s*)([A-Z0-9][A-Z0-9-]{3,14})`, Confidence: 88, Description: "invoice number"},
	},
}

// freeTimeKeywords trigger the two-stage scan for last-free-day and
// demurrage dates: find a keyword, then take the first date shape within the
// following window.
var freeTimeKeywords = map[EntityType][]string{
	EntityLastFreeDay:    {"last free day", "last free date", "lfd", "free time expires", "free time until"},
	EntityDemurrageStart: {"demurrage starts", "demurrage begins", "demurrage from", "detention starts"},
}

const freeTimeWindow = 100

var freeTimeDateRe = regexp.MustCompile(dateToken)

// ExtractDeep runs the deep catalogue for exactly the entity types in
// relevant. Candidates are unvalidated, same contract as ExtractBase.
func (l *Library) ExtractDeep(text string, relevant map[EntityType]bool, category SenderCategory) []Candidate {
	if strings.TrimSpace(text) == "" || len(relevant) == 0 {
		return nil
	}

	var out []Candidate
	for _, entityType := range orderedTypes(l.deep) {
		if !relevant[entityType] {
			continue
		}
		out = append(out, scanRules(text, entityType, l.deep[entityType], "deep_pattern", category)...)
	}

	for _, entityType := range []EntityType{EntityLastFreeDay, EntityDemurrageStart} {
		if !relevant[entityType] {
			continue
		}
		out = append(out, extractFreeTimeDates(text, entityType)...)
	}

	return out
}

// extractFreeTimeDates implements the keyword-then-date two-stage scan. A
// keyword with no date in its window produces nothing; the keyword alone is
// not evidence.
func extractFreeTimeDates(text string, entityType EntityType) []Candidate {
	lower := strings.ToLower(text)
	var out []Candidate
	seen := make(map[string]struct{})

	for _, keyword := range freeTimeKeywords[entityType] {
		from := 0
		for {
			idx := strings.Index(lower[from:], keyword)
			if idx < 0 {
				break
			}
			start := from + idx + len(keyword)
			end := start + freeTimeWindow
			if end > len(text) {
				end = len(text)
			}

			if loc := freeTimeDateRe.FindStringIndex(text[start:end]); loc != nil {
				value := strings.TrimSpace(text[start+loc[0] : start+loc[1]])
				key := strings.ToUpper(value)
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					out = append(out, Candidate{
						EntityType: entityType,
						RawValue:   value,
						Confidence: 85,
						Method:     "deep_pattern",
						Position:   start + loc[0],
						Context:    contextWindow(text, start+loc[0], start+loc[1]),
					})
				}
			}
			from = start
		}
	}

	return out
}
