package extract

import (
	"fmt"
	"regexp"
	"sync"
)

// PatternRule is one authored pattern: plain data, immutable, grouped into
// named sets per entity type. CaptureGroup 0 means "use group 1 when the
// expression has one, else the whole match".
type PatternRule struct {
	Pattern      string
	Confidence   int // 0–100
	CaptureGroup int
	CarrierTag   SenderCategory // optional; boosts confidence when the sender matches
	Description  string
}

type compiledRule struct {
	re   *regexp.Regexp
	rule PatternRule
}

// dateToken recognizes the date shapes that show up in carrier emails:
// 15/03/2026, 2026-03-15, Mar 15 2026, 15 Mar 2026, March 15, 2026.
const dateToken = `(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{4}-\d{2}-\d{2}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{2,4}|\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?,?\s+\d{2,4})`

// basePatternSets is the base catalogue applied to every input regardless of
// sender category. Order within a set matters: higher-specificity rules come
// first so their candidates win the first-occurrence dedup.
var basePatternSets = map[EntityType][]PatternRule{
	EntityBookingNumber: {
		{Pattern: `(?i:booking\s*(?:confirmation|no|number|ref(?:erence)?|#)?\s*[:.#-]?\s+)([A-Z0-9][A-Z0-9-]{5,17})`, Confidence: 92, Description: "labeled booking reference"},
		{Pattern: `(?i:\bbkg\s*(?:no|#)?\s*[:.#-]?\s*)([A-Z0-9][A-Z0-9-]{5,17})`, Confidence: 90, Description: "bkg shorthand label"},
		{Pattern: `\bHL-\d{8}\b`, Confidence: 92, CarrierTag: CategoryHapag, Description: "Hapag-Lloyd booking"},
		{Pattern: `\bEBKG\d{8}\b`, Confidence: 92, CarrierTag: CategoryMSC, Description: "MSC e-booking"},
		{Pattern: `\b2\d{8}\b`, Confidence: 72, CarrierTag: CategoryMaersk, Description: "Maersk 9-digit booking"},
		{Pattern: `\b[A-Z]{3}\d{7}\b`, Confidence: 70, CarrierTag: CategoryCMACGM, Description: "CMA CGM booking shape"},
	},
	EntityContainerNumber: {
		{Pattern: `(?i:container\s*(?:no|number|#)?\s*[:.#-]?\s*)([A-Z]{4}\s?\d{7})`, Confidence: 95, Description: "labeled container number"},
		{Pattern: `(?i:\b(?:cntr|ctnr|unit)\s*(?:no|#)?\s*[:.#-]?\s*)([A-Z]{4}\s?\d{7})`, Confidence: 93, Description: "cntr shorthand label"},
		{Pattern: `\b[A-Z]{3}U\s?\d{7}\b`, Confidence: 85, Description: "bare ISO owner code ending U"},
		{Pattern: `\b[A-Z]{4}\d{7}\b`, Confidence: 75, Description: "bare 4-letter 7-digit shape"},
	},
	EntityBLNumber: {
		{Pattern: `(?i:\b(?:b\/l|bl|bill of lading|bol|mbl|hbl)\s*(?:no|number|#)?\s*[:.#-]?\s*)([A-Z0-9]{8,17})`, Confidence: 93, Description: "labeled bill of lading"},
		{Pattern: `\bMAEU\d{9}\b`, Confidence: 90, CarrierTag: CategoryMaersk, Description: "Maersk BL"},
		{Pattern: `\bMEDU[A-Z0-9]{7,9}\b`, Confidence: 90, CarrierTag: CategoryMSC, Description: "MSC BL"},
		{Pattern: `\bCOSU\d{10}\b`, Confidence: 90, CarrierTag: CategoryCOSCO, Description: "COSCO BL"},
		{Pattern: `\bONEY[A-Z0-9]{8,12}\b`, Confidence: 90, CarrierTag: CategoryONE, Description: "ONE BL"},
		{Pattern: `\bHLCU[A-Z0-9]{8,12}\b`, Confidence: 90, CarrierTag: CategoryHapag, Description: "Hapag BL"},
	},
	EntitySealNumber: {
		{Pattern: `(?i:\bseal\s*(?:no|number|#)?\s*[:.#-]?\s*)([A-Z0-9]{4,15})`, Confidence: 88, Description: "labeled seal number"},
	},
	EntityVesselName: {
		{Pattern: `(?i:\b(?:vessel|vsl)\s*(?:name)?\s*[:#-]?\s+)([A-Z][A-Z0-9]+(?:\s+[A-Z][A-Z0-9]+){0,3})`, Confidence: 90, Description: "labeled vessel name"},
		{Pattern: `(?i:\bm\/?v\.?\s+)([A-Z][A-Z0-9]+(?:\s+[A-Z][A-Z0-9]+){0,3})`, Confidence: 88, Description: "M/V prefix"},
	},
	EntityVoyageNumber: {
		{Pattern: `(?i:\bvoy(?:age)?\s*(?:no|number|#)?\s*[:.#-]?\s*)([A-Z0-9]{2,8})\b`, Confidence: 88, Description: "labeled voyage"},
		{Pattern: `(?i:\bv\.\s*)(\d{3,4}[A-Z]?)\b`, Confidence: 75, Description: "V. shorthand"},
	},
	EntityPortOfLoading: {
		{Pattern: `(?i:\b(?:port of loading|pol|origin port|load port)\s*[:#-]?\s+)([A-Z][A-Za-z .,]{2,30}?)(?:[\r\n,;]|$)`, Confidence: 88, Description: "labeled POL"},
	},
	EntityPortOfDischarge: {
		{Pattern: `(?i:\b(?:port of discharge|pod|destination port|discharge port)\s*[:#-]?\s+)([A-Z][A-Za-z .,]{2,30}?)(?:[\r\n,;]|$)`, Confidence: 88, Description: "labeled POD"},
	},
	EntityETD: {
		{Pattern: `(?i:\betd\s*[:#-]?\s*)` + dateToken, Confidence: 90, Description: "labeled ETD"},
		{Pattern: `(?i:\b(?:estimated|expected)\s+(?:time of\s+)?departure\s*[:#-]?\s*)` + dateToken, Confidence: 88, Description: "spelled-out ETD"},
		{Pattern: `(?i:\bsail(?:ing)?\s*(?:date)?\s*[:#-]?\s*)` + dateToken, Confidence: 82, Description: "sailing date"},
	},
	EntityETA: {
		{Pattern: `(?i:\beta\s*[:#-]?\s*)` + dateToken, Confidence: 90, Description: "labeled ETA"},
		{Pattern: `(?i:\b(?:estimated|expected)\s+(?:time of\s+)?arrival\s*[:#-]?\s*)` + dateToken, Confidence: 88, Description: "spelled-out ETA"},
	},
	EntityCutoffDate: {
		{Pattern: `(?i:\bcut[\s-]?off\s*(?:date|time)?\s*[:#-]?\s*)` + dateToken, Confidence: 85, Description: "generic cutoff"},
	},
	EntityGateCutoff: {
		{Pattern: `(?i:\b(?:cy|gate|cargo|port)\s*cut[\s-]?off\s*[:#-]?\s*)` + dateToken, Confidence: 90, Description: "CY/gate cutoff"},
	},
	EntityDocCutoff: {
		{Pattern: `(?i:\b(?:si|doc(?:umentation)?|vgm)\s*cut[\s-]?off\s*[:#-]?\s*)` + dateToken, Confidence: 90, Description: "SI/doc cutoff"},
	},
	EntityHSCode: {
		{Pattern: `(?i:\bhs\s*(?:code)?\s*[:.#-]?\s*)(\d{4}(?:\.\d{2,4}){0,2}|\d{6,10})`, Confidence: 88, Description: "labeled HS code"},
	},
}

// Library is the compiled, immutable pattern catalogue. Built once at
// startup, shared across arbitrarily many concurrent extraction calls.
type Library struct {
	base map[EntityType][]compiledRule
	deep map[EntityType][]compiledRule
}

// NewLibrary compiles the authored rule sets. Uncompilable rules are
// authoring errors: they are skipped and reported so they can be caught
// before serving traffic rather than silently dropped per call.
func NewLibrary() (*Library, []error) {
	lib := &Library{
		base: make(map[EntityType][]compiledRule, len(basePatternSets)),
		deep: make(map[EntityType][]compiledRule, len(deepPatternSets)),
	}

	var errs []error
	compile := func(dst map[EntityType][]compiledRule, sets map[EntityType][]PatternRule) {
		for entityType, rules := range sets {
			compiled := make([]compiledRule, 0, len(rules))
			for _, rule := range rules {
				re, err := regexp.Compile(rule.Pattern)
				if err != nil {
					errs = append(errs, fmt.Errorf("pattern for %s (%s): %w", entityType, rule.Description, err))
					continue
				}
				compiled = append(compiled, compiledRule{re: re, rule: rule})
			}
			dst[entityType] = compiled
		}
	}

	compile(lib.base, basePatternSets)
	compile(lib.deep, deepPatternSets)
	return lib, errs
}

// BaseTypes returns the entity types the base catalogue covers.
func (l *Library) BaseTypes() []EntityType {
	types := make([]EntityType, 0, len(l.base))
	for t := range l.base {
		types = append(types, t)
	}
	return types
}

// DeepTypes returns the entity types the deep catalogue covers.
func (l *Library) DeepTypes() []EntityType {
	types := make([]EntityType, 0, len(l.deep))
	for t := range l.deep {
		types = append(types, t)
	}
	return types
}

var (
	defaultLibOnce sync.Once
	defaultLib     *Library
)

// DefaultLibrary returns the shared library built from the authored rule
// sets. The authored sets are kept compile-clean; any error here is a bug
// caught by TestDefaultLibraryCompiles.
func DefaultLibrary() *Library {
	defaultLibOnce.Do(func() {
		defaultLib, _ = NewLibrary()
	})
	return defaultLib
}
