package extract

import "time"

// SourceType distinguishes where raw text came from. Email bodies and OCR'd
// documents get different extraction configurations.
type SourceType string

const (
	SourceEmail    SourceType = "email"
	SourceDocument SourceType = "document"
)

// EntityType names a category of extractable value. The set is closed at
// compile time: every type is declared here and registered with its pattern
// group and validator, so a typo'd type is unreachable rather than silently
// matching nothing.
type EntityType string

const (
	EntityBookingNumber     EntityType = "booking_number"
	EntityContainerNumber   EntityType = "container_number"
	EntityBLNumber          EntityType = "bl_number"
	EntitySealNumber        EntityType = "seal_number"
	EntityVesselName        EntityType = "vessel_name"
	EntityVoyageNumber      EntityType = "voyage_number"
	EntityPortOfLoading     EntityType = "port_of_loading"
	EntityPortOfDischarge   EntityType = "port_of_discharge"
	EntityETD               EntityType = "etd"
	EntityETA               EntityType = "eta"
	EntityCutoffDate        EntityType = "cutoff_date"
	EntityGateCutoff        EntityType = "gate_cutoff"
	EntityDocCutoff         EntityType = "doc_cutoff"
	EntityEntryNumber       EntityType = "entry_number"
	EntityITNumber          EntityType = "it_number"
	EntityISFNumber         EntityType = "isf_number"
	EntityAMSNumber         EntityType = "ams_number"
	EntityHSCode            EntityType = "hs_code"
	EntityGrossWeight       EntityType = "gross_weight"
	EntityNetWeight         EntityType = "net_weight"
	EntityTareWeight        EntityType = "tare_weight"
	EntityVGMWeight         EntityType = "vgm_weight"
	EntityVolume            EntityType = "volume"
	EntityPackageCount      EntityType = "package_count"
	EntityContainerType     EntityType = "container_type"
	EntityLastFreeDay       EntityType = "last_free_day"
	EntityDemurrageStart    EntityType = "demurrage_start"
	EntityAppointmentNumber EntityType = "appointment_number"
	EntityInlandLocation    EntityType = "inland_location"
	EntityTemperature       EntityType = "temperature"
	EntityIncoterms         EntityType = "incoterms"
	EntityAmount            EntityType = "amount"
	EntityPONumber          EntityType = "po_number"
	EntityJobNumber         EntityType = "job_number"
	EntityInvoiceNumber     EntityType = "invoice_number"
)

// ExtractionInput is everything the engine needs for a single call. It is
// assembled by the ingestion layer and never persisted here.
type ExtractionInput struct {
	RawText           string
	SenderIdentity    string
	TrueSender        string // resolved from forwarding headers, optional
	SourceType        SourceType
	KnownDocumentType string // optional, enables schema-driven mode upstream
}

// Candidate is an unvalidated extraction produced by a pattern scan. It lives
// only between the scan and the merge step.
type Candidate struct {
	EntityType EntityType
	RawValue   string
	Confidence int
	Method     string // "base_pattern" or "deep_pattern"
	Position   int    // byte offset of the match start
	Context    string // ±30 chars around the match
}

// ValidatedEntity is the engine's output unit: one per accepted
// (type, normalized value) pair.
type ValidatedEntity struct {
	EntityType EntityType `json:"entity_type"`
	Value      string     `json:"value"`
	Confidence int        `json:"confidence"`
	Priority   int        `json:"priority"`
	IsRequired bool       `json:"is_required"`
	IsCritical bool       `json:"is_critical"`
	IsLinkable bool       `json:"is_linkable"`
	SourceType SourceType `json:"source_type"`
	Context    string     `json:"context,omitempty"`
}

// Summary is the contract surface consumed by logging and auto-resolution
// collaborators after a merge.
type Summary struct {
	TotalExtracted  int           `json:"total_extracted"`
	RequiredFound   int           `json:"required_found"`
	RequiredMissing []EntityType  `json:"required_missing,omitempty"`
	CriticalFound   int           `json:"critical_found"`
	LinkableFound   int           `json:"linkable_found"`
	AvgConfidence   float64       `json:"avg_confidence"`
	Duration        time.Duration `json:"duration_ns"`
}

// Result is the flat-entity mode output: validated entities plus metadata
// about the run that produced them.
type Result struct {
	Entities []ValidatedEntity `json:"entities"`
	Category SenderCategory    `json:"sender_category"`
	Summary  Summary           `json:"summary"`
}
