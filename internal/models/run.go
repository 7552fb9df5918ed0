package models

import (
	"time"

	"github.com/google/uuid"
)

// ExtractionRun is the persisted record of one extraction call made through
// the API: who sent the text, what category it resolved to, and the summary
// counters. The extracted entities themselves are returned to the caller,
// not stored here.
type ExtractionRun struct {
	RunID           uuid.UUID `json:"run_id"`
	Sender          string    `json:"sender"`
	Category        string    `json:"category"`
	SourceType      string    `json:"source_type"`
	DocumentType    string    `json:"document_type,omitempty"`
	TotalExtracted  int       `json:"total_extracted"`
	RequiredFound   int       `json:"required_found"`
	RequiredMissing int       `json:"required_missing"`
	CriticalFound   int       `json:"critical_found"`
	LinkableFound   int       `json:"linkable_found"`
	AvgConfidence   float64   `json:"avg_confidence"`
	DurationMS      int64     `json:"duration_ms"`
	CreatedAt       time.Time `json:"created_at"`
}
