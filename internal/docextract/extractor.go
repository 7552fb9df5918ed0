package docextract

import "strings"

// FieldValue is one extracted field with the confidence of the fallback tier
// that produced it and a note on where the value came from.
type FieldValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"` // same_line, next_line, value_pattern, global
}

// PartyInfo is a structured party block (shipper/consignee/notify).
type PartyInfo struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	CityLine     string `json:"city_line,omitempty"`
	Country      string `json:"country,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
}

// Result is the schema-driven extraction output for one document.
type Result struct {
	DocumentType string                       `json:"document_type"`
	Fields       map[string]FieldValue        `json:"fields"`
	Parties      map[string]PartyInfo         `json:"parties"`
	Tables       map[string][]map[string]string `json:"tables"`
	Confidence   float64                      `json:"confidence"`
}

const (
	partyBonus = 0.1
	tableBonus = 0.1
)

// Extract runs the schema for documentType over text. A nil return means no
// schema is registered for the type — the expected "unsupported" signal, not
// an error. Empty text yields an empty result with zero confidence.
func (r *Registry) Extract(documentType, text string) *Result {
	schema, ok := r.schemas[documentType]
	if !ok {
		return nil
	}

	result := &Result{
		DocumentType: documentType,
		Fields:       map[string]FieldValue{},
		Parties:      map[string]PartyInfo{},
		Tables:       map[string][]map[string]string{},
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	lines := splitLines(text)
	rawLines := splitRawLines(text)

	for _, field := range schema.fields {
		if field.spec.Type == "party" {
			continue
		}
		if value, ok := extractField(field, lines, text); ok {
			result.Fields[field.spec.Name] = value
		}
	}

	for _, section := range schema.sections {
		if party, ok := extractParty(section, lines); ok {
			result.Parties[section.Role] = party
		}
	}

	for _, table := range schema.tables {
		if rows := extractTable(table, rawLines); len(rows) > 0 {
			result.Tables[table.spec.Name] = rows
		}
	}

	result.Confidence = scoreResult(schema, result)
	return result
}

// splitLines returns trimmed, non-empty lines.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// splitRawLines keeps indentation so table column offsets stay aligned;
// only fully blank lines are dropped.
func splitRawLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// scoreResult computes the whole-document confidence: the fraction of
// required fields found (party fields count via extracted parties), plus a
// fixed bonus when any party or any table came out, capped at 1.0.
func scoreResult(schema *compiledSchema, result *Result) float64 {
	required, found := 0, 0
	for _, field := range schema.fields {
		if !field.spec.Required {
			continue
		}
		required++
		if field.spec.Type == "party" {
			if _, ok := result.Parties[field.spec.Name]; ok {
				found++
			}
			continue
		}
		if _, ok := result.Fields[field.spec.Name]; ok {
			found++
		}
	}

	confidence := 0.0
	if required > 0 {
		confidence = float64(found) / float64(required)
	}
	if len(result.Parties) > 0 {
		confidence += partyBonus
	}
	if len(result.Tables) > 0 {
		confidence += tableBonus
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
