package docextract

import "testing"

func fieldOnlyRegistry(t *testing.T, fields ...FieldSpec) *Registry {
	t.Helper()
	reg, err := NewRegistry(Schema{DocumentType: "test_doc", Fields: fields})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestExtractField_ValuePatternOnLabelLine(t *testing.T) {
	reg := fieldOnlyRegistry(t, FieldSpec{
		Name:          "booking_number",
		Type:          "text",
		LabelPatterns: []string{`booking\s*(?:no|number)`},
		ValuePatterns: []string{`([A-Z0-9][A-Z0-9-]{5,17})`},
	})

	result := reg.Extract("test_doc", "Booking Number: HL-12345678\n")
	fv, ok := result.Fields["booking_number"]
	if !ok {
		t.Fatal("booking_number not extracted")
	}
	if fv.Value != "HL-12345678" {
		t.Fatalf("value = %q, want HL-12345678", fv.Value)
	}
	if fv.Confidence != 0.9 {
		t.Fatalf("confidence = %v, want 0.9 for same-line value match", fv.Confidence)
	}
	if fv.Source != "same_line" {
		t.Fatalf("source = %q, want same_line", fv.Source)
	}
}

func TestExtractField_RemainderFallback(t *testing.T) {
	reg := fieldOnlyRegistry(t, FieldSpec{
		Name:          "port_of_loading",
		Type:          "text",
		LabelPatterns: []string{`port\s*of\s*loading`},
	})

	result := reg.Extract("test_doc", "Port of Loading: Nhava Sheva\n")
	fv, ok := result.Fields["port_of_loading"]
	if !ok {
		t.Fatal("port_of_loading not extracted")
	}
	if fv.Value != "Nhava Sheva" {
		t.Fatalf("value = %q, want Nhava Sheva", fv.Value)
	}
	if fv.Confidence != 0.7 {
		t.Fatalf("confidence = %v, want 0.7 for remainder", fv.Confidence)
	}
}

func TestExtractField_NextLineFallback(t *testing.T) {
	reg := fieldOnlyRegistry(t, FieldSpec{
		Name:          "etd",
		Type:          "date",
		LabelPatterns: []string{`\betd\b`},
	})

	result := reg.Extract("test_doc", "ETD\n15/03/2026\n")
	fv, ok := result.Fields["etd"]
	if !ok {
		t.Fatal("etd not extracted from next line")
	}
	if fv.Value != "15/03/2026" {
		t.Fatalf("value = %q, want 15/03/2026", fv.Value)
	}
	if fv.Confidence != 0.6 || fv.Source != "next_line" {
		t.Fatalf("got %v/%q, want 0.6/next_line", fv.Confidence, fv.Source)
	}
}

func TestExtractField_NextLineSkippedWhenItLooksLikeLabel(t *testing.T) {
	reg := fieldOnlyRegistry(t, FieldSpec{
		Name:          "etd",
		Type:          "date",
		LabelPatterns: []string{`\betd\b`},
	})

	result := reg.Extract("test_doc", "ETD\nPort of Discharge:\n")
	if fv, ok := result.Fields["etd"]; ok {
		t.Fatalf("adjacent label swallowed as value: %q", fv.Value)
	}
}

func TestExtractField_GlobalValuePatternLastResort(t *testing.T) {
	reg := fieldOnlyRegistry(t, FieldSpec{
		Name:          "container",
		Type:          "text",
		LabelPatterns: []string{`container\s*no`},
		ValuePatterns: []string{`\b([A-Z]{4}\d{7})\b`},
	})

	result := reg.Extract("test_doc", "Unit MSCU1234566 was discharged yesterday.\n")
	fv, ok := result.Fields["container"]
	if !ok {
		t.Fatal("container not found by global value pattern")
	}
	if fv.Value != "MSCU1234566" {
		t.Fatalf("value = %q, want MSCU1234566", fv.Value)
	}
	if fv.Confidence != 0.5 || fv.Source != "global" {
		t.Fatalf("got %v/%q, want 0.5/global", fv.Confidence, fv.Source)
	}
}

func TestLooksLikeLabel(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"1. Shipper details", true},
		{"CONSIGNEE", true},
		{"Vessel / Voyage:", true},
		{"PORT OF LOADING", true},
		{"MAERSK DENVER 126W", false},
		{"15/03/2026", false},
	}
	for _, tc := range cases {
		if got := looksLikeLabel(tc.line); got != tc.want {
			t.Errorf("looksLikeLabel(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestExtract_UnregisteredTypeReturnsNil(t *testing.T) {
	reg := fieldOnlyRegistry(t, FieldSpec{Name: "x", Type: "text", LabelPatterns: []string{`x`}})
	if result := reg.Extract("unknown_type", "anything"); result != nil {
		t.Fatal("expected nil for unregistered document type")
	}
}

func TestExtract_EmptyText(t *testing.T) {
	reg := fieldOnlyRegistry(t, FieldSpec{Name: "x", Type: "text", LabelPatterns: []string{`x`}, Required: true})
	result := reg.Extract("test_doc", "   \n ")
	if result == nil {
		t.Fatal("expected empty result, got nil")
	}
	if len(result.Fields) != 0 || result.Confidence != 0 {
		t.Fatalf("expected zeroed result, got %+v", result)
	}
}
