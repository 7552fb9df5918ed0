package docextract

import "testing"

func partyRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(Schema{
		DocumentType: "test_doc",
		Sections: []SectionSpec{
			{Role: "shipper", StartMarkers: []string{"shipper", "exporter"}, EndMarkers: []string{"consignee", "notify"}},
			{Role: "consignee", StartMarkers: []string{"consignee"}, EndMarkers: []string{"notify", "particulars"}},
		},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestExtractParty_FullBlock(t *testing.T) {
	reg := partyRegistry(t)
	text := `SHIPPER:
Acme Exports Pvt Ltd
Plot 14, MIDC Industrial Area
Andheri East
Mumbai, Maharashtra, 400093
India
Tel: +91 22 4012 3456
exports@acmeexports.in
GSTIN: 27AAACA1234F1Z5
CONSIGNEE:
Globex Trading GmbH
Hafenstrasse 12
Hamburg, Germany
`

	result := reg.Extract("test_doc", text)

	shipper, ok := result.Parties["shipper"]
	if !ok {
		t.Fatal("shipper block not extracted")
	}
	if shipper.Name != "Acme Exports Pvt Ltd" {
		t.Errorf("name = %q", shipper.Name)
	}
	if shipper.AddressLine1 != "Plot 14, MIDC Industrial Area" {
		t.Errorf("address line 1 = %q", shipper.AddressLine1)
	}
	if shipper.CityLine != "Mumbai, Maharashtra, 400093" {
		t.Errorf("city line = %q", shipper.CityLine)
	}
	if shipper.PostalCode != "400093" {
		t.Errorf("postal code = %q", shipper.PostalCode)
	}
	if shipper.Country != "INDIA" {
		t.Errorf("country = %q", shipper.Country)
	}
	if shipper.Phone != "+91 22 4012 3456" {
		t.Errorf("phone = %q", shipper.Phone)
	}
	if shipper.Email != "exports@acmeexports.in" {
		t.Errorf("email = %q", shipper.Email)
	}
	if shipper.TaxID != "27AAACA1234F1Z5" {
		t.Errorf("tax id = %q", shipper.TaxID)
	}

	consignee, ok := result.Parties["consignee"]
	if !ok {
		t.Fatal("consignee block not extracted")
	}
	if consignee.Name != "Globex Trading GmbH" {
		t.Errorf("consignee name = %q", consignee.Name)
	}
	if consignee.Country != "GERMANY" {
		t.Errorf("consignee country = %q", consignee.Country)
	}
}

func TestExtractParty_AttnStrippedFromName(t *testing.T) {
	reg := partyRegistry(t)
	text := "SHIPPER\nAcme Exports ATTN: Ravi Kumar\nMumbai, India\nCONSIGNEE\nGlobex GmbH\n"

	result := reg.Extract("test_doc", text)
	shipper, ok := result.Parties["shipper"]
	if !ok {
		t.Fatal("shipper not extracted")
	}
	if shipper.Name != "Acme Exports" {
		t.Fatalf("ATTN suffix not stripped: %q", shipper.Name)
	}
}

func TestExtractParty_CityLineDirectlyAfterName(t *testing.T) {
	reg := partyRegistry(t)
	text := "SHIPPER\nAcme Exports Pvt Ltd\nMumbai, Maharashtra, 400093\nIndia\nCONSIGNEE\nGlobex GmbH\n"

	result := reg.Extract("test_doc", text)
	shipper, ok := result.Parties["shipper"]
	if !ok {
		t.Fatal("shipper not extracted")
	}
	if shipper.CityLine != "Mumbai, Maharashtra, 400093" {
		t.Fatalf("city line = %q", shipper.CityLine)
	}
	if shipper.AddressLine1 != "" {
		t.Fatalf("city line leaked into address line 1: %q", shipper.AddressLine1)
	}
	if shipper.PostalCode != "400093" {
		t.Fatalf("postal code = %q", shipper.PostalCode)
	}
}

func TestExtractParty_MissingMarker(t *testing.T) {
	reg := partyRegistry(t)
	result := reg.Extract("test_doc", "No party blocks in this text at all.\n")
	if len(result.Parties) != 0 {
		t.Fatalf("unexpected parties: %v", result.Parties)
	}
}

func TestMatchCountryLine_WordBoundary(t *testing.T) {
	if country, _ := matchCountryLine("Bucharest, Romania"); country != "" {
		t.Fatalf("oman matched inside romania: %q", country)
	}
	if country, _ := matchCountryLine("Muscat, Oman"); country != "OMAN" {
		t.Fatalf("oman not matched standalone: %q", country)
	}
	if country, postal := matchCountryLine("Singapore 618305"); country != "SINGAPORE" || postal != "618305" {
		t.Fatalf("got %q/%q, want SINGAPORE/618305", country, postal)
	}
}

func TestLooksLikePhoneLine(t *testing.T) {
	if looksLikePhoneLine("Plot 14, Sector 8") {
		t.Fatal("street address classified as phone line")
	}
	if !looksLikePhoneLine("Tel: 022 4012 3456") {
		t.Fatal("tel-prefixed line not recognized")
	}
	if !looksLikePhoneLine("+91 22 4012 3456") {
		t.Fatal("international number not recognized")
	}
}
