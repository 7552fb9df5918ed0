package extract

import "testing"

func TestExtractDeep_OnlyRelevantTypesRun(t *testing.T) {
	lib := DefaultLibrary()
	text := "Entry No: ABC-1234567-8, Gross Weight: 12,500 kgs"

	relevant := map[EntityType]bool{EntityEntryNumber: true}
	cands := lib.ExtractDeep(text, relevant, CategoryCustomsBroker)

	if findCandidate(cands, EntityEntryNumber, "ABC-1234567-8") == nil {
		t.Fatal("relevant entry number not extracted")
	}
	for _, cand := range cands {
		if cand.EntityType == EntityGrossWeight {
			t.Fatal("gross weight extracted despite not being relevant")
		}
	}
}

func TestExtractDeep_NoRelevantTypes(t *testing.T) {
	lib := DefaultLibrary()
	if got := lib.ExtractDeep("Entry No: ABC-1234567-8", nil, CategoryOther); got != nil {
		t.Fatalf("expected nil with no relevant types, got %d candidates", len(got))
	}
}

func TestExtractDeep_WeightsAndVolume(t *testing.T) {
	lib := DefaultLibrary()
	text := "Gross Weight: 12,500.50 kgs, Net Wt: 11800 kgs, Volume: 28.5 CBM, 450 cartons"

	relevant := map[EntityType]bool{
		EntityGrossWeight:  true,
		EntityNetWeight:    true,
		EntityVolume:       true,
		EntityPackageCount: true,
	}
	cands := lib.ExtractDeep(text, relevant, CategoryFreightForwarder)

	checks := []struct {
		entityType EntityType
		value      string
	}{
		{EntityGrossWeight, "12,500.50"},
		{EntityNetWeight, "11800"},
		{EntityVolume, "28.5"},
		{EntityPackageCount, "450"},
	}
	for _, c := range checks {
		if findCandidate(cands, c.entityType, c.value) == nil {
			t.Errorf("no %s candidate %q in %q", c.entityType, c.value, text)
		}
	}
}

func TestExtractDeep_ContainerTypeAndIncoterms(t *testing.T) {
	lib := DefaultLibrary()
	text := "2 x 40HC under CIF terms, temp: -18C"

	relevant := map[EntityType]bool{
		EntityContainerType: true,
		EntityIncoterms:     true,
		EntityTemperature:   true,
	}
	cands := lib.ExtractDeep(text, relevant, CategoryOther)

	if findCandidate(cands, EntityContainerType, "40HC") == nil {
		t.Error("container type 40HC not extracted")
	}
	if findCandidate(cands, EntityIncoterms, "CIF") == nil {
		t.Error("incoterm CIF not extracted")
	}
	if findCandidate(cands, EntityTemperature, "-18") == nil {
		t.Error("reefer set point -18 not extracted")
	}
}

func TestExtractFreeTimeDates_KeywordThenDate(t *testing.T) {
	lib := DefaultLibrary()
	text := "Container discharged. Last free day: 20/03/2026. Demurrage starts from 21/03/2026 at the terminal."

	relevant := map[EntityType]bool{
		EntityLastFreeDay:    true,
		EntityDemurrageStart: true,
	}
	cands := lib.ExtractDeep(text, relevant, CategoryTerminal)

	if findCandidate(cands, EntityLastFreeDay, "20/03/2026") == nil {
		t.Error("last free day date not extracted")
	}
	if findCandidate(cands, EntityDemurrageStart, "21/03/2026") == nil {
		t.Error("demurrage start date not extracted")
	}
}

func TestExtractFreeTimeDates_KeywordAloneIsNotEvidence(t *testing.T) {
	lib := DefaultLibrary()
	text := "Please advise the last free day for this unit."

	cands := lib.ExtractDeep(text, map[EntityType]bool{EntityLastFreeDay: true}, CategoryTerminal)
	for _, cand := range cands {
		if cand.EntityType == EntityLastFreeDay {
			t.Fatalf("keyword with no date produced candidate %q", cand.RawValue)
		}
	}
}

func TestExtractFreeTimeDates_DateOutsideWindowIgnored(t *testing.T) {
	lib := DefaultLibrary()
	filler := make([]byte, 150)
	for i := range filler {
		filler[i] = 'x'
	}
	text := "LFD " + string(filler) + " 20/03/2026"

	cands := lib.ExtractDeep(text, map[EntityType]bool{EntityLastFreeDay: true}, CategoryTerminal)
	for _, cand := range cands {
		if cand.EntityType == EntityLastFreeDay {
			t.Fatalf("date beyond the window produced candidate %q", cand.RawValue)
		}
	}
}
