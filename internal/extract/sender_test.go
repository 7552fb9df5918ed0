package extract

import "testing"

func TestDetectSenderCategory_KnownCarriers(t *testing.T) {
	cases := []struct {
		address string
		want    SenderCategory
	}{
		{"noreply@maersk.com", CategoryMaersk},
		{"booking@safmarine.com", CategoryMaersk},
		{"notifications@msc.com", CategoryMSC},
		{"export@cma-cgm.com", CategoryCMACGM},
		{"no-reply@hlag.com", CategoryHapag},
		{"service@one-line.com", CategoryONE},
		{"docs@evergreen-marine.com", CategoryEvergreen},
		{"notify@coscoshipping.com", CategoryCOSCO},
		{"ops@oocl.com", CategoryCOSCO},
		{"cs@yangming.com", CategoryYangMing},
		{"alerts@zim.com", CategoryZIM},
		{"export@hmm21.com", CategoryHMM},
	}

	for _, tc := range cases {
		if got := DetectSenderCategory(tc.address); got != tc.want {
			t.Errorf("DetectSenderCategory(%q) = %s, want %s", tc.address, got, tc.want)
		}
	}
}

func TestDetectSenderCategory_NonCarrierRoles(t *testing.T) {
	cases := []struct {
		address string
		want    SenderCategory
	}{
		{"entries@abc-customs.com", CategoryCustomsBroker},
		{"ops@acme-logistics.com", CategoryFreightForwarder},
		{"gate@apmterminals.com", CategoryTerminal},
		{"dispatch@fasttrucking.net", CategoryTrucking},
		{"notifications@bnsf.com", CategoryRail},
	}

	for _, tc := range cases {
		if got := DetectSenderCategory(tc.address); got != tc.want {
			t.Errorf("DetectSenderCategory(%q) = %s, want %s", tc.address, got, tc.want)
		}
	}
}

func TestDetectSenderCategory_PortHintIsTokenBounded(t *testing.T) {
	cases := []struct {
		address string
		want    SenderCategory
	}{
		// "port" inside a larger word must not classify as a terminal.
		{"export@widgets-example.com", CategoryOther},
		{"support@widgets-example.com", CategoryOther},
		{"dispatch@citytransport.com", CategoryTrucking},
		// A standalone port token still does.
		{"ops@port-newark.com", CategoryTerminal},
	}

	for _, tc := range cases {
		if got := DetectSenderCategory(tc.address); got != tc.want {
			t.Errorf("DetectSenderCategory(%q) = %s, want %s", tc.address, got, tc.want)
		}
	}
}

func TestDetectSenderCategory_GenericCarrierDomain(t *testing.T) {
	if got := DetectSenderCategory("ops@pacificstarline.com"); got != CategoryOtherCarrier {
		t.Fatalf("expected other_carrier, got %s", got)
	}
}

func TestDetectSenderCategory_UnknownAndEmpty(t *testing.T) {
	if got := DetectSenderCategory("someone@example.org"); got != CategoryOther {
		t.Fatalf("expected other for unknown domain, got %s", got)
	}
	if got := DetectSenderCategory(""); got != CategoryOther {
		t.Fatalf("expected other for empty address, got %s", got)
	}
}

func TestDetectSenderCategory_CarrierBeatsForwarderHint(t *testing.T) {
	// Carrier tables are checked first, so a carrier domain containing a
	// generic word still resolves to the carrier.
	if got := DetectSenderCategory("notify@maersk-logistics.com"); got != CategoryMaersk {
		t.Fatalf("expected maersk, got %s", got)
	}
}

func TestDetectSenderCategoryWithFallback(t *testing.T) {
	// True sender known: wins over the envelope sender.
	got := DetectSenderCategoryWithFallback("relay@acme-logistics.com", "noreply@maersk.com")
	if got != CategoryMaersk {
		t.Fatalf("expected maersk from true sender, got %s", got)
	}

	// True sender unclassifiable: fall back to envelope sender.
	got = DetectSenderCategoryWithFallback("relay@acme-logistics.com", "user@gmail.com")
	if got != CategoryFreightForwarder {
		t.Fatalf("expected freight_forwarder fallback, got %s", got)
	}

	got = DetectSenderCategoryWithFallback("noreply@hlag.com", "")
	if got != CategoryHapag {
		t.Fatalf("expected hapag, got %s", got)
	}
}
