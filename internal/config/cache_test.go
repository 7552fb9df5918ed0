package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/david/shipment-tracker/internal/extract"
)

type countingProvider struct {
	entries []extract.ConfigEntry
	err     error
	calls   int
}

func (p *countingProvider) Entries(_ context.Context, _ extract.SenderCategory, _ extract.SourceType) ([]extract.ConfigEntry, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.entries, nil
}

func TestCached_ServesFreshFromSnapshot(t *testing.T) {
	inner := &countingProvider{entries: []extract.ConfigEntry{{EntityType: extract.EntityBookingNumber}}}
	cached := NewCached(inner, time.Minute)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		entries, err := cached.Entries(ctx, extract.CategoryMaersk, extract.SourceEmail)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner provider called %d times, want 1", inner.calls)
	}
}

func TestCached_KeysAreIndependent(t *testing.T) {
	inner := &countingProvider{entries: []extract.ConfigEntry{{EntityType: extract.EntityBookingNumber}}}
	cached := NewCached(inner, time.Minute)

	ctx := context.Background()
	cached.Entries(ctx, extract.CategoryMaersk, extract.SourceEmail)
	cached.Entries(ctx, extract.CategoryMaersk, extract.SourceDocument)
	cached.Entries(ctx, extract.CategoryTerminal, extract.SourceEmail)

	if inner.calls != 3 {
		t.Fatalf("inner provider called %d times, want 3 distinct keys", inner.calls)
	}
}

func TestCached_ExpiryRefetches(t *testing.T) {
	inner := &countingProvider{entries: []extract.ConfigEntry{{EntityType: extract.EntityBookingNumber}}}
	cached := NewCached(inner, time.Minute)

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return now }

	ctx := context.Background()
	cached.Entries(ctx, extract.CategoryMaersk, extract.SourceEmail)
	cached.Entries(ctx, extract.CategoryMaersk, extract.SourceEmail)
	if inner.calls != 1 {
		t.Fatalf("inner provider called %d times before expiry, want 1", inner.calls)
	}

	now = now.Add(2 * time.Minute)
	cached.Entries(ctx, extract.CategoryMaersk, extract.SourceEmail)
	if inner.calls != 2 {
		t.Fatalf("inner provider called %d times after expiry, want 2", inner.calls)
	}
}

func TestCached_StaleServedOnInnerError(t *testing.T) {
	inner := &countingProvider{entries: []extract.ConfigEntry{{EntityType: extract.EntityBookingNumber}}}
	cached := NewCached(inner, time.Minute)

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return now }

	ctx := context.Background()
	if _, err := cached.Entries(ctx, extract.CategoryMaersk, extract.SourceEmail); err != nil {
		t.Fatalf("warmup failed: %v", err)
	}

	now = now.Add(2 * time.Minute)
	inner.err = errors.New("store down")

	entries, err := cached.Entries(ctx, extract.CategoryMaersk, extract.SourceEmail)
	if err != nil {
		t.Fatalf("stale entry should mask the inner error, got %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the stale entry, got %d entries", len(entries))
	}
}

func TestCached_ErrorWithNothingCachedSurfaces(t *testing.T) {
	inner := &countingProvider{err: errors.New("store down")}
	cached := NewCached(inner, time.Minute)

	if _, err := cached.Entries(context.Background(), extract.CategoryMaersk, extract.SourceEmail); err == nil {
		t.Fatal("expected the inner error with an empty cache")
	}
}

func TestCached_InvalidateDropsEverything(t *testing.T) {
	inner := &countingProvider{entries: []extract.ConfigEntry{{EntityType: extract.EntityBookingNumber}}}
	cached := NewCached(inner, time.Minute)

	ctx := context.Background()
	cached.Entries(ctx, extract.CategoryMaersk, extract.SourceEmail)
	cached.Invalidate()
	cached.Entries(ctx, extract.CategoryMaersk, extract.SourceEmail)

	if inner.calls != 2 {
		t.Fatalf("inner provider called %d times, want refetch after invalidate", inner.calls)
	}
}

func TestDefaults_CoversEveryCategory(t *testing.T) {
	defaults := Defaults()
	ctx := context.Background()

	categories := append([]extract.SenderCategory{}, extract.AllCategories...)
	categories = append(categories, extract.CategoryOtherCarrier, extract.CategoryOther)

	for _, category := range categories {
		entries, err := defaults.Entries(ctx, category, extract.SourceEmail)
		if err != nil {
			t.Fatalf("Entries(%s) error: %v", category, err)
		}
		if len(entries) == 0 {
			t.Errorf("no default rules for category %s", category)
		}
	}
}

func TestWithFallback_PrefersPrimary(t *testing.T) {
	primary := &countingProvider{entries: []extract.ConfigEntry{{EntityType: extract.EntityEntryNumber}}}
	fallback := &countingProvider{entries: []extract.ConfigEntry{{EntityType: extract.EntityBookingNumber}}}
	layered := &WithFallback{Primary: primary, Fallback: fallback}

	entries, err := layered.Entries(context.Background(), extract.CategoryMaersk, extract.SourceEmail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].EntityType != extract.EntityEntryNumber {
		t.Fatalf("primary rows not preferred: %v", entries)
	}
	if fallback.calls != 0 {
		t.Fatal("fallback consulted despite primary rows")
	}
}

func TestWithFallback_UsedWhenPrimaryEmptyOrErrors(t *testing.T) {
	fallback := &countingProvider{entries: []extract.ConfigEntry{{EntityType: extract.EntityBookingNumber}}}

	empty := &WithFallback{Primary: &countingProvider{}, Fallback: fallback}
	entries, err := empty.Entries(context.Background(), extract.CategoryMaersk, extract.SourceEmail)
	if err != nil || len(entries) != 1 {
		t.Fatalf("fallback not used for empty primary: %v, %v", entries, err)
	}

	failing := &WithFallback{Primary: &countingProvider{err: errors.New("down")}, Fallback: fallback}
	entries, err = failing.Entries(context.Background(), extract.CategoryMaersk, extract.SourceEmail)
	if err != nil || len(entries) != 1 {
		t.Fatalf("fallback not used for failing primary: %v, %v", entries, err)
	}
}
