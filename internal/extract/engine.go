package extract

import (
	"context"
	"strings"
	"time"
)

// ConfigProvider supplies the relevance rows for a (category, source type)
// pair. Implementations live outside this package; the pg-backed one with a
// TTL snapshot cache is in internal/config. A failed lookup must be
// recoverable, so the engine falls back to CategoryOther rather than
// surfacing the error.
type ConfigProvider interface {
	Entries(ctx context.Context, category SenderCategory, sourceType SourceType) ([]ConfigEntry, error)
}

// Engine ties the pattern library, sender detection and the configuration
// provider into the flat-entity extraction pipeline. A single Engine is safe
// for concurrent use; extraction itself is pure CPU work.
type Engine struct {
	library  *Library
	provider ConfigProvider
}

func NewEngine(library *Library, provider ConfigProvider) *Engine {
	if library == nil {
		library = DefaultLibrary()
	}
	return &Engine{library: library, provider: provider}
}

// Extract runs the full pipeline: sender categorization, configuration
// lookup, base + deep pattern extraction, validation, merge and ordering.
// Empty or whitespace-only input yields an empty result with zero summary,
// never an error.
func (e *Engine) Extract(ctx context.Context, input ExtractionInput) Result {
	start := time.Now()

	category := DetectSenderCategoryWithFallback(input.SenderIdentity, input.TrueSender)

	result := Result{Entities: []ValidatedEntity{}, Category: category}
	if strings.TrimSpace(input.RawText) == "" {
		result.Summary.Duration = time.Since(start)
		return result
	}

	sourceType := input.SourceType
	if sourceType == "" {
		sourceType = SourceEmail
	}

	cfg := e.configFor(ctx, category, sourceType)

	relevant := make(map[EntityType]bool, len(cfg))
	for entityType := range cfg {
		relevant[entityType] = true
	}

	base := e.library.ExtractBase(input.RawText, category)
	deep := e.library.ExtractDeep(input.RawText, relevant, category)

	entities, summary := MergeAndPrioritize(base, deep, cfg, input.RawText, sourceType)
	summary.Duration = time.Since(start)

	result.Entities = entities
	result.Summary = summary
	return result
}

// configFor fetches configuration for the category, falling back to the
// catch-all CategoryOther rows when the provider fails or has nothing. With
// no provider at all, every base type is considered relevant at defaults.
func (e *Engine) configFor(ctx context.Context, category SenderCategory, sourceType SourceType) map[EntityType]ConfigEntry {
	if e.provider == nil {
		return nil
	}

	entries, err := e.provider.Entries(ctx, category, sourceType)
	if err != nil || len(entries) == 0 {
		entries, err = e.provider.Entries(ctx, CategoryOther, sourceType)
		if err != nil {
			return nil
		}
	}

	cfg := make(map[EntityType]ConfigEntry, len(entries))
	for _, entry := range entries {
		cfg[entry.EntityType] = entry
	}
	return cfg
}
