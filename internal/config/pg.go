package config

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/david/shipment-tracker/internal/extract"
)

// PG reads extraction rules from the extraction_rules table. Rows are keyed
// by (category, source_type); an empty result for a category is normal and
// handled by the engine's fallback, not here.
type PG struct {
	pool *pgxpool.Pool
}

func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

func (p *PG) Entries(ctx context.Context, category extract.SenderCategory, sourceType extract.SourceType) ([]extract.ConfigEntry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT entity_type, priority, is_required, is_critical, confidence_threshold, is_linkable
		FROM extraction_rules
		WHERE category = $1 AND source_type = $2
		ORDER BY priority DESC, entity_type
	`, string(category), string(sourceType))
	if err != nil {
		return nil, fmt.Errorf("query extraction rules: %w", err)
	}
	defer rows.Close()

	var entries []extract.ConfigEntry
	for rows.Next() {
		var entry extract.ConfigEntry
		var entityType string
		if err := rows.Scan(&entityType, &entry.Priority, &entry.IsRequired, &entry.IsCritical, &entry.ConfidenceThreshold, &entry.IsLinkable); err != nil {
			return nil, fmt.Errorf("scan extraction rule: %w", err)
		}
		entry.EntityType = extract.EntityType(entityType)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// WithFallback layers the static defaults beneath a store-backed provider:
// categories absent from the database still extract with baseline rules.
type WithFallback struct {
	Primary  extract.ConfigProvider
	Fallback extract.ConfigProvider
}

func (w *WithFallback) Entries(ctx context.Context, category extract.SenderCategory, sourceType extract.SourceType) ([]extract.ConfigEntry, error) {
	entries, err := w.Primary.Entries(ctx, category, sourceType)
	if err == nil && len(entries) > 0 {
		return entries, nil
	}
	return w.Fallback.Entries(ctx, category, sourceType)
}
