package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/david/shipment-tracker/internal/models"
)

// RunStore persists extraction run summaries for later inspection via the
// admin API and the check_runs tool.
type RunStore struct {
	pool *pgxpool.Pool
}

func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

func (s *RunStore) InsertRun(ctx context.Context, run models.ExtractionRun) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO extraction_runs (
			run_id, sender, category, source_type, document_type,
			total_extracted, required_found, required_missing,
			critical_found, linkable_found, avg_confidence, duration_ms
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		run.RunID, run.Sender, run.Category, run.SourceType, run.DocumentType,
		run.TotalExtracted, run.RequiredFound, run.RequiredMissing,
		run.CriticalFound, run.LinkableFound, run.AvgConfidence, run.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert extraction run: %w", err)
	}
	return nil
}

func (s *RunStore) ListRecentRuns(ctx context.Context, limit int) ([]models.ExtractionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, sender, category, source_type, COALESCE(document_type, ''),
		       total_extracted, required_found, required_missing,
		       critical_found, linkable_found, avg_confidence, duration_ms, created_at
		FROM extraction_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query extraction runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ExtractionRun
	for rows.Next() {
		var r models.ExtractionRun
		if err := rows.Scan(
			&r.RunID, &r.Sender, &r.Category, &r.SourceType, &r.DocumentType,
			&r.TotalExtracted, &r.RequiredFound, &r.RequiredMissing,
			&r.CriticalFound, &r.LinkableFound, &r.AvgConfidence, &r.DurationMS,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan extraction run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
