package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fixfirst/msx-parts-scraper/internal/models"
)

// maxLoggedErrors bounds the errors column so a badly degraded run cannot
// bloat the audit row.
const maxLoggedErrors = 50

// ScrapeLogRepository maintains the per-run audit trail.
type ScrapeLogRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewScrapeLogRepository(db *DB) *ScrapeLogRepository {
	return &ScrapeLogRepository{
		db:     db,
		logger: slog.Default().With("component", "scrape-log"),
	}
}

// RunOutcome is what closing a run records.
type RunOutcome struct {
	Status           models.RunStatus
	ProductsFound    int
	ProductsUpserted int
	Errors           []models.RunError
}

// Create opens an audit row in the running state and returns its id.
func (r *ScrapeLogRepository) Create(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO scrape_logs (id, status, started_at)
		VALUES ($1, $2, now())`,
		id, models.RunStatusRunning)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create scrape log: %w", err)
	}
	return id, nil
}

// Close finalizes the audit row. Duration is computed from the stored
// started_at so it reflects the run as the database saw it.
func (r *ScrapeLogRepository) Close(ctx context.Context, id uuid.UUID, outcome RunOutcome) error {
	if id == uuid.Nil {
		return nil
	}

	errs := outcome.Errors
	if len(errs) > maxLoggedErrors {
		truncated := len(errs) - maxLoggedErrors
		errs = append([]models.RunError{}, errs[:maxLoggedErrors]...)
		errs = append(errs, models.RunError{
			Context: "scrape-log",
			Message: fmt.Sprintf("%d further errors truncated", truncated),
		})
	}

	errorsJSON, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("failed to marshal run errors: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE scrape_logs
		SET status = $1,
		    completed_at = now(),
		    products_found = $2,
		    products_upserted = $3,
		    errors = $4,
		    duration_ms = (extract(epoch FROM (now() - started_at)) * 1000)::bigint
		WHERE id = $5`,
		outcome.Status, outcome.ProductsFound, outcome.ProductsUpserted, errorsJSON, id)
	if err != nil {
		return fmt.Errorf("failed to close scrape log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scrape log not found: %s", id)
	}

	r.logger.Info("scrape log closed",
		"id", id,
		"status", outcome.Status,
		"products_found", outcome.ProductsFound,
		"products_upserted", outcome.ProductsUpserted,
		"errors", len(outcome.Errors))
	return nil
}

// LatestRuns returns the most recent audit rows, newest first.
func (r *ScrapeLogRepository) LatestRuns(ctx context.Context, limit int) ([]*models.RunAudit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, status, started_at, completed_at,
		       coalesce(products_found, 0), coalesce(products_upserted, 0),
		       coalesce(errors, '[]'::jsonb), coalesce(duration_ms, 0)
		FROM scrape_logs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scrape logs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RunAudit
	for rows.Next() {
		run := &models.RunAudit{}
		var errorsJSON []byte
		if err := rows.Scan(&run.ID, &run.Status, &run.StartedAt, &run.CompletedAt,
			&run.ProductsFound, &run.ProductsUpserted, &errorsJSON, &run.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan scrape log: %w", err)
		}
		if err := json.Unmarshal(errorsJSON, &run.Errors); err != nil {
			return nil, fmt.Errorf("failed to decode run errors: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return runs, nil
}
