package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fixfirst/msx-parts-scraper/internal/models"
)

// DefaultBatchSize is how many records go into one upsert transaction.
const DefaultBatchSize = 100

// ProductRepository persists normalized catalog records.
type ProductRepository struct {
	db        *DB
	outbox    *OutboxRepository
	logger    *slog.Logger
	batchSize int
}

// UpsertResult summarizes a persistence pass. Batches fail independently, so
// a partially failed run still reports what landed.
type UpsertResult struct {
	Upserted    int
	Failed      int
	Batches     int
	BatchErrors []*BatchError
}

// productState is the slice of a stored row that change detection compares.
type productState struct {
	WholesalePrice *float64
	IsInStock      bool
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{
		db:        db,
		outbox:    NewOutboxRepository(db),
		logger:    slog.Default().With("component", "product-repository"),
		batchSize: DefaultBatchSize,
	}
}

// SetBatchSize overrides the batch size for subsequent upserts.
func (r *ProductRepository) SetBatchSize(n int) {
	if n > 0 {
		r.batchSize = n
	}
}

const upsertProductSQL = `
	INSERT INTO products (
		sku, name, brand, device_line, model_compatibility,
		category, quality_tier, wholesale_price, is_in_stock,
		warranty_info, source_url, last_synced_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now()
	)
	ON CONFLICT (sku) DO UPDATE SET
		name = EXCLUDED.name,
		brand = EXCLUDED.brand,
		device_line = EXCLUDED.device_line,
		model_compatibility = EXCLUDED.model_compatibility,
		category = EXCLUDED.category,
		quality_tier = EXCLUDED.quality_tier,
		wholesale_price = EXCLUDED.wholesale_price,
		is_in_stock = EXCLUDED.is_in_stock,
		warranty_info = EXCLUDED.warranty_info,
		source_url = EXCLUDED.source_url,
		last_synced_at = now(),
		updated_at = now()`

// UpsertProducts writes records in batches, each batch in its own
// transaction. A failed batch is recorded and skipped; later batches still
// run. Price and stock transitions are written to the catalog outbox inside
// the same transaction as the rows that caused them.
func (r *ProductRepository) UpsertProducts(ctx context.Context, records []*models.ProductRecord) *UpsertResult {
	result := &UpsertResult{}
	size := r.batchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	for offset := 0; offset < len(records); offset += size {
		end := offset + size
		if end > len(records) {
			end = len(records)
		}
		batch := records[offset:end]
		result.Batches++

		if err := r.upsertBatch(ctx, batch); err != nil {
			batchErr := &BatchError{BatchOffset: offset, BatchSize: len(batch), Err: err}
			result.BatchErrors = append(result.BatchErrors, batchErr)
			result.Failed += len(batch)
			r.logger.Error("batch upsert failed, continuing with next batch",
				"offset", offset, "size", len(batch), "error", err)
			continue
		}
		result.Upserted += len(batch)
	}

	return result
}

func (r *ProductRepository) upsertBatch(ctx context.Context, batch []*models.ProductRecord) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		existing, err := r.fetchStates(ctx, tx, batch)
		if err != nil {
			return err
		}

		for _, rec := range batch {
			_, err := tx.Exec(ctx, upsertProductSQL,
				rec.SKU, rec.Name, rec.Brand, rec.DeviceLine, rec.ModelCompatibility,
				rec.Category, rec.QualityTier, rec.WholesalePrice, rec.IsInStock,
				rec.WarrantyInfo, rec.SourceURL,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert product %s: %w", rec.SKU, err)
			}
		}

		for _, event := range changeEvents(existing, batch) {
			if err := r.outbox.InsertWithTx(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProductRepository) fetchStates(ctx context.Context, tx pgx.Tx, batch []*models.ProductRecord) (map[string]productState, error) {
	skus := make([]string, 0, len(batch))
	for _, rec := range batch {
		skus = append(skus, rec.SKU)
	}

	rows, err := tx.Query(ctx,
		`SELECT sku, wholesale_price, is_in_stock FROM products WHERE sku = ANY($1)`, skus)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing products: %w", err)
	}
	defer rows.Close()

	states := make(map[string]productState, len(batch))
	for rows.Next() {
		var sku string
		var state productState
		if err := rows.Scan(&sku, &state.WholesalePrice, &state.IsInStock); err != nil {
			return nil, fmt.Errorf("failed to scan product state: %w", err)
		}
		states[sku] = state
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return states, nil
}

// changeEvents diffs incoming records against stored state and emits outbox
// events for price and stock transitions. New products emit nothing; there
// is no prior state to have changed from.
func changeEvents(existing map[string]productState, batch []*models.ProductRecord) []*OutboxEvent {
	var events []*OutboxEvent
	for _, rec := range batch {
		prev, ok := existing[rec.SKU]
		if !ok {
			continue
		}

		if rec.WholesalePrice != nil && prev.WholesalePrice != nil && *rec.WholesalePrice != *prev.WholesalePrice {
			payload, _ := json.Marshal(map[string]interface{}{
				"sku":       rec.SKU,
				"name":      rec.Name,
				"old_price": *prev.WholesalePrice,
				"new_price": *rec.WholesalePrice,
			})
			events = append(events, &OutboxEvent{
				AggregateType: "catalog_product",
				AggregateID:   rec.SKU,
				EventType:     EventPriceChanged,
				Payload:       payload,
			})
		}

		if rec.IsInStock != prev.IsInStock {
			payload, _ := json.Marshal(map[string]interface{}{
				"sku":         rec.SKU,
				"name":        rec.Name,
				"is_in_stock": rec.IsInStock,
			})
			events = append(events, &OutboxEvent{
				AggregateType: "catalog_product",
				AggregateID:   rec.SKU,
				EventType:     EventStockChanged,
				Payload:       payload,
			})
		}
	}
	return events
}

// CatalogStats are run-end catalog totals surfaced in the summary.
type CatalogStats struct {
	TotalProducts int64
	InStock       int64
	ByCategory    map[string]int64
	ByQuality     map[string]int64
	LastSyncedAt  *time.Time
}

// Stats reports current catalog totals.
func (r *ProductRepository) Stats(ctx context.Context) (*CatalogStats, error) {
	stats := &CatalogStats{
		ByCategory: make(map[string]int64),
		ByQuality:  make(map[string]int64),
	}

	err := r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE is_in_stock),
		       max(last_synced_at)
		FROM products`).Scan(&stats.TotalProducts, &stats.InStock, &stats.LastSyncedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog totals: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT category, count(*) FROM products GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to load category breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		stats.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	qualityRows, err := r.db.Query(ctx, `SELECT quality_tier, count(*) FROM products GROUP BY quality_tier`)
	if err != nil {
		return nil, fmt.Errorf("failed to load quality breakdown: %w", err)
	}
	defer qualityRows.Close()
	for qualityRows.Next() {
		var tier string
		var count int64
		if err := qualityRows.Scan(&tier, &count); err != nil {
			return nil, fmt.Errorf("failed to scan quality row: %w", err)
		}
		stats.ByQuality[tier] = count
	}
	if err := qualityRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return stats, nil
}
