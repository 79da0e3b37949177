package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/vapeworks/storefront-search/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// UpsertProduct inserts or refreshes one product row. syncedAt stamps the
// run the row was seen in so stale rows can be pruned afterwards.
func (db *DB) UpsertProduct(ctx context.Context, p *models.Product, syncedAt time.Time) error {
	variants, err := json.Marshal(p.Variants)
	if err != nil {
		return fmt.Errorf("failed to encode variants for %s: %w", p.ID, err)
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO products (id, handle, title, vendor, product_type, tags,
			price_amount, price_currency, attributes, variants, synced_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			handle = EXCLUDED.handle,
			title = EXCLUDED.title,
			vendor = EXCLUDED.vendor,
			product_type = EXCLUDED.product_type,
			tags = EXCLUDED.tags,
			price_amount = EXCLUDED.price_amount,
			price_currency = EXCLUDED.price_currency,
			attributes = EXCLUDED.attributes,
			variants = EXCLUDED.variants,
			synced_at = EXCLUDED.synced_at,
			updated_at = NOW()
	`, p.ID, p.Handle, p.Title, p.Vendor, p.ProductType, tags,
		p.Price.Amount, p.Price.CurrencyCode, p.Attributes, variants, syncedAt)

	return err
}

// UpsertProducts upserts a batch, stopping at the first failure.
func (db *DB) UpsertProducts(ctx context.Context, products []*models.Product, syncedAt time.Time) error {
	for _, p := range products {
		if err := db.UpsertProduct(ctx, p, syncedAt); err != nil {
			return err
		}
	}
	return nil
}

// PruneProducts deletes rows not seen since the given time and returns how
// many went away. Run after a full sync to drop delisted products.
func (db *DB) PruneProducts(ctx context.Context, seenSince time.Time) (int, error) {
	result, err := db.Pool.Exec(ctx, `DELETE FROM products WHERE synced_at < $1`, seenSince)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

const productColumns = `id, handle, title, vendor, product_type, tags,
	price_amount, price_currency, attributes, variants, synced_at`

// ListProducts returns a paginated product list with optional keyword,
// vendor and type narrowing
func (db *DB) ListProducts(ctx context.Context, params *models.ProductListParams) ([]*models.Product, int, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(title ILIKE $%d OR vendor ILIKE $%d OR product_type ILIKE $%d)",
			argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	if params.Vendor != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(vendor) = LOWER($%d)", argIndex))
		args = append(args, params.Vendor)
		argIndex++
	}

	if params.Type != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(product_type) = LOWER($%d)", argIndex))
		args = append(args, params.Type)
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Get total count
	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	if err := db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY title ASC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argIndex, argIndex+1)

	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, total, nil
}

// GetProductByHandle retrieves a single product by its URL handle
func (db *DB) GetProductByHandle(ctx context.Context, handle string) (*models.Product, error) {
	row := db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM products WHERE handle = $1
	`, productColumns), handle)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetCatalogStats returns aggregate statistics for the synced catalog
func (db *DB) GetCatalogStats(ctx context.Context) (*models.CatalogStats, error) {
	stats := &models.CatalogStats{}

	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT vendor) FILTER (WHERE vendor <> ''),
			COUNT(DISTINCT product_type) FILTER (WHERE product_type <> ''),
			COUNT(*) FILTER (WHERE attributes <> ''),
			MAX(synced_at)
		FROM products
	`).Scan(&stats.TotalProducts, &stats.Vendors, &stats.ProductTypes,
		&stats.WithAttributes, &stats.LastSyncedAt)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// StartSyncRun records the beginning of a catalog import and returns its id
func (db *DB) StartSyncRun(ctx context.Context) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO sync_runs (started_at, status) VALUES (NOW(), 'running') RETURNING id
	`).Scan(&id)
	return id, err
}

// FinishSyncRun closes out a sync_runs row
func (db *DB) FinishSyncRun(ctx context.Context, id, productCount, prunedCount int, runErr error) error {
	status := "succeeded"
	var errText *string
	if runErr != nil {
		status = "failed"
		msg := runErr.Error()
		errText = &msg
	}

	_, err := db.Pool.Exec(ctx, `
		UPDATE sync_runs
		SET finished_at = NOW(), product_count = $2, pruned_count = $3, status = $4, error = $5
		WHERE id = $1
	`, id, productCount, prunedCount, status, errText)
	return err
}

// LastSyncRun returns the most recent sync run, or nil when none exist
func (db *DB) LastSyncRun(ctx context.Context) (*models.SyncRun, error) {
	run := &models.SyncRun{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, started_at, finished_at, product_count, pruned_count, status, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.ProductCount,
		&run.PrunedCount, &run.Status, &run.Error)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return run, nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	var variants []byte

	err := row.Scan(
		&p.ID, &p.Handle, &p.Title, &p.Vendor, &p.ProductType, &p.Tags,
		&p.Price.Amount, &p.Price.CurrencyCode, &p.Attributes, &variants, &p.SyncedAt,
	)
	if err != nil {
		return nil, err
	}

	if p.Tags == nil {
		p.Tags = []string{}
	}
	if len(variants) > 0 {
		// Variants that fail to decode are treated as absent, same contract
		// as the attribute blobs.
		_ = json.Unmarshal(variants, &p.Variants)
	}

	return p, nil
}
