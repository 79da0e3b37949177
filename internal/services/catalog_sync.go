package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vapeworks/storefront-search/internal/commerce"
	"github.com/vapeworks/storefront-search/internal/database"
)

// CatalogSync pulls the product catalog from the commerce backend into the
// local store. A run fetches everything, upserts row by row, prunes rows the
// backend no longer returns, and records itself in sync_runs.
type CatalogSync struct {
	db     *database.DB
	client *commerce.Client
}

// NewCatalogSync creates a new catalog sync service
func NewCatalogSync(db *database.DB, client *commerce.Client) *CatalogSync {
	return &CatalogSync{
		db:     db,
		client: client,
	}
}

// SyncResult summarises one completed run
type SyncResult struct {
	ProductCount int           `json:"product_count"`
	PrunedCount  int           `json:"pruned_count"`
	Duration     time.Duration `json:"-"`
	DurationMS   int64         `json:"duration_ms"`
}

// Run performs one full catalog sync
func (s *CatalogSync) Run(ctx context.Context) (*SyncResult, error) {
	if !s.client.Configured() {
		return nil, commerce.ErrNotConfigured
	}

	started := time.Now()

	runID, err := s.db.StartSyncRun(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, started)
	if finishErr := s.db.FinishSyncRun(ctx, runID, resultCount(result), resultPruned(result), err); finishErr != nil {
		log.Warn().Err(finishErr).Int("run_id", runID).Msg("failed to record sync run")
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("products", result.ProductCount).
		Int("pruned", result.PrunedCount).
		Dur("took", result.Duration).
		Msg("catalog sync finished")

	return result, nil
}

func (s *CatalogSync) run(ctx context.Context, started time.Time) (*SyncResult, error) {
	products, err := s.client.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.db.UpsertProducts(ctx, products, started); err != nil {
		return nil, err
	}

	pruned, err := s.db.PruneProducts(ctx, started)
	if err != nil {
		return nil, err
	}

	duration := time.Since(started)
	return &SyncResult{
		ProductCount: len(products),
		PrunedCount:  pruned,
		Duration:     duration,
		DurationMS:   duration.Milliseconds(),
	}, nil
}

// Start runs the sync on a ticker until ctx is cancelled. The first run
// fires immediately so a fresh deployment has a catalog to serve.
func (s *CatalogSync) Start(ctx context.Context, interval time.Duration) {
	if _, err := s.Run(ctx); err != nil {
		log.Error().Err(err).Msg("initial catalog sync failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				log.Error().Err(err).Msg("catalog sync failed")
			}
		}
	}
}

func resultCount(r *SyncResult) int {
	if r == nil {
		return 0
	}
	return r.ProductCount
}

func resultPruned(r *SyncResult) int {
	if r == nil {
		return 0
	}
	return r.PrunedCount
}
