package inventory

import (
	"context"
	"time"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AvailabilityCache caches per-item availability snapshots. Cache failures
// are never fatal: a miss or error just falls through to the stores.
type AvailabilityCache interface {
	// Get returns the cached snapshot, or (nil, nil) on a miss
	Get(ctx context.Context, itemID uuid.UUID) (*ItemAvailabilityResponse, error)
	// Set stores a snapshot
	Set(ctx context.Context, snapshot *ItemAvailabilityResponse) error
	// Invalidate drops the snapshot for an item
	Invalidate(ctx context.Context, itemID uuid.UUID) error
}

// AvailabilityService answers "how much of this item can be allocated right
// now". It reports both the item-master total and the batch-ledger sum so
// callers can spot divergence between the two.
type AvailabilityService struct {
	scope  TransactionScope
	cache  AvailabilityCache
	logger *zap.Logger
}

// NewAvailabilityService creates a new AvailabilityService. The cache is
// optional; pass nil to always read from the stores.
func NewAvailabilityService(scope TransactionScope, cache AvailabilityCache, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{scope: scope, cache: cache, logger: logger}
}

// GetAvailability returns the current availability of one item
func (s *AvailabilityService) GetAvailability(ctx context.Context, itemID uuid.UUID) (*ItemAvailabilityResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, itemID)
		if err != nil {
			s.logger.Warn("availability cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	var response *ItemAvailabilityResponse
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		item, err := stores.Items().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		batches, err := stores.Batches().FindOpenByItem(ctx, itemID)
		if err != nil {
			return err
		}

		batchStock := decimalSumRemaining(batches)
		response = &ItemAvailabilityResponse{
			ItemID:      item.ID,
			ItemCode:    item.Code,
			ItemName:    item.Name,
			Unit:        item.Unit,
			TotalStock:  item.TotalStock,
			BatchStock:  batchStock,
			OpenBatches: len(batches),
			RetrievedAt: time.Now(),
		}
		if len(batches) > 0 {
			oldest := batches[0].PurchaseDate
			for _, batch := range batches[1:] {
				if batch.PurchaseDate.Before(oldest) {
					oldest = batch.PurchaseDate
				}
			}
			response.OldestBatch = &oldest
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, response); err != nil {
			s.logger.Warn("availability cache write failed", zap.Error(err))
		}
	}
	return response, nil
}

// InvalidateAvailability drops the cached snapshot after stock movements
func (s *AvailabilityService) InvalidateAvailability(ctx context.Context, itemIDs ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, itemID := range itemIDs {
		if err := s.cache.Invalidate(ctx, itemID); err != nil {
			s.logger.Warn("availability cache invalidation failed",
				zap.String("item_id", itemID.String()), zap.Error(err))
		}
	}
}

func decimalSumRemaining(batches []inventory.PurchaseBatch) decimal.Decimal {
	total := decimal.Zero
	for _, batch := range batches {
		total = total.Add(batch.RemainingQty)
	}
	return total
}
