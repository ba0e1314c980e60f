package persistence

import (
	"context"
	"errors"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormBatchStore implements inventory.BatchStore using GORM
type GormBatchStore struct {
	db *gorm.DB
}

// NewGormBatchStore creates a new GormBatchStore
func NewGormBatchStore(db *gorm.DB) *GormBatchStore {
	return &GormBatchStore{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchStore) FindByID(ctx context.Context, id uuid.UUID) (*inventory.PurchaseBatch, error) {
	var batch inventory.PurchaseBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByBatchNumber finds a batch by its unique batch number
func (r *GormBatchStore) FindByBatchNumber(ctx context.Context, batchNumber string) (*inventory.PurchaseBatch, error) {
	var batch inventory.PurchaseBatch
	if err := r.db.WithContext(ctx).First(&batch, "batch_number = ?", batchNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindOpenByItem finds batches with remaining quantity for an item in FIFO
// order: purchase date first, cheaper batch on a same-day tie.
func (r *GormBatchStore) FindOpenByItem(ctx context.Context, itemID uuid.UUID) ([]inventory.PurchaseBatch, error) {
	var batches []inventory.PurchaseBatch
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND remaining_qty > 0", itemID).
		Order("purchase_date ASC, unit_price ASC, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByItem finds all batches for an item, open or exhausted
func (r *GormBatchStore) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]inventory.PurchaseBatch, error) {
	var batches []inventory.PurchaseBatch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.PurchaseBatch{}).Where("item_id = ?", itemID),
		filter,
	)
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByGodown finds batches stored in a godown
func (r *GormBatchStore) FindByGodown(ctx context.Context, godownID uuid.UUID, filter shared.Filter) ([]inventory.PurchaseBatch, error) {
	var batches []inventory.PurchaseBatch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.PurchaseBatch{}).Where("godown_id = ?", godownID),
		filter,
	)
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save creates or updates a batch
func (r *GormBatchStore) Save(ctx context.Context, batch *inventory.PurchaseBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// ConsumeQuantity atomically deducts from a batch's remaining quantity.
// The guard rejects the update when the batch no longer holds enough stock,
// which surfaces concurrent consumption as shared.ErrConcurrencyConflict.
func (r *GormBatchStore) ConsumeQuantity(ctx context.Context, batchID uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&inventory.PurchaseBatch{}).
		Where("id = ? AND remaining_qty >= ?", batchID, quantity).
		UpdateColumn("remaining_qty", gorm.Expr("remaining_qty - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// RestoreQuantity atomically returns quantity to a batch, guarded so
// remaining cannot exceed the purchased quantity
func (r *GormBatchStore) RestoreQuantity(ctx context.Context, batchID uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&inventory.PurchaseBatch{}).
		Where("id = ? AND remaining_qty + ? <= purchased_qty", batchID, quantity).
		UpdateColumn("remaining_qty", gorm.Expr("remaining_qty + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SumRemainingByItem returns the total remaining quantity across open
// batches for an item
func (r *GormBatchStore) SumRemainingByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&inventory.PurchaseBatch{}).
		Select("SUM(remaining_qty)").
		Where("item_id = ? AND remaining_qty > 0", itemID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *GormBatchStore) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if openOnly, ok := filter.Filters["open_only"]; ok && openOnly == true {
		query = query.Where("remaining_qty > 0")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, BatchSortFields, "purchase_date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	return query
}

// Ensure GormBatchStore implements BatchStore
var _ inventory.BatchStore = (*GormBatchStore)(nil)
