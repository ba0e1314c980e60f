package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormItemStore implements inventory.ItemStore using GORM
type GormItemStore struct {
	db *gorm.DB
}

// NewGormItemStore creates a new GormItemStore
func NewGormItemStore(db *gorm.DB) *GormItemStore {
	return &GormItemStore{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemStore) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByCode finds an item by its unique code
func (r *GormItemStore) FindByCode(ctx context.Context, code string) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).First(&item, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs finds multiple items by their IDs
func (r *GormItemStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.Item, error) {
	if len(ids) == 0 {
		return []inventory.Item{}, nil
	}
	var items []inventory.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll finds items matching the filter
func (r *GormItemStore) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Item, error) {
	var items []inventory.Item
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Item{}), filter)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count counts items matching the filter
func (r *GormItemStore) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&inventory.Item{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an item
func (r *GormItemStore) Save(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// IncreaseStock atomically adds quantity to the item master total
func (r *GormItemStore) IncreaseStock(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&inventory.Item{}).
		Where("id = ?", itemID).
		UpdateColumn("total_stock", gorm.Expr("total_stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecreaseStock atomically subtracts quantity, guarded so the master total
// can never go below zero. A rejected guard means the total no longer covers
// the quantity the batch ledger already gave out.
func (r *GormItemStore) DecreaseStock(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&inventory.Item{}).
		Where("id = ? AND total_stock >= ?", itemID, quantity).
		UpdateColumn("total_stock", gorm.Expr("total_stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ForceDecreaseStock subtracts quantity without the non-negative guard
func (r *GormItemStore) ForceDecreaseStock(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&inventory.Item{}).
		Where("id = ?", itemID).
		UpdateColumn("total_stock", gorm.Expr("total_stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormItemStore) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern)
	}
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}
	if hasStock, ok := filter.Filters["has_stock"]; ok && hasStock == true {
		query = query.Where("total_stock > 0")
	}
	return query
}

func (r *GormItemStore) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ItemSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	return query
}

// Ensure GormItemStore implements ItemStore
var _ inventory.ItemStore = (*GormItemStore)(nil)
