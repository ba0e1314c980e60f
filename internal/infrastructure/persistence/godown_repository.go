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

// GormGodownStore implements inventory.GodownStore using GORM
type GormGodownStore struct {
	db *gorm.DB
}

// NewGormGodownStore creates a new GormGodownStore
func NewGormGodownStore(db *gorm.DB) *GormGodownStore {
	return &GormGodownStore{db: db}
}

// FindByID finds a godown by its ID
func (r *GormGodownStore) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Godown, error) {
	var godown inventory.Godown
	if err := r.db.WithContext(ctx).First(&godown, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &godown, nil
}

// FindByCode finds a godown by its unique code
func (r *GormGodownStore) FindByCode(ctx context.Context, code string) (*inventory.Godown, error) {
	var godown inventory.Godown
	if err := r.db.WithContext(ctx).First(&godown, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &godown, nil
}

// FindAll finds godowns matching the filter
func (r *GormGodownStore) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Godown, error) {
	var godowns []inventory.Godown
	query := r.db.WithContext(ctx).Model(&inventory.Godown{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ? OR LOWER(location) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, GodownSortFields, "code")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&godowns).Error; err != nil {
		return nil, err
	}
	return godowns, nil
}

// Save creates or updates a godown
func (r *GormGodownStore) Save(ctx context.Context, godown *inventory.Godown) error {
	return r.db.WithContext(ctx).Save(godown).Error
}

// GormGodownStockStore implements inventory.GodownStockStore using GORM
type GormGodownStockStore struct {
	db *gorm.DB
}

// NewGormGodownStockStore creates a new GormGodownStockStore
func NewGormGodownStockStore(db *gorm.DB) *GormGodownStockStore {
	return &GormGodownStockStore{db: db}
}

// FindByGodownAndItem finds a stock row for a godown-item pair
func (r *GormGodownStockStore) FindByGodownAndItem(ctx context.Context, godownID, itemID uuid.UUID) (*inventory.GodownStock, error) {
	var stock inventory.GodownStock
	if err := r.db.WithContext(ctx).
		Where("godown_id = ? AND item_id = ?", godownID, itemID).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByGodown finds all stock rows in a godown
func (r *GormGodownStockStore) FindByGodown(ctx context.Context, godownID uuid.UUID, filter shared.Filter) ([]inventory.GodownStock, error) {
	var stocks []inventory.GodownStock
	query := r.db.WithContext(ctx).Model(&inventory.GodownStock{}).Where("godown_id = ?", godownID)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Order("item_id ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindByItem finds all stock rows for an item across godowns
func (r *GormGodownStockStore) FindByItem(ctx context.Context, itemID uuid.UUID) ([]inventory.GodownStock, error) {
	var stocks []inventory.GodownStock
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("godown_id ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Save creates or updates a stock row
func (r *GormGodownStockStore) Save(ctx context.Context, stock *inventory.GodownStock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

// AdjustQuantity atomically adds delta (which may be negative) to the
// godown-item row. A missing row is created lazily holding just the delta,
// so the first outbound movement leaves a negative-offset row instead of
// failing; the offset corrects itself when the inbound side lands.
func (r *GormGodownStockStore) AdjustQuantity(ctx context.Context, godownID, itemID uuid.UUID, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&inventory.GodownStock{}).
		Where("godown_id = ? AND item_id = ?", godownID, itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	stock, err := inventory.NewGodownStock(godownID, itemID, delta)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(stock).Error; err != nil {
		// another transaction created the row first; retry as an update
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			retry := r.db.WithContext(ctx).Model(&inventory.GodownStock{}).
				Where("godown_id = ? AND item_id = ?", godownID, itemID).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
			if retry.Error != nil {
				return retry.Error
			}
			if retry.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}
			return nil
		}
		return err
	}
	return nil
}

// Ensure implementations
var (
	_ inventory.GodownStore      = (*GormGodownStore)(nil)
	_ inventory.GodownStockStore = (*GormGodownStockStore)(nil)
)
