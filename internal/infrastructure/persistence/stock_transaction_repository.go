package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionStore implements inventory.TransactionStore using GORM.
// The ledger is append-only: there are no update or delete methods.
type GormTransactionStore struct {
	db *gorm.DB
}

// NewGormTransactionStore creates a new GormTransactionStore
func NewGormTransactionStore(db *gorm.DB) *GormTransactionStore {
	return &GormTransactionStore{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionStore) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransaction, error) {
	var txn inventory.StockTransaction
	if err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindByItem finds transactions for an item, newest first
func (r *GormTransactionStore) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var txns []inventory.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).Where("item_id = ?", itemID),
		filter,
	)
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindBySource finds transactions belonging to a source document
func (r *GormTransactionStore) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID string) ([]inventory.StockTransaction, error) {
	var txns []inventory.StockTransaction
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindByDateRange finds transactions within a date range
func (r *GormTransactionStore) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var txns []inventory.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).
			Where("transaction_date >= ? AND transaction_date <= ?", from, to),
		filter,
	)
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// CountByItem counts transactions for an item
func (r *GormTransactionStore) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).
		Where("item_id = ?", itemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save appends a transaction line
func (r *GormTransactionStore) Save(ctx context.Context, transaction *inventory.StockTransaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// SaveAll appends multiple transaction lines
func (r *GormTransactionStore) SaveAll(ctx context.Context, transactions []*inventory.StockTransaction) error {
	if len(transactions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(transactions).Error
}

func (r *GormTransactionStore) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if direction, ok := filter.Filters["direction"]; ok {
		query = query.Where("direction = ?", direction)
	}
	if sourceType, ok := filter.Filters["source_type"]; ok {
		query = query.Where("source_type = ?", sourceType)
	}
	if godownID, ok := filter.Filters["godown_id"]; ok {
		query = query.Where("godown_id = ?", godownID)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "transaction_date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	return query
}

// Ensure GormTransactionStore implements TransactionStore
var _ inventory.TransactionStore = (*GormTransactionStore)(nil)
