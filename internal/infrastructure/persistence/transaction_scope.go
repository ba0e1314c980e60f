package persistence

import (
	"context"

	appinv "github.com/consite/backend/internal/application/inventory"
	"github.com/consite/backend/internal/domain/inventory"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple store operations.
type GormTransactionScope struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, logger *zap.Logger) *GormTransactionScope {
	return &GormTransactionScope{db: db, logger: logger}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(stores appinv.TransactionalStores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalStores{tx: tx, logger: s.logger})
	})
}

// gormTransactionalStores provides access to all stores within a transaction.
type gormTransactionalStores struct {
	tx     *gorm.DB
	logger *zap.Logger
}

// Items returns the item master store scoped to the current transaction.
func (s *gormTransactionalStores) Items() inventory.ItemStore {
	return NewGormItemStore(s.tx)
}

// Batches returns the purchase batch store scoped to the current transaction.
func (s *gormTransactionalStores) Batches() inventory.BatchStore {
	return NewGormBatchStore(s.tx)
}

// Godowns returns the godown store scoped to the current transaction.
func (s *gormTransactionalStores) Godowns() inventory.GodownStore {
	return NewGormGodownStore(s.tx)
}

// GodownStocks returns the godown stock store scoped to the current transaction.
func (s *gormTransactionalStores) GodownStocks() inventory.GodownStockStore {
	return NewGormGodownStockStore(s.tx)
}

// Allocations returns the project allocation store scoped to the current transaction.
func (s *gormTransactionalStores) Allocations() inventory.AllocationStore {
	return NewGormAllocationStore(s.tx)
}

// Transactions returns the stock transaction ledger store scoped to the current transaction.
func (s *gormTransactionalStores) Transactions() inventory.TransactionStore {
	return NewGormTransactionStore(s.tx)
}

// Requests returns the allocation request store scoped to the current transaction.
func (s *gormTransactionalStores) Requests() inventory.RequestStore {
	return NewGormRequestStore(s.tx)
}

// Sequences returns the document number generator scoped to the current transaction.
func (s *gormTransactionalStores) Sequences() inventory.SequenceGenerator {
	return NewGormSequenceGenerator(s.tx, s.logger)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalStores implements TransactionalStores
var _ appinv.TransactionalStores = (*gormTransactionalStores)(nil)
