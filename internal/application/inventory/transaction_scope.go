package inventory

import (
	"context"

	"github.com/consite/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory stores.
// When a function is executed within a transaction scope, all store operations
// are part of the same database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(stores TransactionalStores) error) error
}

// TransactionalStores provides access to the inventory stores within a
// transaction. All stores returned share the same underlying database
// transaction.
type TransactionalStores interface {
	// Items returns the item master store scoped to the current transaction
	Items() inventory.ItemStore
	// Batches returns the purchase batch store scoped to the current transaction
	Batches() inventory.BatchStore
	// Godowns returns the godown store scoped to the current transaction
	Godowns() inventory.GodownStore
	// GodownStocks returns the godown stock store scoped to the current transaction
	GodownStocks() inventory.GodownStockStore
	// Allocations returns the project allocation store scoped to the current transaction
	Allocations() inventory.AllocationStore
	// Transactions returns the stock transaction ledger store scoped to the current transaction
	Transactions() inventory.TransactionStore
	// Requests returns the allocation request store scoped to the current transaction
	Requests() inventory.RequestStore
	// Sequences returns the document number generator scoped to the current transaction
	Sequences() inventory.SequenceGenerator
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	items        inventory.ItemStore
	batches      inventory.BatchStore
	godowns      inventory.GodownStore
	godownStocks inventory.GodownStockStore
	allocations  inventory.AllocationStore
	transactions inventory.TransactionStore
	requests     inventory.RequestStore
	sequences    inventory.SequenceGenerator
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given stores.
func NewNoOpTransactionScope(
	items inventory.ItemStore,
	batches inventory.BatchStore,
	godowns inventory.GodownStore,
	godownStocks inventory.GodownStockStore,
	allocations inventory.AllocationStore,
	transactions inventory.TransactionStore,
	requests inventory.RequestStore,
	sequences inventory.SequenceGenerator,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		items:        items,
		batches:      batches,
		godowns:      godowns,
		godownStocks: godownStocks,
		allocations:  allocations,
		transactions: transactions,
		requests:     requests,
		sequences:    sequences,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(stores TransactionalStores) error) error {
	return fn(s)
}

// Items returns the item master store.
func (s *NoOpTransactionScope) Items() inventory.ItemStore { return s.items }

// Batches returns the purchase batch store.
func (s *NoOpTransactionScope) Batches() inventory.BatchStore { return s.batches }

// Godowns returns the godown store.
func (s *NoOpTransactionScope) Godowns() inventory.GodownStore { return s.godowns }

// GodownStocks returns the godown stock store.
func (s *NoOpTransactionScope) GodownStocks() inventory.GodownStockStore { return s.godownStocks }

// Allocations returns the project allocation store.
func (s *NoOpTransactionScope) Allocations() inventory.AllocationStore { return s.allocations }

// Transactions returns the stock transaction ledger store.
func (s *NoOpTransactionScope) Transactions() inventory.TransactionStore { return s.transactions }

// Requests returns the allocation request store.
func (s *NoOpTransactionScope) Requests() inventory.RequestStore { return s.requests }

// Sequences returns the document number generator.
func (s *NoOpTransactionScope) Sequences() inventory.SequenceGenerator { return s.sequences }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalStores = (*NoOpTransactionScope)(nil)
