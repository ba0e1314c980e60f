package inventory

import (
	"context"
	"time"

	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind identifies a numbered document series
type DocumentKind string

const (
	// DocumentKindTransaction numbers stock transactions (TXN-...)
	DocumentKindTransaction DocumentKind = "TXN"
	// DocumentKindBatch numbers purchase batches (BAT-...)
	DocumentKindBatch DocumentKind = "BAT"
	// DocumentKindPurchase numbers purchase documents (PUR-...)
	DocumentKindPurchase DocumentKind = "PUR"
	// DocumentKindRequest numbers allocation requests (REQ-...)
	DocumentKindRequest DocumentKind = "REQ"
)

// String returns the series prefix
func (k DocumentKind) String() string {
	return string(k)
}

// SequenceGenerator issues sequential document numbers per series
type SequenceGenerator interface {
	// Next returns the next number in the series, e.g. TXN-000042
	Next(ctx context.Context, kind DocumentKind) (string, error)
}

// ItemStore defines persistence for the item master
type ItemStore interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByCode finds an item by its unique code
	FindByCode(ctx context.Context, code string) (*Item, error)

	// FindByIDs finds multiple items by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Item, error)

	// FindAll finds items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)

	// Count counts items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// IncreaseStock atomically adds quantity to the item master total
	IncreaseStock(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error

	// DecreaseStock atomically subtracts quantity, guarded so the total
	// never goes below zero; returns shared.ErrConcurrencyConflict when
	// the guard rejects the update
	DecreaseStock(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error

	// ForceDecreaseStock subtracts quantity without the non-negative
	// guard; used only when the guarded path conflicts with ledger state
	ForceDecreaseStock(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error
}

// BatchStore defines persistence for purchase batches
type BatchStore interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseBatch, error)

	// FindByBatchNumber finds a batch by its unique batch number
	FindByBatchNumber(ctx context.Context, batchNumber string) (*PurchaseBatch, error)

	// FindOpenByItem finds batches with remaining quantity for an item,
	// ordered by purchase date then unit price (FIFO order)
	FindOpenByItem(ctx context.Context, itemID uuid.UUID) ([]PurchaseBatch, error)

	// FindByItem finds all batches for an item, open or exhausted
	FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]PurchaseBatch, error)

	// FindByGodown finds batches stored in a godown
	FindByGodown(ctx context.Context, godownID uuid.UUID, filter shared.Filter) ([]PurchaseBatch, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *PurchaseBatch) error

	// ConsumeQuantity atomically deducts from a batch's remaining
	// quantity, guarded so it cannot go negative; returns
	// shared.ErrConcurrencyConflict when the batch no longer holds
	// enough stock
	ConsumeQuantity(ctx context.Context, batchID uuid.UUID, quantity decimal.Decimal) error

	// RestoreQuantity atomically returns quantity to a batch, guarded so
	// remaining cannot exceed the purchased quantity
	RestoreQuantity(ctx context.Context, batchID uuid.UUID, quantity decimal.Decimal) error

	// SumRemainingByItem returns the total remaining quantity across open
	// batches for an item
	SumRemainingByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)
}

// GodownStore defines persistence for godowns
type GodownStore interface {
	// FindByID finds a godown by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Godown, error)

	// FindByCode finds a godown by its unique code
	FindByCode(ctx context.Context, code string) (*Godown, error)

	// FindAll finds godowns matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Godown, error)

	// Save creates or updates a godown
	Save(ctx context.Context, godown *Godown) error
}

// GodownStockStore defines persistence for per-godown stock rows
type GodownStockStore interface {
	// FindByGodownAndItem finds a stock row for a godown-item pair
	FindByGodownAndItem(ctx context.Context, godownID, itemID uuid.UUID) (*GodownStock, error)

	// FindByGodown finds all stock rows in a godown
	FindByGodown(ctx context.Context, godownID uuid.UUID, filter shared.Filter) ([]GodownStock, error)

	// FindByItem finds all stock rows for an item across godowns
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]GodownStock, error)

	// Save creates or updates a stock row
	Save(ctx context.Context, stock *GodownStock) error

	// AdjustQuantity atomically adds delta (which may be negative) to the
	// godown-item row, creating the row if it does not exist yet
	AdjustQuantity(ctx context.Context, godownID, itemID uuid.UUID, delta decimal.Decimal) error
}

// AllocationStore defines persistence for project allocations
type AllocationStore interface {
	// FindByID finds an allocation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProjectAllocation, error)

	// FindByProjectAndItem finds the accumulated allocation row for a
	// project-item pair
	FindByProjectAndItem(ctx context.Context, projectID, itemID uuid.UUID) (*ProjectAllocation, error)

	// FindByProject finds all allocations for a project
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]ProjectAllocation, error)

	// CountByProject counts allocations for a project
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)

	// Save creates or updates an allocation
	Save(ctx context.Context, allocation *ProjectAllocation) error
}

// TransactionStore defines persistence for the stock transaction ledger
type TransactionStore interface {
	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransaction, error)

	// FindByItem finds transactions for an item, newest first
	FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// FindBySource finds transactions belonging to a source document
	FindBySource(ctx context.Context, sourceType SourceType, sourceID string) ([]StockTransaction, error)

	// FindByDateRange finds transactions within a date range
	FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]StockTransaction, error)

	// CountByItem counts transactions for an item
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)

	// Save appends a transaction line; lines are never updated
	Save(ctx context.Context, transaction *StockTransaction) error

	// SaveAll appends multiple transaction lines
	SaveAll(ctx context.Context, transactions []*StockTransaction) error
}

// RequestStore defines persistence for allocation requests
type RequestStore interface {
	// FindByID finds a request with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AllocationRequest, error)

	// FindByRequestNumber finds a request by its unique number
	FindByRequestNumber(ctx context.Context, requestNumber string) (*AllocationRequest, error)

	// FindByStatus finds requests in a given status
	FindByStatus(ctx context.Context, status RequestStatus, filter shared.Filter) ([]AllocationRequest, error)

	// FindByProject finds requests filed for a project
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]AllocationRequest, error)

	// CountByStatus counts requests in a given status
	CountByStatus(ctx context.Context, status RequestStatus) (int64, error)

	// Save creates or updates a request and its items
	Save(ctx context.Context, request *AllocationRequest) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, request *AllocationRequest) error
}
