package inventory

import (
	"fmt"

	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoStockAvailable is returned when an item has no open batches at all
	ErrNoStockAvailable = shared.NewDomainError("NO_STOCK_AVAILABLE", "No stock available for item")
	// ErrBatchExhausted is returned when a batch cannot cover the requested consumption
	ErrBatchExhausted = shared.NewDomainError("BATCH_EXHAUSTED", "Batch has no remaining quantity")
	// ErrEmptyAllocation is returned when an allocation carries no items
	ErrEmptyAllocation = shared.NewDomainError("EMPTY_ALLOCATION", "Allocation must contain at least one item")
)

// InsufficientStockError carries the shortfall detail for a partially coverable item
type InsufficientStockError struct {
	ItemID    uuid.UUID
	Requested decimal.Decimal
	Available decimal.Decimal
}

// NewInsufficientStockError creates an insufficient stock error
func NewInsufficientStockError(itemID uuid.UUID, requested, available decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		ItemID:    itemID,
		Requested: requested,
		Available: available,
	}
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: requested %s, available %s",
		e.ItemID, e.Requested.String(), e.Available.String())
}

// Shortage returns how much of the request cannot be covered
func (e *InsufficientStockError) Shortage() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}
