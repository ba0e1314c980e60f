package inventory

import (
	"time"

	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionDirection represents the direction of a stock movement
type TransactionDirection string

const (
	// DirectionInward represents stock entering a godown (purchase receipt)
	DirectionInward TransactionDirection = "INWARD"
	// DirectionOutward represents stock leaving a godown (project allocation)
	DirectionOutward TransactionDirection = "OUTWARD"
)

// IsValid returns true if the direction is valid
func (d TransactionDirection) IsValid() bool {
	return d == DirectionInward || d == DirectionOutward
}

// String returns the string representation
func (d TransactionDirection) String() string {
	return string(d)
}

// SourceType represents the source document type for a stock transaction
type SourceType string

const (
	// SourceTypePurchase is a recorded purchase
	SourceTypePurchase SourceType = "PURCHASE"
	// SourceTypeProjectAllocation is a direct allocation to a project
	SourceTypeProjectAllocation SourceType = "PROJECT_ALLOCATION"
	// SourceTypeAllocationRequest is an allocation executed by approving a request
	SourceTypeAllocationRequest SourceType = "ALLOCATION_REQUEST"
)

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypePurchase, SourceTypeProjectAllocation, SourceTypeAllocationRequest:
		return true
	}
	return false
}

// String returns the string representation
func (s SourceType) String() string {
	return string(s)
}

// StockTransaction is an immutable audit line: one per (item, batch) pair
// within a movement. Corrections are made with new lines, never by editing.
type StockTransaction struct {
	shared.BaseEntity
	TransactionNumber string               `gorm:"type:varchar(50);not null;index"`
	Direction         TransactionDirection `gorm:"type:varchar(10);not null;index"`
	ItemID            uuid.UUID            `gorm:"type:uuid;not null;index"`
	BatchID           *uuid.UUID           `gorm:"type:uuid;index"`
	GodownID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	Quantity          decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // always positive, direction gives the sign
	UnitPrice         decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	TotalValue        decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	SourceType        SourceType           `gorm:"type:varchar(30);not null;index:idx_stock_tx_source"`
	SourceID          string               `gorm:"type:varchar(50);not null;index:idx_stock_tx_source"`
	Reference         string               `gorm:"type:varchar(255)"` // ties the line back to the request/project
	OperatorID        *uuid.UUID           `gorm:"type:uuid"`
	TransactionDate   time.Time            `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction creates a new stock transaction line
func NewStockTransaction(
	transactionNumber string,
	direction TransactionDirection,
	itemID, godownID uuid.UUID,
	quantity, unitPrice decimal.Decimal,
	sourceType SourceType,
	sourceID string,
) (*StockTransaction, error) {
	if transactionNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_NUMBER", "Transaction number cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Invalid transaction direction")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if godownID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GODOWN", "Godown ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if sourceID == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE_ID", "Source ID cannot be empty")
	}

	return &StockTransaction{
		BaseEntity:        shared.NewBaseEntity(),
		TransactionNumber: transactionNumber,
		Direction:         direction,
		ItemID:            itemID,
		GodownID:          godownID,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		TotalValue:        quantity.Mul(unitPrice),
		SourceType:        sourceType,
		SourceID:          sourceID,
		TransactionDate:   time.Now(),
	}, nil
}

// WithBatchID ties the line to the batch it consumed or created
func (t *StockTransaction) WithBatchID(batchID uuid.UUID) *StockTransaction {
	t.BatchID = &batchID
	return t
}

// WithReference sets the human-readable reference
func (t *StockTransaction) WithReference(reference string) *StockTransaction {
	t.Reference = reference
	return t
}

// WithOperatorID records who performed the movement
func (t *StockTransaction) WithOperatorID(operatorID uuid.UUID) *StockTransaction {
	t.OperatorID = &operatorID
	return t
}

// SignedQuantity returns the quantity with sign based on direction
func (t *StockTransaction) SignedQuantity() decimal.Decimal {
	if t.Direction == DirectionOutward {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
