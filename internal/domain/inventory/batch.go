package inventory

import (
	"time"

	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseBatch is the authoritative record of one purchased lot of one item at
// one godown. PurchasedQty and UnitPrice are fixed at creation; RemainingQty
// decreases only through allocation. Exhausted batches are never deleted - they
// persist with RemainingQty = 0 for audit history.
//
// Item metadata (name, unit, category, company, supplier) is denormalized onto
// the batch at purchase time so allocation records and transaction lines can be
// rendered without joins.
type PurchaseBatch struct {
	shared.BaseEntity
	BatchNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_batch_item_date"`
	GodownID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseNumber string          `gorm:"type:varchar(50);not null;index"`
	SupplierName   string          `gorm:"type:varchar(255)"`
	ItemName       string          `gorm:"type:varchar(255);not null"`
	Unit           string          `gorm:"type:varchar(30);not null"`
	Category       string          `gorm:"type:varchar(100)"`
	Subcategory    string          `gorm:"type:varchar(100)"`
	Company        string          `gorm:"type:varchar(100)"`
	PurchaseDate   time.Time       `gorm:"type:date;not null;index:idx_batch_item_date"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PurchasedQty   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQty   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseBatch) TableName() string {
	return "purchase_batches"
}

// NewPurchaseBatch creates a new batch from a recorded purchase.
// RemainingQty starts equal to the purchased quantity.
func NewPurchaseBatch(
	batchNumber string,
	itemID, godownID uuid.UUID,
	purchaseNumber string,
	purchaseDate time.Time,
	quantity, unitPrice decimal.Decimal,
) (*PurchaseBatch, error) {
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if godownID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GODOWN", "Godown ID cannot be empty")
	}
	if purchaseNumber == "" {
		return nil, shared.NewDomainError("INVALID_PURCHASE_NUMBER", "Purchase number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Purchased quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &PurchaseBatch{
		BaseEntity:     shared.NewBaseEntity(),
		BatchNumber:    batchNumber,
		ItemID:         itemID,
		GodownID:       godownID,
		PurchaseNumber: purchaseNumber,
		PurchaseDate:   purchaseDate,
		UnitPrice:      unitPrice,
		PurchasedQty:   quantity,
		RemainingQty:   quantity,
	}, nil
}

// Consume reduces the remaining quantity. Over-consumption is a hard error:
// the FIFO planner only ever asks for min(remaining, still_needed).
func (b *PurchaseBatch) Consume(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Consume quantity must be positive")
	}
	if quantity.GreaterThan(b.RemainingQty) {
		return shared.NewDomainError("BATCH_OVERDRAWN", "Cannot consume more than the batch remaining quantity")
	}
	b.RemainingQty = b.RemainingQty.Sub(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// Restore puts quantity back into the batch (compensation after a failed item).
// The remaining quantity can never exceed the original purchased quantity.
func (b *PurchaseBatch) Restore(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restore quantity must be positive")
	}
	if b.RemainingQty.Add(quantity).GreaterThan(b.PurchasedQty) {
		return shared.NewDomainError("BATCH_OVERFILLED", "Restore would exceed the purchased quantity")
	}
	b.RemainingQty = b.RemainingQty.Add(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// IsExhausted returns true when the batch has been fully consumed
func (b *PurchaseBatch) IsExhausted() bool {
	return b.RemainingQty.LessThanOrEqual(decimal.Zero)
}

// HasStock returns true if the batch still has remaining quantity
func (b *PurchaseBatch) HasStock() bool {
	return b.RemainingQty.GreaterThan(decimal.Zero)
}

// RemainingValue returns the value of the unconsumed quantity
func (b *PurchaseBatch) RemainingValue() decimal.Decimal {
	return b.RemainingQty.Mul(b.UnitPrice)
}
