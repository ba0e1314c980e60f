package inventory

import (
	"time"

	"github.com/consite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item is the item-master aggregate root. TotalStock is the single authoritative
// on-hand quantity for the item across all godowns and is the availability gate
// callers see before requesting an allocation.
type Item struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Unit        string          `gorm:"type:varchar(30);not null"` // unit of measure (bag, kg, nos, ...)
	Category    string          `gorm:"type:varchar(100);index"`
	Subcategory string          `gorm:"type:varchar(100)"`
	Company     string          `gorm:"type:varchar(100)"` // brand/manufacturer
	TotalStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new item master record with zero stock
func NewItem(code, name, unit string) (*Item, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Item code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Item unit cannot be empty")
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Unit:              unit,
		TotalStock:        decimal.Zero,
	}, nil
}

// Receive increases the master stock level (purchase recording)
func (i *Item) Receive(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.TotalStock = i.TotalStock.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Deduct decreases the master stock level. The level must never go negative;
// an allocation that would drive it negative has to fail before any ledger write.
func (i *Item) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.TotalStock.LessThan(quantity) {
		return NewInsufficientStockError(i.ID, quantity, i.TotalStock)
	}
	i.TotalStock = i.TotalStock.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// CanFulfill returns true if the master stock level covers the requested quantity
func (i *Item) CanFulfill(quantity decimal.Decimal) bool {
	return i.TotalStock.GreaterThanOrEqual(quantity)
}

// HasStock returns true if there is any stock on hand
func (i *Item) HasStock() bool {
	return i.TotalStock.GreaterThan(decimal.Zero)
}
