package inventory

import (
	"time"

	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Godown is a storage location (site store or central yard)
type Godown struct {
	shared.BaseEntity
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(255);not null"`
	Location string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Godown) TableName() string {
	return "godowns"
}

// NewGodown creates a new godown
func NewGodown(code, name, location string) (*Godown, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Godown code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Godown name cannot be empty")
	}
	return &Godown{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Location:   location,
	}, nil
}

// GodownStock is the cached running total of on-hand quantity for one item at
// one godown. It is updated incrementally on every purchase and allocation, not
// by re-summing batches, and must eventually equal the sum of remaining
// quantities of that item's batches at that godown.
//
// Rows are created lazily. The first outbound movement against a (godown, item)
// pair with no prior stock row creates a negative-offset row instead of
// failing; the offset is corrected when the inbound side is recorded.
type GodownStock struct {
	shared.BaseAggregateRoot
	GodownID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_godown_stock_pair,priority:1"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_godown_stock_pair,priority:2"`
	Quantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (GodownStock) TableName() string {
	return "godown_stocks"
}

// NewGodownStock creates a stock row for a (godown, item) pair.
// The initial quantity may be negative when created as a compensating offset.
func NewGodownStock(godownID, itemID uuid.UUID, quantity decimal.Decimal) (*GodownStock, error) {
	if godownID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GODOWN", "Godown ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	return &GodownStock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		GodownID:          godownID,
		ItemID:            itemID,
		Quantity:          quantity,
	}, nil
}

// Increase adds quantity to the godown stock
func (s *GodownStock) Increase(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	s.Quantity = s.Quantity.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Decrease removes quantity from the godown stock. The cached total is allowed
// to dip negative transiently (lazy row creation); batch-level guards prevent
// real over-consumption.
func (s *GodownStock) Decrease(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	s.Quantity = s.Quantity.Sub(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
