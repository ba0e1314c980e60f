package inventory

import (
	"time"

	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectAllocation is the durable record of how much of one item has been
// committed to one project. There is exactly one row per (project, item) pair:
// repeated allocations accumulate quantity and cost on the existing row, never
// create a second one. UnitPrice tracks the weighted-average cost across every
// FIFO consumption event that contributed to the row.
type ProjectAllocation struct {
	shared.BaseAggregateRoot
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_alloc_project_item,priority:1"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_alloc_project_item,priority:2"`
	ItemName    string          `gorm:"type:varchar(255);not null"`
	Unit        string          `gorm:"type:varchar(30);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // weighted average: TotalCost / Quantity
	BatchNumber string          `gorm:"type:varchar(50)"`            // reference batch of the latest consumption
	Notes       string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProjectAllocation) TableName() string {
	return "project_allocations"
}

// NewProjectAllocation creates the first allocation record for a (project, item) pair
func NewProjectAllocation(
	projectID, itemID uuid.UUID,
	itemName, unit string,
	quantity, totalCost decimal.Decimal,
	batchNumber, notes string,
) (*ProjectAllocation, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Allocated quantity must be positive")
	}
	if totalCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Total cost cannot be negative")
	}

	a := &ProjectAllocation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
		ItemID:            itemID,
		ItemName:          itemName,
		Unit:              unit,
		Quantity:          quantity,
		TotalCost:         totalCost,
		BatchNumber:       batchNumber,
		Notes:             notes,
	}
	a.recalculateUnitPrice()
	return a, nil
}

// Accumulate merges a further allocation of the same (project, item) pair into
// this record: quantities and monetary totals add, the weighted unit price is
// recomputed, and the reference batch is replaced by the newest one.
func (a *ProjectAllocation) Accumulate(quantity, totalCost decimal.Decimal, batchNumber, notes string) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Allocated quantity must be positive")
	}
	if totalCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Total cost cannot be negative")
	}

	a.Quantity = a.Quantity.Add(quantity)
	a.TotalCost = a.TotalCost.Add(totalCost)
	a.recalculateUnitPrice()
	if batchNumber != "" {
		a.BatchNumber = batchNumber
	}
	if notes != "" {
		a.Notes = notes
	}
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

func (a *ProjectAllocation) recalculateUnitPrice() {
	if a.Quantity.GreaterThan(decimal.Zero) {
		a.UnitPrice = a.TotalCost.Div(a.Quantity).Round(4)
	} else {
		a.UnitPrice = decimal.Zero
	}
}
