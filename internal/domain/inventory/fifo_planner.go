package inventory

import (
	"sort"

	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchConsumption represents a planned deduction from a single batch
type BatchConsumption struct {
	BatchID        uuid.UUID       // ID of the batch
	BatchNumber    string          // Batch number for display
	GodownID       uuid.UUID       // Godown the batch lives in
	Quantity       decimal.Decimal // Amount to consume from this batch
	UnitPrice      decimal.Decimal // Unit price of this batch
	TotalValue     decimal.Decimal // Quantity * UnitPrice
	RemainingAfter decimal.Decimal // Remaining quantity in batch after consumption
	FullyConsumed  bool            // True if batch is exhausted by this plan
}

// ConsumptionPlan is the complete FIFO plan for one item. Metadata fields
// (ItemName, Unit, PrimaryBatchNumber, PrimaryGodownID) come from the first
// batch in FIFO order and describe the allocation as a whole.
type ConsumptionPlan struct {
	ItemID             uuid.UUID
	ItemName           string
	Unit               string
	PrimaryBatchNumber string
	PrimaryGodownID    uuid.UUID
	Consumptions       []BatchConsumption
	RequestedQuantity  decimal.Decimal
	TotalValue         decimal.Decimal
}

// FIFOPlanner computes batch consumption plans in purchase order. It is
// pure: it never mutates the batches it is given.
type FIFOPlanner struct{}

// NewFIFOPlanner creates a new FIFO planner
func NewFIFOPlanner() *FIFOPlanner {
	return &FIFOPlanner{}
}

// Plan selects batches oldest-first and computes how much to take from each.
// Returns ErrNoStockAvailable when no open batch exists, and
// InsufficientStockError when the open batches cannot cover the request;
// in both cases no plan is produced.
func (p *FIFOPlanner) Plan(itemID uuid.UUID, requestedQty decimal.Decimal, batches []PurchaseBatch) (*ConsumptionPlan, error) {
	if requestedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	available := make([]PurchaseBatch, 0, len(batches))
	totalAvailable := decimal.Zero
	for _, batch := range batches {
		if batch.ItemID != itemID {
			continue
		}
		if batch.RemainingQty.GreaterThan(decimal.Zero) {
			available = append(available, batch)
			totalAvailable = totalAvailable.Add(batch.RemainingQty)
		}
	}

	if len(available) == 0 {
		return nil, ErrNoStockAvailable
	}
	if totalAvailable.LessThan(requestedQty) {
		return nil, NewInsufficientStockError(itemID, requestedQty, totalAvailable)
	}

	// FIFO: purchase date first, cheaper batch breaks a same-day tie,
	// creation time as the final tiebreaker
	sort.Slice(available, func(i, j int) bool {
		if !available[i].PurchaseDate.Equal(available[j].PurchaseDate) {
			return available[i].PurchaseDate.Before(available[j].PurchaseDate)
		}
		if !available[i].UnitPrice.Equal(available[j].UnitPrice) {
			return available[i].UnitPrice.LessThan(available[j].UnitPrice)
		}
		return available[i].CreatedAt.Before(available[j].CreatedAt)
	})

	consumptions := make([]BatchConsumption, 0)
	remaining := requestedQty
	totalValue := decimal.Zero

	for _, batch := range available {
		if remaining.IsZero() {
			break
		}

		take := decimal.Min(remaining, batch.RemainingQty)
		remainingAfter := batch.RemainingQty.Sub(take)
		value := take.Mul(batch.UnitPrice)

		consumptions = append(consumptions, BatchConsumption{
			BatchID:        batch.ID,
			BatchNumber:    batch.BatchNumber,
			GodownID:       batch.GodownID,
			Quantity:       take,
			UnitPrice:      batch.UnitPrice,
			TotalValue:     value,
			RemainingAfter: remainingAfter,
			FullyConsumed:  remainingAfter.IsZero(),
		})

		totalValue = totalValue.Add(value)
		remaining = remaining.Sub(take)
	}

	first := available[0]
	return &ConsumptionPlan{
		ItemID:             itemID,
		ItemName:           first.ItemName,
		Unit:               first.Unit,
		PrimaryBatchNumber: first.BatchNumber,
		PrimaryGodownID:    first.GodownID,
		Consumptions:       consumptions,
		RequestedQuantity:  requestedQty,
		TotalValue:         totalValue,
	}, nil
}

// TotalConsumed sums the planned consumptions; it always equals the
// requested quantity for a successfully produced plan
func (p *ConsumptionPlan) TotalConsumed() decimal.Decimal {
	total := decimal.Zero
	for _, c := range p.Consumptions {
		total = total.Add(c.Quantity)
	}
	return total
}

// GodownIDs returns the distinct godowns the plan draws from, in plan order
func (p *ConsumptionPlan) GodownIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, c := range p.Consumptions {
		if !seen[c.GodownID] {
			seen[c.GodownID] = true
			ids = append(ids, c.GodownID)
		}
	}
	return ids
}
