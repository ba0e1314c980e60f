package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBatch(itemID uuid.UUID, batchNumber string, purchaseDate time.Time, remaining, unitPrice float64) PurchaseBatch {
	return PurchaseBatch{
		BaseEntity:   shared.NewBaseEntity(),
		BatchNumber:  batchNumber,
		ItemID:       itemID,
		GodownID:     uuid.New(),
		ItemName:     "Cement OPC 53",
		Unit:         "bag",
		PurchaseDate: purchaseDate,
		UnitPrice:    decimal.NewFromFloat(unitPrice),
		PurchasedQty: decimal.NewFromFloat(remaining),
		RemainingQty: decimal.NewFromFloat(remaining),
	}
}

func TestFIFOPlanner(t *testing.T) {
	planner := NewFIFOPlanner()
	itemID := uuid.New()
	day1 := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	t.Run("Returns error for zero quantity", func(t *testing.T) {
		batches := []PurchaseBatch{createTestBatch(itemID, "BAT-000001", day1, 100, 10)}
		_, err := planner.Plan(itemID, decimal.Zero, batches)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("Returns error for negative quantity", func(t *testing.T) {
		batches := []PurchaseBatch{createTestBatch(itemID, "BAT-000001", day1, 100, 10)}
		_, err := planner.Plan(itemID, decimal.NewFromFloat(-5), batches)
		assert.Error(t, err)
	})

	t.Run("Returns ErrNoStockAvailable when no batches exist", func(t *testing.T) {
		_, err := planner.Plan(itemID, decimal.NewFromInt(10), nil)
		assert.ErrorIs(t, err, ErrNoStockAvailable)
	})

	t.Run("Returns ErrNoStockAvailable when all batches are exhausted", func(t *testing.T) {
		exhausted := createTestBatch(itemID, "BAT-000001", day1, 100, 10)
		exhausted.RemainingQty = decimal.Zero
		_, err := planner.Plan(itemID, decimal.NewFromInt(10), []PurchaseBatch{exhausted})
		assert.ErrorIs(t, err, ErrNoStockAvailable)
	})

	t.Run("Returns insufficiency detail when batches cannot cover request", func(t *testing.T) {
		batches := []PurchaseBatch{
			createTestBatch(itemID, "BAT-000001", day1, 3, 10),
			createTestBatch(itemID, "BAT-000002", day2, 4, 12),
		}
		_, err := planner.Plan(itemID, decimal.NewFromInt(10), batches)
		require.Error(t, err)

		var insufficient *InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, itemID, insufficient.ItemID)
		assert.True(t, insufficient.Requested.Equal(decimal.NewFromInt(10)))
		assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(7)))
		assert.True(t, insufficient.Shortage().Equal(decimal.NewFromInt(3)))
	})

	t.Run("Consumes oldest batch first", func(t *testing.T) {
		batches := []PurchaseBatch{
			createTestBatch(itemID, "BAT-000002", day2, 100, 20),
			createTestBatch(itemID, "BAT-000001", day1, 100, 10),
		}
		plan, err := planner.Plan(itemID, decimal.NewFromInt(50), batches)
		require.NoError(t, err)

		require.Len(t, plan.Consumptions, 1)
		assert.Equal(t, "BAT-000001", plan.Consumptions[0].BatchNumber)
		assert.True(t, plan.Consumptions[0].Quantity.Equal(decimal.NewFromInt(50)))
		assert.False(t, plan.Consumptions[0].FullyConsumed)
	})

	t.Run("Spans batches when the oldest cannot cover the request", func(t *testing.T) {
		batches := []PurchaseBatch{
			createTestBatch(itemID, "BAT-000001", day1, 5, 10),
			createTestBatch(itemID, "BAT-000002", day2, 10, 20),
		}
		plan, err := planner.Plan(itemID, decimal.NewFromInt(8), batches)
		require.NoError(t, err)

		require.Len(t, plan.Consumptions, 2)
		assert.Equal(t, "BAT-000001", plan.Consumptions[0].BatchNumber)
		assert.True(t, plan.Consumptions[0].Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, plan.Consumptions[0].FullyConsumed)
		assert.Equal(t, "BAT-000002", plan.Consumptions[1].BatchNumber)
		assert.True(t, plan.Consumptions[1].Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, plan.Consumptions[1].RemainingAfter.Equal(decimal.NewFromInt(7)))
	})

	t.Run("Accumulates total value across batches", func(t *testing.T) {
		// 5 units at 10 plus 3 units at 20 = 110 for 8 units
		batches := []PurchaseBatch{
			createTestBatch(itemID, "BAT-000001", day1, 5, 10),
			createTestBatch(itemID, "BAT-000002", day2, 10, 20),
		}
		plan, err := planner.Plan(itemID, decimal.NewFromInt(8), batches)
		require.NoError(t, err)

		assert.True(t, plan.TotalValue.Equal(decimal.NewFromInt(110)),
			"expected 110, got %s", plan.TotalValue)
	})

	t.Run("Cheaper batch wins a same-day tie", func(t *testing.T) {
		expensive := createTestBatch(itemID, "BAT-000002", day1, 100, 25)
		cheap := createTestBatch(itemID, "BAT-000001", day1, 100, 15)
		plan, err := planner.Plan(itemID, decimal.NewFromInt(10), []PurchaseBatch{expensive, cheap})
		require.NoError(t, err)

		require.Len(t, plan.Consumptions, 1)
		assert.Equal(t, "BAT-000001", plan.Consumptions[0].BatchNumber)
	})

	t.Run("Total consumed always equals requested quantity", func(t *testing.T) {
		batches := []PurchaseBatch{
			createTestBatch(itemID, "BAT-000001", day1, 3, 10),
			createTestBatch(itemID, "BAT-000002", day1, 4, 12),
			createTestBatch(itemID, "BAT-000003", day2, 9, 11),
		}
		requested := decimal.NewFromFloat(10.5)
		plan, err := planner.Plan(itemID, requested, batches)
		require.NoError(t, err)

		assert.True(t, plan.TotalConsumed().Equal(requested))
		sum := decimal.Zero
		for _, c := range plan.Consumptions {
			sum = sum.Add(c.TotalValue)
		}
		assert.True(t, plan.TotalValue.Equal(sum))
	})

	t.Run("Ignores batches belonging to other items", func(t *testing.T) {
		otherItem := uuid.New()
		batches := []PurchaseBatch{
			createTestBatch(otherItem, "BAT-000009", day1, 100, 5),
			createTestBatch(itemID, "BAT-000001", day2, 20, 10),
		}
		plan, err := planner.Plan(itemID, decimal.NewFromInt(15), batches)
		require.NoError(t, err)

		require.Len(t, plan.Consumptions, 1)
		assert.Equal(t, "BAT-000001", plan.Consumptions[0].BatchNumber)
	})

	t.Run("Plan metadata comes from the first batch in order", func(t *testing.T) {
		first := createTestBatch(itemID, "BAT-000001", day1, 5, 10)
		second := createTestBatch(itemID, "BAT-000002", day2, 10, 20)
		plan, err := planner.Plan(itemID, decimal.NewFromInt(8), []PurchaseBatch{second, first})
		require.NoError(t, err)

		assert.Equal(t, "BAT-000001", plan.PrimaryBatchNumber)
		assert.Equal(t, first.GodownID, plan.PrimaryGodownID)
		assert.Equal(t, "Cement OPC 53", plan.ItemName)
		assert.Equal(t, "bag", plan.Unit)
	})

	t.Run("Does not mutate input batches", func(t *testing.T) {
		batch := createTestBatch(itemID, "BAT-000001", day1, 100, 10)
		_, err := planner.Plan(itemID, decimal.NewFromInt(40), []PurchaseBatch{batch})
		require.NoError(t, err)
		assert.True(t, batch.RemainingQty.Equal(decimal.NewFromInt(100)))
	})

	t.Run("GodownIDs deduplicates in plan order", func(t *testing.T) {
		godown := uuid.New()
		a := createTestBatch(itemID, "BAT-000001", day1, 5, 10)
		a.GodownID = godown
		b := createTestBatch(itemID, "BAT-000002", day2, 5, 10)
		b.GodownID = godown
		plan, err := planner.Plan(itemID, decimal.NewFromInt(8), []PurchaseBatch{a, b})
		require.NoError(t, err)

		assert.Equal(t, []uuid.UUID{godown}, plan.GodownIDs())
	})
}
