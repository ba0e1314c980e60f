package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPurchaseBatch(t *testing.T) {
	itemID := uuid.New()
	godownID := uuid.New()
	purchaseDate := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Creates batch with remaining equal to purchased", func(t *testing.T) {
		batch, err := NewPurchaseBatch("BAT-000001", itemID, godownID, "PUR-000001",
			purchaseDate, decimal.NewFromInt(100), decimal.NewFromFloat(350.50))
		require.NoError(t, err)
		assert.True(t, batch.RemainingQty.Equal(batch.PurchasedQty))
		assert.True(t, batch.HasStock())
		assert.False(t, batch.IsExhausted())
	})

	t.Run("Rejects invalid inputs", func(t *testing.T) {
		_, err := NewPurchaseBatch("", itemID, godownID, "PUR-000001", purchaseDate, decimal.NewFromInt(100), decimal.NewFromInt(10))
		assert.Error(t, err)

		_, err = NewPurchaseBatch("BAT-000001", uuid.Nil, godownID, "PUR-000001", purchaseDate, decimal.NewFromInt(100), decimal.NewFromInt(10))
		assert.Error(t, err)

		_, err = NewPurchaseBatch("BAT-000001", itemID, uuid.Nil, "PUR-000001", purchaseDate, decimal.NewFromInt(100), decimal.NewFromInt(10))
		assert.Error(t, err)

		_, err = NewPurchaseBatch("BAT-000001", itemID, godownID, "", purchaseDate, decimal.NewFromInt(100), decimal.NewFromInt(10))
		assert.Error(t, err)

		_, err = NewPurchaseBatch("BAT-000001", itemID, godownID, "PUR-000001", purchaseDate, decimal.Zero, decimal.NewFromInt(10))
		assert.Error(t, err)

		_, err = NewPurchaseBatch("BAT-000001", itemID, godownID, "PUR-000001", purchaseDate, decimal.NewFromInt(100), decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestPurchaseBatchConsumeRestore(t *testing.T) {
	newBatch := func(t *testing.T, qty float64) *PurchaseBatch {
		batch, err := NewPurchaseBatch("BAT-000002", uuid.New(), uuid.New(), "PUR-000002",
			time.Now(), decimal.NewFromFloat(qty), decimal.NewFromInt(20))
		require.NoError(t, err)
		return batch
	}

	t.Run("Consume reduces remaining quantity", func(t *testing.T) {
		batch := newBatch(t, 50)
		require.NoError(t, batch.Consume(decimal.NewFromInt(30)))
		assert.True(t, batch.RemainingQty.Equal(decimal.NewFromInt(20)))
	})

	t.Run("Consuming everything exhausts the batch", func(t *testing.T) {
		batch := newBatch(t, 50)
		require.NoError(t, batch.Consume(decimal.NewFromInt(50)))
		assert.True(t, batch.IsExhausted())
		assert.False(t, batch.HasStock())
	})

	t.Run("Cannot consume more than remaining", func(t *testing.T) {
		batch := newBatch(t, 50)
		err := batch.Consume(decimal.NewFromInt(51))
		assert.Error(t, err)
		assert.True(t, batch.RemainingQty.Equal(decimal.NewFromInt(50)))
	})

	t.Run("Restore returns consumed quantity", func(t *testing.T) {
		batch := newBatch(t, 50)
		require.NoError(t, batch.Consume(decimal.NewFromInt(30)))
		require.NoError(t, batch.Restore(decimal.NewFromInt(30)))
		assert.True(t, batch.RemainingQty.Equal(decimal.NewFromInt(50)))
	})

	t.Run("Restore cannot exceed purchased quantity", func(t *testing.T) {
		batch := newBatch(t, 50)
		err := batch.Restore(decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("RemainingValue is remaining times unit price", func(t *testing.T) {
		batch := newBatch(t, 50)
		require.NoError(t, batch.Consume(decimal.NewFromInt(10)))
		assert.True(t, batch.RemainingValue().Equal(decimal.NewFromInt(800)))
	})
}

func TestGodownStock(t *testing.T) {
	godownID := uuid.New()
	itemID := uuid.New()

	t.Run("Allows negative initial quantity for compensating offset", func(t *testing.T) {
		stock, err := NewGodownStock(godownID, itemID, decimal.NewFromInt(-5))
		require.NoError(t, err)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(-5)))
	})

	t.Run("Increase and Decrease adjust the cached total", func(t *testing.T) {
		stock, err := NewGodownStock(godownID, itemID, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, stock.Increase(decimal.NewFromInt(100)))
		require.NoError(t, stock.Decrease(decimal.NewFromInt(30)))
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(70)))
	})

	t.Run("Decrease may dip below zero", func(t *testing.T) {
		stock, err := NewGodownStock(godownID, itemID, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, stock.Decrease(decimal.NewFromInt(10)))
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(-10)))
	})

	t.Run("Rejects nil identifiers", func(t *testing.T) {
		_, err := NewGodownStock(uuid.Nil, itemID, decimal.Zero)
		assert.Error(t, err)
		_, err = NewGodownStock(godownID, uuid.Nil, decimal.Zero)
		assert.Error(t, err)
	})
}
