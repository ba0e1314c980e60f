package inventory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Run("Creates item with zero stock", func(t *testing.T) {
		item, err := NewItem("CEM-001", "Cement OPC 53", "bag")
		require.NoError(t, err)
		assert.Equal(t, "CEM-001", item.Code)
		assert.Equal(t, "Cement OPC 53", item.Name)
		assert.Equal(t, "bag", item.Unit)
		assert.True(t, item.TotalStock.IsZero())
		assert.Equal(t, 1, item.GetVersion())
	})

	t.Run("Rejects empty code", func(t *testing.T) {
		_, err := NewItem("", "Cement", "bag")
		assert.Error(t, err)
	})

	t.Run("Rejects empty name", func(t *testing.T) {
		_, err := NewItem("CEM-001", "", "bag")
		assert.Error(t, err)
	})

	t.Run("Rejects empty unit", func(t *testing.T) {
		_, err := NewItem("CEM-001", "Cement", "")
		assert.Error(t, err)
	})
}

func TestItemStockMovements(t *testing.T) {
	newItem := func(t *testing.T) *Item {
		item, err := NewItem("STL-001", "TMT Steel 12mm", "kg")
		require.NoError(t, err)
		return item
	}

	t.Run("Receive increases total stock", func(t *testing.T) {
		item := newItem(t)
		require.NoError(t, item.Receive(decimal.NewFromInt(500)))
		require.NoError(t, item.Receive(decimal.NewFromFloat(250.5)))
		assert.True(t, item.TotalStock.Equal(decimal.NewFromFloat(750.5)))
	})

	t.Run("Receive rejects non-positive quantity", func(t *testing.T) {
		item := newItem(t)
		assert.Error(t, item.Receive(decimal.Zero))
		assert.Error(t, item.Receive(decimal.NewFromInt(-10)))
	})

	t.Run("Deduct decreases total stock", func(t *testing.T) {
		item := newItem(t)
		require.NoError(t, item.Receive(decimal.NewFromInt(100)))
		require.NoError(t, item.Deduct(decimal.NewFromInt(40)))
		assert.True(t, item.TotalStock.Equal(decimal.NewFromInt(60)))
	})

	t.Run("Deduct never drives stock negative", func(t *testing.T) {
		item := newItem(t)
		require.NoError(t, item.Receive(decimal.NewFromInt(10)))

		err := item.Deduct(decimal.NewFromInt(15))
		require.Error(t, err)

		var insufficient *InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(10)))
		assert.True(t, item.TotalStock.Equal(decimal.NewFromInt(10)), "stock must be unchanged after a rejected deduct")
	})

	t.Run("CanFulfill and HasStock reflect the level", func(t *testing.T) {
		item := newItem(t)
		assert.False(t, item.HasStock())
		assert.False(t, item.CanFulfill(decimal.NewFromInt(1)))

		require.NoError(t, item.Receive(decimal.NewFromInt(5)))
		assert.True(t, item.HasStock())
		assert.True(t, item.CanFulfill(decimal.NewFromInt(5)))
		assert.False(t, item.CanFulfill(decimal.NewFromInt(6)))
	})

	t.Run("Movements bump the version", func(t *testing.T) {
		item := newItem(t)
		require.NoError(t, item.Receive(decimal.NewFromInt(10)))
		require.NoError(t, item.Deduct(decimal.NewFromInt(5)))
		assert.Equal(t, 3, item.GetVersion())
	})
}
