package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockTransaction(t *testing.T) {
	itemID := uuid.New()
	godownID := uuid.New()

	t.Run("Creates line with computed total value", func(t *testing.T) {
		txn, err := NewStockTransaction("TXN-000001", DirectionOutward, itemID, godownID,
			decimal.NewFromInt(5), decimal.NewFromFloat(12.5), SourceTypeProjectAllocation, "PRJ-42")
		require.NoError(t, err)
		assert.True(t, txn.TotalValue.Equal(decimal.NewFromFloat(62.5)))
		assert.False(t, txn.TransactionDate.IsZero())
	})

	t.Run("SignedQuantity is negative for outward", func(t *testing.T) {
		out, err := NewStockTransaction("TXN-000002", DirectionOutward, itemID, godownID,
			decimal.NewFromInt(5), decimal.NewFromInt(10), SourceTypeProjectAllocation, "PRJ-42")
		require.NoError(t, err)
		assert.True(t, out.SignedQuantity().Equal(decimal.NewFromInt(-5)))

		in, err := NewStockTransaction("TXN-000003", DirectionInward, itemID, godownID,
			decimal.NewFromInt(5), decimal.NewFromInt(10), SourceTypePurchase, "PUR-000001")
		require.NoError(t, err)
		assert.True(t, in.SignedQuantity().Equal(decimal.NewFromInt(5)))
	})

	t.Run("Builder methods attach optional fields", func(t *testing.T) {
		batchID := uuid.New()
		operatorID := uuid.New()
		txn, err := NewStockTransaction("TXN-000004", DirectionInward, itemID, godownID,
			decimal.NewFromInt(1), decimal.NewFromInt(1), SourceTypePurchase, "PUR-000002")
		require.NoError(t, err)

		txn.WithBatchID(batchID).WithReference("supplier invoice 991").WithOperatorID(operatorID)
		assert.Equal(t, &batchID, txn.BatchID)
		assert.Equal(t, "supplier invoice 991", txn.Reference)
		assert.Equal(t, &operatorID, txn.OperatorID)
	})

	t.Run("Rejects invalid inputs", func(t *testing.T) {
		_, err := NewStockTransaction("", DirectionInward, itemID, godownID,
			decimal.NewFromInt(1), decimal.NewFromInt(1), SourceTypePurchase, "PUR-000001")
		assert.Error(t, err)

		_, err = NewStockTransaction("TXN-000005", TransactionDirection("SIDEWAYS"), itemID, godownID,
			decimal.NewFromInt(1), decimal.NewFromInt(1), SourceTypePurchase, "PUR-000001")
		assert.Error(t, err)

		_, err = NewStockTransaction("TXN-000005", DirectionInward, itemID, godownID,
			decimal.Zero, decimal.NewFromInt(1), SourceTypePurchase, "PUR-000001")
		assert.Error(t, err)

		_, err = NewStockTransaction("TXN-000005", DirectionInward, itemID, godownID,
			decimal.NewFromInt(1), decimal.NewFromInt(1), SourceType("UNKNOWN"), "PUR-000001")
		assert.Error(t, err)

		_, err = NewStockTransaction("TXN-000005", DirectionInward, itemID, godownID,
			decimal.NewFromInt(1), decimal.NewFromInt(1), SourceTypePurchase, "")
		assert.Error(t, err)
	})
}
