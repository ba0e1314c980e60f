package inventory

import (
	"context"
	"fmt"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseService records purchases. Every purchase opens a new batch - lots
// are never merged, because the batch boundary is what FIFO ordering and
// per-lot pricing are built on.
type PurchaseService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(scope TransactionScope, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{scope: scope, logger: logger}
}

// RecordPurchase books quantity into a godown: a new batch, an inward ledger
// line, and increments to both the godown stock row and the item master, all
// in one transaction.
func (s *PurchaseService) RecordPurchase(ctx context.Context, cmd RecordPurchaseCommand) (*PurchaseResult, error) {
	if cmd.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Purchase quantity must be positive")
	}
	if cmd.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	var result *PurchaseResult
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		item, err := stores.Items().FindByID(ctx, cmd.ItemID)
		if err != nil {
			return fmt.Errorf("load item %s: %w", cmd.ItemID, err)
		}
		if _, err := stores.Godowns().FindByID(ctx, cmd.GodownID); err != nil {
			return fmt.Errorf("load godown %s: %w", cmd.GodownID, err)
		}

		purchaseNumber, err := stores.Sequences().Next(ctx, inventory.DocumentKindPurchase)
		if err != nil {
			return fmt.Errorf("generate purchase number: %w", err)
		}
		batchNumber, err := stores.Sequences().Next(ctx, inventory.DocumentKindBatch)
		if err != nil {
			return fmt.Errorf("generate batch number: %w", err)
		}
		transactionNumber, err := stores.Sequences().Next(ctx, inventory.DocumentKindTransaction)
		if err != nil {
			return fmt.Errorf("generate transaction number: %w", err)
		}

		batch, err := inventory.NewPurchaseBatch(
			batchNumber, cmd.ItemID, cmd.GodownID, purchaseNumber,
			cmd.PurchaseDate, cmd.Quantity, cmd.UnitPrice,
		)
		if err != nil {
			return err
		}
		// snapshot item metadata so allocation records render without joins
		batch.ItemName = item.Name
		batch.Unit = item.Unit
		batch.Category = item.Category
		batch.Subcategory = item.Subcategory
		batch.Company = item.Company
		batch.SupplierName = cmd.SupplierName
		if err := stores.Batches().Save(ctx, batch); err != nil {
			return fmt.Errorf("save batch: %w", err)
		}

		if err := stores.GodownStocks().AdjustQuantity(ctx, cmd.GodownID, cmd.ItemID, cmd.Quantity); err != nil {
			return fmt.Errorf("adjust godown stock: %w", err)
		}
		if err := stores.Items().IncreaseStock(ctx, cmd.ItemID, cmd.Quantity); err != nil {
			return fmt.Errorf("increase item master: %w", err)
		}

		txn, err := inventory.NewStockTransaction(
			transactionNumber,
			inventory.DirectionInward,
			cmd.ItemID,
			cmd.GodownID,
			cmd.Quantity,
			cmd.UnitPrice,
			inventory.SourceTypePurchase,
			purchaseNumber,
		)
		if err != nil {
			return err
		}
		txn.WithBatchID(batch.ID).WithReference(cmd.Reference)
		if cmd.OperatorID != nil {
			txn.WithOperatorID(*cmd.OperatorID)
		}
		if err := stores.Transactions().Save(ctx, txn); err != nil {
			return fmt.Errorf("save transaction line: %w", err)
		}

		result = &PurchaseResult{
			PurchaseNumber:    purchaseNumber,
			BatchNumber:       batchNumber,
			TransactionNumber: transactionNumber,
			ItemID:            cmd.ItemID,
			GodownID:          cmd.GodownID,
			Quantity:          cmd.Quantity,
			TotalValue:        cmd.Quantity.Mul(cmd.UnitPrice),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase recorded",
		zap.String("purchase_number", result.PurchaseNumber),
		zap.String("batch_number", result.BatchNumber),
		zap.String("item_id", cmd.ItemID.String()),
		zap.String("quantity", cmd.Quantity.String()),
	)
	return result, nil
}
