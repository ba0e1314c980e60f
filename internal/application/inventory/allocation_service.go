package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AllocationService executes FIFO stock allocations to projects. One call
// handles a multi-item allocation inside a single transaction: a line the
// batch ledger cannot cover rejects the whole request, while an unexpected
// write failure on one line is compensated and the remaining lines proceed.
type AllocationService struct {
	scope   TransactionScope
	planner *inventory.FIFOPlanner
	logger  *zap.Logger
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(scope TransactionScope, logger *zap.Logger) *AllocationService {
	return &AllocationService{
		scope:   scope,
		planner: inventory.NewFIFOPlanner(),
		logger:  logger,
	}
}

// compensationLog collects undo actions for the current item. When a step of
// an item fails after earlier steps already wrote, the log replays the undos
// in reverse so the failed item leaves no trace while other items keep their
// writes.
type compensationLog struct {
	undos []func(ctx context.Context) error
}

func (l *compensationLog) push(undo func(ctx context.Context) error) {
	l.undos = append(l.undos, undo)
}

// unwind replays the undo actions newest-first. An undo failure is fatal:
// the caller must abort the surrounding transaction because partial state
// can no longer be repaired in place.
func (l *compensationLog) unwind(ctx context.Context) error {
	for i := len(l.undos) - 1; i >= 0; i-- {
		if err := l.undos[i](ctx); err != nil {
			return fmt.Errorf("compensation failed: %w", err)
		}
	}
	l.undos = nil
	return nil
}

// AllocateStock allocates stock to a project in a single database
// transaction. Missing or insufficient stock on any line aborts the call
// with nothing written; the error carries the item and the requested
// versus available quantities.
func (s *AllocationService) AllocateStock(ctx context.Context, cmd AllocateStockCommand) (*AllocationResult, error) {
	if !hasPositiveLine(cmd.Items) {
		return nil, inventory.ErrEmptyAllocation
	}

	var result *AllocationResult
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		var execErr error
		result, execErr = s.allocateInScope(ctx, stores, cmd)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// allocateInScope runs the allocation against already-opened transactional
// stores. The request approval path reuses it inside its own transaction.
func (s *AllocationService) allocateInScope(ctx context.Context, stores TransactionalStores, cmd AllocateStockCommand) (*AllocationResult, error) {
	transactionNumber, err := stores.Sequences().Next(ctx, inventory.DocumentKindTransaction)
	if err != nil {
		return nil, fmt.Errorf("generate transaction number: %w", err)
	}

	sourceType := inventory.SourceTypeProjectAllocation
	sourceID := cmd.ProjectID.String()
	if cmd.RequestID != nil {
		sourceType = inventory.SourceTypeAllocationRequest
		sourceID = cmd.RequestID.String()
	}

	result := &AllocationResult{
		TransactionNumber: transactionNumber,
		ProjectID:         cmd.ProjectID,
		Outcomes:          make([]ItemOutcome, 0, len(cmd.Items)),
		TotalValue:        decimal.Zero,
	}

	// quantity successfully taken from batches, keyed by item; the item
	// master is decremented once per distinct item after the loop
	deducted := make(map[uuid.UUID]decimal.Decimal)
	order := make([]uuid.UUID, 0, len(cmd.Items))

	for _, line := range cmd.Items {
		// non-positive lines are skipped, never errors
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		outcome, err := s.allocateItem(ctx, stores, cmd, line, transactionNumber, sourceType, sourceID)
		if err != nil {
			return nil, err
		}
		result.Outcomes = append(result.Outcomes, *outcome)

		if outcome.Status == ItemOutcomeAllocated {
			result.AllocatedCount++
			result.TotalValue = result.TotalValue.Add(outcome.TotalCost)
			if _, seen := deducted[line.ItemID]; !seen {
				order = append(order, line.ItemID)
			}
			deducted[line.ItemID] = deducted[line.ItemID].Add(outcome.Allocated)
		} else {
			result.FailedCount++
		}
	}

	for _, itemID := range order {
		if err := s.deductItemMaster(ctx, stores, itemID, deducted[itemID]); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// allocateItem plans and applies one requested line. A plan the batch
// ledger cannot cover is fatal and aborts the surrounding transaction;
// a concurrent-consumption conflict while applying produces a failed
// outcome and the rest of the request proceeds.
func (s *AllocationService) allocateItem(
	ctx context.Context,
	stores TransactionalStores,
	cmd AllocateStockCommand,
	line AllocationItemInput,
	transactionNumber string,
	sourceType inventory.SourceType,
	sourceID string,
) (*ItemOutcome, error) {
	outcome := &ItemOutcome{
		ItemID:    line.ItemID,
		Requested: line.Quantity,
		Allocated: decimal.Zero,
	}

	batches, err := stores.Batches().FindOpenByItem(ctx, line.ItemID)
	if err != nil {
		return nil, fmt.Errorf("load open batches for item %s: %w", line.ItemID, err)
	}

	plan, err := s.planner.Plan(line.ItemID, line.Quantity, batches)
	if err != nil {
		// missing or insufficient stock rejects the whole request:
		// the transaction rolls back and the error reaches the caller
		// with the requested and available quantities
		return nil, err
	}

	outcome.ItemName = plan.ItemName
	log := &compensationLog{}

	if applyErr := s.applyPlan(ctx, stores, cmd, plan, log, transactionNumber, sourceType, sourceID, line.Notes); applyErr != nil {
		if unwindErr := log.unwind(ctx); unwindErr != nil {
			return nil, unwindErr
		}
		if errors.Is(applyErr, shared.ErrConcurrencyConflict) {
			outcome.Status = ItemOutcomeFailed
			outcome.ErrorMessage = "stock was consumed concurrently, allocation rolled back for this item"
			s.logFailure(line.ItemID, cmd.ProjectID, outcome)
			return outcome, nil
		}
		return nil, applyErr
	}

	outcome.Status = ItemOutcomeAllocated
	outcome.Allocated = plan.RequestedQuantity
	outcome.UnitPrice = weightedAveragePrice(plan)
	outcome.TotalCost = plan.TotalValue
	outcome.BatchesUsed = len(plan.Consumptions)
	return outcome, nil
}

// weightedAveragePrice spreads the plan's total value over the requested
// quantity. The division lives here rather than in the planner so every
// consumer of a plan prices it the same way.
func weightedAveragePrice(plan *inventory.ConsumptionPlan) decimal.Decimal {
	return plan.TotalValue.Div(plan.RequestedQuantity).Round(4)
}

// hasPositiveLine reports whether at least one requested line carries a
// positive quantity. A request without one is malformed and rejected
// before any transaction opens.
func hasPositiveLine(items []AllocationItemInput) bool {
	for _, line := range items {
		if line.Quantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// applyPlan writes every ledger touched by one item's plan: batch remaining
// quantities, godown stock totals, the transaction ledger and the project
// allocation row. Each successful write pushes its inverse onto the log.
func (s *AllocationService) applyPlan(
	ctx context.Context,
	stores TransactionalStores,
	cmd AllocateStockCommand,
	plan *inventory.ConsumptionPlan,
	log *compensationLog,
	transactionNumber string,
	sourceType inventory.SourceType,
	sourceID string,
	notes string,
) error {
	// ledger lines are buffered and written only after every consumption
	// succeeded, so a failed item never gets audit lines to undo
	lines := make([]*inventory.StockTransaction, 0, len(plan.Consumptions))

	for _, consumption := range plan.Consumptions {
		c := consumption
		if err := stores.Batches().ConsumeQuantity(ctx, c.BatchID, c.Quantity); err != nil {
			return err
		}
		log.push(func(ctx context.Context) error {
			return stores.Batches().RestoreQuantity(ctx, c.BatchID, c.Quantity)
		})

		if err := stores.GodownStocks().AdjustQuantity(ctx, c.GodownID, plan.ItemID, c.Quantity.Neg()); err != nil {
			return err
		}
		log.push(func(ctx context.Context) error {
			return stores.GodownStocks().AdjustQuantity(ctx, c.GodownID, plan.ItemID, c.Quantity)
		})

		txn, err := inventory.NewStockTransaction(
			transactionNumber,
			inventory.DirectionOutward,
			plan.ItemID,
			c.GodownID,
			c.Quantity,
			c.UnitPrice,
			sourceType,
			sourceID,
		)
		if err != nil {
			return err
		}
		txn.WithBatchID(c.BatchID).WithReference(cmd.ProjectName)
		if cmd.OperatorID != nil {
			txn.WithOperatorID(*cmd.OperatorID)
		}
		lines = append(lines, txn)
	}

	if err := s.upsertAllocation(ctx, stores, cmd, plan, notes); err != nil {
		return err
	}
	return stores.Transactions().SaveAll(ctx, lines)
}

// upsertAllocation accumulates onto the existing (project, item) row or
// creates the first one.
func (s *AllocationService) upsertAllocation(
	ctx context.Context,
	stores TransactionalStores,
	cmd AllocateStockCommand,
	plan *inventory.ConsumptionPlan,
	notes string,
) error {
	if notes == "" {
		notes = cmd.Notes
	}

	existing, err := stores.Allocations().FindByProjectAndItem(ctx, cmd.ProjectID, plan.ItemID)
	switch {
	case err == nil:
		if err := existing.Accumulate(plan.RequestedQuantity, plan.TotalValue, plan.PrimaryBatchNumber, notes); err != nil {
			return err
		}
		return stores.Allocations().Save(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		allocation, err := inventory.NewProjectAllocation(
			cmd.ProjectID,
			plan.ItemID,
			plan.ItemName,
			plan.Unit,
			plan.RequestedQuantity,
			plan.TotalValue,
			plan.PrimaryBatchNumber,
			notes,
		)
		if err != nil {
			return err
		}
		return stores.Allocations().Save(ctx, allocation)
	default:
		return fmt.Errorf("load allocation for project %s item %s: %w", cmd.ProjectID, plan.ItemID, err)
	}
}

// deductItemMaster lowers the item-master total by everything taken from the
// item's batches, once per distinct item. The guarded decrement keeps the
// total non-negative; when it conflicts with what the batch ledger already
// gave out, the unguarded decrement keeps the two ledgers consistent and the
// discrepancy is logged for reconciliation.
func (s *AllocationService) deductItemMaster(ctx context.Context, stores TransactionalStores, itemID uuid.UUID, quantity decimal.Decimal) error {
	err := stores.Items().DecreaseStock(ctx, itemID, quantity)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrConcurrencyConflict) {
		return fmt.Errorf("deduct item master %s: %w", itemID, err)
	}

	s.logger.Warn("item master total below batch ledger, forcing decrement",
		zap.String("item_id", itemID.String()),
		zap.String("quantity", quantity.String()),
	)
	if err := stores.Items().ForceDecreaseStock(ctx, itemID, quantity); err != nil {
		return fmt.Errorf("force deduct item master %s: %w", itemID, err)
	}
	return nil
}

func (s *AllocationService) logFailure(itemID, projectID uuid.UUID, outcome *ItemOutcome) {
	s.logger.Warn("allocation line failed",
		zap.String("item_id", itemID.String()),
		zap.String("project_id", projectID.String()),
		zap.String("status", string(outcome.Status)),
		zap.String("reason", outcome.ErrorMessage),
	)
}

// ListProjectAllocations returns the accumulated allocation rows for a project
func (s *AllocationService) ListProjectAllocations(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (*shared.Paginated[AllocationResponse], error) {
	var page *shared.Paginated[AllocationResponse]
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		allocations, err := stores.Allocations().FindByProject(ctx, projectID, filter)
		if err != nil {
			return err
		}
		total, err := stores.Allocations().CountByProject(ctx, projectID)
		if err != nil {
			return err
		}

		responses := make([]AllocationResponse, 0, len(allocations))
		for i := range allocations {
			responses = append(responses, *ToAllocationResponse(&allocations[i]))
		}
		paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
		page = &paginated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// ListItemTransactions returns the ledger lines recorded for an item
func (s *AllocationService) ListItemTransactions(ctx context.Context, itemID uuid.UUID, filter shared.Filter) (*shared.Paginated[TransactionResponse], error) {
	var page *shared.Paginated[TransactionResponse]
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		transactions, err := stores.Transactions().FindByItem(ctx, itemID, filter)
		if err != nil {
			return err
		}
		total, err := stores.Transactions().CountByItem(ctx, itemID)
		if err != nil {
			return err
		}

		responses := make([]TransactionResponse, 0, len(transactions))
		for i := range transactions {
			responses = append(responses, *ToTransactionResponse(&transactions[i]))
		}
		paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
		page = &paginated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
