package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStores is an in-memory implementation of every store, wired through a
// NoOpTransactionScope for service tests.
type fakeStores struct {
	items        *fakeItemStore
	batches      *fakeBatchStore
	godowns      *fakeGodownStore
	godownStocks *fakeGodownStockStore
	allocations  *fakeAllocationStore
	transactions *fakeTransactionStore
	requests     *fakeRequestStore
	sequences    *fakeSequenceGenerator
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		items:        &fakeItemStore{items: map[uuid.UUID]*inventory.Item{}},
		batches:      &fakeBatchStore{batches: map[uuid.UUID]*inventory.PurchaseBatch{}},
		godowns:      &fakeGodownStore{godowns: map[uuid.UUID]*inventory.Godown{}},
		godownStocks: &fakeGodownStockStore{stocks: map[string]*inventory.GodownStock{}},
		allocations:  &fakeAllocationStore{allocations: map[uuid.UUID]*inventory.ProjectAllocation{}},
		transactions: &fakeTransactionStore{},
		requests:     &fakeRequestStore{requests: map[uuid.UUID]*inventory.AllocationRequest{}},
		sequences:    &fakeSequenceGenerator{counters: map[inventory.DocumentKind]int{}},
	}
}

func sharedFilter() shared.Filter {
	return shared.DefaultFilter()
}

func (f *fakeStores) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(
		f.items, f.batches, f.godowns, f.godownStocks,
		f.allocations, f.transactions, f.requests, f.sequences,
	)
}

type fakeSequenceGenerator struct {
	counters map[inventory.DocumentKind]int
	failOn   inventory.DocumentKind
}

func (g *fakeSequenceGenerator) Next(_ context.Context, kind inventory.DocumentKind) (string, error) {
	if g.failOn != "" && kind == g.failOn {
		return "", fmt.Errorf("sequence unavailable")
	}
	g.counters[kind]++
	return fmt.Sprintf("%s-%06d", kind, g.counters[kind]), nil
}

type fakeItemStore struct {
	items map[uuid.UUID]*inventory.Item
	// forces DecreaseStock to report a guard conflict for this item
	conflictOn uuid.UUID
}

func (s *fakeItemStore) FindByID(_ context.Context, id uuid.UUID) (*inventory.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *fakeItemStore) FindByCode(_ context.Context, code string) (*inventory.Item, error) {
	for _, item := range s.items {
		if item.Code == code {
			copied := *item
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *fakeItemStore) FindByIDs(_ context.Context, ids []uuid.UUID) ([]inventory.Item, error) {
	out := make([]inventory.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *fakeItemStore) FindAll(_ context.Context, _ shared.Filter) ([]inventory.Item, error) {
	out := make([]inventory.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out, nil
}

func (s *fakeItemStore) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(s.items)), nil
}

func (s *fakeItemStore) Save(_ context.Context, item *inventory.Item) error {
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *fakeItemStore) IncreaseStock(_ context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	item, ok := s.items[itemID]
	if !ok {
		return shared.ErrNotFound
	}
	item.TotalStock = item.TotalStock.Add(quantity)
	return nil
}

func (s *fakeItemStore) DecreaseStock(_ context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	item, ok := s.items[itemID]
	if !ok {
		return shared.ErrNotFound
	}
	if itemID == s.conflictOn || item.TotalStock.LessThan(quantity) {
		return shared.ErrConcurrencyConflict
	}
	item.TotalStock = item.TotalStock.Sub(quantity)
	return nil
}

func (s *fakeItemStore) ForceDecreaseStock(_ context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	item, ok := s.items[itemID]
	if !ok {
		return shared.ErrNotFound
	}
	item.TotalStock = item.TotalStock.Sub(quantity)
	return nil
}

type fakeBatchStore struct {
	batches map[uuid.UUID]*inventory.PurchaseBatch
	// forces ConsumeQuantity to report a guard conflict for this batch
	conflictOn uuid.UUID
}

func (s *fakeBatchStore) FindByID(_ context.Context, id uuid.UUID) (*inventory.PurchaseBatch, error) {
	batch, ok := s.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *batch
	return &copied, nil
}

func (s *fakeBatchStore) FindByBatchNumber(_ context.Context, batchNumber string) (*inventory.PurchaseBatch, error) {
	for _, batch := range s.batches {
		if batch.BatchNumber == batchNumber {
			copied := *batch
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *fakeBatchStore) FindOpenByItem(_ context.Context, itemID uuid.UUID) ([]inventory.PurchaseBatch, error) {
	out := make([]inventory.PurchaseBatch, 0)
	for _, batch := range s.batches {
		if batch.ItemID == itemID && batch.RemainingQty.GreaterThan(decimal.Zero) {
			out = append(out, *batch)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].PurchaseDate.Before(out[j].PurchaseDate)
		}
		return out[i].UnitPrice.LessThan(out[j].UnitPrice)
	})
	return out, nil
}

func (s *fakeBatchStore) FindByItem(_ context.Context, itemID uuid.UUID, _ shared.Filter) ([]inventory.PurchaseBatch, error) {
	out := make([]inventory.PurchaseBatch, 0)
	for _, batch := range s.batches {
		if batch.ItemID == itemID {
			out = append(out, *batch)
		}
	}
	return out, nil
}

func (s *fakeBatchStore) FindByGodown(_ context.Context, godownID uuid.UUID, _ shared.Filter) ([]inventory.PurchaseBatch, error) {
	out := make([]inventory.PurchaseBatch, 0)
	for _, batch := range s.batches {
		if batch.GodownID == godownID {
			out = append(out, *batch)
		}
	}
	return out, nil
}

func (s *fakeBatchStore) Save(_ context.Context, batch *inventory.PurchaseBatch) error {
	copied := *batch
	s.batches[batch.ID] = &copied
	return nil
}

func (s *fakeBatchStore) ConsumeQuantity(_ context.Context, batchID uuid.UUID, quantity decimal.Decimal) error {
	batch, ok := s.batches[batchID]
	if !ok {
		return shared.ErrNotFound
	}
	if batchID == s.conflictOn || batch.RemainingQty.LessThan(quantity) {
		return shared.ErrConcurrencyConflict
	}
	batch.RemainingQty = batch.RemainingQty.Sub(quantity)
	return nil
}

func (s *fakeBatchStore) RestoreQuantity(_ context.Context, batchID uuid.UUID, quantity decimal.Decimal) error {
	batch, ok := s.batches[batchID]
	if !ok {
		return shared.ErrNotFound
	}
	batch.RemainingQty = batch.RemainingQty.Add(quantity)
	return nil
}

func (s *fakeBatchStore) SumRemainingByItem(_ context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, batch := range s.batches {
		if batch.ItemID == itemID {
			total = total.Add(batch.RemainingQty)
		}
	}
	return total, nil
}

type fakeGodownStore struct {
	godowns map[uuid.UUID]*inventory.Godown
}

func (s *fakeGodownStore) FindByID(_ context.Context, id uuid.UUID) (*inventory.Godown, error) {
	godown, ok := s.godowns[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *godown
	return &copied, nil
}

func (s *fakeGodownStore) FindByCode(_ context.Context, code string) (*inventory.Godown, error) {
	for _, godown := range s.godowns {
		if godown.Code == code {
			copied := *godown
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *fakeGodownStore) FindAll(_ context.Context, _ shared.Filter) ([]inventory.Godown, error) {
	out := make([]inventory.Godown, 0, len(s.godowns))
	for _, godown := range s.godowns {
		out = append(out, *godown)
	}
	return out, nil
}

func (s *fakeGodownStore) Save(_ context.Context, godown *inventory.Godown) error {
	copied := *godown
	s.godowns[godown.ID] = &copied
	return nil
}

type fakeGodownStockStore struct {
	stocks map[string]*inventory.GodownStock
}

func godownStockKey(godownID, itemID uuid.UUID) string {
	return godownID.String() + "/" + itemID.String()
}

func (s *fakeGodownStockStore) FindByGodownAndItem(_ context.Context, godownID, itemID uuid.UUID) (*inventory.GodownStock, error) {
	stock, ok := s.stocks[godownStockKey(godownID, itemID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *stock
	return &copied, nil
}

func (s *fakeGodownStockStore) FindByGodown(_ context.Context, godownID uuid.UUID, _ shared.Filter) ([]inventory.GodownStock, error) {
	out := make([]inventory.GodownStock, 0)
	for _, stock := range s.stocks {
		if stock.GodownID == godownID {
			out = append(out, *stock)
		}
	}
	return out, nil
}

func (s *fakeGodownStockStore) FindByItem(_ context.Context, itemID uuid.UUID) ([]inventory.GodownStock, error) {
	out := make([]inventory.GodownStock, 0)
	for _, stock := range s.stocks {
		if stock.ItemID == itemID {
			out = append(out, *stock)
		}
	}
	return out, nil
}

func (s *fakeGodownStockStore) Save(_ context.Context, stock *inventory.GodownStock) error {
	copied := *stock
	s.stocks[godownStockKey(stock.GodownID, stock.ItemID)] = &copied
	return nil
}

func (s *fakeGodownStockStore) AdjustQuantity(_ context.Context, godownID, itemID uuid.UUID, delta decimal.Decimal) error {
	key := godownStockKey(godownID, itemID)
	stock, ok := s.stocks[key]
	if !ok {
		created, err := inventory.NewGodownStock(godownID, itemID, delta)
		if err != nil {
			return err
		}
		s.stocks[key] = created
		return nil
	}
	stock.Quantity = stock.Quantity.Add(delta)
	return nil
}

type fakeAllocationStore struct {
	allocations map[uuid.UUID]*inventory.ProjectAllocation
}

func (s *fakeAllocationStore) FindByID(_ context.Context, id uuid.UUID) (*inventory.ProjectAllocation, error) {
	allocation, ok := s.allocations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *allocation
	return &copied, nil
}

func (s *fakeAllocationStore) FindByProjectAndItem(_ context.Context, projectID, itemID uuid.UUID) (*inventory.ProjectAllocation, error) {
	for _, allocation := range s.allocations {
		if allocation.ProjectID == projectID && allocation.ItemID == itemID {
			copied := *allocation
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *fakeAllocationStore) FindByProject(_ context.Context, projectID uuid.UUID, _ shared.Filter) ([]inventory.ProjectAllocation, error) {
	out := make([]inventory.ProjectAllocation, 0)
	for _, allocation := range s.allocations {
		if allocation.ProjectID == projectID {
			out = append(out, *allocation)
		}
	}
	return out, nil
}

func (s *fakeAllocationStore) CountByProject(_ context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	for _, allocation := range s.allocations {
		if allocation.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (s *fakeAllocationStore) Save(_ context.Context, allocation *inventory.ProjectAllocation) error {
	copied := *allocation
	s.allocations[allocation.ID] = &copied
	return nil
}

type fakeTransactionStore struct {
	lines []inventory.StockTransaction
}

func (s *fakeTransactionStore) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockTransaction, error) {
	for i := range s.lines {
		if s.lines[i].ID == id {
			copied := s.lines[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *fakeTransactionStore) FindByItem(_ context.Context, itemID uuid.UUID, _ shared.Filter) ([]inventory.StockTransaction, error) {
	out := make([]inventory.StockTransaction, 0)
	for _, line := range s.lines {
		if line.ItemID == itemID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *fakeTransactionStore) FindBySource(_ context.Context, sourceType inventory.SourceType, sourceID string) ([]inventory.StockTransaction, error) {
	out := make([]inventory.StockTransaction, 0)
	for _, line := range s.lines {
		if line.SourceType == sourceType && line.SourceID == sourceID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *fakeTransactionStore) FindByDateRange(_ context.Context, from, to time.Time, _ shared.Filter) ([]inventory.StockTransaction, error) {
	out := make([]inventory.StockTransaction, 0)
	for _, line := range s.lines {
		if !line.TransactionDate.Before(from) && !line.TransactionDate.After(to) {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *fakeTransactionStore) CountByItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	for _, line := range s.lines {
		if line.ItemID == itemID {
			count++
		}
	}
	return count, nil
}

func (s *fakeTransactionStore) Save(_ context.Context, transaction *inventory.StockTransaction) error {
	s.lines = append(s.lines, *transaction)
	return nil
}

func (s *fakeTransactionStore) SaveAll(ctx context.Context, transactions []*inventory.StockTransaction) error {
	for _, transaction := range transactions {
		if err := s.Save(ctx, transaction); err != nil {
			return err
		}
	}
	return nil
}

type fakeRequestStore struct {
	requests map[uuid.UUID]*inventory.AllocationRequest
}

func (s *fakeRequestStore) FindByID(_ context.Context, id uuid.UUID) (*inventory.AllocationRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *request
	copied.Items = append([]inventory.AllocationRequestItem(nil), request.Items...)
	return &copied, nil
}

func (s *fakeRequestStore) FindByRequestNumber(_ context.Context, requestNumber string) (*inventory.AllocationRequest, error) {
	for id, request := range s.requests {
		if request.RequestNumber == requestNumber {
			return s.FindByID(context.Background(), id)
		}
	}
	return nil, shared.ErrNotFound
}

func (s *fakeRequestStore) FindByStatus(_ context.Context, status inventory.RequestStatus, _ shared.Filter) ([]inventory.AllocationRequest, error) {
	out := make([]inventory.AllocationRequest, 0)
	for _, request := range s.requests {
		if request.Status == status {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) FindByProject(_ context.Context, projectID uuid.UUID, _ shared.Filter) ([]inventory.AllocationRequest, error) {
	out := make([]inventory.AllocationRequest, 0)
	for _, request := range s.requests {
		if request.ProjectID == projectID {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) CountByStatus(_ context.Context, status inventory.RequestStatus) (int64, error) {
	var count int64
	for _, request := range s.requests {
		if request.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *fakeRequestStore) Save(_ context.Context, request *inventory.AllocationRequest) error {
	copied := *request
	copied.Items = append([]inventory.AllocationRequestItem(nil), request.Items...)
	s.requests[request.ID] = &copied
	return nil
}

func (s *fakeRequestStore) SaveWithLock(ctx context.Context, request *inventory.AllocationRequest) error {
	return s.Save(ctx, request)
}

// Interface conformance
var (
	_ inventory.ItemStore         = (*fakeItemStore)(nil)
	_ inventory.BatchStore        = (*fakeBatchStore)(nil)
	_ inventory.GodownStore       = (*fakeGodownStore)(nil)
	_ inventory.GodownStockStore  = (*fakeGodownStockStore)(nil)
	_ inventory.AllocationStore   = (*fakeAllocationStore)(nil)
	_ inventory.TransactionStore  = (*fakeTransactionStore)(nil)
	_ inventory.RequestStore      = (*fakeRequestStore)(nil)
	_ inventory.SequenceGenerator = (*fakeSequenceGenerator)(nil)
)
