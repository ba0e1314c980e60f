package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type requestFixture struct {
	*allocationFixture
	service *RequestService
}

func newRequestFixture(t *testing.T) *requestFixture {
	base := newAllocationFixture(t)
	return &requestFixture{
		allocationFixture: base,
		service:           NewRequestService(base.stores.scope(), base.service, zap.NewNop()),
	}
}

func TestRequestWorkflow(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("Filing a request moves no stock", func(t *testing.T) {
		f := newRequestFixture(t)
		item := f.seedItem(t, "CEM", [3]float64{0, 100, 10})

		response, err := f.service.CreateRequest(ctx, CreateRequestCommand{
			ProjectID:   projectID,
			ProjectName: "Riverside Apartments",
			Items:       []AllocationItemInput{{ItemID: item.ID, Quantity: decimal.NewFromInt(40)}},
		})
		require.NoError(t, err)

		assert.Equal(t, "REQ-000001", response.RequestNumber)
		assert.Equal(t, inventory.RequestStatusPending.String(), response.Status)
		assert.False(t, response.HasShortage)

		// nothing moved
		assert.True(t, f.batchRemaining(t, item.ID).Equal(decimal.NewFromInt(100)))
		master, err := f.stores.items.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, master.TotalStock.Equal(decimal.NewFromInt(100)))
		lines, err := f.stores.transactions.FindByItem(ctx, item.ID, sharedFilter())
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("Shortages are snapshotted for the reviewer", func(t *testing.T) {
		f := newRequestFixture(t)
		item := f.seedItem(t, "STL", [3]float64{0, 8, 50})

		response, err := f.service.CreateRequest(ctx, CreateRequestCommand{
			ProjectID:   projectID,
			ProjectName: "Riverside Apartments",
			Items:       []AllocationItemInput{{ItemID: item.ID, Quantity: decimal.NewFromInt(20)}},
		})
		require.NoError(t, err)

		assert.True(t, response.HasShortage)
		require.Len(t, response.Items, 1)
		line := response.Items[0]
		assert.True(t, line.AvailableQty.Equal(decimal.NewFromInt(8)))
		assert.True(t, line.ShortageQty.Equal(decimal.NewFromInt(12)))

		// the full quantity stays pending; nothing is approved or consumed
		assert.Equal(t, inventory.RequestStatusPending.String(), line.Status)
		assert.True(t, line.ApprovedQty.IsZero())
		assert.True(t, line.PendingQty.Equal(decimal.NewFromInt(20)))
		assert.True(t, f.batchRemaining(t, item.ID).Equal(decimal.NewFromInt(8)))
	})

	t.Run("Approval executes the allocation and flips the status", func(t *testing.T) {
		f := newRequestFixture(t)
		item := f.seedItem(t, "CEM", [3]float64{0, 100, 10})

		filed, err := f.service.CreateRequest(ctx, CreateRequestCommand{
			ProjectID:   projectID,
			ProjectName: "Riverside Apartments",
			Items:       []AllocationItemInput{{ItemID: item.ID, Quantity: decimal.NewFromInt(40)}},
		})
		require.NoError(t, err)

		reviewer := uuid.New()
		result, err := f.service.ApproveRequest(ctx, filed.ID, ReviewRequestCommand{
			ReviewerID: reviewer,
			Note:       "approved for phase 2",
		})
		require.NoError(t, err)

		assert.Equal(t, inventory.RequestStatusApproved.String(), result.Request.Status)
		assert.Equal(t, 1, result.Allocation.AllocatedCount)
		assert.True(t, f.batchRemaining(t, item.ID).Equal(decimal.NewFromInt(60)))

		// each line is approved with nothing left pending
		require.Len(t, result.Request.Items, 1)
		assert.Equal(t, inventory.RequestStatusApproved.String(), result.Request.Items[0].Status)
		assert.True(t, result.Request.Items[0].ApprovedQty.Equal(decimal.NewFromInt(40)))
		assert.True(t, result.Request.Items[0].PendingQty.IsZero())

		// ledger lines reference the request, not the project
		lines, err := f.stores.transactions.FindBySource(ctx,
			inventory.SourceTypeAllocationRequest, filed.ID.String())
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})

	t.Run("Approval re-checks availability and rejects uncoverable requests", func(t *testing.T) {
		f := newRequestFixture(t)
		drained := f.seedItem(t, "SND", [3]float64{0, 50, 5})
		covered := f.seedItem(t, "CEM", [3]float64{0, 100, 10})

		filed, err := f.service.CreateRequest(ctx, CreateRequestCommand{
			ProjectID:   projectID,
			ProjectName: "Riverside Apartments",
			Items: []AllocationItemInput{
				{ItemID: drained.ID, Quantity: decimal.NewFromInt(50)},
				{ItemID: covered.ID, Quantity: decimal.NewFromInt(10)},
			},
		})
		require.NoError(t, err)
		assert.False(t, filed.HasShortage)

		// stock for the first item disappears between filing and review
		for _, batch := range f.stores.batches.batches {
			if batch.ItemID == drained.ID {
				batch.RemainingQty = decimal.NewFromInt(5)
			}
		}

		_, err = f.service.ApproveRequest(ctx, filed.ID, ReviewRequestCommand{ReviewerID: uuid.New()})
		require.Error(t, err)

		var insufficient *inventory.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, drained.ID, insufficient.ItemID)

		// the request stays pending and no stock moved
		reloaded, err := f.service.GetRequest(ctx, filed.ID)
		require.NoError(t, err)
		assert.Equal(t, inventory.RequestStatusPending.String(), reloaded.Status)
		assert.True(t, f.batchRemaining(t, covered.ID).Equal(decimal.NewFromInt(100)))
	})

	t.Run("Rejection flips the status without moving stock", func(t *testing.T) {
		f := newRequestFixture(t)
		item := f.seedItem(t, "CEM", [3]float64{0, 100, 10})

		filed, err := f.service.CreateRequest(ctx, CreateRequestCommand{
			ProjectID:   projectID,
			ProjectName: "Riverside Apartments",
			Items:       []AllocationItemInput{{ItemID: item.ID, Quantity: decimal.NewFromInt(40)}},
		})
		require.NoError(t, err)

		rejected, err := f.service.RejectRequest(ctx, filed.ID, ReviewRequestCommand{
			ReviewerID: uuid.New(),
			Note:       "phase not sanctioned",
		})
		require.NoError(t, err)

		assert.Equal(t, inventory.RequestStatusRejected.String(), rejected.Status)
		assert.Equal(t, "phase not sanctioned", rejected.ReviewNote)
		assert.True(t, f.batchRemaining(t, item.ID).Equal(decimal.NewFromInt(100)))
	})

	t.Run("A reviewed request cannot be approved again", func(t *testing.T) {
		f := newRequestFixture(t)
		item := f.seedItem(t, "CEM", [3]float64{0, 100, 10})

		filed, err := f.service.CreateRequest(ctx, CreateRequestCommand{
			ProjectID:   projectID,
			ProjectName: "Riverside Apartments",
			Items:       []AllocationItemInput{{ItemID: item.ID, Quantity: decimal.NewFromInt(10)}},
		})
		require.NoError(t, err)

		_, err = f.service.RejectRequest(ctx, filed.ID, ReviewRequestCommand{ReviewerID: uuid.New()})
		require.NoError(t, err)

		_, err = f.service.ApproveRequest(ctx, filed.ID, ReviewRequestCommand{ReviewerID: uuid.New()})
		assert.Error(t, err)
		// and stock stays untouched
		assert.True(t, f.batchRemaining(t, item.ID).Equal(decimal.NewFromInt(100)))
	})

	t.Run("ListRequests filters by status", func(t *testing.T) {
		f := newRequestFixture(t)
		item := f.seedItem(t, "CEM", [3]float64{0, 100, 10})

		for i := 0; i < 3; i++ {
			_, err := f.service.CreateRequest(ctx, CreateRequestCommand{
				ProjectID:   projectID,
				ProjectName: "Riverside Apartments",
				Items:       []AllocationItemInput{{ItemID: item.ID, Quantity: decimal.NewFromInt(1)}},
			})
			require.NoError(t, err)
		}

		page, err := f.service.ListRequests(ctx, inventory.RequestStatusPending, sharedFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Items, 3)

		empty, err := f.service.ListRequests(ctx, inventory.RequestStatusApproved, sharedFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(0), empty.Total)
	})
}

func TestAvailabilityService(t *testing.T) {
	ctx := context.Background()

	t.Run("Reports master and batch-ledger stock side by side", func(t *testing.T) {
		f := newAllocationFixture(t)
		item := f.seedItem(t, "CEM",
			[3]float64{0, 5, 10},
			[3]float64{10, 10, 20},
		)
		service := NewAvailabilityService(f.stores.scope(), nil, zap.NewNop())

		response, err := service.GetAvailability(ctx, item.ID)
		require.NoError(t, err)

		assert.Equal(t, "CEM", response.ItemCode)
		assert.True(t, response.TotalStock.Equal(decimal.NewFromInt(15)))
		assert.True(t, response.BatchStock.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, 2, response.OpenBatches)
		require.NotNil(t, response.OldestBatch)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *response.OldestBatch)
	})

	t.Run("Unknown item returns an error", func(t *testing.T) {
		f := newAllocationFixture(t)
		service := NewAvailabilityService(f.stores.scope(), nil, zap.NewNop())
		_, err := service.GetAvailability(ctx, uuid.New())
		assert.Error(t, err)
	})
}
