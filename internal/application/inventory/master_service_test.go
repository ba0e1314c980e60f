package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateItem(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeStores, *MasterDataService) {
		stores := newFakeStores()
		return stores, NewMasterDataService(stores.scope(), zap.NewNop())
	}

	t.Run("Registers an item with zero opening stock", func(t *testing.T) {
		stores, service := setup(t)

		response, err := service.CreateItem(ctx, CreateItemCommand{
			Code:        "STL-TMT16",
			Name:        "TMT Bar 16mm",
			Unit:        "kg",
			Category:    "Steel",
			Subcategory: "TMT",
			Company:     "Tata Steel",
		})
		require.NoError(t, err)

		assert.Equal(t, "STL-TMT16", response.Code)
		assert.Equal(t, "Steel", response.Category)
		assert.True(t, response.TotalStock.IsZero())

		saved, err := stores.items.FindByID(ctx, response.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tata Steel", saved.Company)
	})

	t.Run("Rejects a duplicate code", func(t *testing.T) {
		_, service := setup(t)

		_, err := service.CreateItem(ctx, CreateItemCommand{Code: "CEM-001", Name: "Cement", Unit: "bag"})
		require.NoError(t, err)

		_, err = service.CreateItem(ctx, CreateItemCommand{Code: "CEM-001", Name: "Another Cement", Unit: "bag"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("Rejects an empty code", func(t *testing.T) {
		_, service := setup(t)

		_, err := service.CreateItem(ctx, CreateItemCommand{Code: "", Name: "Cement", Unit: "bag"})
		assert.Error(t, err)
	})
}

func TestGetAndListItems(t *testing.T) {
	ctx := context.Background()

	stores := newFakeStores()
	service := NewMasterDataService(stores.scope(), zap.NewNop())

	created, err := service.CreateItem(ctx, CreateItemCommand{Code: "SND-01", Name: "River Sand", Unit: "cft"})
	require.NoError(t, err)

	t.Run("GetItem returns the stored item", func(t *testing.T) {
		item, err := service.GetItem(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "River Sand", item.Name)
	})

	t.Run("GetItem reports missing items", func(t *testing.T) {
		_, err := service.GetItem(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("ListItems pages over the master", func(t *testing.T) {
		page, err := service.ListItems(ctx, sharedFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "SND-01", page.Items[0].Code)
	})
}

func TestCreateGodown(t *testing.T) {
	ctx := context.Background()

	stores := newFakeStores()
	service := NewMasterDataService(stores.scope(), zap.NewNop())

	t.Run("Registers a godown", func(t *testing.T) {
		response, err := service.CreateGodown(ctx, CreateGodownCommand{
			Code:     "GD-EAST",
			Name:     "East Yard",
			Location: "Nagpur",
		})
		require.NoError(t, err)
		assert.Equal(t, "GD-EAST", response.Code)

		saved, err := stores.godowns.FindByID(ctx, response.ID)
		require.NoError(t, err)
		assert.Equal(t, "Nagpur", saved.Location)
	})

	t.Run("Rejects a duplicate code", func(t *testing.T) {
		_, err := service.CreateGodown(ctx, CreateGodownCommand{Code: "GD-EAST", Name: "Other Yard"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("ListGodowns returns every godown", func(t *testing.T) {
		godowns, err := service.ListGodowns(ctx, sharedFilter())
		require.NoError(t, err)
		assert.Len(t, godowns, 1)
	})
}

func TestListGodownStock(t *testing.T) {
	ctx := context.Background()

	stores := newFakeStores()
	service := NewMasterDataService(stores.scope(), zap.NewNop())

	godown, err := inventory.NewGodown("GD-01", "Main Godown", "")
	require.NoError(t, err)
	require.NoError(t, stores.godowns.Save(ctx, godown))

	itemID := uuid.New()
	require.NoError(t, stores.godownStocks.AdjustQuantity(ctx, godown.ID, itemID, decimal.NewFromInt(75)))

	t.Run("Returns stock rows for the godown", func(t *testing.T) {
		rows, err := service.ListGodownStock(ctx, godown.ID, sharedFilter())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, itemID, rows[0].ItemID)
		assert.True(t, rows[0].Quantity.Equal(decimal.NewFromInt(75)))
	})

	t.Run("Reports an unknown godown", func(t *testing.T) {
		_, err := service.ListGodownStock(ctx, uuid.New(), sharedFilter())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
