package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateItemCommand registers a new item in the item master
type CreateItemCommand struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=255"`
	Unit        string `json:"unit" binding:"required,max=30"`
	Category    string `json:"category" binding:"max=100"`
	Subcategory string `json:"subcategory" binding:"max=100"`
	Company     string `json:"company" binding:"max=100"`
}

// ItemResponse represents an item master row in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	Company     string          `json:"company,omitempty"`
	TotalStock  decimal.Decimal `json:"total_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateGodownCommand registers a new godown
type CreateGodownCommand struct {
	Code     string `json:"code" binding:"required,max=50"`
	Name     string `json:"name" binding:"required,max=255"`
	Location string `json:"location" binding:"max=255"`
}

// GodownResponse represents a godown in API responses
type GodownResponse struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Location string    `json:"location,omitempty"`
}

// GodownStockResponse represents one godown-item stock row
type GodownStockResponse struct {
	GodownID uuid.UUID       `json:"godown_id"`
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ToItemResponse converts a domain item to its API representation
func ToItemResponse(item *inventory.Item) *ItemResponse {
	return &ItemResponse{
		ID:          item.ID,
		Code:        item.Code,
		Name:        item.Name,
		Unit:        item.Unit,
		Category:    item.Category,
		Subcategory: item.Subcategory,
		Company:     item.Company,
		TotalStock:  item.TotalStock,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ToGodownResponse converts a domain godown to its API representation
func ToGodownResponse(godown *inventory.Godown) *GodownResponse {
	return &GodownResponse{
		ID:       godown.ID,
		Code:     godown.Code,
		Name:     godown.Name,
		Location: godown.Location,
	}
}

// MasterDataService manages the item master and godown registry. These are
// slow-moving reference tables; all quantity movement goes through the
// purchase and allocation services.
type MasterDataService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewMasterDataService creates a new MasterDataService
func NewMasterDataService(scope TransactionScope, logger *zap.Logger) *MasterDataService {
	return &MasterDataService{scope: scope, logger: logger}
}

// CreateItem registers an item with zero opening stock
func (s *MasterDataService) CreateItem(ctx context.Context, cmd CreateItemCommand) (*ItemResponse, error) {
	var response *ItemResponse
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		existing, err := stores.Items().FindByCode(ctx, cmd.Code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "Item code is already registered")
		}

		item, err := inventory.NewItem(cmd.Code, cmd.Name, cmd.Unit)
		if err != nil {
			return err
		}
		item.Category = cmd.Category
		item.Subcategory = cmd.Subcategory
		item.Company = cmd.Company
		if err := stores.Items().Save(ctx, item); err != nil {
			return err
		}
		response = ToItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item registered",
		zap.String("item_id", response.ID.String()),
		zap.String("code", response.Code),
	)
	return response, nil
}

// GetItem returns one item master row
func (s *MasterDataService) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemResponse, error) {
	var response *ItemResponse
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		item, err := stores.Items().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		response = ToItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListItems returns items matching the filter
func (s *MasterDataService) ListItems(ctx context.Context, filter shared.Filter) (*shared.Paginated[ItemResponse], error) {
	var page *shared.Paginated[ItemResponse]
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		items, err := stores.Items().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err := stores.Items().Count(ctx, filter)
		if err != nil {
			return err
		}

		responses := make([]ItemResponse, 0, len(items))
		for i := range items {
			responses = append(responses, *ToItemResponse(&items[i]))
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

// CreateGodown registers a godown
func (s *MasterDataService) CreateGodown(ctx context.Context, cmd CreateGodownCommand) (*GodownResponse, error) {
	var response *GodownResponse
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		existing, err := stores.Godowns().FindByCode(ctx, cmd.Code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "Godown code is already registered")
		}

		godown, err := inventory.NewGodown(cmd.Code, cmd.Name, cmd.Location)
		if err != nil {
			return err
		}
		if err := stores.Godowns().Save(ctx, godown); err != nil {
			return err
		}
		response = ToGodownResponse(godown)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("godown registered",
		zap.String("godown_id", response.ID.String()),
		zap.String("code", response.Code),
	)
	return response, nil
}

// ListGodowns returns godowns matching the filter
func (s *MasterDataService) ListGodowns(ctx context.Context, filter shared.Filter) ([]GodownResponse, error) {
	var responses []GodownResponse
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		godowns, err := stores.Godowns().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		responses = make([]GodownResponse, 0, len(godowns))
		for i := range godowns {
			responses = append(responses, *ToGodownResponse(&godowns[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// ListGodownStock returns the stock rows held in one godown
func (s *MasterDataService) ListGodownStock(ctx context.Context, godownID uuid.UUID, filter shared.Filter) ([]GodownStockResponse, error) {
	var responses []GodownStockResponse
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		if _, err := stores.Godowns().FindByID(ctx, godownID); err != nil {
			return err
		}
		rows, err := stores.GodownStocks().FindByGodown(ctx, godownID, filter)
		if err != nil {
			return err
		}
		responses = make([]GodownStockResponse, 0, len(rows))
		for i := range rows {
			responses = append(responses, GodownStockResponse{
				GodownID: rows[i].GodownID,
				ItemID:   rows[i].ItemID,
				Quantity: rows[i].Quantity,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}
