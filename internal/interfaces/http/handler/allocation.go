package handler

import (
	inventoryapp "github.com/consite/backend/internal/application/inventory"
	"github.com/consite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AllocationHandler handles stock allocation endpoints
type AllocationHandler struct {
	BaseHandler
	allocations  *inventoryapp.AllocationService
	availability *inventoryapp.AvailabilityService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocations *inventoryapp.AllocationService, availability *inventoryapp.AvailabilityService) *AllocationHandler {
	return &AllocationHandler{allocations: allocations, availability: availability}
}

// invalidateOutcomes drops cached availability for every line that moved stock
func (h *AllocationHandler) invalidateOutcomes(c *gin.Context, result *inventoryapp.AllocationResult) {
	itemIDs := make([]uuid.UUID, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		if outcome.Status == inventoryapp.ItemOutcomeAllocated {
			itemIDs = append(itemIDs, outcome.ItemID)
		}
	}
	if len(itemIDs) > 0 {
		h.availability.InvalidateAvailability(c.Request.Context(), itemIDs...)
	}
}

// Allocate consumes batches FIFO to satisfy a direct allocation. Lines that
// cannot be covered are reported in the outcome list; covered lines commit.
func (h *AllocationHandler) Allocate(c *gin.Context) {
	var cmd inventoryapp.AllocateStockCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BadRequest(c, "Invalid allocation payload: "+err.Error())
		return
	}
	if cmd.OperatorID == nil {
		cmd.OperatorID = getOperatorID(c)
	}

	result, err := h.allocations.AllocateStock(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateOutcomes(c, result)
	h.Success(c, result)
}

// ListByProject returns the accumulated allocation rows for a project
func (h *AllocationHandler) ListByProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters: "+err.Error())
		return
	}

	page, err := h.allocations.ListProjectAllocations(c.Request.Context(), projectID, listFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListItemTransactions returns the ledger lines recorded for an item
func (h *AllocationHandler) ListItemTransactions(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters: "+err.Error())
		return
	}

	page, err := h.allocations.ListItemTransactions(c.Request.Context(), itemID, listFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
