package handler

import (
	inventoryapp "github.com/consite/backend/internal/application/inventory"
	"github.com/consite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MasterDataHandler handles item master and godown endpoints
type MasterDataHandler struct {
	BaseHandler
	masterData *inventoryapp.MasterDataService
}

// NewMasterDataHandler creates a new MasterDataHandler
func NewMasterDataHandler(masterData *inventoryapp.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{masterData: masterData}
}

// CreateItem registers a new item in the item master
func (h *MasterDataHandler) CreateItem(c *gin.Context) {
	var cmd inventoryapp.CreateItemCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BadRequest(c, "Invalid item payload: "+err.Error())
		return
	}

	item, err := h.masterData.CreateItem(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetItem returns one item master row
func (h *MasterDataHandler) GetItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	item, err := h.masterData.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListItems returns a page of item master rows
func (h *MasterDataHandler) ListItems(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters: "+err.Error())
		return
	}

	page, err := h.masterData.ListItems(c.Request.Context(), listFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// CreateGodown registers a new godown
func (h *MasterDataHandler) CreateGodown(c *gin.Context) {
	var cmd inventoryapp.CreateGodownCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BadRequest(c, "Invalid godown payload: "+err.Error())
		return
	}

	godown, err := h.masterData.CreateGodown(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, godown)
}

// ListGodowns returns all godowns
func (h *MasterDataHandler) ListGodowns(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters: "+err.Error())
		return
	}

	godowns, err := h.masterData.ListGodowns(c.Request.Context(), listFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, godowns)
}

// ListGodownStock returns the stock rows held in one godown
func (h *MasterDataHandler) ListGodownStock(c *gin.Context) {
	godownID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid godown ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters: "+err.Error())
		return
	}

	rows, err := h.masterData.ListGodownStock(c.Request.Context(), godownID, listFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
