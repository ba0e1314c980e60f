package handler

import (
	inventoryapp "github.com/consite/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// PurchaseHandler handles purchase recording endpoints
type PurchaseHandler struct {
	BaseHandler
	purchases    *inventoryapp.PurchaseService
	availability *inventoryapp.AvailabilityService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchases *inventoryapp.PurchaseService, availability *inventoryapp.AvailabilityService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, availability: availability}
}

// Record books a purchase into a godown, opening a new batch
func (h *PurchaseHandler) Record(c *gin.Context) {
	var cmd inventoryapp.RecordPurchaseCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BadRequest(c, "Invalid purchase payload: "+err.Error())
		return
	}
	if cmd.OperatorID == nil {
		cmd.OperatorID = getOperatorID(c)
	}

	result, err := h.purchases.RecordPurchase(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// cached availability snapshots are stale once new stock lands
	h.availability.InvalidateAvailability(c.Request.Context(), result.ItemID)
	h.Created(c, result)
}
