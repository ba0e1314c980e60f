package handler

import (
	inventoryapp "github.com/consite/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AvailabilityHandler handles availability query endpoints
type AvailabilityHandler struct {
	BaseHandler
	availability *inventoryapp.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(availability *inventoryapp.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Get returns the current availability snapshot for one item
func (h *AvailabilityHandler) Get(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	snapshot, err := h.availability.GetAvailability(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}
