package handler

import (
	"strings"

	inventoryapp "github.com/consite/backend/internal/application/inventory"
	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestHandler handles the allocation request workflow endpoints
type RequestHandler struct {
	BaseHandler
	requests     *inventoryapp.RequestService
	availability *inventoryapp.AvailabilityService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requests *inventoryapp.RequestService, availability *inventoryapp.AvailabilityService) *RequestHandler {
	return &RequestHandler{requests: requests, availability: availability}
}

// Create files an allocation request for review. No stock moves until the
// request is approved.
func (h *RequestHandler) Create(c *gin.Context) {
	var cmd inventoryapp.CreateRequestCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if cmd.RequesterID == nil {
		cmd.RequesterID = getOperatorID(c)
	}

	request, err := h.requests.CreateRequest(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// GetByID returns one allocation request with its lines
func (h *RequestHandler) GetByID(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	request, err := h.requests.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// List returns requests in a given status, pending by default
func (h *RequestHandler) List(c *gin.Context) {
	status := inventory.RequestStatusPending
	if raw := c.Query("status"); raw != "" {
		status = inventory.RequestStatus(strings.ToUpper(raw))
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters: "+err.Error())
		return
	}

	page, err := h.requests.ListRequests(c.Request.Context(), status, listFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Approve approves a pending request and executes the allocation
func (h *RequestHandler) Approve(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var cmd inventoryapp.ReviewRequestCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BadRequest(c, "Invalid review payload: "+err.Error())
		return
	}

	result, err := h.requests.ApproveRequest(c.Request.Context(), requestID, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Allocation != nil {
		itemIDs := make([]uuid.UUID, 0, len(result.Allocation.Outcomes))
		for _, outcome := range result.Allocation.Outcomes {
			if outcome.Status == inventoryapp.ItemOutcomeAllocated {
				itemIDs = append(itemIDs, outcome.ItemID)
			}
		}
		if len(itemIDs) > 0 {
			h.availability.InvalidateAvailability(c.Request.Context(), itemIDs...)
		}
	}
	h.Success(c, result)
}

// Reject declines a pending request without moving stock
func (h *RequestHandler) Reject(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var cmd inventoryapp.ReviewRequestCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BadRequest(c, "Invalid review payload: "+err.Error())
		return
	}

	request, err := h.requests.RejectRequest(c.Request.Context(), requestID, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}
