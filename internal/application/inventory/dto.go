package inventory

import (
	"time"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationItemInput is one requested line of an allocation
type AllocationItemInput struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Notes    string          `json:"notes"`
}

// AllocateStockCommand asks for stock to be allocated to a project
type AllocateStockCommand struct {
	ProjectID   uuid.UUID             `json:"project_id" binding:"required"`
	ProjectName string                `json:"project_name" binding:"required"`
	Items       []AllocationItemInput `json:"items" binding:"required,min=1,dive"`
	RequestID   *uuid.UUID            `json:"request_id"` // set when executing an approved request
	OperatorID  *uuid.UUID            `json:"operator_id"`
	Notes       string                `json:"notes"`
}

// ItemOutcomeStatus classifies how one requested line fared
type ItemOutcomeStatus string

const (
	// ItemOutcomeAllocated means the line was fully allocated
	ItemOutcomeAllocated ItemOutcomeStatus = "ALLOCATED"
	// ItemOutcomeFailed means the line hit an unexpected write failure and
	// was rolled back on its own; shortages never reach an outcome, they
	// reject the whole request
	ItemOutcomeFailed ItemOutcomeStatus = "FAILED"
)

// ItemOutcome reports the result of one requested line
type ItemOutcome struct {
	ItemID       uuid.UUID         `json:"item_id"`
	ItemName     string            `json:"item_name,omitempty"`
	Status       ItemOutcomeStatus `json:"status"`
	Requested    decimal.Decimal   `json:"requested"`
	Allocated    decimal.Decimal   `json:"allocated"`
	UnitPrice    decimal.Decimal   `json:"unit_price,omitempty"` // weighted average across consumed batches
	TotalCost    decimal.Decimal   `json:"total_cost,omitempty"`
	BatchesUsed  int               `json:"batches_used,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// AllocationResult reports the full outcome of an allocation
type AllocationResult struct {
	TransactionNumber string          `json:"transaction_number"`
	ProjectID         uuid.UUID       `json:"project_id"`
	Outcomes          []ItemOutcome   `json:"outcomes"`
	AllocatedCount    int             `json:"allocated_count"`
	FailedCount       int             `json:"failed_count"`
	TotalValue        decimal.Decimal `json:"total_value"`
}

// RecordPurchaseCommand records a purchase of one item into one godown
type RecordPurchaseCommand struct {
	ItemID       uuid.UUID       `json:"item_id" binding:"required"`
	GodownID     uuid.UUID       `json:"godown_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	PurchaseDate time.Time       `json:"purchase_date" binding:"required"`
	SupplierName string          `json:"supplier_name"`
	Reference    string          `json:"reference"`
	OperatorID   *uuid.UUID      `json:"operator_id"`
}

// PurchaseResult reports a recorded purchase
type PurchaseResult struct {
	PurchaseNumber    string          `json:"purchase_number"`
	BatchNumber       string          `json:"batch_number"`
	TransactionNumber string          `json:"transaction_number"`
	ItemID            uuid.UUID       `json:"item_id"`
	GodownID          uuid.UUID       `json:"godown_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	TotalValue        decimal.Decimal `json:"total_value"`
}

// CreateRequestCommand files an allocation request for review
type CreateRequestCommand struct {
	ProjectID     uuid.UUID             `json:"project_id" binding:"required"`
	ProjectName   string                `json:"project_name" binding:"required"`
	Items         []AllocationItemInput `json:"items" binding:"required,min=1,dive"`
	RequesterID   *uuid.UUID            `json:"requester_id"`
	RequesterName string                `json:"requester_name"`
	Notes         string                `json:"notes"`
}

// ReviewRequestCommand approves or rejects a pending request
type ReviewRequestCommand struct {
	ReviewerID uuid.UUID `json:"reviewer_id" binding:"required"`
	Note       string    `json:"note"`
}

// RequestItemResponse is one line of an allocation request
type RequestItemResponse struct {
	ItemID       uuid.UUID       `json:"item_id"`
	ItemName     string          `json:"item_name"`
	Unit         string          `json:"unit"`
	Status       string          `json:"status"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	ShortageQty  decimal.Decimal `json:"shortage_qty"`
	ApprovedQty  decimal.Decimal `json:"approved_qty"`
	PendingQty   decimal.Decimal `json:"pending_qty"`
}

// RequestResponse represents an allocation request in API responses
type RequestResponse struct {
	ID            uuid.UUID             `json:"id"`
	RequestNumber string                `json:"request_number"`
	ProjectID     uuid.UUID             `json:"project_id"`
	ProjectName   string                `json:"project_name"`
	RequesterName string                `json:"requester_name,omitempty"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	ReviewNote    string                `json:"review_note,omitempty"`
	ReviewedAt    *time.Time            `json:"reviewed_at,omitempty"`
	HasShortage   bool                  `json:"has_shortage"`
	Items         []RequestItemResponse `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ApproveRequestResult combines the updated request with the allocation outcome
type ApproveRequestResult struct {
	Request    *RequestResponse  `json:"request"`
	Allocation *AllocationResult `json:"allocation"`
}

// ItemAvailabilityResponse reports the current availability of one item
type ItemAvailabilityResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ItemCode    string          `json:"item_code"`
	ItemName    string          `json:"item_name"`
	Unit        string          `json:"unit"`
	TotalStock  decimal.Decimal `json:"total_stock"`
	BatchStock  decimal.Decimal `json:"batch_stock"` // sum of remaining across open batches
	OpenBatches int             `json:"open_batches"`
	OldestBatch *time.Time      `json:"oldest_batch,omitempty"`
	RetrievedAt time.Time       `json:"retrieved_at"`
}

// AllocationResponse represents an accumulated project allocation row
type AllocationResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	ItemID      uuid.UUID       `json:"item_id"`
	ItemName    string          `json:"item_name"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransactionResponse represents one stock transaction line
type TransactionResponse struct {
	ID                uuid.UUID       `json:"id"`
	TransactionNumber string          `json:"transaction_number"`
	Direction         string          `json:"direction"`
	ItemID            uuid.UUID       `json:"item_id"`
	GodownID          uuid.UUID       `json:"godown_id"`
	BatchID           *uuid.UUID      `json:"batch_id,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalValue        decimal.Decimal `json:"total_value"`
	SourceType        string          `json:"source_type"`
	SourceID          string          `json:"source_id"`
	Reference         string          `json:"reference,omitempty"`
	TransactionDate   time.Time       `json:"transaction_date"`
}

// ToRequestResponse converts a domain request to its API representation
func ToRequestResponse(request *inventory.AllocationRequest) *RequestResponse {
	items := make([]RequestItemResponse, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, RequestItemResponse{
			ItemID:       item.ItemID,
			ItemName:     item.ItemName,
			Unit:         item.Unit,
			Status:       item.Status.String(),
			RequestedQty: item.RequestedQty,
			AvailableQty: item.AvailableQty,
			ShortageQty:  item.ShortageQty,
			ApprovedQty:  item.ApprovedQty,
			PendingQty:   item.PendingQty,
		})
	}
	return &RequestResponse{
		ID:            request.ID,
		RequestNumber: request.RequestNumber,
		ProjectID:     request.ProjectID,
		ProjectName:   request.ProjectName,
		RequesterName: request.RequesterName,
		Status:        request.Status.String(),
		Notes:         request.Notes,
		ReviewNote:    request.ReviewNote,
		ReviewedAt:    request.ReviewedAt,
		HasShortage:   request.HasShortage(),
		Items:         items,
		CreatedAt:     request.CreatedAt,
	}
}

// ToAllocationResponse converts a domain allocation to its API representation
func ToAllocationResponse(allocation *inventory.ProjectAllocation) *AllocationResponse {
	return &AllocationResponse{
		ID:          allocation.ID,
		ProjectID:   allocation.ProjectID,
		ItemID:      allocation.ItemID,
		ItemName:    allocation.ItemName,
		Unit:        allocation.Unit,
		Quantity:    allocation.Quantity,
		TotalCost:   allocation.TotalCost,
		UnitPrice:   allocation.UnitPrice,
		BatchNumber: allocation.BatchNumber,
		Notes:       allocation.Notes,
		UpdatedAt:   allocation.UpdatedAt,
	}
}

// ToTransactionResponse converts a domain transaction to its API representation
func ToTransactionResponse(txn *inventory.StockTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                txn.ID,
		TransactionNumber: txn.TransactionNumber,
		Direction:         txn.Direction.String(),
		ItemID:            txn.ItemID,
		GodownID:          txn.GodownID,
		BatchID:           txn.BatchID,
		Quantity:          txn.Quantity,
		UnitPrice:         txn.UnitPrice,
		TotalValue:        txn.TotalValue,
		SourceType:        txn.SourceType.String(),
		SourceID:          txn.SourceID,
		Reference:         txn.Reference,
		TransactionDate:   txn.TransactionDate,
	}
}
