package inventory

import (
	"time"

	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestStatus represents the lifecycle state of an allocation request
type RequestStatus string

const (
	// RequestStatusPending means the request awaits review
	RequestStatusPending RequestStatus = "PENDING"
	// RequestStatusApproved means the request was approved and stock allocated
	RequestStatusApproved RequestStatus = "APPROVED"
	// RequestStatusRejected means the request was declined without stock movement
	RequestStatusRejected RequestStatus = "REJECTED"
)

// IsValid returns true if the status is valid
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// String returns the string representation
func (s RequestStatus) String() string {
	return string(s)
}

// AllocationRequest is a proposal to allocate stock to a project. Creating
// one never moves stock; only approval triggers an allocation.
type AllocationRequest struct {
	shared.BaseAggregateRoot
	RequestNumber string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	ProjectID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	ProjectName   string                  `gorm:"type:varchar(255);not null"`
	RequesterID   *uuid.UUID              `gorm:"type:uuid"`
	RequesterName string                  `gorm:"type:varchar(255)"`
	Status        RequestStatus           `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Notes         string                  `gorm:"type:text"`
	ReviewNote    string                  `gorm:"type:text"`
	ReviewerID    *uuid.UUID              `gorm:"type:uuid"`
	ReviewedAt    *time.Time              `gorm:"type:timestamptz"`
	Items         []AllocationRequestItem `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AllocationRequest) TableName() string {
	return "allocation_requests"
}

// AllocationRequestItem is a single requested line. The shortage snapshot
// captures availability at request time for the reviewer; it is advisory
// and is not re-checked until approval executes the allocation. Each line
// carries its own status alongside the parent's: the full requested
// quantity stays pending from filing until approval zeroes it.
type AllocationRequestItem struct {
	shared.BaseEntity
	RequestID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName     string          `gorm:"type:varchar(255);not null"`
	Unit         string          `gorm:"type:varchar(50);not null"`
	Status       RequestStatus   `gorm:"type:varchar(20);not null;default:'PENDING'"`
	RequestedQty decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AvailableQty decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShortageQty  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ApprovedQty  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PendingQty   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (AllocationRequestItem) TableName() string {
	return "allocation_request_items"
}

// NewAllocationRequest creates a pending allocation request
func NewAllocationRequest(requestNumber string, projectID uuid.UUID, projectName string) (*AllocationRequest, error) {
	if requestNumber == "" {
		return nil, shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if projectName == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project name cannot be empty")
	}

	return &AllocationRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestNumber:     requestNumber,
		ProjectID:         projectID,
		ProjectName:       projectName,
		Status:            RequestStatusPending,
		Items:             []AllocationRequestItem{},
	}, nil
}

// WithRequester records who filed the request
func (r *AllocationRequest) WithRequester(requesterID uuid.UUID, requesterName string) *AllocationRequest {
	r.RequesterID = &requesterID
	r.RequesterName = requesterName
	return r
}

// WithNotes sets free-form notes
func (r *AllocationRequest) WithNotes(notes string) *AllocationRequest {
	r.Notes = notes
	return r
}

// AddItem appends a requested line, snapshotting availability and shortage.
// Shortage is clamped at zero when availability covers the request.
func (r *AllocationRequest) AddItem(itemID uuid.UUID, itemName, unit string, requestedQty, availableQty decimal.Decimal) error {
	if r.Status != RequestStatusPending {
		return shared.NewDomainError("REQUEST_NOT_PENDING", "Cannot modify a reviewed request")
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if requestedQty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	shortage := requestedQty.Sub(availableQty)
	if shortage.IsNegative() {
		shortage = decimal.Zero
	}

	r.Items = append(r.Items, AllocationRequestItem{
		BaseEntity:   shared.NewBaseEntity(),
		RequestID:    r.ID,
		ItemID:       itemID,
		ItemName:     itemName,
		Unit:         unit,
		Status:       RequestStatusPending,
		RequestedQty: requestedQty,
		AvailableQty: availableQty,
		ShortageQty:  shortage,
		ApprovedQty:  decimal.Zero,
		PendingQty:   requestedQty,
	})
	return nil
}

// HasShortage returns true if any line could not be fully covered at request time
func (r *AllocationRequest) HasShortage() bool {
	for _, item := range r.Items {
		if item.ShortageQty.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// IsPending returns true if the request awaits review
func (r *AllocationRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// Approve transitions the request and every line to approved: each line's
// requested quantity moves from pending to approved. The caller is
// responsible for executing the allocation in the same transaction.
func (r *AllocationRequest) Approve(reviewerID uuid.UUID, note string) error {
	if r.Status != RequestStatusPending {
		return shared.NewDomainError("REQUEST_NOT_PENDING", "Only pending requests can be approved")
	}
	if len(r.Items) == 0 {
		return ErrEmptyAllocation
	}

	now := time.Now()
	r.Status = RequestStatusApproved
	r.ReviewerID = &reviewerID
	r.ReviewNote = note
	r.ReviewedAt = &now
	for i := range r.Items {
		r.Items[i].Status = RequestStatusApproved
		r.Items[i].ApprovedQty = r.Items[i].RequestedQty
		r.Items[i].PendingQty = decimal.Zero
	}
	r.IncrementVersion()
	return nil
}

// Reject declines the request without moving stock
func (r *AllocationRequest) Reject(reviewerID uuid.UUID, note string) error {
	if r.Status != RequestStatusPending {
		return shared.NewDomainError("REQUEST_NOT_PENDING", "Only pending requests can be rejected")
	}

	now := time.Now()
	r.Status = RequestStatusRejected
	r.ReviewerID = &reviewerID
	r.ReviewNote = note
	r.ReviewedAt = &now
	for i := range r.Items {
		r.Items[i].Status = RequestStatusRejected
		r.Items[i].PendingQty = decimal.Zero
	}
	r.IncrementVersion()
	return nil
}
