package persistence

import (
	"context"
	"errors"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRequestStore implements inventory.RequestStore using GORM
type GormRequestStore struct {
	db *gorm.DB
}

// NewGormRequestStore creates a new GormRequestStore
func NewGormRequestStore(db *gorm.DB) *GormRequestStore {
	return &GormRequestStore{db: db}
}

// FindByID finds a request with its items by ID
func (r *GormRequestStore) FindByID(ctx context.Context, id uuid.UUID) (*inventory.AllocationRequest, error) {
	var request inventory.AllocationRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByRequestNumber finds a request by its unique number
func (r *GormRequestStore) FindByRequestNumber(ctx context.Context, requestNumber string) (*inventory.AllocationRequest, error) {
	var request inventory.AllocationRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&request, "request_number = ?", requestNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByStatus finds requests in a given status
func (r *GormRequestStore) FindByStatus(ctx context.Context, status inventory.RequestStatus, filter shared.Filter) ([]inventory.AllocationRequest, error) {
	var requests []inventory.AllocationRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.AllocationRequest{}).
			Preload("Items").
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByProject finds requests filed for a project
func (r *GormRequestStore) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]inventory.AllocationRequest, error) {
	var requests []inventory.AllocationRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.AllocationRequest{}).
			Preload("Items").
			Where("project_id = ?", projectID),
		filter,
	)
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CountByStatus counts requests in a given status
func (r *GormRequestStore) CountByStatus(ctx context.Context, status inventory.RequestStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.AllocationRequest{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a request and its items
func (r *GormRequestStore) Save(ctx context.Context, request *inventory.AllocationRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// SaveWithLock saves with optimistic locking (checks version). The status
// flip of a review must never overwrite a concurrent review. The item rows
// carry their own status and pending quantities, so they are written once
// the guarded parent update went through.
func (r *GormRequestStore) SaveWithLock(ctx context.Context, request *inventory.AllocationRequest) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.AllocationRequest{}).
		Where("id = ? AND version = ?", request.ID, request.Version-1).
		Updates(map[string]interface{}{
			"status":      request.Status,
			"review_note": request.ReviewNote,
			"reviewer_id": request.ReviewerID,
			"reviewed_at": request.ReviewedAt,
			"version":     request.Version,
			"updated_at":  request.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Request was modified by another transaction")
	}

	for i := range request.Items {
		item := &request.Items[i]
		if err := r.db.WithContext(ctx).
			Model(&inventory.AllocationRequestItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"status":       item.Status,
				"approved_qty": item.ApprovedQty,
				"pending_qty":  item.PendingQty,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormRequestStore) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, RequestSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	return query
}

// Ensure GormRequestStore implements RequestStore
var _ inventory.RequestStore = (*GormRequestStore)(nil)
