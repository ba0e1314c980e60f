package persistence

import (
	"context"
	"errors"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAllocationStore implements inventory.AllocationStore using GORM
type GormAllocationStore struct {
	db *gorm.DB
}

// NewGormAllocationStore creates a new GormAllocationStore
func NewGormAllocationStore(db *gorm.DB) *GormAllocationStore {
	return &GormAllocationStore{db: db}
}

// FindByID finds an allocation by its ID
func (r *GormAllocationStore) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProjectAllocation, error) {
	var allocation inventory.ProjectAllocation
	if err := r.db.WithContext(ctx).First(&allocation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &allocation, nil
}

// FindByProjectAndItem finds the accumulated allocation row for a
// project-item pair
func (r *GormAllocationStore) FindByProjectAndItem(ctx context.Context, projectID, itemID uuid.UUID) (*inventory.ProjectAllocation, error) {
	var allocation inventory.ProjectAllocation
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND item_id = ?", projectID, itemID).
		First(&allocation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &allocation, nil
}

// FindByProject finds all allocations for a project
func (r *GormAllocationStore) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]inventory.ProjectAllocation, error) {
	var allocations []inventory.ProjectAllocation
	query := r.db.WithContext(ctx).Model(&inventory.ProjectAllocation{}).
		Where("project_id = ?", projectID)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, AllocationSortFields, "updated_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// CountByProject counts allocations for a project
func (r *GormAllocationStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.ProjectAllocation{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an allocation
func (r *GormAllocationStore) Save(ctx context.Context, allocation *inventory.ProjectAllocation) error {
	return r.db.WithContext(ctx).Save(allocation).Error
}

// Ensure GormAllocationStore implements AllocationStore
var _ inventory.AllocationStore = (*GormAllocationStore)(nil)
