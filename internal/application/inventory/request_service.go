package inventory

import (
	"context"
	"fmt"

	"github.com/consite/backend/internal/domain/inventory"
	"github.com/consite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService runs the request-then-approve workflow. Filing a request
// only snapshots availability for the reviewer; approving it executes the
// allocation and flips the status in the same transaction.
type RequestService struct {
	scope     TransactionScope
	allocator *AllocationService
	logger    *zap.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(scope TransactionScope, allocator *AllocationService, logger *zap.Logger) *RequestService {
	return &RequestService{
		scope:     scope,
		allocator: allocator,
		logger:    logger,
	}
}

// CreateRequest files a pending allocation request. No stock moves; each
// line records current availability and the shortage, if any, so the
// reviewer sees what approval can actually deliver.
func (s *RequestService) CreateRequest(ctx context.Context, cmd CreateRequestCommand) (*RequestResponse, error) {
	if len(cmd.Items) == 0 {
		return nil, inventory.ErrEmptyAllocation
	}

	var response *RequestResponse
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		requestNumber, err := stores.Sequences().Next(ctx, inventory.DocumentKindRequest)
		if err != nil {
			return fmt.Errorf("generate request number: %w", err)
		}

		request, err := inventory.NewAllocationRequest(requestNumber, cmd.ProjectID, cmd.ProjectName)
		if err != nil {
			return err
		}
		if cmd.RequesterID != nil {
			request.WithRequester(*cmd.RequesterID, cmd.RequesterName)
		}
		request.WithNotes(cmd.Notes)

		for _, line := range cmd.Items {
			item, err := stores.Items().FindByID(ctx, line.ItemID)
			if err != nil {
				return fmt.Errorf("load item %s: %w", line.ItemID, err)
			}
			// shortage is snapshotted against the item-master level,
			// the same availability gate callers see
			if err := request.AddItem(item.ID, item.Name, item.Unit, line.Quantity, item.TotalStock); err != nil {
				return err
			}
		}

		if err := stores.Requests().Save(ctx, request); err != nil {
			return fmt.Errorf("save request: %w", err)
		}
		response = ToRequestResponse(request)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("allocation request filed",
		zap.String("request_number", response.RequestNumber),
		zap.String("project_id", cmd.ProjectID.String()),
		zap.Bool("has_shortage", response.HasShortage),
	)
	return response, nil
}

// GetRequest returns a request with its lines
func (s *RequestService) GetRequest(ctx context.Context, requestID uuid.UUID) (*RequestResponse, error) {
	var response *RequestResponse
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		request, err := stores.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		response = ToRequestResponse(request)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListRequests returns requests in the given status
func (s *RequestService) ListRequests(ctx context.Context, status inventory.RequestStatus, filter shared.Filter) (*shared.Paginated[RequestResponse], error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown request status")
	}

	var page *shared.Paginated[RequestResponse]
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		requests, err := stores.Requests().FindByStatus(ctx, status, filter)
		if err != nil {
			return err
		}
		total, err := stores.Requests().CountByStatus(ctx, status)
		if err != nil {
			return err
		}

		responses := make([]RequestResponse, 0, len(requests))
		for i := range requests {
			responses = append(responses, *ToRequestResponse(&requests[i]))
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

// ApproveRequest approves a pending request and executes the allocation in
// the same transaction: every line flips to approved with its pending
// quantity zeroed. Availability is re-derived from the batch ledger at
// approval time; the snapshots taken at filing are not trusted, so a line
// that can no longer be covered rejects the approval and the request stays
// pending.
func (s *RequestService) ApproveRequest(ctx context.Context, requestID uuid.UUID, cmd ReviewRequestCommand) (*ApproveRequestResult, error) {
	var result *ApproveRequestResult
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		request, err := stores.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if err := request.Approve(cmd.ReviewerID, cmd.Note); err != nil {
			return err
		}

		lines := make([]AllocationItemInput, 0, len(request.Items))
		for _, item := range request.Items {
			lines = append(lines, AllocationItemInput{
				ItemID:   item.ItemID,
				Quantity: item.RequestedQty,
			})
		}

		allocation, err := s.allocator.allocateInScope(ctx, stores, AllocateStockCommand{
			ProjectID:   request.ProjectID,
			ProjectName: request.ProjectName,
			Items:       lines,
			RequestID:   &request.ID,
			OperatorID:  &cmd.ReviewerID,
			Notes:       request.Notes,
		})
		if err != nil {
			return err
		}

		if err := stores.Requests().SaveWithLock(ctx, request); err != nil {
			return err
		}

		result = &ApproveRequestResult{
			Request:    ToRequestResponse(request),
			Allocation: allocation,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("allocation request approved",
		zap.String("request_number", result.Request.RequestNumber),
		zap.Int("allocated", result.Allocation.AllocatedCount),
		zap.Int("failed", result.Allocation.FailedCount),
	)
	return result, nil
}

// RejectRequest declines a pending request. No stock moves.
func (s *RequestService) RejectRequest(ctx context.Context, requestID uuid.UUID, cmd ReviewRequestCommand) (*RequestResponse, error) {
	var response *RequestResponse
	err := s.scope.Execute(ctx, func(stores TransactionalStores) error {
		request, err := stores.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if err := request.Reject(cmd.ReviewerID, cmd.Note); err != nil {
			return err
		}
		if err := stores.Requests().SaveWithLock(ctx, request); err != nil {
			return err
		}
		response = ToRequestResponse(request)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
