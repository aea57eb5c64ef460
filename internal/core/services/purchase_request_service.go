package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procureflow/procurement_app/internal/apperrors"
	"github.com/procureflow/procurement_app/internal/core/domain"
	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
	"github.com/procureflow/procurement_app/internal/dto"
)

var (
	ErrInvalidAmount      = fmt.Errorf("amount must be a non-negative decimal: %w", apperrors.ErrValidation)
	ErrStaffOnlyCreate    = fmt.Errorf("only staff may create purchase requests: %w", apperrors.ErrForbidden)
	ErrNotRequestOwner    = fmt.Errorf("you may only modify your own requests: %w", apperrors.ErrForbidden)
	ErrRequestNotEditable = fmt.Errorf("only pending requests can be modified: %w", apperrors.ErrInvalidState)
	ErrRequestNotVisible  = fmt.Errorf("request is not visible to this role: %w", apperrors.ErrForbidden)
)

// purchaseRequestService handles the request lifecycle outside of decisions.
type purchaseRequestService struct {
	BaseService
	requestRepo  portsrepo.PurchaseRequestRepositoryFacade
	approvalRepo portsrepo.ApprovalRepositoryFacade
}

// NewPurchaseRequestService creates a new PurchaseRequestService.
func NewPurchaseRequestService(requestRepo portsrepo.PurchaseRequestRepositoryFacade, approvalRepo portsrepo.ApprovalRepositoryFacade) portssvc.PurchaseRequestService {
	return &purchaseRequestService{
		requestRepo:  requestRepo,
		approvalRepo: approvalRepo,
	}
}

var _ portssvc.PurchaseRequestService = (*purchaseRequestService)(nil)

func validateAmount(amount *decimal.Decimal) error {
	if amount == nil || amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// CreateRequest opens a new request at approval level 1.
func (s *purchaseRequestService) CreateRequest(ctx context.Context, actor domain.Actor, req dto.CreatePurchaseRequestRequest) (*domain.PurchaseRequest, error) {
	if !CanCreateRequest(actor) {
		return nil, ErrStaffOnlyCreate
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	now := time.Now()
	request := domain.PurchaseRequest{
		RequestID:    uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Amount:       *req.Amount,
		Status:       domain.StatusPending,
		CurrentLevel: 1,
		OwnerID:      actor.UserID,
		Supplier:     req.Supplier,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.requestRepo.SaveRequest(ctx, request); err != nil {
		s.LogError(ctx, err, "failed to save purchase request", "owner_id", actor.UserID)
		return nil, err
	}
	s.LogInfo(ctx, "purchase request created", "request_id", request.RequestID, "owner_id", actor.UserID)
	return &request, nil
}

// UpdateRequest edits creator-owned fields while the request is pending.
func (s *purchaseRequestService) UpdateRequest(ctx context.Context, actor domain.Actor, requestID string, req dto.UpdatePurchaseRequestRequest) (*domain.PurchaseRequest, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleStaff || request.OwnerID != actor.UserID {
		return nil, ErrNotRequestOwner
	}
	if request.Status != domain.StatusPending {
		return nil, ErrRequestNotEditable
	}

	if req.Title != nil {
		request.Title = *req.Title
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.Amount != nil {
		if err := validateAmount(req.Amount); err != nil {
			return nil, err
		}
		request.Amount = *req.Amount
	}
	if req.Supplier != nil {
		request.Supplier = req.Supplier
	}
	request.LastUpdatedAt = time.Now()
	request.LastUpdatedBy = actor.UserID

	if err := s.requestRepo.UpdateRequestFields(ctx, *request); err != nil {
		s.LogError(ctx, err, "failed to update purchase request", "request_id", requestID)
		return nil, err
	}
	return request, nil
}

// GetRequest fetches one request with its decision history.
func (s *purchaseRequestService) GetRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.PurchaseRequest, []domain.Approval, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if !CanViewRequest(actor, request) {
		// Hide existence from roles without visibility.
		return nil, nil, apperrors.NewNotFoundError("purchase request not found")
	}
	approvals, err := s.approvalRepo.FindApprovalsByRequestID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	return request, approvals, nil
}

// ListVisibleRequests returns the requests the actor's role may see: staff
// see their own, everyone else with request visibility sees all.
func (s *purchaseRequestService) ListVisibleRequests(ctx context.Context, actor domain.Actor) ([]domain.PurchaseRequest, error) {
	switch actor.Role {
	case domain.RoleStaff:
		return s.requestRepo.ListRequestsByOwner(ctx, actor.UserID)
	case domain.RoleApproverLevel1, domain.RoleApproverLevel2, domain.RoleFinance, domain.RoleAdmin:
		return s.requestRepo.ListAllRequests(ctx)
	default:
		return nil, ErrRequestNotVisible
	}
}

// ListPendingForApprover returns pending requests waiting at the actor's level.
func (s *purchaseRequestService) ListPendingForApprover(ctx context.Context, actor domain.Actor) ([]domain.PurchaseRequest, error) {
	if !CanDecide(actor) {
		return nil, ErrNotAnApprover
	}
	for level := 1; level <= domain.MaxApprovalLevel; level++ {
		if role, ok := domain.RoleForLevel(level); ok && role == actor.Role {
			return s.requestRepo.ListPendingRequestsAtLevel(ctx, level)
		}
	}
	return nil, ErrNotAnApprover
}

// ListApprovedRequests returns fully approved requests for finance review.
func (s *purchaseRequestService) ListApprovedRequests(ctx context.Context, actor domain.Actor) ([]domain.PurchaseRequest, error) {
	if actor.Role != domain.RoleFinance && actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("finance role required: %w", apperrors.ErrForbidden)
	}
	return s.requestRepo.ListRequestsByStatus(ctx, domain.StatusApproved)
}
