package services

import (
	"context"

	"github.com/procureflow/procurement_app/internal/core/domain"
	"github.com/procureflow/procurement_app/internal/dto"
)

// PurchaseRequestService defines the request lifecycle operations outside of
// approval decisions.
type PurchaseRequestService interface {
	// CreateRequest opens a new request owned by the actor at level 1.
	CreateRequest(ctx context.Context, actor domain.Actor, req dto.CreatePurchaseRequestRequest) (*domain.PurchaseRequest, error)
	// UpdateRequest edits creator-owned fields while the request is still pending.
	UpdateRequest(ctx context.Context, actor domain.Actor, requestID string, req dto.UpdatePurchaseRequestRequest) (*domain.PurchaseRequest, error)
	// GetRequest fetches one request with its decision history, enforcing visibility.
	GetRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.PurchaseRequest, []domain.Approval, error)
	// ListVisibleRequests returns the requests the actor's role may see.
	ListVisibleRequests(ctx context.Context, actor domain.Actor) ([]domain.PurchaseRequest, error)
	// ListPendingForApprover returns pending requests waiting at the actor's level.
	ListPendingForApprover(ctx context.Context, actor domain.Actor) ([]domain.PurchaseRequest, error)
	// ListApprovedRequests returns fully approved requests for finance review.
	ListApprovedRequests(ctx context.Context, actor domain.Actor) ([]domain.PurchaseRequest, error)
}
