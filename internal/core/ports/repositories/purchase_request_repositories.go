package repositories

import (
	"context"

	"github.com/procureflow/procurement_app/internal/core/domain"
)

// DecisionFunc is the state-machine transition run inside the request-scoped
// lock. It receives the freshly re-read request and the set of levels that
// already carry a decision, mutates the request, and returns the new Approval
// to append. Returning an error aborts the transaction; nothing persists.
type DecisionFunc func(req *domain.PurchaseRequest, decidedLevels map[int]bool) (*domain.Approval, error)

// PurchaseRequestReader defines read operations for purchase requests.
type PurchaseRequestReader interface {
	// FindRequestByID retrieves a request by its unique identifier.
	FindRequestByID(ctx context.Context, requestID string) (*domain.PurchaseRequest, error)

	// ListRequestsByOwner retrieves all requests created by the given user,
	// newest first.
	ListRequestsByOwner(ctx context.Context, ownerID string) ([]domain.PurchaseRequest, error)

	// ListRequestsByStatus retrieves all requests in the given status, newest first.
	ListRequestsByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.PurchaseRequest, error)

	// ListPendingRequestsAtLevel retrieves pending requests awaiting the given level.
	ListPendingRequestsAtLevel(ctx context.Context, level int) ([]domain.PurchaseRequest, error)

	// ListAllRequests retrieves every request, newest first.
	ListAllRequests(ctx context.Context) ([]domain.PurchaseRequest, error)
}

// PurchaseRequestWriter defines write operations for purchase requests.
type PurchaseRequestWriter interface {
	// SaveRequest persists a newly created request.
	SaveRequest(ctx context.Context, req domain.PurchaseRequest) error

	// UpdateRequestFields updates the creator-editable fields plus document
	// references and extraction metadata. Status and level are never touched
	// here; those only move through ApplyDecision.
	UpdateRequestFields(ctx context.Context, req domain.PurchaseRequest) error

	// ApplyDecision runs fn under an exclusive request-scoped lock: the request
	// row is re-read with the lock held, fn validates and mutates it, and the
	// returned Approval plus the request update commit as one atomic unit.
	// Concurrent callers on the same request serialize on the lock; the loser
	// observes the committed state and fails inside fn.
	ApplyDecision(ctx context.Context, requestID string, fn DecisionFunc) (*domain.PurchaseRequest, *domain.Approval, error)
}

// PurchaseRequestRepositoryFacade combines all purchase-request repository interfaces.
type PurchaseRequestRepositoryFacade interface {
	PurchaseRequestReader
	PurchaseRequestWriter
}
