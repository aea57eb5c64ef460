package repositories

import (
	"context"

	"github.com/procureflow/procurement_app/internal/core/domain"
)

// ApprovalReader defines read operations for decision records. Approvals are
// append-only; they are written exclusively through
// PurchaseRequestWriter.ApplyDecision.
type ApprovalReader interface {
	// FindApprovalsByRequestID retrieves the decision records for a request,
	// ordered by level.
	FindApprovalsByRequestID(ctx context.Context, requestID string) ([]domain.Approval, error)

	// FindApprovalsByRequestIDs retrieves decision records for multiple
	// requests, grouped by request ID.
	FindApprovalsByRequestIDs(ctx context.Context, requestIDs []string) (map[string][]domain.Approval, error)
}

// ApprovalRepositoryFacade is the full approval repository surface.
type ApprovalRepositoryFacade interface {
	ApprovalReader
}
