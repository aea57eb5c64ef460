package services

import (
	"context"

	"github.com/procureflow/procurement_app/internal/core/domain"
)

// ApprovalService runs the decision state machine.
type ApprovalService interface {
	// Decide records the actor's verdict on the request's current level and
	// advances, approves, or rejects the request atomically.
	Decide(ctx context.Context, actor domain.Actor, requestID string, decision domain.Decision, comments string) (*domain.PurchaseRequest, *domain.Approval, error)
}
