package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/procurement_app/internal/apperrors"
	"github.com/procureflow/procurement_app/internal/core/domain"
	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
	"github.com/procureflow/procurement_app/internal/utils/podocument"
)

var (
	ErrAlreadyFinalized  = fmt.Errorf("request already finalized: %w", apperrors.ErrInvalidState)
	ErrWrongApprover     = fmt.Errorf("approver is not assigned to this approval level: %w", apperrors.ErrForbidden)
	ErrDuplicateDecision = fmt.Errorf("decision already recorded for this level: %w", apperrors.ErrDuplicate)
	ErrNotAnApprover     = fmt.Errorf("only approvers may decide on requests: %w", apperrors.ErrForbidden)
)

// approvalService runs the decision state machine. All transition logic
// executes inside the repository's row lock so concurrent decisions on the
// same request serialize and the loser fails cleanly.
type approvalService struct {
	BaseService
	requestRepo portsrepo.PurchaseRequestRepositoryFacade
	fileStore   portsrepo.FileStore
}

// NewApprovalService creates a new ApprovalService.
func NewApprovalService(requestRepo portsrepo.PurchaseRequestRepositoryFacade, fileStore portsrepo.FileStore) portssvc.ApprovalService {
	return &approvalService{
		requestRepo: requestRepo,
		fileStore:   fileStore,
	}
}

var _ portssvc.ApprovalService = (*approvalService)(nil)

// buildPurchaseOrderMetadata snapshots the request into purchase order
// metadata. Proforma extraction fills vendor, items and total when present;
// the total falls back to the requested amount.
func buildPurchaseOrderMetadata(req *domain.PurchaseRequest) *domain.PurchaseOrderMetadata {
	po := &domain.PurchaseOrderMetadata{
		RequestID:     req.RequestID,
		Title:         req.Title,
		Amount:        req.Amount.StringFixed(2),
		Vendor:        "Unknown Vendor",
		Items:         []string{},
		TotalEstimate: req.Amount.StringFixed(2),
	}
	if req.Extraction != nil {
		if req.Extraction.Vendor != "" {
			po.Vendor = req.Extraction.Vendor
		}
		if len(req.Extraction.Items) > 0 {
			po.Items = req.Extraction.Items
		}
		if req.Extraction.TotalEstimate != "" && req.Extraction.TotalEstimate != "0.00" {
			po.TotalEstimate = req.Extraction.TotalEstimate
		}
	}
	return po
}

// Decide records the actor's verdict on the request's current level.
func (s *approvalService) Decide(ctx context.Context, actor domain.Actor, requestID string, decision domain.Decision, comments string) (*domain.PurchaseRequest, *domain.Approval, error) {
	if !CanDecide(actor) {
		return nil, nil, ErrNotAnApprover
	}

	now := time.Now()
	updated, approval, err := s.requestRepo.ApplyDecision(ctx, requestID, func(req *domain.PurchaseRequest, decidedLevels map[int]bool) (*domain.Approval, error) {
		if req.IsFinalized() {
			return nil, ErrAlreadyFinalized
		}
		expectedRole, ok := domain.RoleForLevel(req.CurrentLevel)
		if !ok || actor.Role != expectedRole {
			return nil, ErrWrongApprover
		}
		if decidedLevels[req.CurrentLevel] {
			return nil, ErrDuplicateDecision
		}

		approval := &domain.Approval{
			ApprovalID: uuid.NewString(),
			RequestID:  req.RequestID,
			Level:      req.CurrentLevel,
			ApproverID: actor.UserID,
			Decision:   decision,
			Comments:   comments,
			DecidedAt:  now,
		}

		switch {
		case decision == domain.DecisionRejected:
			req.Status = domain.StatusRejected
		case req.CurrentLevel >= domain.MaxApprovalLevel:
			req.Status = domain.StatusApproved
			req.ApprovedAt = &now
			req.PurchaseOrder = buildPurchaseOrderMetadata(req)
			poRef := podocument.FileRef(req.RequestID)
			req.POFileRef = &poRef
		default:
			req.CurrentLevel++
		}
		req.LastUpdatedAt = now
		req.LastUpdatedBy = actor.UserID
		return approval, nil
	})
	if err != nil {
		s.LogError(ctx, err, "decision failed", "request_id", requestID, "approver_id", actor.UserID)
		return nil, nil, err
	}

	s.LogInfo(ctx, "decision recorded",
		"request_id", updated.RequestID,
		"level", approval.Level,
		"decision", string(approval.Decision),
		"status", string(updated.Status))

	// Artifact rendering is slow I/O, so it happens after the row lock is
	// released. Failures leave the metadata intact and are retried on the
	// next download.
	if updated.Status == domain.StatusApproved && updated.PurchaseOrder != nil {
		s.renderPurchaseOrderArtifacts(ctx, updated)
	}
	return updated, approval, nil
}

func (s *approvalService) renderPurchaseOrderArtifacts(ctx context.Context, req *domain.PurchaseRequest) {
	pdfBytes, err := podocument.RenderPDF(req.PurchaseOrder)
	if err != nil {
		s.LogError(ctx, err, "failed to render purchase order pdf", "request_id", req.RequestID)
		return
	}
	if _, err := s.fileStore.Save(ctx, podocument.FileRef(req.RequestID), pdfBytes); err != nil {
		s.LogError(ctx, err, "failed to store purchase order pdf", "request_id", req.RequestID)
		return
	}
	sidecar, err := podocument.RenderSidecar(req.PurchaseOrder)
	if err != nil {
		s.LogError(ctx, err, "failed to serialize purchase order metadata", "request_id", req.RequestID)
		return
	}
	if _, err := s.fileStore.Save(ctx, podocument.SidecarRef(req.RequestID), sidecar); err != nil {
		s.LogError(ctx, err, "failed to store purchase order sidecar", "request_id", req.RequestID)
	}
}
