package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/procureflow/procurement_app/internal/core/domain"
)

// CreatePurchaseRequestRequest defines the payload for creating a request.
// Amount validation (present, non-negative) happens in the service so the
// error taxonomy stays in one place.
type CreatePurchaseRequestRequest struct {
	Title       string           `json:"title" binding:"required,max=255"`
	Description string           `json:"description" binding:"required"`
	Amount      *decimal.Decimal `json:"amount"`
	Supplier    *string          `json:"supplier" binding:"omitempty,max=255"`
}

// UpdatePurchaseRequestRequest defines the creator-editable fields. Pointers
// distinguish omitted fields from zero values.
type UpdatePurchaseRequestRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=255"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Supplier    *string          `json:"supplier" binding:"omitempty,max=255"`
}

// ApprovalResponse is the read view of a decision record.
type ApprovalResponse struct {
	ApprovalID string    `json:"approvalID"`
	Level      int       `json:"level"`
	Decision   string    `json:"decision"`
	Comments   string    `json:"comments"`
	DecidedAt  time.Time `json:"decidedAt"`
	ApproverID string    `json:"approverID"`
}

// PurchaseRequestResponse is the read view of a request with its decisions.
type PurchaseRequestResponse struct {
	RequestID     string                        `json:"requestID"`
	Title         string                        `json:"title"`
	Description   string                        `json:"description"`
	Amount        decimal.Decimal               `json:"amount"`
	Status        string                        `json:"status"`
	CurrentLevel  int                           `json:"currentLevel"`
	OwnerID       string                        `json:"ownerID"`
	Supplier      *string                       `json:"supplier,omitempty"`
	CreatedAt     time.Time                     `json:"createdAt"`
	UpdatedAt     time.Time                     `json:"updatedAt"`
	ApprovedAt    *time.Time                    `json:"approvedAt,omitempty"`
	ProformaRef   *string                       `json:"proformaRef,omitempty"`
	POFileRef     *string                       `json:"poFileRef,omitempty"`
	ReceiptRef    *string                       `json:"receiptRef,omitempty"`
	PurchaseOrder *domain.PurchaseOrderMetadata `json:"purchaseOrderMetadata,omitempty"`
	Approvals     []ApprovalResponse            `json:"approvals"`
}

// ToApprovalResponse converts a domain.Approval to its read view.
func ToApprovalResponse(a *domain.Approval) ApprovalResponse {
	return ApprovalResponse{
		ApprovalID: a.ApprovalID,
		Level:      a.Level,
		Decision:   string(a.Decision),
		Comments:   a.Comments,
		DecidedAt:  a.DecidedAt,
		ApproverID: a.ApproverID,
	}
}

// ToPurchaseRequestResponse converts a domain request plus its decisions to
// the read view.
func ToPurchaseRequestResponse(r *domain.PurchaseRequest, approvals []domain.Approval) PurchaseRequestResponse {
	approvalResponses := make([]ApprovalResponse, len(approvals))
	for i, a := range approvals {
		approvalResponses[i] = ToApprovalResponse(&a)
	}
	return PurchaseRequestResponse{
		RequestID:     r.RequestID,
		Title:         r.Title,
		Description:   r.Description,
		Amount:        r.Amount,
		Status:        string(r.Status),
		CurrentLevel:  r.CurrentLevel,
		OwnerID:       r.OwnerID,
		Supplier:      r.Supplier,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.LastUpdatedAt,
		ApprovedAt:    r.ApprovedAt,
		ProformaRef:   r.ProformaRef,
		POFileRef:     r.POFileRef,
		ReceiptRef:    r.ReceiptRef,
		PurchaseOrder: r.PurchaseOrder,
		Approvals:     approvalResponses,
	}
}

// ToPurchaseRequestResponses converts a slice of requests (without decisions).
func ToPurchaseRequestResponses(rs []domain.PurchaseRequest) []PurchaseRequestResponse {
	responses := make([]PurchaseRequestResponse, len(rs))
	for i := range rs {
		responses[i] = ToPurchaseRequestResponse(&rs[i], nil)
	}
	return responses
}
