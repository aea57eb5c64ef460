package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the lifecycle state of a purchase request.
// Approved and Rejected are terminal.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// PurchaseRequest is a staff purchase request moving through sequential
// approval levels. While Pending, CurrentLevel identifies the approver role
// whose decision is awaited; it never decreases.
type PurchaseRequest struct {
	RequestID    string          `json:"requestID"` // Primary key (UUID)
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Status       RequestStatus   `json:"status"`
	CurrentLevel int             `json:"currentLevel"`
	OwnerID      string          `json:"ownerID"` // Creator user ID
	Supplier     *string         `json:"supplier,omitempty"`
	ApprovedAt   *time.Time      `json:"approvedAt,omitempty"`

	// Document references resolved by the file storage collaborator.
	ProformaRef *string `json:"proformaRef,omitempty"`
	POFileRef   *string `json:"poFileRef,omitempty"`
	ReceiptRef  *string `json:"receiptRef,omitempty"`

	// Extraction holds the best-effort proforma extraction, when one was uploaded.
	Extraction *ExtractedDocument `json:"extraction,omitempty"`
	// PurchaseOrder is generated once, at final approval.
	PurchaseOrder *PurchaseOrderMetadata `json:"purchaseOrder,omitempty"`

	AuditFields
}

// IsFinalized reports whether the request reached a terminal state.
func (r *PurchaseRequest) IsFinalized() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}
