package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus mirrors domain.RequestStatus at the persistence layer.
type RequestStatus string

const (
	Pending  RequestStatus = "PENDING"
	Approved RequestStatus = "APPROVED"
	Rejected RequestStatus = "REJECTED"
)

// PurchaseRequest is the persistence shape of a purchase request.
// Extraction and POMetadata are raw JSONB payloads.
type PurchaseRequest struct {
	RequestID    string          `json:"requestID"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Status       RequestStatus   `json:"status"`
	CurrentLevel int             `json:"currentLevel"`
	OwnerID      string          `json:"ownerID"`
	Supplier     *string         `json:"supplier,omitempty"`
	ApprovedAt   *time.Time      `json:"approvedAt,omitempty"`
	ProformaRef  *string         `json:"proformaRef,omitempty"`
	POFileRef    *string         `json:"poFileRef,omitempty"`
	ReceiptRef   *string         `json:"receiptRef,omitempty"`
	Extraction   []byte          `json:"-"`
	POMetadata   []byte          `json:"-"`
	AuditFields
}

// Approval is the persistence shape of a decision record.
type Approval struct {
	ApprovalID string    `json:"approvalID"`
	RequestID  string    `json:"requestID"`
	Level      int       `json:"level"`
	ApproverID string    `json:"approverID"`
	Decision   string    `json:"decision"`
	Comments   string    `json:"comments"`
	DecidedAt  time.Time `json:"decidedAt"`
}

// Attachment is the persistence shape of an ancillary file record.
type Attachment struct {
	AttachmentID string    `json:"attachmentID"`
	RequestID    string    `json:"requestID"`
	FileRef      *string   `json:"fileRef,omitempty"`
	ExternalURL  *string   `json:"externalURL,omitempty"`
	FileName     string    `json:"fileName"`
	ContentType  string    `json:"contentType"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// FinanceComment is the persistence shape of a finance note.
type FinanceComment struct {
	CommentID string    `json:"commentID"`
	RequestID string    `json:"requestID"`
	UserID    string    `json:"userID"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
