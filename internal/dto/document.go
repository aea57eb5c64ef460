package dto

import (
	"github.com/procureflow/procurement_app/internal/core/domain"
)

// ExternalDocumentRequest references a document hosted outside the file
// store (e.g. a client-side upload). Used when no multipart file is sent.
type ExternalDocumentRequest struct {
	ExternalURL string `json:"externalURL" binding:"required,url"`
}

// ReconciliationResponse reports a receipt-vs-purchase-order comparison.
// Totals are exact decimal strings.
type ReconciliationResponse struct {
	POTotal      string `json:"poTotal"`
	ReceiptTotal string `json:"receiptTotal"`
	Difference   string `json:"difference"`
	Matches      bool   `json:"matches"`
}

// ToReconciliationResponse converts a domain.ReconciliationResult.
func ToReconciliationResponse(r domain.ReconciliationResult) ReconciliationResponse {
	return ReconciliationResponse{
		POTotal:      r.POTotal.StringFixed(2),
		ReceiptTotal: r.ReceiptTotal.StringFixed(2),
		Difference:   r.Difference.StringFixed(2),
		Matches:      r.Matches,
	}
}

// SubmitReceiptResponse bundles the receipt extraction with its reconciliation.
type SubmitReceiptResponse struct {
	ReceiptData   domain.ExtractedDocument `json:"receiptData"`
	Comparison    ReconciliationResponse   `json:"comparison"`
	PurchaseOrder bool                     `json:"purchaseOrderPresent"`
}

// AttachmentResponse is the read view of an attachment record.
type AttachmentResponse struct {
	AttachmentID string  `json:"attachmentID"`
	FileName     string  `json:"fileName"`
	ContentType  string  `json:"contentType"`
	ExternalURL  *string `json:"externalURL,omitempty"`
}

// ToAttachmentResponse converts a domain.Attachment.
func ToAttachmentResponse(a *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		AttachmentID: a.AttachmentID,
		FileName:     a.FileName,
		ContentType:  a.ContentType,
		ExternalURL:  a.ExternalURL,
	}
}

// CreateFinanceCommentRequest is the payload for a finance note.
type CreateFinanceCommentRequest struct {
	Comment string `json:"comment" binding:"required,max=4000"`
}

// FinanceCommentResponse is the read view of a finance note.
type FinanceCommentResponse struct {
	CommentID string `json:"commentID"`
	UserID    string `json:"userID"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}
