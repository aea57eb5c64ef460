package services

import (
	"context"

	"github.com/procureflow/procurement_app/internal/core/domain"
)

// DocumentUpload carries an inbound document, either as raw bytes from a
// multipart upload or as an external URL to fetch. Exactly one of Data and
// ExternalURL is set.
type DocumentUpload struct {
	FileName    string
	ContentType string
	Data        []byte
	ExternalURL string
}

// DocumentService handles document intake, extraction and reconciliation.
type DocumentService interface {
	// UploadProforma stores a proforma invoice on a pending request owned by
	// the actor and extracts structured data from it.
	UploadProforma(ctx context.Context, actor domain.Actor, requestID string, upload DocumentUpload) (*domain.ExtractedDocument, error)
	// SubmitReceipt stores a receipt on a request and reconciles its total
	// against the generated purchase order.
	SubmitReceipt(ctx context.Context, actor domain.Actor, requestID string, upload DocumentUpload) (*domain.ExtractedDocument, *domain.ReconciliationResult, error)
	// GetPurchaseOrderFile returns the rendered purchase order document.
	GetPurchaseOrderFile(ctx context.Context, actor domain.Actor, requestID string) ([]byte, string, error)
	// AddAttachment stores a supporting document on a request.
	AddAttachment(ctx context.Context, actor domain.Actor, requestID string, upload DocumentUpload) (*domain.Attachment, error)
	// ListAttachments returns a request's supporting documents.
	ListAttachments(ctx context.Context, actor domain.Actor, requestID string) ([]domain.Attachment, error)
	// GetAttachmentFile returns an attachment record and, for stored files,
	// its bytes. Link-only attachments come back with nil data.
	GetAttachmentFile(ctx context.Context, actor domain.Actor, requestID, attachmentID string) (*domain.Attachment, []byte, error)
	// AddFinanceComment records a finance note on a request.
	AddFinanceComment(ctx context.Context, actor domain.Actor, requestID string, comment string) (*domain.FinanceComment, error)
	// ListFinanceComments returns a request's finance notes.
	ListFinanceComments(ctx context.Context, actor domain.Actor, requestID string) ([]domain.FinanceComment, error)
}

// TextRecognizer extracts text from scanned images. Implementations are
// optional; the default recognizes nothing.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, data []byte, contentType string) (string, error)
}

// TextRefiner turns raw document text into structured fields, e.g. via a
// remote model endpoint. The default refiner is heuristic and local.
type TextRefiner interface {
	Refine(ctx context.Context, rawText string) (*domain.ExtractedDocument, error)
}
