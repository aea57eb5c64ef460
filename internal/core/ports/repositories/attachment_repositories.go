package repositories

import (
	"context"

	"github.com/procureflow/procurement_app/internal/core/domain"
)

// AttachmentRepositoryFacade defines persistence operations for attachments.
type AttachmentRepositoryFacade interface {
	// SaveAttachment persists a new attachment record.
	SaveAttachment(ctx context.Context, attachment domain.Attachment) error

	// FindAttachmentByID retrieves a single attachment.
	FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.Attachment, error)

	// ListAttachmentsByRequestID retrieves a request's attachments, newest first.
	ListAttachmentsByRequestID(ctx context.Context, requestID string) ([]domain.Attachment, error)
}

// FinanceCommentRepositoryFacade defines persistence operations for finance comments.
type FinanceCommentRepositoryFacade interface {
	// SaveFinanceComment persists a new comment.
	SaveFinanceComment(ctx context.Context, comment domain.FinanceComment) error

	// ListFinanceCommentsByRequestID retrieves a request's comments, newest first.
	ListFinanceCommentsByRequestID(ctx context.Context, requestID string) ([]domain.FinanceComment, error)
}
