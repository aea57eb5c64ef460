package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procureflow/procurement_app/internal/apperrors"
	"github.com/procureflow/procurement_app/internal/core/domain"
	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
	"github.com/procureflow/procurement_app/internal/models"
	"github.com/procureflow/procurement_app/internal/utils/mapping"
)

type PgxAttachmentRepository struct {
	db *pgxpool.Pool
}

func newPgxAttachmentRepository(db *pgxpool.Pool) portsrepo.AttachmentRepositoryFacade {
	return &PgxAttachmentRepository{db: db}
}

var _ portsrepo.AttachmentRepositoryFacade = (*PgxAttachmentRepository)(nil)

func (r *PgxAttachmentRepository) SaveAttachment(ctx context.Context, attachment domain.Attachment) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO attachments (attachment_id, purchase_request_id, file_ref, external_url, file_name, content_type, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `,
		attachment.AttachmentID,
		attachment.RequestID,
		attachment.FileRef,
		attachment.ExternalURL,
		attachment.FileName,
		attachment.ContentType,
		attachment.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save attachment: %w", err)
	}
	return nil
}

func (r *PgxAttachmentRepository) FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.Attachment, error) {
	var m models.Attachment
	err := r.db.QueryRow(ctx, `
        SELECT attachment_id, purchase_request_id, file_ref, external_url, file_name, content_type, uploaded_at
        FROM attachments WHERE attachment_id = $1;
    `, attachmentID).Scan(
		&m.AttachmentID, &m.RequestID, &m.FileRef, &m.ExternalURL, &m.FileName, &m.ContentType, &m.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("attachment %s not found", attachmentID))
		}
		return nil, fmt.Errorf("failed to find attachment %s: %w", attachmentID, err)
	}
	d := mapping.ToDomainAttachment(m)
	return &d, nil
}

func (r *PgxAttachmentRepository) ListAttachmentsByRequestID(ctx context.Context, requestID string) ([]domain.Attachment, error) {
	rows, err := r.db.Query(ctx, `
        SELECT attachment_id, purchase_request_id, file_ref, external_url, file_name, content_type, uploaded_at
        FROM attachments WHERE purchase_request_id = $1 ORDER BY uploaded_at DESC;
    `, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	var attachments []domain.Attachment
	for rows.Next() {
		var m models.Attachment
		if err := rows.Scan(&m.AttachmentID, &m.RequestID, &m.FileRef, &m.ExternalURL, &m.FileName, &m.ContentType, &m.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, mapping.ToDomainAttachment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}
	return attachments, nil
}

type PgxFinanceCommentRepository struct {
	db *pgxpool.Pool
}

func newPgxFinanceCommentRepository(db *pgxpool.Pool) portsrepo.FinanceCommentRepositoryFacade {
	return &PgxFinanceCommentRepository{db: db}
}

var _ portsrepo.FinanceCommentRepositoryFacade = (*PgxFinanceCommentRepository)(nil)

func (r *PgxFinanceCommentRepository) SaveFinanceComment(ctx context.Context, comment domain.FinanceComment) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO finance_comments (comment_id, purchase_request_id, user_id, comment, created_at)
        VALUES ($1, $2, $3, $4, $5);
    `,
		comment.CommentID,
		comment.RequestID,
		comment.UserID,
		comment.Comment,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save finance comment: %w", err)
	}
	return nil
}

func (r *PgxFinanceCommentRepository) ListFinanceCommentsByRequestID(ctx context.Context, requestID string) ([]domain.FinanceComment, error) {
	rows, err := r.db.Query(ctx, `
        SELECT comment_id, purchase_request_id, user_id, comment, created_at
        FROM finance_comments WHERE purchase_request_id = $1 ORDER BY created_at DESC;
    `, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query finance comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.FinanceComment
	for rows.Next() {
		var m models.FinanceComment
		if err := rows.Scan(&m.CommentID, &m.RequestID, &m.UserID, &m.Comment, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan finance comment: %w", err)
		}
		comments = append(comments, mapping.ToDomainFinanceComment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating finance comments: %w", err)
	}
	return comments, nil
}
