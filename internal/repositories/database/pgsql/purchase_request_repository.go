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

const requestColumns = `request_id, title, description, amount, status, current_level, owner_id, supplier,
		approved_at, proforma_ref, po_file_ref, receipt_ref, extraction, po_metadata,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxPurchaseRequestRepository struct {
	BaseRepository
}

// newPgxPurchaseRequestRepository creates a new repository for purchase request data.
func newPgxPurchaseRequestRepository(pool *pgxpool.Pool) portsrepo.PurchaseRequestRepositoryFacade {
	return &PgxPurchaseRequestRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPurchaseRequestRepository implements the facade
var _ portsrepo.PurchaseRequestRepositoryFacade = (*PgxPurchaseRequestRepository)(nil)

func scanRequest(row pgx.Row) (models.PurchaseRequest, error) {
	var m models.PurchaseRequest
	err := row.Scan(
		&m.RequestID,
		&m.Title,
		&m.Description,
		&m.Amount,
		&m.Status,
		&m.CurrentLevel,
		&m.OwnerID,
		&m.Supplier,
		&m.ApprovedAt,
		&m.ProformaRef,
		&m.POFileRef,
		&m.ReceiptRef,
		&m.Extraction,
		&m.POMetadata,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPurchaseRequestRepository) SaveRequest(ctx context.Context, req domain.PurchaseRequest) error {
	m, err := mapping.ToModelPurchaseRequest(req)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO purchase_requests (` + requestColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
    `
	_, err = r.Pool.Exec(ctx, query,
		m.RequestID, m.Title, m.Description, m.Amount, m.Status, m.CurrentLevel, m.OwnerID, m.Supplier,
		m.ApprovedAt, m.ProformaRef, m.POFileRef, m.ReceiptRef, m.Extraction, m.POMetadata,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save purchase request: %w", err)
	}
	return nil
}

// UpdateRequestFields persists creator edits and document references.
// Status, level and approval outcomes only move through ApplyDecision.
func (r *PgxPurchaseRequestRepository) UpdateRequestFields(ctx context.Context, req domain.PurchaseRequest) error {
	m, err := mapping.ToModelPurchaseRequest(req)
	if err != nil {
		return err
	}
	query := `
        UPDATE purchase_requests SET
            title = $2,
            description = $3,
            amount = $4,
            supplier = $5,
            proforma_ref = $6,
            receipt_ref = $7,
            extraction = $8,
            last_updated_at = $9,
            last_updated_by = $10
        WHERE request_id = $1;
    `
	tag, err := r.Pool.Exec(ctx, query,
		m.RequestID, m.Title, m.Description, m.Amount, m.Supplier,
		m.ProformaRef, m.ReceiptRef, m.Extraction,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase request %s: %w", req.RequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPurchaseRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.PurchaseRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM purchase_requests WHERE request_id = $1;`
	m, err := scanRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("purchase request %s not found", requestID))
		}
		return nil, fmt.Errorf("failed to find purchase request %s: %w", requestID, err)
	}
	d, err := mapping.ToDomainPurchaseRequest(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxPurchaseRequestRepository) listRequests(ctx context.Context, where string, args ...any) ([]domain.PurchaseRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM purchase_requests`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.PurchaseRequest
	for rows.Next() {
		m, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase request: %w", err)
		}
		d, err := mapping.ToDomainPurchaseRequest(m)
		if err != nil {
			return nil, err
		}
		requests = append(requests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase requests: %w", err)
	}
	return requests, nil
}

func (r *PgxPurchaseRequestRepository) ListRequestsByOwner(ctx context.Context, ownerID string) ([]domain.PurchaseRequest, error) {
	return r.listRequests(ctx, "owner_id = $1", ownerID)
}

func (r *PgxPurchaseRequestRepository) ListRequestsByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.PurchaseRequest, error) {
	return r.listRequests(ctx, "status = $1", string(status))
}

func (r *PgxPurchaseRequestRepository) ListPendingRequestsAtLevel(ctx context.Context, level int) ([]domain.PurchaseRequest, error) {
	return r.listRequests(ctx, "status = $1 AND current_level = $2", string(domain.StatusPending), level)
}

func (r *PgxPurchaseRequestRepository) ListAllRequests(ctx context.Context) ([]domain.PurchaseRequest, error) {
	return r.listRequests(ctx, "")
}

// ApplyDecision re-reads the request under a row lock, lets fn run the
// transition, and commits the mutated request plus the new approval record
// as one unit. Concurrent decisions on the same request serialize here; the
// second caller sees the committed state inside fn and fails there.
func (r *PgxPurchaseRequestRepository) ApplyDecision(ctx context.Context, requestID string, fn portsrepo.DecisionFunc) (*domain.PurchaseRequest, *domain.Approval, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + requestColumns + ` FROM purchase_requests WHERE request_id = $1 FOR UPDATE;`
	m, err := scanRequest(tx.QueryRow(ctx, lockQuery, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("purchase request %s not found", requestID))
		}
		return nil, nil, fmt.Errorf("failed to lock purchase request %s: %w", requestID, err)
	}
	req, err := mapping.ToDomainPurchaseRequest(m)
	if err != nil {
		return nil, nil, err
	}

	decidedLevels := map[int]bool{}
	levelRows, err := tx.Query(ctx, `SELECT level FROM approvals WHERE purchase_request_id = $1;`, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query decided levels for request %s: %w", requestID, err)
	}
	for levelRows.Next() {
		var level int
		if err := levelRows.Scan(&level); err != nil {
			levelRows.Close()
			return nil, nil, fmt.Errorf("failed to scan decided level: %w", err)
		}
		decidedLevels[level] = true
	}
	levelRows.Close()
	if err := levelRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating decided levels: %w", err)
	}

	approval, err := fn(&req, decidedLevels)
	if err != nil {
		return nil, nil, err
	}

	modelApproval := mapping.ToModelApproval(*approval)
	_, err = tx.Exec(ctx, `
        INSERT INTO approvals (approval_id, purchase_request_id, level, approver_id, decision, comments, decided_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `,
		modelApproval.ApprovalID,
		modelApproval.RequestID,
		modelApproval.Level,
		modelApproval.ApproverID,
		modelApproval.Decision,
		modelApproval.Comments,
		modelApproval.DecidedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert approval for request %s: %w", requestID, err)
	}

	updated, err := mapping.ToModelPurchaseRequest(req)
	if err != nil {
		return nil, nil, err
	}
	_, err = tx.Exec(ctx, `
        UPDATE purchase_requests SET
            status = $2,
            current_level = $3,
            approved_at = $4,
            po_file_ref = $5,
            po_metadata = $6,
            last_updated_at = $7,
            last_updated_by = $8
        WHERE request_id = $1;
    `,
		updated.RequestID,
		updated.Status,
		updated.CurrentLevel,
		updated.ApprovedAt,
		updated.POFileRef,
		updated.POMetadata,
		updated.LastUpdatedAt,
		updated.LastUpdatedBy,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update purchase request %s: %w", requestID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return &req, approval, nil
}
