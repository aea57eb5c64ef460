package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procureflow/procurement_app/internal/core/domain"
	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
	"github.com/procureflow/procurement_app/internal/models"
	"github.com/procureflow/procurement_app/internal/utils/mapping"
)

type PgxApprovalRepository struct {
	db *pgxpool.Pool
}

func newPgxApprovalRepository(db *pgxpool.Pool) portsrepo.ApprovalRepositoryFacade {
	return &PgxApprovalRepository{db: db}
}

// Ensure PgxApprovalRepository implements portsrepo.ApprovalRepositoryFacade
var _ portsrepo.ApprovalRepositoryFacade = (*PgxApprovalRepository)(nil)

const approvalColumns = `approval_id, purchase_request_id, level, approver_id, decision, comments, decided_at`

func (r *PgxApprovalRepository) queryApprovals(ctx context.Context, where string, args ...any) ([]models.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE ` + where + ` ORDER BY level ASC;`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals: %w", err)
	}
	defer rows.Close()

	var approvals []models.Approval
	for rows.Next() {
		var m models.Approval
		if err := rows.Scan(&m.ApprovalID, &m.RequestID, &m.Level, &m.ApproverID, &m.Decision, &m.Comments, &m.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		approvals = append(approvals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approvals: %w", err)
	}
	return approvals, nil
}

func (r *PgxApprovalRepository) FindApprovalsByRequestID(ctx context.Context, requestID string) ([]domain.Approval, error) {
	ms, err := r.queryApprovals(ctx, "purchase_request_id = $1", requestID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainApprovalSlice(ms), nil
}

func (r *PgxApprovalRepository) FindApprovalsByRequestIDs(ctx context.Context, requestIDs []string) (map[string][]domain.Approval, error) {
	grouped := make(map[string][]domain.Approval, len(requestIDs))
	if len(requestIDs) == 0 {
		return grouped, nil
	}
	ms, err := r.queryApprovals(ctx, "purchase_request_id = ANY($1)", requestIDs)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		grouped[m.RequestID] = append(grouped[m.RequestID], mapping.ToDomainApproval(m))
	}
	return grouped, nil
}
