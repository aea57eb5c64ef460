package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:           newPgxUserRepository(dbPool),
		RequestRepo:        newPgxPurchaseRequestRepository(dbPool),
		ApprovalRepo:       newPgxApprovalRepository(dbPool),
		AttachmentRepo:     newPgxAttachmentRepository(dbPool),
		FinanceCommentRepo: newPgxFinanceCommentRepository(dbPool),
	}
}
