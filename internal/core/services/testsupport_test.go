package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procureflow/procurement_app/internal/apperrors"
	"github.com/procureflow/procurement_app/internal/core/domain"
	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
)

// memStore is a stateful in-memory request + approval store. ApplyDecision
// holds a per-request mutex so concurrent decisions serialize the same way
// the row lock does in Postgres.
type memStore struct {
	mu        sync.Mutex
	requests  map[string]domain.PurchaseRequest
	approvals map[string][]domain.Approval
	rowLocks  map[string]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		requests:  make(map[string]domain.PurchaseRequest),
		approvals: make(map[string][]domain.Approval),
		rowLocks:  make(map[string]*sync.Mutex),
	}
}

var _ portsrepo.PurchaseRequestRepositoryFacade = (*memStore)(nil)
var _ portsrepo.ApprovalRepositoryFacade = (*memStore)(nil)

func (s *memStore) rowLock(requestID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.rowLocks[requestID]
	if !ok {
		lock = &sync.Mutex{}
		s.rowLocks[requestID] = lock
	}
	return lock
}

func (s *memStore) SaveRequest(_ context.Context, req domain.PurchaseRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.RequestID] = req
	return nil
}

func (s *memStore) UpdateRequestFields(_ context.Context, req domain.PurchaseRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.requests[req.RequestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	stored.Title = req.Title
	stored.Description = req.Description
	stored.Amount = req.Amount
	stored.Supplier = req.Supplier
	stored.ProformaRef = req.ProformaRef
	stored.ReceiptRef = req.ReceiptRef
	stored.Extraction = req.Extraction
	stored.LastUpdatedAt = req.LastUpdatedAt
	stored.LastUpdatedBy = req.LastUpdatedBy
	s.requests[req.RequestID] = stored
	return nil
}

func (s *memStore) FindRequestByID(_ context.Context, requestID string) (*domain.PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("purchase request %s not found", requestID))
	}
	copied := req
	return &copied, nil
}

func (s *memStore) ListRequestsByOwner(_ context.Context, ownerID string) ([]domain.PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PurchaseRequest
	for _, req := range s.requests {
		if req.OwnerID == ownerID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *memStore) ListRequestsByStatus(_ context.Context, status domain.RequestStatus) ([]domain.PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PurchaseRequest
	for _, req := range s.requests {
		if req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *memStore) ListPendingRequestsAtLevel(_ context.Context, level int) ([]domain.PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PurchaseRequest
	for _, req := range s.requests {
		if req.Status == domain.StatusPending && req.CurrentLevel == level {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *memStore) ListAllRequests(_ context.Context) ([]domain.PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PurchaseRequest, 0, len(s.requests))
	for _, req := range s.requests {
		out = append(out, req)
	}
	return out, nil
}

func (s *memStore) ApplyDecision(_ context.Context, requestID string, fn portsrepo.DecisionFunc) (*domain.PurchaseRequest, *domain.Approval, error) {
	lock := s.rowLock(requestID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	req, ok := s.requests[requestID]
	if !ok {
		s.mu.Unlock()
		return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("purchase request %s not found", requestID))
	}
	decidedLevels := map[int]bool{}
	for _, a := range s.approvals[requestID] {
		decidedLevels[a.Level] = true
	}
	s.mu.Unlock()

	approval, err := fn(&req, decidedLevels)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.requests[requestID] = req
	s.approvals[requestID] = append(s.approvals[requestID], *approval)
	s.mu.Unlock()
	return &req, approval, nil
}

func (s *memStore) FindApprovalsByRequestID(_ context.Context, requestID string) ([]domain.Approval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Approval(nil), s.approvals[requestID]...), nil
}

func (s *memStore) FindApprovalsByRequestIDs(_ context.Context, requestIDs []string) (map[string][]domain.Approval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grouped := make(map[string][]domain.Approval, len(requestIDs))
	for _, id := range requestIDs {
		if approvals, ok := s.approvals[id]; ok {
			grouped[id] = append([]domain.Approval(nil), approvals...)
		}
	}
	return grouped, nil
}

// seedRequest inserts a pending level-1 request owned by ownerID.
func (s *memStore) seedRequest(ownerID, amount string) domain.PurchaseRequest {
	req := domain.PurchaseRequest{
		RequestID:    uuid.NewString(),
		Title:        "Office laptops",
		Description:  "Replacement hardware for the support team",
		Amount:       decimal.RequireFromString(amount),
		Status:       domain.StatusPending,
		CurrentLevel: 1,
		OwnerID:      ownerID,
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Now(),
			CreatedBy:     ownerID,
			LastUpdatedAt: time.Now(),
			LastUpdatedBy: ownerID,
		},
	}
	s.requests[req.RequestID] = req
	return req
}

// memFileStore keeps stored documents in memory.
type memFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string][]byte)}
}

var _ portsrepo.FileStore = (*memFileStore)(nil)

func (s *memFileStore) Save(_ context.Context, ref string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[ref] = append([]byte(nil), data...)
	return ref, nil
}

func (s *memFileStore) Load(_ context.Context, ref string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[ref]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("stored file %s not found", ref))
	}
	return append([]byte(nil), data...), nil
}

func (s *memFileStore) has(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[ref]
	return ok
}

// memAttachmentStore backs the attachment and comment repositories.
type memAttachmentStore struct {
	mu          sync.Mutex
	attachments map[string][]domain.Attachment
	comments    map[string][]domain.FinanceComment
}

func newMemAttachmentStore() *memAttachmentStore {
	return &memAttachmentStore{
		attachments: make(map[string][]domain.Attachment),
		comments:    make(map[string][]domain.FinanceComment),
	}
}

var _ portsrepo.AttachmentRepositoryFacade = (*memAttachmentStore)(nil)
var _ portsrepo.FinanceCommentRepositoryFacade = (*memAttachmentStore)(nil)

func (s *memAttachmentStore) SaveAttachment(_ context.Context, attachment domain.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments[attachment.RequestID] = append(s.attachments[attachment.RequestID], attachment)
	return nil
}

func (s *memAttachmentStore) FindAttachmentByID(_ context.Context, attachmentID string) (*domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range s.attachments {
		for _, a := range list {
			if a.AttachmentID == attachmentID {
				copied := a
				return &copied, nil
			}
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("attachment %s not found", attachmentID))
}

func (s *memAttachmentStore) ListAttachmentsByRequestID(_ context.Context, requestID string) ([]domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Attachment(nil), s.attachments[requestID]...), nil
}

func (s *memAttachmentStore) SaveFinanceComment(_ context.Context, comment domain.FinanceComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[comment.RequestID] = append(s.comments[comment.RequestID], comment)
	return nil
}

func (s *memAttachmentStore) ListFinanceCommentsByRequestID(_ context.Context, requestID string) ([]domain.FinanceComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FinanceComment(nil), s.comments[requestID]...), nil
}

// memUserStore is an in-memory user repository.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]domain.User)}
}

var _ portsrepo.UserRepositoryFacade = (*memUserStore)(nil)

func (s *memUserStore) SaveUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
	return nil
}

func (s *memUserStore) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (s *memUserStore) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			copied := user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// stubRecognizer returns canned OCR text.
type stubRecognizer struct {
	text string
	err  error
}

func (r stubRecognizer) RecognizeText(context.Context, []byte, string) (string, error) {
	return r.text, r.err
}

func staffActor(userID string) domain.Actor {
	return domain.Actor{UserID: userID, Role: domain.RoleStaff}
}

func approverActor(userID string, level int) domain.Actor {
	role, _ := domain.RoleForLevel(level)
	return domain.Actor{UserID: userID, Role: role}
}

func financeActor(userID string) domain.Actor {
	return domain.Actor{UserID: userID, Role: domain.RoleFinance}
}
