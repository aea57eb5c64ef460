package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/procureflow/procurement_app/internal/apperrors"
	"github.com/procureflow/procurement_app/internal/core/domain"
	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
	"github.com/procureflow/procurement_app/internal/core/services"
	"github.com/procureflow/procurement_app/internal/dto"
)

type PurchaseRequestServiceTestSuite struct {
	suite.Suite
	store *memStore
	svc   portssvc.PurchaseRequestService
	ctx   context.Context
}

func (s *PurchaseRequestServiceTestSuite) SetupTest() {
	s.store = newMemStore()
	s.svc = services.NewPurchaseRequestService(s.store, s.store)
	s.ctx = context.Background()
}

func TestPurchaseRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseRequestServiceTestSuite))
}

func amountPtr(raw string) *decimal.Decimal {
	d := decimal.RequireFromString(raw)
	return &d
}

func (s *PurchaseRequestServiceTestSuite) TestCreateRequest() {
	req, err := s.svc.CreateRequest(s.ctx, staffActor("staff-1"), dto.CreatePurchaseRequestRequest{
		Title:       "Standing desks",
		Description: "Six desks for the new hires",
		Amount:      amountPtr("2400.00"),
	})

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.StatusPending, req.Status)
	assert.Equal(s.T(), 1, req.CurrentLevel)
	assert.Equal(s.T(), "staff-1", req.OwnerID)
	assert.True(s.T(), req.Amount.Equal(decimal.RequireFromString("2400.00")))

	stored, err := s.store.FindRequestByID(s.ctx, req.RequestID)
	s.Require().NoError(err)
	assert.Equal(s.T(), req.Title, stored.Title)
}

func (s *PurchaseRequestServiceTestSuite) TestCreateRequestRequiresStaffRole() {
	_, err := s.svc.CreateRequest(s.ctx, approverActor("appr-1", 1), dto.CreatePurchaseRequestRequest{
		Title:       "Desks",
		Description: "desc",
		Amount:      amountPtr("100.00"),
	})
	assert.ErrorIs(s.T(), err, services.ErrStaffOnlyCreate)
	assert.ErrorIs(s.T(), err, apperrors.ErrForbidden)
}

func (s *PurchaseRequestServiceTestSuite) TestCreateRequestValidatesAmount() {
	_, err := s.svc.CreateRequest(s.ctx, staffActor("staff-1"), dto.CreatePurchaseRequestRequest{
		Title:       "Desks",
		Description: "desc",
	})
	assert.ErrorIs(s.T(), err, services.ErrInvalidAmount)

	_, err = s.svc.CreateRequest(s.ctx, staffActor("staff-1"), dto.CreatePurchaseRequestRequest{
		Title:       "Desks",
		Description: "desc",
		Amount:      amountPtr("-5.00"),
	})
	assert.ErrorIs(s.T(), err, services.ErrInvalidAmount)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *PurchaseRequestServiceTestSuite) TestUpdateRequestByOwner() {
	seeded := s.store.seedRequest("staff-1", "100.00")

	title := "Updated title"
	updated, err := s.svc.UpdateRequest(s.ctx, staffActor("staff-1"), seeded.RequestID, dto.UpdatePurchaseRequestRequest{
		Title:  &title,
		Amount: amountPtr("250.00"),
	})

	s.Require().NoError(err)
	assert.Equal(s.T(), "Updated title", updated.Title)
	assert.True(s.T(), updated.Amount.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(s.T(), seeded.Description, updated.Description)
}

func (s *PurchaseRequestServiceTestSuite) TestUpdateRequestRejectsNonOwner() {
	seeded := s.store.seedRequest("staff-1", "100.00")

	title := "Hijacked"
	_, err := s.svc.UpdateRequest(s.ctx, staffActor("staff-2"), seeded.RequestID, dto.UpdatePurchaseRequestRequest{Title: &title})

	assert.ErrorIs(s.T(), err, services.ErrNotRequestOwner)
	assert.ErrorIs(s.T(), err, apperrors.ErrForbidden)
}

func (s *PurchaseRequestServiceTestSuite) TestUpdateRequestRejectsFinalized() {
	seeded := s.store.seedRequest("staff-1", "100.00")
	stored := s.store.requests[seeded.RequestID]
	stored.Status = domain.StatusRejected
	s.store.requests[seeded.RequestID] = stored

	title := "Too late"
	_, err := s.svc.UpdateRequest(s.ctx, staffActor("staff-1"), seeded.RequestID, dto.UpdatePurchaseRequestRequest{Title: &title})

	assert.ErrorIs(s.T(), err, services.ErrRequestNotEditable)
	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidState)
}

func (s *PurchaseRequestServiceTestSuite) TestGetRequestHidesOthersFromStaff() {
	seeded := s.store.seedRequest("staff-1", "100.00")

	_, _, err := s.svc.GetRequest(s.ctx, staffActor("staff-2"), seeded.RequestID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)

	req, approvals, err := s.svc.GetRequest(s.ctx, staffActor("staff-1"), seeded.RequestID)
	s.Require().NoError(err)
	assert.Equal(s.T(), seeded.RequestID, req.RequestID)
	assert.Empty(s.T(), approvals)
}

func (s *PurchaseRequestServiceTestSuite) TestListVisibleRequestsPerRole() {
	s.store.seedRequest("staff-1", "100.00")
	s.store.seedRequest("staff-1", "200.00")
	s.store.seedRequest("staff-2", "300.00")

	own, err := s.svc.ListVisibleRequests(s.ctx, staffActor("staff-1"))
	s.Require().NoError(err)
	assert.Len(s.T(), own, 2)

	all, err := s.svc.ListVisibleRequests(s.ctx, approverActor("appr-1", 1))
	s.Require().NoError(err)
	assert.Len(s.T(), all, 3)

	finance, err := s.svc.ListVisibleRequests(s.ctx, financeActor("fin-1"))
	s.Require().NoError(err)
	assert.Len(s.T(), finance, 3)
}

func (s *PurchaseRequestServiceTestSuite) TestListPendingForApproverFiltersByLevel() {
	first := s.store.seedRequest("staff-1", "100.00")
	second := s.store.seedRequest("staff-2", "200.00")
	stored := s.store.requests[second.RequestID]
	stored.CurrentLevel = 2
	s.store.requests[second.RequestID] = stored

	levelOne, err := s.svc.ListPendingForApprover(s.ctx, approverActor("appr-1", 1))
	s.Require().NoError(err)
	s.Require().Len(levelOne, 1)
	assert.Equal(s.T(), first.RequestID, levelOne[0].RequestID)

	levelTwo, err := s.svc.ListPendingForApprover(s.ctx, approverActor("appr-2", 2))
	s.Require().NoError(err)
	s.Require().Len(levelTwo, 1)
	assert.Equal(s.T(), second.RequestID, levelTwo[0].RequestID)

	_, err = s.svc.ListPendingForApprover(s.ctx, financeActor("fin-1"))
	assert.ErrorIs(s.T(), err, apperrors.ErrForbidden)
}

func (s *PurchaseRequestServiceTestSuite) TestListApprovedRequestsIsFinanceOnly() {
	seeded := s.store.seedRequest("staff-1", "100.00")
	stored := s.store.requests[seeded.RequestID]
	stored.Status = domain.StatusApproved
	s.store.requests[seeded.RequestID] = stored
	s.store.seedRequest("staff-1", "50.00")

	approved, err := s.svc.ListApprovedRequests(s.ctx, financeActor("fin-1"))
	s.Require().NoError(err)
	s.Require().Len(approved, 1)
	assert.Equal(s.T(), seeded.RequestID, approved[0].RequestID)

	_, err = s.svc.ListApprovedRequests(s.ctx, staffActor("staff-1"))
	assert.ErrorIs(s.T(), err, apperrors.ErrForbidden)
}
