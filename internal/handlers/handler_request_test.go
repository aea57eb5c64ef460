package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/procureflow/procurement_app/internal/apperrors"
	"github.com/procureflow/procurement_app/internal/core/domain"
	"github.com/procureflow/procurement_app/internal/core/services"
	"github.com/procureflow/procurement_app/internal/dto"
	"github.com/procureflow/procurement_app/internal/middleware"
	"github.com/procureflow/procurement_app/internal/utils"
)

// --- Mock PurchaseRequestService ---
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) CreateRequest(ctx context.Context, actor domain.Actor, req dto.CreatePurchaseRequestRequest) (*domain.PurchaseRequest, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseRequest), args.Error(1)
}
func (m *MockRequestService) UpdateRequest(ctx context.Context, actor domain.Actor, requestID string, req dto.UpdatePurchaseRequestRequest) (*domain.PurchaseRequest, error) {
	args := m.Called(ctx, actor, requestID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseRequest), args.Error(1)
}
func (m *MockRequestService) GetRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.PurchaseRequest, []domain.Approval, error) {
	args := m.Called(ctx, actor, requestID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.PurchaseRequest), args.Get(1).([]domain.Approval), args.Error(2)
}
func (m *MockRequestService) ListVisibleRequests(ctx context.Context, actor domain.Actor) ([]domain.PurchaseRequest, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseRequest), args.Error(1)
}
func (m *MockRequestService) ListPendingForApprover(ctx context.Context, actor domain.Actor) ([]domain.PurchaseRequest, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseRequest), args.Error(1)
}
func (m *MockRequestService) ListApprovedRequests(ctx context.Context, actor domain.Actor) ([]domain.PurchaseRequest, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseRequest), args.Error(1)
}

// --- Mock ApprovalService ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) Decide(ctx context.Context, actor domain.Actor, requestID string, decision domain.Decision, comments string) (*domain.PurchaseRequest, *domain.Approval, error) {
	args := m.Called(ctx, actor, requestID, decision, comments)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.PurchaseRequest), args.Get(1).(*domain.Approval), args.Error(2)
}

// --- Test Suite ---
type RequestHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockRequestService  *MockRequestService
	mockApprovalService *MockApprovalService
	jwtSecret           string
}

func (suite *RequestHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router = gin.New()

	suite.mockRequestService = new(MockRequestService)
	suite.mockApprovalService = new(MockApprovalService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	registerRequestRoutes(v1, suite.mockRequestService, suite.mockApprovalService)
}

func (suite *RequestHandlerTestSuite) token(userID string, role domain.Role) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "procurement-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *RequestHandlerTestSuite) do(method, url, token string, body any) *httptest.ResponseRecorder {
	var payload *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		payload = bytes.NewBuffer(data)
	} else {
		payload = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, url, payload)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RequestHandlerTestSuite) TestCreateRequest_Success() {
	userID := uuid.NewString()
	amount := decimal.RequireFromString("1200.00")
	created := &domain.PurchaseRequest{
		RequestID:    uuid.NewString(),
		Title:        "Monitors",
		Description:  "Two 27 inch monitors",
		Amount:       amount,
		Status:       domain.StatusPending,
		CurrentLevel: 1,
		OwnerID:      userID,
	}

	suite.mockRequestService.On("CreateRequest",
		mock.Anything,
		domain.Actor{UserID: userID, Role: domain.RoleStaff},
		mock.MatchedBy(func(req dto.CreatePurchaseRequestRequest) bool {
			return req.Title == "Monitors" && req.Amount != nil && req.Amount.Equal(amount)
		}),
	).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/requests", suite.token(userID, domain.RoleStaff), gin.H{
		"title":       "Monitors",
		"description": "Two 27 inch monitors",
		"amount":      "1200.00",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PurchaseRequestResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.RequestID, resp.RequestID)
	suite.Equal(string(domain.StatusPending), resp.Status)
	suite.mockRequestService.AssertExpectations(suite.T())
}

func (suite *RequestHandlerTestSuite) TestCreateRequest_ForbiddenForApprover() {
	userID := uuid.NewString()
	suite.mockRequestService.On("CreateRequest", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, services.ErrStaffOnlyCreate).Once()

	w := suite.do(http.MethodPost, "/api/v1/requests", suite.token(userID, domain.RoleApproverLevel1), gin.H{
		"title":       "Monitors",
		"description": "desc",
		"amount":      "100.00",
	})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *RequestHandlerTestSuite) TestCreateRequest_InvalidBody() {
	w := suite.do(http.MethodPost, "/api/v1/requests", suite.token(uuid.NewString(), domain.RoleStaff), gin.H{
		"description": "missing title",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRequestService.AssertNotCalled(suite.T(), "CreateRequest")
}

func (suite *RequestHandlerTestSuite) TestRequestsRequireAuthentication() {
	w := suite.do(http.MethodGet, "/api/v1/requests", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockRequestService.AssertNotCalled(suite.T(), "ListVisibleRequests")
}

func (suite *RequestHandlerTestSuite) TestApprove_DefaultsDecisionWithEmptyBody() {
	userID := uuid.NewString()
	requestID := uuid.NewString()
	updated := &domain.PurchaseRequest{
		RequestID:    requestID,
		Status:       domain.StatusPending,
		CurrentLevel: 2,
	}
	approval := &domain.Approval{
		ApprovalID: uuid.NewString(),
		RequestID:  requestID,
		Level:      1,
		ApproverID: userID,
		Decision:   domain.DecisionApproved,
		DecidedAt:  time.Now(),
	}

	suite.mockApprovalService.On("Decide",
		mock.Anything,
		domain.Actor{UserID: userID, Role: domain.RoleApproverLevel1},
		requestID,
		domain.DecisionApproved,
		"",
	).Return(updated, approval, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/requests/"+requestID+"/approve", suite.token(userID, domain.RoleApproverLevel1), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PurchaseRequestResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.CurrentLevel)
	suite.Require().Len(resp.Approvals, 1)
	suite.Equal(string(domain.DecisionApproved), resp.Approvals[0].Decision)
	suite.mockApprovalService.AssertExpectations(suite.T())
}

func (suite *RequestHandlerTestSuite) TestReject_PassesComments() {
	userID := uuid.NewString()
	requestID := uuid.NewString()
	updated := &domain.PurchaseRequest{RequestID: requestID, Status: domain.StatusRejected, CurrentLevel: 1}
	approval := &domain.Approval{
		ApprovalID: uuid.NewString(),
		RequestID:  requestID,
		Level:      1,
		ApproverID: userID,
		Decision:   domain.DecisionRejected,
		Comments:   "over budget",
	}

	suite.mockApprovalService.On("Decide",
		mock.Anything,
		mock.Anything,
		requestID,
		domain.DecisionRejected,
		"over budget",
	).Return(updated, approval, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/requests/"+requestID+"/reject", suite.token(userID, domain.RoleApproverLevel1), gin.H{
		"decision": "REJECTED",
		"comments": "over budget",
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockApprovalService.AssertExpectations(suite.T())
}

func (suite *RequestHandlerTestSuite) TestDecide_ConflictOnFinalizedRequest() {
	requestID := uuid.NewString()
	suite.mockApprovalService.On("Decide", mock.Anything, mock.Anything, requestID, domain.DecisionApproved, "").
		Return(nil, nil, services.ErrAlreadyFinalized).Once()

	w := suite.do(http.MethodPatch, "/api/v1/requests/"+requestID+"/approve", suite.token(uuid.NewString(), domain.RoleApproverLevel1), nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *RequestHandlerTestSuite) TestGetRequest_StorageUnavailable() {
	requestID := uuid.NewString()
	suite.mockRequestService.On("GetRequest", mock.Anything, mock.Anything, requestID).
		Return(nil, nil, fmt.Errorf("read stored file: %w", apperrors.ErrStorageUnavailable)).Once()

	w := suite.do(http.MethodGet, "/api/v1/requests/"+requestID, suite.token(uuid.NewString(), domain.RoleStaff), nil)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	var resp ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.NotContains(resp.Error, "read stored file")
}

func (suite *RequestHandlerTestSuite) TestGetRequest_NotFound() {
	requestID := uuid.NewString()
	suite.mockRequestService.On("GetRequest", mock.Anything, mock.Anything, requestID).
		Return(nil, nil, apperrors.NewNotFoundError("purchase request not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/requests/"+requestID, suite.token(uuid.NewString(), domain.RoleStaff), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestRequestHandler(t *testing.T) {
	suite.Run(t, new(RequestHandlerTestSuite))
}
