package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procureflow/procurement_app/internal/core/domain"
	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
	"github.com/procureflow/procurement_app/internal/dto"
)

// RequestHandler handles purchase request lifecycle endpoints.
type RequestHandler struct {
	requestService  portssvc.PurchaseRequestService
	approvalService portssvc.ApprovalService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(rs portssvc.PurchaseRequestService, as portssvc.ApprovalService) *RequestHandler {
	return &RequestHandler{
		requestService:  rs,
		approvalService: as,
	}
}

func registerRequestRoutes(rg *gin.RouterGroup, requestService portssvc.PurchaseRequestService, approvalService portssvc.ApprovalService) {
	h := NewRequestHandler(requestService, approvalService)

	requests := rg.Group("/requests")
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListRequests)
		requests.GET("/pending", h.ListPending)
		requests.GET("/approved", h.ListApproved)
		requests.GET("/:requestID", h.GetRequest)
		requests.PATCH("/:requestID", h.UpdateRequest)
		requests.PATCH("/:requestID/approve", h.Approve)
		requests.PATCH("/:requestID/reject", h.Reject)
	}
}

// CreateRequest godoc
// @Summary Create a purchase request
// @Description Opens a new purchase request at approval level 1. Staff only.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body dto.CreatePurchaseRequestRequest true "Request Info"
// @Success 201 {object} dto.PurchaseRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreatePurchaseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPurchaseRequestResponse(request, nil))
}

// ListRequests godoc
// @Summary List visible purchase requests
// @Description Staff see their own requests, other roles see all.
// @Tags requests
// @Produce json
// @Success 200 {array} dto.PurchaseRequestResponse
// @Failure 403 {object} ErrorResponse
// @Router /requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requests, err := h.requestService.ListVisibleRequests(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseRequestResponses(requests))
}

// ListPending godoc
// @Summary List pending requests at the caller's approval level
// @Tags requests
// @Produce json
// @Success 200 {array} dto.PurchaseRequestResponse
// @Failure 403 {object} ErrorResponse
// @Router /requests/pending [get]
func (h *RequestHandler) ListPending(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requests, err := h.requestService.ListPendingForApprover(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseRequestResponses(requests))
}

// ListApproved godoc
// @Summary List fully approved requests
// @Description Returns approved requests for finance reconciliation.
// @Tags requests
// @Produce json
// @Success 200 {array} dto.PurchaseRequestResponse
// @Failure 403 {object} ErrorResponse
// @Router /requests/approved [get]
func (h *RequestHandler) ListApproved(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requests, err := h.requestService.ListApprovedRequests(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseRequestResponses(requests))
}

// GetRequest godoc
// @Summary Get a purchase request with its decision history
// @Tags requests
// @Produce json
// @Param requestID path string true "Request ID"
// @Success 200 {object} dto.PurchaseRequestResponse
// @Failure 404 {object} ErrorResponse
// @Router /requests/{requestID} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	request, approvals, err := h.requestService.GetRequest(c.Request.Context(), actor, c.Param("requestID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseRequestResponse(request, approvals))
}

// UpdateRequest godoc
// @Summary Update a pending purchase request
// @Description Edits creator-owned fields. Only the creator may edit, only while pending.
// @Tags requests
// @Accept json
// @Produce json
// @Param requestID path string true "Request ID"
// @Param request body dto.UpdatePurchaseRequestRequest true "Fields to update"
// @Success 200 {object} dto.PurchaseRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /requests/{requestID} [patch]
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.UpdatePurchaseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	request, err := h.requestService.UpdateRequest(c.Request.Context(), actor, c.Param("requestID"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseRequestResponse(request, nil))
}

// decide runs the shared decision flow with a default verdict.
func (h *RequestHandler) decide(c *gin.Context, defaultDecision domain.Decision) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	req := dto.DecisionRequest{Decision: string(defaultDecision)}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
			return
		}
	}

	request, approval, err := h.approvalService.Decide(c.Request.Context(), actor, c.Param("requestID"), domain.Decision(req.Decision), req.Comments)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseRequestResponse(request, []domain.Approval{*approval}))
}

// Approve godoc
// @Summary Approve the request at its current level
// @Description Records an approval; advances the level or finalizes the request.
// @Tags requests
// @Accept json
// @Produce json
// @Param requestID path string true "Request ID"
// @Param decision body dto.DecisionRequest false "Decision details"
// @Success 200 {object} dto.PurchaseRequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /requests/{requestID}/approve [patch]
func (h *RequestHandler) Approve(c *gin.Context) {
	h.decide(c, domain.DecisionApproved)
}

// Reject godoc
// @Summary Reject the request at its current level
// @Description Records a rejection and finalizes the request.
// @Tags requests
// @Accept json
// @Produce json
// @Param requestID path string true "Request ID"
// @Param decision body dto.DecisionRequest false "Decision details"
// @Success 200 {object} dto.PurchaseRequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /requests/{requestID}/reject [patch]
func (h *RequestHandler) Reject(c *gin.Context) {
	h.decide(c, domain.DecisionRejected)
}
