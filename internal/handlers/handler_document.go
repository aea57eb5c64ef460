package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
	"github.com/procureflow/procurement_app/internal/dto"
)

// DocumentHandler handles document intake and reconciliation endpoints.
type DocumentHandler struct {
	documentService portssvc.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(ds portssvc.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: ds}
}

func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentService) {
	h := NewDocumentHandler(documentService)

	requests := rg.Group("/requests/:requestID")
	{
		requests.POST("/upload-proforma", h.UploadProforma)
		requests.POST("/submit-receipt", h.SubmitReceipt)
		requests.GET("/po-file", h.DownloadPurchaseOrder)
		requests.POST("/attachments", h.AddAttachment)
		requests.GET("/attachments", h.ListAttachments)
		requests.GET("/attachments/:attachmentID", h.DownloadAttachment)
		requests.POST("/comments", h.AddFinanceComment)
		requests.GET("/comments", h.ListFinanceComments)
	}
}

// readUpload extracts a document from the request: either a multipart "file"
// part or a JSON body referencing an external URL.
func readUpload(c *gin.Context) (portssvc.DocumentUpload, bool) {
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing form file 'file'"})
			return portssvc.DocumentUpload{}, false
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to open uploaded file"})
			return portssvc.DocumentUpload{}, false
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read uploaded file"})
			return portssvc.DocumentUpload{}, false
		}
		return portssvc.DocumentUpload{
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		}, true
	}

	var req dto.ExternalDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Provide a multipart file or an externalURL"})
		return portssvc.DocumentUpload{}, false
	}
	return portssvc.DocumentUpload{ExternalURL: req.ExternalURL}, true
}

// UploadProforma godoc
// @Summary Upload a proforma invoice
// @Description Stores the proforma on a pending request and extracts structured data from it.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param requestID path string true "Request ID"
// @Param file formData file false "Proforma document (PDF or image)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /requests/{requestID}/upload-proforma [post]
func (h *DocumentHandler) UploadProforma(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	upload, ok := readUpload(c)
	if !ok {
		return
	}

	extraction, err := h.documentService.UploadProforma(c.Request.Context(), actor, c.Param("requestID"), upload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Proforma uploaded",
		"extracted": extraction,
	})
}

// SubmitReceipt godoc
// @Summary Submit a receipt for reconciliation
// @Description Stores the receipt and compares its total against the purchase order.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param requestID path string true "Request ID"
// @Param file formData file false "Receipt document (PDF or image)"
// @Success 200 {object} dto.SubmitReceiptResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /requests/{requestID}/submit-receipt [post]
func (h *DocumentHandler) SubmitReceipt(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	upload, ok := readUpload(c)
	if !ok {
		return
	}

	receiptData, result, err := h.documentService.SubmitReceipt(c.Request.Context(), actor, c.Param("requestID"), upload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SubmitReceiptResponse{
		ReceiptData:   *receiptData,
		Comparison:    dto.ToReconciliationResponse(*result),
		PurchaseOrder: !result.POTotal.IsZero(),
	})
}

// DownloadPurchaseOrder godoc
// @Summary Download the generated purchase order
// @Tags documents
// @Produce application/pdf
// @Param requestID path string true "Request ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /requests/{requestID}/po-file [get]
func (h *DocumentHandler) DownloadPurchaseOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	data, contentType, err := h.documentService.GetPurchaseOrderFile(c.Request.Context(), actor, c.Param("requestID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// AddAttachment godoc
// @Summary Add a supporting document
// @Description Stores a supporting file or external link on the caller's own request.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param requestID path string true "Request ID"
// @Param file formData file false "Attachment file"
// @Success 201 {object} dto.AttachmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /requests/{requestID}/attachments [post]
func (h *DocumentHandler) AddAttachment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	upload, ok := readUpload(c)
	if !ok {
		return
	}

	attachment, err := h.documentService.AddAttachment(c.Request.Context(), actor, c.Param("requestID"), upload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToAttachmentResponse(attachment))
}

// ListAttachments godoc
// @Summary List a request's supporting documents
// @Tags documents
// @Produce json
// @Param requestID path string true "Request ID"
// @Success 200 {array} dto.AttachmentResponse
// @Failure 404 {object} ErrorResponse
// @Router /requests/{requestID}/attachments [get]
func (h *DocumentHandler) ListAttachments(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	attachments, err := h.documentService.ListAttachments(c.Request.Context(), actor, c.Param("requestID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	responses := make([]dto.AttachmentResponse, len(attachments))
	for i := range attachments {
		responses[i] = dto.ToAttachmentResponse(&attachments[i])
	}
	c.JSON(http.StatusOK, gin.H{"attachments": responses})
}

// DownloadAttachment godoc
// @Summary Download a supporting document
// @Description Serves a stored attachment, or redirects to its external URL for link-only records.
// @Tags documents
// @Produce application/octet-stream
// @Param requestID path string true "Request ID"
// @Param attachmentID path string true "Attachment ID"
// @Success 200 {file} binary
// @Success 302
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /requests/{requestID}/attachments/{attachmentID} [get]
func (h *DocumentHandler) DownloadAttachment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	attachment, data, err := h.documentService.GetAttachmentFile(c.Request.Context(), actor, c.Param("requestID"), c.Param("attachmentID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if attachment.ExternalURL != nil {
		c.Redirect(http.StatusFound, *attachment.ExternalURL)
		return
	}
	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", "attachment; filename=\""+attachment.FileName+"\"")
	c.Data(http.StatusOK, contentType, data)
}

// AddFinanceComment godoc
// @Summary Add a finance note
// @Description Records a finance note on an approved request. Finance only.
// @Tags documents
// @Accept json
// @Produce json
// @Param requestID path string true "Request ID"
// @Param comment body dto.CreateFinanceCommentRequest true "Comment"
// @Success 201 {object} dto.FinanceCommentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /requests/{requestID}/comments [post]
func (h *DocumentHandler) AddFinanceComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateFinanceCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	comment, err := h.documentService.AddFinanceComment(c.Request.Context(), actor, c.Param("requestID"), req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FinanceCommentResponse{
		CommentID: comment.CommentID,
		UserID:    comment.UserID,
		Comment:   comment.Comment,
		CreatedAt: comment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ListFinanceComments godoc
// @Summary List a request's finance notes
// @Tags documents
// @Produce json
// @Param requestID path string true "Request ID"
// @Success 200 {array} dto.FinanceCommentResponse
// @Failure 404 {object} ErrorResponse
// @Router /requests/{requestID}/comments [get]
func (h *DocumentHandler) ListFinanceComments(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	comments, err := h.documentService.ListFinanceComments(c.Request.Context(), actor, c.Param("requestID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	responses := make([]dto.FinanceCommentResponse, len(comments))
	for i, comment := range comments {
		responses[i] = dto.FinanceCommentResponse{
			CommentID: comment.CommentID,
			UserID:    comment.UserID,
			Comment:   comment.Comment,
			CreatedAt: comment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	c.JSON(http.StatusOK, gin.H{"comments": responses})
}
