package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/procurement_app/internal/apperrors"
	"github.com/procureflow/procurement_app/internal/core/domain"
	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
	"github.com/procureflow/procurement_app/internal/utils/docparse"
	"github.com/procureflow/procurement_app/internal/utils/podocument"
)

var (
	ErrUnsupportedFileType = fmt.Errorf("unsupported file type, upload a PDF or image: %w", apperrors.ErrValidation)
	ErrFileTooLarge        = fmt.Errorf("file exceeds the upload size limit: %w", apperrors.ErrValidation)
	ErrEmptyUpload         = fmt.Errorf("upload contains no data: %w", apperrors.ErrValidation)
	ErrReceiptNotAllowed   = fmt.Errorf("only the request owner or finance may submit receipts: %w", apperrors.ErrForbidden)
	ErrFinanceCommentScope = fmt.Errorf("finance comments attach to approved requests only: %w", apperrors.ErrForbidden)
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// DocumentServiceConfig carries upload limits into the document service.
type DocumentServiceConfig struct {
	MaxUploadBytes int64
}

// documentService handles document intake, extraction and reconciliation.
type documentService struct {
	BaseService
	requestRepo portsrepo.PurchaseRequestRepositoryFacade
	attachRepo  portsrepo.AttachmentRepositoryFacade
	commentRepo portsrepo.FinanceCommentRepositoryFacade
	fileStore   portsrepo.FileStore
	fetcher     portsrepo.URLFetcher
	recognizer  portssvc.TextRecognizer
	refiner     portssvc.TextRefiner
	cfg         DocumentServiceConfig
}

// NewDocumentService creates a new DocumentService. Recognizer and refiner
// are optional capabilities; either may be nil.
func NewDocumentService(
	requestRepo portsrepo.PurchaseRequestRepositoryFacade,
	attachRepo portsrepo.AttachmentRepositoryFacade,
	commentRepo portsrepo.FinanceCommentRepositoryFacade,
	fileStore portsrepo.FileStore,
	fetcher portsrepo.URLFetcher,
	recognizer portssvc.TextRecognizer,
	refiner portssvc.TextRefiner,
	cfg DocumentServiceConfig,
) portssvc.DocumentService {
	return &documentService{
		requestRepo: requestRepo,
		attachRepo:  attachRepo,
		commentRepo: commentRepo,
		fileStore:   fileStore,
		fetcher:     fetcher,
		recognizer:  recognizer,
		refiner:     refiner,
		cfg:         cfg,
	}
}

var _ portssvc.DocumentService = (*documentService)(nil)

func fileExtension(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

// resolveUpload fetches external documents and enforces the upload limits.
func (s *documentService) resolveUpload(ctx context.Context, upload *portssvc.DocumentUpload) error {
	if len(upload.Data) == 0 && upload.ExternalURL != "" {
		data, err := s.fetcher.Fetch(ctx, upload.ExternalURL)
		if err != nil {
			s.LogError(ctx, err, "failed to fetch external document", "url", upload.ExternalURL)
			return fmt.Errorf("failed to fetch external document: %w", err)
		}
		upload.Data = data
		if upload.FileName == "" {
			upload.FileName = filepath.Base(upload.ExternalURL)
		}
	}
	if len(upload.Data) == 0 {
		return ErrEmptyUpload
	}
	if s.cfg.MaxUploadBytes > 0 && int64(len(upload.Data)) > s.cfg.MaxUploadBytes {
		return ErrFileTooLarge
	}
	ext := fileExtension(upload.FileName)
	if ext != ".pdf" && !imageExtensions[ext] {
		return ErrUnsupportedFileType
	}
	return nil
}

// extractText pulls the text layer of a PDF or runs OCR on an image. An
// unreadable document never fails the surrounding upload; the caller records
// the returned error on the extraction result instead.
func (s *documentService) extractText(ctx context.Context, upload portssvc.DocumentUpload) (string, error) {
	if fileExtension(upload.FileName) == ".pdf" {
		text, err := docparse.PDFText(upload.Data)
		if err != nil {
			s.LogError(ctx, err, "pdf text extraction failed", "file_name", upload.FileName)
			return "", err
		}
		return text, nil
	}
	if s.recognizer == nil {
		return "", errors.New("no text recognizer configured for image uploads")
	}
	text, err := s.recognizer.RecognizeText(ctx, upload.Data, upload.ContentType)
	if err != nil {
		s.LogError(ctx, err, "ocr failed", "file_name", upload.FileName)
		return "", err
	}
	return text, nil
}

// UploadProforma stores a proforma invoice on a pending request owned by the
// actor and extracts structured data from it.
func (s *documentService) UploadProforma(ctx context.Context, actor domain.Actor, requestID string, upload portssvc.DocumentUpload) (*domain.ExtractedDocument, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleStaff || request.OwnerID != actor.UserID {
		return nil, ErrNotRequestOwner
	}
	if request.Status != domain.StatusPending {
		return nil, ErrRequestNotEditable
	}
	if err := s.resolveUpload(ctx, &upload); err != nil {
		return nil, err
	}

	text, extractErr := s.extractText(ctx, upload)
	extraction := s.refineProforma(ctx, text, extractErr)

	ref := fmt.Sprintf("proforma-%s%s", request.RequestID, fileExtension(upload.FileName))
	if _, err := s.fileStore.Save(ctx, ref, upload.Data); err != nil {
		s.LogError(ctx, err, "failed to store proforma", "request_id", requestID)
		return nil, err
	}

	request.ProformaRef = &ref
	request.Extraction = &extraction
	request.LastUpdatedAt = time.Now()
	request.LastUpdatedBy = actor.UserID
	if err := s.requestRepo.UpdateRequestFields(ctx, *request); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "proforma uploaded", "request_id", requestID, "vendor", extraction.Vendor)
	return &extraction, nil
}

// refineProforma runs the configured refiner over raw text and falls back to
// the local heuristics when the refiner is absent or fails. A text extraction
// failure short-circuits to the empty result carrying the error status.
func (s *documentService) refineProforma(ctx context.Context, text string, extractErr error) domain.ExtractedDocument {
	if extractErr != nil {
		doc := docparse.ParseProforma("")
		doc.Status = domain.ExtractionError
		doc.Message = "could not read document text: " + extractErr.Error()
		return doc
	}
	if s.refiner != nil && text != "" {
		refined, err := s.refiner.Refine(ctx, text)
		if err == nil && refined != nil {
			if refined.RawTextPreview == "" {
				refined.RawTextPreview = docparse.ParseProforma(text).RawTextPreview
			}
			return *refined
		}
		if err != nil {
			s.LogError(ctx, err, "refiner failed, falling back to heuristics")
		}
	}
	return docparse.ParseProforma(text)
}

// SubmitReceipt stores a receipt and reconciles its total against the
// purchase order. A request without a purchase order reconciles against
// zero, which surfaces the mismatch instead of failing the upload.
func (s *documentService) SubmitReceipt(ctx context.Context, actor domain.Actor, requestID string, upload portssvc.DocumentUpload) (*domain.ExtractedDocument, *domain.ReconciliationResult, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if !CanSubmitReceipt(actor, request) {
		return nil, nil, ErrReceiptNotAllowed
	}
	if err := s.resolveUpload(ctx, &upload); err != nil {
		return nil, nil, err
	}

	text, extractErr := s.extractText(ctx, upload)
	receiptData := docparse.ParseReceipt(text)
	if extractErr != nil {
		receiptData.Status = domain.ExtractionError
		receiptData.Message = "could not read document text: " + extractErr.Error()
	}

	ref := fmt.Sprintf("receipt-%s%s", request.RequestID, fileExtension(upload.FileName))
	if _, err := s.fileStore.Save(ctx, ref, upload.Data); err != nil {
		s.LogError(ctx, err, "failed to store receipt", "request_id", requestID)
		return nil, nil, err
	}

	request.ReceiptRef = &ref
	request.LastUpdatedAt = time.Now()
	request.LastUpdatedBy = actor.UserID
	if err := s.requestRepo.UpdateRequestFields(ctx, *request); err != nil {
		return nil, nil, err
	}

	poTotal := "0"
	if request.PurchaseOrder != nil {
		poTotal = request.PurchaseOrder.TotalEstimate
	}
	result := docparse.Reconcile(poTotal, receiptData.TotalEstimate)
	s.LogInfo(ctx, "receipt reconciled",
		"request_id", requestID,
		"receipt_total", result.ReceiptTotal.String(),
		"matches", result.Matches)
	return &receiptData, &result, nil
}

// GetPurchaseOrderFile returns the rendered purchase order document,
// re-rendering it from metadata if the stored artifact is missing.
func (s *documentService) GetPurchaseOrderFile(ctx context.Context, actor domain.Actor, requestID string) ([]byte, string, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, "", err
	}
	if !CanViewRequestFiles(actor, request) {
		return nil, "", fmt.Errorf("purchase order file is not accessible to this role: %w", apperrors.ErrForbidden)
	}
	if request.PurchaseOrder == nil {
		return nil, "", apperrors.NewNotFoundError("purchase order not generated yet")
	}

	data, err := s.fileStore.Load(ctx, podocument.FileRef(request.RequestID))
	if err == nil {
		return data, "application/pdf", nil
	}
	s.LogInfo(ctx, "purchase order artifact missing, re-rendering", "request_id", requestID)
	data, err = podocument.RenderPDF(request.PurchaseOrder)
	if err != nil {
		return nil, "", err
	}
	if _, err := s.fileStore.Save(ctx, podocument.FileRef(request.RequestID), data); err != nil {
		s.LogError(ctx, err, "failed to store re-rendered purchase order", "request_id", requestID)
	}
	return data, "application/pdf", nil
}

// AddAttachment stores a supporting document on the actor's own request.
// Link-only attachments keep the external URL without copying the bytes.
func (s *documentService) AddAttachment(ctx context.Context, actor domain.Actor, requestID string, upload portssvc.DocumentUpload) (*domain.Attachment, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanAddAttachment(actor, request) {
		return nil, ErrNotRequestOwner
	}

	attachment := domain.Attachment{
		AttachmentID: uuid.NewString(),
		RequestID:    request.RequestID,
		FileName:     upload.FileName,
		ContentType:  upload.ContentType,
		UploadedAt:   time.Now(),
	}

	if len(upload.Data) == 0 && upload.ExternalURL != "" {
		attachment.ExternalURL = &upload.ExternalURL
		if attachment.FileName == "" {
			attachment.FileName = filepath.Base(upload.ExternalURL)
		}
	} else {
		if err := s.resolveUpload(ctx, &upload); err != nil {
			return nil, err
		}
		ref := fmt.Sprintf("attachment-%s%s", attachment.AttachmentID, fileExtension(upload.FileName))
		if _, err := s.fileStore.Save(ctx, ref, upload.Data); err != nil {
			s.LogError(ctx, err, "failed to store attachment", "request_id", requestID)
			return nil, err
		}
		attachment.FileRef = &ref
	}

	if err := s.attachRepo.SaveAttachment(ctx, attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListAttachments returns a request's supporting documents.
func (s *documentService) ListAttachments(ctx context.Context, actor domain.Actor, requestID string) ([]domain.Attachment, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanViewRequest(actor, request) {
		return nil, apperrors.NewNotFoundError("purchase request not found")
	}
	return s.attachRepo.ListAttachmentsByRequestID(ctx, requestID)
}

// GetAttachmentFile resolves an attachment for download. Link-only
// attachments return their record with nil data; the caller redirects.
func (s *documentService) GetAttachmentFile(ctx context.Context, actor domain.Actor, requestID, attachmentID string) (*domain.Attachment, []byte, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if !CanViewRequestFiles(actor, request) {
		return nil, nil, fmt.Errorf("attachments are not accessible to this role: %w", apperrors.ErrForbidden)
	}

	attachment, err := s.attachRepo.FindAttachmentByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if attachment.RequestID != request.RequestID {
		return nil, nil, apperrors.NewNotFoundError("attachment not found on this request")
	}
	if attachment.FileRef == nil {
		return attachment, nil, nil
	}
	data, err := s.fileStore.Load(ctx, *attachment.FileRef)
	if err != nil {
		return nil, nil, err
	}
	return attachment, data, nil
}

// AddFinanceComment records a finance note on an approved request.
func (s *documentService) AddFinanceComment(ctx context.Context, actor domain.Actor, requestID string, comment string) (*domain.FinanceComment, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanAddFinanceComment(actor, request) {
		return nil, ErrFinanceCommentScope
	}

	note := domain.FinanceComment{
		CommentID: uuid.NewString(),
		RequestID: request.RequestID,
		UserID:    actor.UserID,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	if err := s.commentRepo.SaveFinanceComment(ctx, note); err != nil {
		return nil, err
	}
	return &note, nil
}

// ListFinanceComments returns a request's finance notes.
func (s *documentService) ListFinanceComments(ctx context.Context, actor domain.Actor, requestID string) ([]domain.FinanceComment, error) {
	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanViewRequest(actor, request) {
		return nil, apperrors.NewNotFoundError("purchase request not found")
	}
	return s.commentRepo.ListFinanceCommentsByRequestID(ctx, requestID)
}
