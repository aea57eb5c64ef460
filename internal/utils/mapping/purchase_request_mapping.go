package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/procureflow/procurement_app/internal/core/domain"
	"github.com/procureflow/procurement_app/internal/models"
)

// ToModelPurchaseRequest converts a domain PurchaseRequest to its persistence
// shape, serializing the extraction and purchase-order payloads to JSON.
func ToModelPurchaseRequest(d domain.PurchaseRequest) (models.PurchaseRequest, error) {
	m := models.PurchaseRequest{
		RequestID:    d.RequestID,
		Title:        d.Title,
		Description:  d.Description,
		Amount:       d.Amount,
		Status:       models.RequestStatus(d.Status),
		CurrentLevel: d.CurrentLevel,
		OwnerID:      d.OwnerID,
		Supplier:     d.Supplier,
		ApprovedAt:   d.ApprovedAt,
		ProformaRef:  d.ProformaRef,
		POFileRef:    d.POFileRef,
		ReceiptRef:   d.ReceiptRef,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.Extraction != nil {
		payload, err := json.Marshal(d.Extraction)
		if err != nil {
			return models.PurchaseRequest{}, fmt.Errorf("marshal extraction for request %s: %w", d.RequestID, err)
		}
		m.Extraction = payload
	}
	if d.PurchaseOrder != nil {
		payload, err := json.Marshal(d.PurchaseOrder)
		if err != nil {
			return models.PurchaseRequest{}, fmt.Errorf("marshal purchase order for request %s: %w", d.RequestID, err)
		}
		m.POMetadata = payload
	}
	return m, nil
}

// ToDomainPurchaseRequest converts a model PurchaseRequest to the domain shape,
// deserializing the JSON payloads when present.
func ToDomainPurchaseRequest(m models.PurchaseRequest) (domain.PurchaseRequest, error) {
	d := domain.PurchaseRequest{
		RequestID:    m.RequestID,
		Title:        m.Title,
		Description:  m.Description,
		Amount:       m.Amount,
		Status:       domain.RequestStatus(m.Status),
		CurrentLevel: m.CurrentLevel,
		OwnerID:      m.OwnerID,
		Supplier:     m.Supplier,
		ApprovedAt:   m.ApprovedAt,
		ProformaRef:  m.ProformaRef,
		POFileRef:    m.POFileRef,
		ReceiptRef:   m.ReceiptRef,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if len(m.Extraction) > 0 {
		var extraction domain.ExtractedDocument
		if err := json.Unmarshal(m.Extraction, &extraction); err != nil {
			return domain.PurchaseRequest{}, fmt.Errorf("unmarshal extraction for request %s: %w", m.RequestID, err)
		}
		d.Extraction = &extraction
	}
	if len(m.POMetadata) > 0 {
		var po domain.PurchaseOrderMetadata
		if err := json.Unmarshal(m.POMetadata, &po); err != nil {
			return domain.PurchaseRequest{}, fmt.Errorf("unmarshal purchase order for request %s: %w", m.RequestID, err)
		}
		d.PurchaseOrder = &po
	}
	return d, nil
}

// ToModelApproval converts a domain Approval to a model Approval
func ToModelApproval(d domain.Approval) models.Approval {
	return models.Approval{
		ApprovalID: d.ApprovalID,
		RequestID:  d.RequestID,
		Level:      d.Level,
		ApproverID: d.ApproverID,
		Decision:   string(d.Decision),
		Comments:   d.Comments,
		DecidedAt:  d.DecidedAt,
	}
}

// ToDomainApproval converts a model Approval to a domain Approval
func ToDomainApproval(m models.Approval) domain.Approval {
	return domain.Approval{
		ApprovalID: m.ApprovalID,
		RequestID:  m.RequestID,
		Level:      m.Level,
		ApproverID: m.ApproverID,
		Decision:   domain.Decision(m.Decision),
		Comments:   m.Comments,
		DecidedAt:  m.DecidedAt,
	}
}

// ToDomainApprovalSlice converts a slice of model Approvals to domain Approvals
func ToDomainApprovalSlice(ms []models.Approval) []domain.Approval {
	ds := make([]domain.Approval, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApproval(m)
	}
	return ds
}

// ToDomainAttachment converts a model Attachment to a domain Attachment
func ToDomainAttachment(m models.Attachment) domain.Attachment {
	return domain.Attachment{
		AttachmentID: m.AttachmentID,
		RequestID:    m.RequestID,
		FileRef:      m.FileRef,
		ExternalURL:  m.ExternalURL,
		FileName:     m.FileName,
		ContentType:  m.ContentType,
		UploadedAt:   m.UploadedAt,
	}
}

// ToDomainFinanceComment converts a model FinanceComment to a domain FinanceComment
func ToDomainFinanceComment(m models.FinanceComment) domain.FinanceComment {
	return domain.FinanceComment{
		CommentID: m.CommentID,
		RequestID: m.RequestID,
		UserID:    m.UserID,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
	}
}
