// Package podocument renders purchase order metadata into shareable
// artifacts: a PDF for humans and a JSON sidecar for systems.
package podocument

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/procureflow/procurement_app/internal/core/domain"
)

// FileRef returns the canonical file store reference of a purchase order PDF.
func FileRef(requestID string) string {
	return fmt.Sprintf("po-%s.pdf", requestID)
}

// SidecarRef returns the reference of the machine-readable JSON companion.
func SidecarRef(requestID string) string {
	return fmt.Sprintf("po-%s.json", requestID)
}

// RenderPDF renders purchase order metadata as an A4 PDF.
func RenderPDF(po *domain.PurchaseOrderMetadata) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "PURCHASE ORDER", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	writeField := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 8, label, "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 8, value, "", "", false)
	}

	writeField("Request ID", po.RequestID)
	writeField("Title", po.Title)
	writeField("Vendor", po.Vendor)
	writeField("Amount", po.Amount)
	writeField("Estimated Total", po.TotalEstimate)

	if len(po.Items) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 8, "Items", "B", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, item := range po.Items {
			pdf.CellFormat(0, 7, item, "", 1, "", false, 0, "")
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render purchase order pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSidecar serializes purchase order metadata as indented JSON.
func RenderSidecar(po *domain.PurchaseOrderMetadata) ([]byte, error) {
	data, err := json.MarshalIndent(po, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize purchase order metadata: %w", err)
	}
	return data, nil
}
