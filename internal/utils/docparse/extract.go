// Package docparse extracts structured procurement data from document text.
// Parsing is heuristic: it recognizes labeled vendor and item lines and takes
// the last currency amount as the document total.
package docparse

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"

	"github.com/procureflow/procurement_app/internal/core/domain"
)

var (
	vendorPattern   = regexp.MustCompile(`(?i)(?:vendor|supplier|from)[:\s]+(.+)`)
	itemPattern     = regexp.MustCompile(`(?i)(?:item|product)[:\s]+(.+)`)
	currencyPattern = regexp.MustCompile(`(?:USD|KES|UGX|ZAR|GBP|EUR|R|\$)?\s?([0-9][0-9,]*(?:\.[0-9]{2})?)`)
)

// PDFText extracts the text layer of a PDF document.
func PDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// currencyCandidates returns every parseable amount in the text, in order of
// appearance.
func currencyCandidates(text string) []decimal.Decimal {
	var amounts []decimal.Decimal
	for _, match := range currencyPattern.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(match[1], ",", "")
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		amounts = append(amounts, amount)
	}
	return amounts
}

// truncatePreview caps the preview at MaxRawTextPreview bytes, backing up to
// the previous rune boundary so the result stays valid UTF-8.
func truncatePreview(text string) string {
	if len(text) <= domain.MaxRawTextPreview {
		return text
	}
	cut := domain.MaxRawTextPreview
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// ParseProforma parses proforma invoice text into vendor, items and an
// estimated total. Missing fields fall back to neutral defaults rather than
// failing; an unreadable document is still a valid, empty extraction.
func ParseProforma(text string) domain.ExtractedDocument {
	doc := domain.ExtractedDocument{
		Vendor:         "Unknown Vendor",
		TotalEstimate:  "0.00",
		RawTextPreview: truncatePreview(text),
		Status:         domain.ExtractionOK,
		Message:        "proforma processed successfully",
	}

	if match := vendorPattern.FindStringSubmatch(text); match != nil {
		doc.Vendor = strings.TrimSpace(match[1])
	}

	for _, match := range itemPattern.FindAllStringSubmatch(text, -1) {
		doc.Items = append(doc.Items, strings.TrimSpace(match[1]))
		if len(doc.Items) >= domain.MaxExtractedItems {
			break
		}
	}

	if totals := currencyCandidates(text); len(totals) > 0 {
		doc.TotalEstimate = totals[len(totals)-1].String()
	}
	return doc
}

// ParseReceipt parses receipt text. Only the total matters for
// reconciliation; the preview is kept for audit.
func ParseReceipt(text string) domain.ExtractedDocument {
	doc := domain.ExtractedDocument{
		TotalEstimate:  "0.00",
		RawTextPreview: truncatePreview(text),
		Status:         domain.ExtractionOK,
		Message:        "receipt processed successfully",
	}
	if totals := currencyCandidates(text); len(totals) > 0 {
		doc.TotalEstimate = totals[len(totals)-1].String()
	}
	return doc
}
