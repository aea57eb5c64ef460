package domain

import "github.com/shopspring/decimal"

// ExtractionStatus marks whether an extraction produced usable data.
// An extraction never fails the surrounding operation; failures degrade to
// an empty result carrying ExtractionError.
type ExtractionStatus string

const (
	ExtractionOK    ExtractionStatus = "success"
	ExtractionError ExtractionStatus = "error"
)

// MaxExtractedItems caps the line items kept from a document.
const MaxExtractedItems = 10

// MaxRawTextPreview caps the stored raw-text preview, in bytes.
const MaxRawTextPreview = 5000

// ExtractedDocument is the best-effort structured view of an uploaded
// proforma or receipt. All fields are unreliable; TotalEstimate is an exact
// decimal string ("0.00" when nothing was found).
type ExtractedDocument struct {
	Vendor         string           `json:"vendor,omitempty"`
	Items          []string         `json:"items"`
	TotalEstimate  string           `json:"totalEstimate"`
	RawTextPreview string           `json:"rawTextPreview,omitempty"`
	Status         ExtractionStatus `json:"status"`
	Message        string           `json:"message,omitempty"`
}

// PurchaseOrderMetadata is the durable purchase-order summary generated at
// final approval. TotalEstimate falls back to the raw request amount when no
// proforma extraction exists.
type PurchaseOrderMetadata struct {
	RequestID     string   `json:"purchaseRequestID"`
	Title         string   `json:"title"`
	Amount        string   `json:"amount"`
	Vendor        string   `json:"vendor"`
	Items         []string `json:"items"`
	TotalEstimate string   `json:"totalEstimate"`
}

// ReconciliationResult compares a receipt's extracted total against the
// purchase order's recorded total.
type ReconciliationResult struct {
	POTotal      decimal.Decimal `json:"poTotal"`
	ReceiptTotal decimal.Decimal `json:"receiptTotal"`
	Difference   decimal.Decimal `json:"difference"`
	Matches      bool            `json:"matches"`
}
