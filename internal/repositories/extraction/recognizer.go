// Package extraction holds the optional text-extraction capabilities: OCR
// for scanned images and remote refinement of raw document text.
package extraction

import (
	"context"
	"errors"

	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
)

// NoopRecognizer stands in when no OCR backend is configured. Image uploads
// still store and reconcile; their extraction results carry an error status.
type NoopRecognizer struct{}

func NewNoopRecognizer() *NoopRecognizer {
	return &NoopRecognizer{}
}

var _ portssvc.TextRecognizer = (*NoopRecognizer)(nil)

func (NoopRecognizer) RecognizeText(context.Context, []byte, string) (string, error) {
	return "", errors.New("no ocr backend configured")
}
