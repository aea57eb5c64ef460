package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/procureflow/procurement_app/internal/core/domain"
	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
)

// HTTPRefiner posts raw document text to a remote refinement endpoint and
// expects a structured extraction back. Used when an external model service
// is configured; callers fall back to local heuristics on any error.
type HTTPRefiner struct {
	endpoint string
	client   *http.Client
}

func NewHTTPRefiner(endpoint string) *HTTPRefiner {
	return &HTTPRefiner{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 20 * time.Second},
	}
}

var _ portssvc.TextRefiner = (*HTTPRefiner)(nil)

type refineRequest struct {
	Text string `json:"text"`
}

// Refine sends the raw text and decodes the structured response.
func (r *HTTPRefiner) Refine(ctx context.Context, rawText string) (*domain.ExtractedDocument, error) {
	body, err := json.Marshal(refineRequest{Text: rawText})
	if err != nil {
		return nil, fmt.Errorf("encode refine request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build refine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call refiner: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("refiner returned status %d", resp.StatusCode)
	}

	var doc domain.ExtractedDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode refiner response: %w", err)
	}
	if doc.Status == "" {
		doc.Status = domain.ExtractionOK
	}
	return &doc, nil
}
