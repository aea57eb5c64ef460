package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/procureflow/procurement_app/internal/apperrors"
	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
)

// HTTPFetcher downloads externally hosted documents over HTTP.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher returns a fetcher with a bounded response size.
func NewHTTPFetcher(maxBytes int64) *HTTPFetcher {
	return &HTTPFetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		maxBytes: maxBytes,
	}
}

var _ portsrepo.URLFetcher = (*HTTPFetcher)(nil)

// Fetch downloads the document at url, refusing oversized responses.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid document url %q: %w", url, apperrors.ErrValidation)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch external document: %v: %w", err, apperrors.ErrStorageUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch external document: unexpected status %d: %w", resp.StatusCode, apperrors.ErrStorageUnavailable)
	}

	limit := f.maxBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read external document: %v: %w", err, apperrors.ErrStorageUnavailable)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("external document exceeds %d bytes: %w", limit, apperrors.ErrValidation)
	}
	return data, nil
}
