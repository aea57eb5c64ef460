package repositories

import "context"

// FileStore is the storage collaborator contract: store bytes, get back an
// opaque reference, and return bytes for a reference later. Implementations
// may be local disk, object storage, or anything else; callers never see the
// difference.
type FileStore interface {
	// Save stores data under a path-like reference and returns the reference.
	Save(ctx context.Context, ref string, data []byte) (string, error)

	// Load returns the bytes for a previously returned reference.
	Load(ctx context.Context, ref string) ([]byte, error)
}

// URLFetcher returns the bytes behind an externally hosted document URL.
type URLFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
