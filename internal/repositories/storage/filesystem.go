// Package storage provides the file store and external document fetcher
// backing the document workflows.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/procureflow/procurement_app/internal/apperrors"
	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
)

// LocalFileStore persists documents on disk under a base directory.
type LocalFileStore struct {
	baseDir string
}

// NewLocalFileStore ensures the base directory exists and returns a handle.
func NewLocalFileStore(baseDir string) (*LocalFileStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalFileStore{baseDir: baseDir}, nil
}

var _ portsrepo.FileStore = (*LocalFileStore)(nil)

// Save writes the given bytes under the base dir and returns the reference.
func (s *LocalFileStore) Save(_ context.Context, ref string, data []byte) (string, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write stored file %q: %v: %w", ref, err, apperrors.ErrStorageUnavailable)
	}
	return ref, nil
}

// Load reads a stored file back.
func (s *LocalFileStore) Load(_ context.Context, ref string) ([]byte, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("stored file %s not found", ref))
		}
		return nil, fmt.Errorf("read stored file %q: %v: %w", ref, err, apperrors.ErrStorageUnavailable)
	}
	return data, nil
}

// resolve joins the ref under the base dir, refusing refs that would escape it.
func (s *LocalFileStore) resolve(ref string) (string, error) {
	cleaned := filepath.Clean(ref)
	if cleaned == "" || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid file reference %q: %w", ref, apperrors.ErrValidation)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
