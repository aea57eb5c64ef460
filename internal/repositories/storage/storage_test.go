package storage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procureflow/procurement_app/internal/apperrors"
	"github.com/procureflow/procurement_app/internal/repositories/storage"
)

func TestLocalFileStoreRoundTrip(t *testing.T) {
	store, err := storage.NewLocalFileStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "proforma-req-1.pdf", []byte("%PDF fake"))
	require.NoError(t, err)
	assert.Equal(t, "proforma-req-1.pdf", ref)

	data, err := store.Load(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF fake"), data)
}

func TestLocalFileStoreLoadMissing(t *testing.T) {
	store, err := storage.NewLocalFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "nope.pdf")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLocalFileStoreRejectsEscapingRefs(t *testing.T) {
	store, err := storage.NewLocalFileStore(t.TempDir())
	require.NoError(t, err)

	for _, ref := range []string{"../secret.pdf", "/etc/passwd", ""} {
		_, err := store.Save(context.Background(), ref, []byte("x"))
		assert.ErrorIs(t, err, apperrors.ErrValidation, "ref %q", ref)
	}
}

func TestLocalFileStoreSaveFailureIsStorageUnavailable(t *testing.T) {
	store, err := storage.NewLocalFileStore(t.TempDir())
	require.NoError(t, err)

	// The ref points into a directory that was never created.
	_, err = store.Save(context.Background(), "missing-dir/file.pdf", []byte("x"))
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestLocalFileStoreLoadFailureIsStorageUnavailable(t *testing.T) {
	baseDir := t.TempDir()
	store, err := storage.NewLocalFileStore(baseDir)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(baseDir, "dir.pdf"), 0o755))

	_, err = store.Load(context.Background(), "dir.pdf")
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHTTPFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("invoice bytes"))
	}))
	defer srv.Close()

	data, err := storage.NewHTTPFetcher(1 << 20).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("invoice bytes"), data)
}

func TestHTTPFetcherUpstreamFailureIsStorageUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := storage.NewHTTPFetcher(1 << 20).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)

	srv.Close()
	_, err = storage.NewHTTPFetcher(1 << 20).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestHTTPFetcherRejectsOversizedDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	_, err := storage.NewHTTPFetcher(16).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
