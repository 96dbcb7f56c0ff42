package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/research-library/pkg/logging"
	"github.com/JaimeStill/research-library/pkg/storage"
)

func newSystem(t *testing.T, maxSize string) (storage.System, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &storage.Config{BasePath: dir, MaxFileSize: maxSize}
	require.NoError(t, cfg.Finalize(nil))

	sys, err := storage.New(cfg, logging.Discard())
	require.NoError(t, err)
	return sys, dir
}

func TestNew_EmptyBasePath(t *testing.T) {
	_, err := storage.New(&storage.Config{}, logging.Discard())
	assert.Error(t, err)
}

func TestNew_CreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "downloads")
	cfg := &storage.Config{BasePath: target}
	require.NoError(t, cfg.Finalize(nil))

	_, err := storage.New(cfg, logging.Discard())
	require.NoError(t, err)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_Retrieve_RoundTrip(t *testing.T) {
	sys, _ := newSystem(t, "")
	ctx := context.Background()

	n, err := sys.Store(ctx, "papers/thesis.pdf", strings.NewReader("%PDF-1.7 body"))
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)

	data, err := sys.Retrieve(ctx, "papers/thesis.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))
}

func TestStore_TooLarge(t *testing.T) {
	sys, dir := newSystem(t, "8B")
	ctx := context.Background()

	_, err := sys.Store(ctx, "big.pdf", strings.NewReader("0123456789"))
	assert.ErrorIs(t, err, storage.ErrTooLarge)

	_, statErr := os.Stat(filepath.Join(dir, "big.pdf"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, "big.pdf.tmp"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_CancelledContext(t *testing.T) {
	sys, _ := newSystem(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sys.Store(ctx, "cancelled.pdf", strings.NewReader("data"))
	assert.ErrorIs(t, err, context.Canceled)

	exists, err := sys.Validate(context.Background(), "cancelled.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInvalidKeys(t *testing.T) {
	sys, _ := newSystem(t, "")
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"parent traversal", "../escape.pdf"},
		{"absolute", "/etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sys.Store(ctx, tt.key, strings.NewReader("x"))
			assert.ErrorIs(t, err, storage.ErrInvalidKey)

			_, err = sys.Path(ctx, tt.key)
			assert.ErrorIs(t, err, storage.ErrInvalidKey)
		})
	}
}

func TestRetrieve_NotFound(t *testing.T) {
	sys, _ := newSystem(t, "")
	_, err := sys.Retrieve(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDelete(t *testing.T) {
	sys, dir := newSystem(t, "")
	ctx := context.Background()

	_, err := sys.Store(ctx, "nested/doc.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, sys.Delete(ctx, "nested/doc.pdf"))
	require.NoError(t, sys.Delete(ctx, "nested/doc.pdf"))

	_, err = os.Stat(filepath.Join(dir, "nested"))
	assert.True(t, os.IsNotExist(err), "empty parent directory should be removed")
}

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_STORAGE_PATH", "/tmp/env-downloads")

	cfg := &storage.Config{}
	require.NoError(t, cfg.Finalize(&storage.Env{BasePath: "TEST_STORAGE_PATH"}))

	assert.Equal(t, "/tmp/env-downloads", cfg.BasePath)
	assert.Equal(t, "256MB", cfg.MaxFileSize)
	assert.Equal(t, int64(256*1000*1000), cfg.MaxFileSizeBytes())
}

func TestConfig_Finalize_InvalidSize(t *testing.T) {
	cfg := &storage.Config{MaxFileSize: "lots"}
	assert.Error(t, cfg.Finalize(nil))
}
