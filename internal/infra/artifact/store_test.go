package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"frutas/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStore_MemRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, "mem://", "qr/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Put(ctx, service.ReceiptQRKey("AB123456"), []byte("png"), "image/png"))

	data, err := store.Get(ctx, service.ReceiptQRKey("AB123456"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	_, err = store.Get(ctx, service.ReceiptQRKey("ZZ999999"))
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestBlobStore_FileBucketUsesPrefix(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(ctx, "file://"+filepath.ToSlash(dir), "archive/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Put(ctx, service.ReceiptQRKey("AB123456"), []byte("png"), "image/png"))

	_, err = os.Stat(filepath.Join(dir, "archive", "receipts", "AB123456.png"))
	assert.NoError(t, err)
}

func TestNoopStore(t *testing.T) {
	var store noopStore

	assert.NoError(t, store.Put(context.Background(), "k", []byte("v"), "text/plain"))
	_, err := store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}
