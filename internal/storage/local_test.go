package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lguportal/portal/internal/config"
)

func TestLocalDocumentStoreSaveCreatesDirectory(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalDocumentStore(root, "uploads/ids")

	relPath, err := store.Save(ctx, "abc_1700000000.pdf", strings.NewReader("%PDF-1.7"), 8, "application/pdf")
	require.NoError(t, err)
	require.Equal(t, "uploads/ids/abc_1700000000.pdf", relPath)

	data, err := os.ReadFile(filepath.Join(root, "uploads", "ids", "abc_1700000000.pdf"))
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7", string(data))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, relPath, docs[0].Path)

	require.NoError(t, store.Remove(ctx, relPath))
	require.NoError(t, store.Remove(ctx, relPath))
	_, err = os.Stat(filepath.Join(root, "uploads", "ids", "abc_1700000000.pdf"))
	require.True(t, os.IsNotExist(err))
}

func TestLocalDocumentStoreRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store := NewLocalDocumentStore(t.TempDir(), "uploads/ids")

	_, err := store.Save(ctx, "../escape.txt", strings.NewReader("x"), 1, "text/plain")
	require.ErrorIs(t, err, ErrInvalidDocumentPath)

	require.ErrorIs(t, store.Remove(ctx, "uploads/ids/../../etc/passwd"), ErrInvalidDocumentPath)
	require.ErrorIs(t, store.Remove(ctx, "elsewhere/file.pdf"), ErrInvalidDocumentPath)
}

func TestLocalDocumentStoreRefusesOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewLocalDocumentStore(t.TempDir(), "uploads/ids")

	_, err := store.Save(ctx, "same.png", strings.NewReader("one"), 3, "image/png")
	require.NoError(t, err)
	_, err = store.Save(ctx, "same.png", strings.NewReader("two"), 3, "image/png")
	require.Error(t, err)
}

func TestLocalDocumentStoreListMissingDir(t *testing.T) {
	store := NewLocalDocumentStore(t.TempDir(), "uploads/ids")
	docs, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestNewDocumentStore(t *testing.T) {
	store, err := NewDocumentStore(config.StorageConfig{Driver: "local", LocalRoot: t.TempDir(), DocumentDir: "uploads/ids"})
	require.NoError(t, err)
	require.IsType(t, &LocalDocumentStore{}, store)

	_, err = NewDocumentStore(config.StorageConfig{Driver: "ftp"})
	require.Error(t, err)
}
