package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// LocalDocumentStore writes documents below root/dir on the local disk.
type LocalDocumentStore struct {
	root string
	dir  string
}

func NewLocalDocumentStore(root, dir string) *LocalDocumentStore {
	if root == "" {
		root = "."
	}
	return &LocalDocumentStore{root: root, dir: path.Clean(filepath.ToSlash(dir))}
}

func (s *LocalDocumentStore) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	relPath, err := documentPath(s.dir, name)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create document dir: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	if _, err := io.Copy(f, readerWithContext(ctx, r)); err != nil {
		f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("close document: %w", err)
	}

	return relPath, nil
}

func (s *LocalDocumentStore) Remove(_ context.Context, relPath string) error {
	if !withinDir(s.dir, relPath) {
		return ErrInvalidDocumentPath
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalDocumentStore) List(_ context.Context) ([]StoredDocument, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, filepath.FromSlash(s.dir)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list documents: %w", err)
	}

	docs := make([]StoredDocument, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		docs = append(docs, StoredDocument{
			Path:    path.Join(s.dir, entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	return docs, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
