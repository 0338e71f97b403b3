package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"lguportal/portal/internal/config"
)

var ErrInvalidDocumentPath = errors.New("invalid document path")

// StoredDocument describes one identity document known to a DocumentStore.
type StoredDocument struct {
	Path    string
	ModTime time.Time
}

// DocumentStore persists uploaded identity documents. Paths returned by Save
// are relative ("uploads/ids/<name>") and are what the users table records.
type DocumentStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, relPath string) error
	List(ctx context.Context) ([]StoredDocument, error)
}

// NewDocumentStore builds the store selected by cfg.Driver.
func NewDocumentStore(cfg config.StorageConfig) (DocumentStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalDocumentStore(cfg.LocalRoot, cfg.DocumentDir), nil
	case "minio":
		return NewObjectStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// documentPath joins dir and name, refusing names that would escape dir.
func documentPath(dir, name string) (string, error) {
	if name == "" || name != path.Base(name) || name == "." || name == ".." {
		return "", ErrInvalidDocumentPath
	}
	return path.Join(dir, name), nil
}

func withinDir(dir, relPath string) bool {
	clean := path.Clean(relPath)
	return path.Dir(clean) == path.Clean(dir) && clean == relPath
}
