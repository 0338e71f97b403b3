package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"lguportal/portal/internal/ids"
	"lguportal/portal/internal/media/sniffer"
	"lguportal/portal/internal/storage"
)

var (
	ErrDocumentEmpty    = errors.New("empty document")
	ErrDocumentTooLarge = errors.New("document too large")
	ErrDocumentMismatch = errors.New("document content type mismatch")
)

// DocumentUpload is one identity document as received from the form. Err is
// set when the transport failed before the content could be read.
type DocumentUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
	Err         error
}

// DocumentService validates identity documents and hands them to the store
// under a generated name.
type DocumentService struct {
	store    storage.DocumentStore
	maxBytes int64
	log      zerolog.Logger
	now      func() time.Time
}

func NewDocumentService(store storage.DocumentStore, maxBytes int64, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		store:    store,
		maxBytes: maxBytes,
		log:      log,
		now:      time.Now,
	}
}

// Store writes the upload and returns its relative path.
func (s *DocumentService) Store(ctx context.Context, upload DocumentUpload) (string, error) {
	if upload.Err != nil {
		return "", fmt.Errorf("receive upload: %w", upload.Err)
	}
	if upload.Content == nil || upload.Size == 0 {
		return "", ErrDocumentEmpty
	}
	if s.maxBytes > 0 && upload.Size > s.maxBytes {
		return "", ErrDocumentTooLarge
	}

	result, head, err := sniffer.Detect(upload.Content)
	if err != nil {
		return "", fmt.Errorf("detect type: %w", err)
	}

	declared := upload.ContentType
	if declared != "" && declared != "application/octet-stream" && declared != result.MIME {
		return "", fmt.Errorf("%w: declared %s, actual %s", ErrDocumentMismatch, declared, result.MIME)
	}

	name := fmt.Sprintf("%s_%d.%s", ids.New(), s.now().Unix(), result.Ext(path.Ext(upload.Filename)))

	size := upload.Size
	if size < 0 {
		size = -1
	}
	body := io.MultiReader(bytes.NewReader(head), upload.Content)
	if s.maxBytes > 0 {
		body = &limitReader{r: body, remaining: s.maxBytes}
	}

	relPath, err := s.store.Save(ctx, name, body, size, result.MIME)
	if err != nil {
		return "", err
	}

	s.log.Debug().Str("path", relPath).Str("type", string(result.Type)).Msg("identity document stored")
	return relPath, nil
}

// Discard removes a stored document, logging instead of failing.
func (s *DocumentService) Discard(ctx context.Context, relPath string) {
	if relPath == "" {
		return
	}
	if err := s.store.Remove(ctx, relPath); err != nil {
		s.log.Warn().Err(err).Str("path", relPath).Msg("remove identity document failed")
	}
}

type limitReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrDocumentTooLarge
	}
	return n, err
}
