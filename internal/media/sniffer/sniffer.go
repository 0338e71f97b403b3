package sniffer

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
)

type MediaType string

const (
	TypeJPEG MediaType = "jpeg"
	TypePNG  MediaType = "png"
	TypePDF  MediaType = "pdf"
)

var ErrUnknownType = errors.New("unknown media type")

type Result struct {
	Type MediaType
	MIME string
	// Extensions lists accepted file name extensions, canonical first.
	Extensions []string
}

// Ext returns the extension to store a file under. The uploader's own
// extension is kept when it agrees with the detected content.
func (r Result) Ext(original string) string {
	original = strings.ToLower(strings.TrimPrefix(original, "."))
	for _, ext := range r.Extensions {
		if ext == original {
			return ext
		}
	}
	return r.Extensions[0]
}

// Detect reads up to 512 bytes from r and identifies the document type. The
// consumed bytes are returned so callers can stitch the stream back together.
func Detect(r io.Reader) (Result, []byte, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Result{}, nil, err
	}
	head = head[:n]

	result, err := DetectHead(head)
	return result, head, err
}

func DetectHead(head []byte) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	if isJPEG(head) {
		return Result{Type: TypeJPEG, MIME: "image/jpeg", Extensions: []string{"jpg", "jpeg"}}, nil
	}
	if isPNG(head) {
		return Result{Type: TypePNG, MIME: "image/png", Extensions: []string{"png"}}, nil
	}
	if isPDF(head) {
		return Result{Type: TypePDF, MIME: "application/pdf", Extensions: []string{"pdf"}}, nil
	}

	return Result{}, ErrUnknownType
}

func isJPEG(head []byte) bool {
	return len(head) > 3 &&
		head[0] == 0xff &&
		head[1] == 0xd8 &&
		head[2] == 0xff
}

func isPNG(head []byte) bool {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

// PDF readers tolerate junk before the header, so the whole head is searched.
func isPDF(head []byte) bool {
	return bytes.Contains(head, []byte("%PDF-"))
}

// MimeTypeFromHTTP returns the media type of a Content-Type header without
// parameters.
func MimeTypeFromHTTP(header http.Header) string {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		return ""
	}
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		return strings.TrimSpace(contentType[:idx])
	}
	return strings.TrimSpace(contentType)
}
