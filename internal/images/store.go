// Package images persists recipe pictures uploaded as base64 data URIs.
//
// Clients embed the picture inside the JSON write payload as
// "data:image/<format>;base64,<payload>". The store decodes it, writes the
// bytes under a content-addressed-ish random name, and hands back the URL
// the router serves the directory from. The recipe row only ever stores
// that URL, never the image bytes.
package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxImageBytes caps the decoded image size.
const maxImageBytes = 5 << 20 // 5 MiB

var (
	// ErrBadDataURI means the payload is not a well-formed base64 image
	// data URI.
	ErrBadDataURI = errors.New("images: malformed image data URI")
	// ErrUnsupportedFormat means the declared image format is not allowed.
	ErrUnsupportedFormat = errors.New("images: unsupported image format")
	// ErrTooLarge means the decoded image exceeds the size cap.
	ErrTooLarge = fmt.Errorf("images: image exceeds %d bytes", int64(maxImageBytes))
)

// allowedFormats maps accepted data URI media subtypes to file extensions.
var allowedFormats = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"jpg":  ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
}

// Store writes decoded images to a local directory served as static files.
type Store struct {
	dir       string
	urlPrefix string
}

// NewStore ensures dir exists and returns a store serving it under
// urlPrefix (e.g. "/media").
func NewStore(dir, urlPrefix string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("images: create dir %s: %w", dir, err)
	}
	return &Store{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

// URLPrefix returns the URL path the directory is served from.
func (s *Store) URLPrefix() string { return s.urlPrefix }

// Save decodes a base64 data URI and writes the image to disk under a fresh
// random name, returning its public URL. The context is accepted for
// interface symmetry with remote stores; local writes do not block on it.
func (s *Store) Save(_ context.Context, dataURI string) (string, error) {
	format, payload, err := splitDataURI(dataURI)
	if err != nil {
		return "", err
	}
	ext, okFmt := allowedFormats[format]
	if !okFmt {
		return "", ErrUnsupportedFormat
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return "", ErrTooLarge
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrBadDataURI
	}
	if len(raw) == 0 {
		return "", ErrBadDataURI
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("images: write %s: %w", name, err)
	}
	return path.Join(s.urlPrefix, name), nil
}

// splitDataURI validates "data:image/<format>;base64,<payload>" and returns
// the format subtype and the raw base64 payload.
func splitDataURI(uri string) (format, payload string, err error) {
	const prefix = "data:image/"
	if !strings.HasPrefix(uri, prefix) {
		return "", "", ErrBadDataURI
	}
	rest := uri[len(prefix):]
	sep := strings.Index(rest, ";base64,")
	if sep <= 0 {
		return "", "", ErrBadDataURI
	}
	format = strings.ToLower(rest[:sep])
	payload = rest[sep+len(";base64,"):]
	if payload == "" {
		return "", "", ErrBadDataURI
	}
	return format, payload, nil
}
