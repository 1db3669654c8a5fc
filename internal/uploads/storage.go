// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

// Package uploads stores user-submitted images on local disk. Files are
// renamed to a UUID on write so original filenames never reach the
// filesystem, and content is sniffed rather than trusting the declared
// Content-Type.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tomtom215/parlor/internal/logging"
	"github.com/tomtom215/parlor/internal/metrics"
)

var (
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("uploads: file exceeds size limit")

	// ErrUnsupportedType is returned for anything other than JPEG or PNG.
	ErrUnsupportedType = errors.New("uploads: unsupported image type")
)

// sniffLen is how many bytes http.DetectContentType needs at most.
const sniffLen = 512

var allowedExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Storage writes validated image uploads into a single directory.
type Storage struct {
	dir      string
	maxBytes int64
}

// NewStorage creates the upload directory if needed and returns a Storage
// rooted there.
func NewStorage(dir string, maxBytes int64) (*Storage, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("uploads: max bytes must be positive, got %d", maxBytes)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("uploads: create directory: %w", err)
	}
	return &Storage{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory uploads are written to.
func (s *Storage) Dir() string {
	return s.dir
}

// MaxBytes returns the per-file size limit.
func (s *Storage) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates and stores one image, returning the generated filename.
// The reader is consumed up to the size limit; a reader yielding more than
// maxBytes fails with ErrTooLarge and the partial file is removed.
func (s *Storage) Save(r io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("uploads: read: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := allowedExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("uploads: create file: %w", err)
	}

	written, err := s.copyLimited(f, head, r)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("uploads: close file: %w", closeErr)
	}
	if err != nil {
		if removeErr := os.Remove(path); removeErr != nil {
			logging.Error().Err(removeErr).Str("path", path).Msg("failed to remove rejected upload")
		}
		return "", err
	}

	metrics.UploadsStored.WithLabelValues(contentType).Inc()
	logging.Debug().
		Str("filename", name).
		Str("content_type", contentType).
		Int64("bytes", written).
		Msg("upload stored")

	return name, nil
}

// copyLimited writes the sniffed head plus the remaining body, enforcing
// the size limit across both.
func (s *Storage) copyLimited(w io.Writer, head []byte, r io.Reader) (int64, error) {
	if int64(len(head)) > s.maxBytes {
		return 0, ErrTooLarge
	}
	if _, err := w.Write(head); err != nil {
		return 0, fmt.Errorf("uploads: write: %w", err)
	}

	remaining := s.maxBytes - int64(len(head))
	n, err := io.Copy(w, io.LimitReader(r, remaining+1))
	if err != nil {
		return 0, fmt.Errorf("uploads: write: %w", err)
	}
	if n > remaining {
		return 0, ErrTooLarge
	}
	return int64(len(head)) + n, nil
}

// Open returns the stored file for the given name. Names containing path
// separators or traversal sequences are rejected.
func (s *Storage) Open(name string) (*os.File, error) {
	if name != filepath.Base(name) || name == "." || name == "" {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.dir, name))
}
