// Package filestore stores uploaded resource files on disk and validates
// PDFs before they are accepted.
package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrNotFound is returned when a stored file does not exist.
var ErrNotFound = errors.New("file not found")

// ErrTooLarge is returned when an upload exceeds the size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// ErrInvalidPDF is returned when an uploaded PDF cannot be parsed.
var ErrInvalidPDF = errors.New("invalid PDF file")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Store persists uploaded files under a single directory.
type Store struct {
	dir      string
	maxBytes int64
}

// New creates a file store rooted at dir. maxBytes of 0 means no limit.
func New(dir string, maxBytes int64) *Store {
	return &Store{dir: dir, maxBytes: maxBytes}
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// SavedFile describes a stored upload.
type SavedFile struct {
	// Name is the unique stored file name.
	Name string
	// OriginalName is the sanitized client-provided name.
	OriginalName string
	// Size is the stored size in bytes.
	Size int64
	// PageCount is the PDF page count (0 for non-PDF files).
	PageCount int
}

// Save writes the upload to disk under a unique name. PDF files are
// validated and their page count recorded; invalid PDFs are rejected
// and removed.
func (s *Store) Save(fileName string, r io.Reader) (*SavedFile, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	original := SanitizeName(fileName)
	stored := uuid.NewString() + "_" + original
	path := filepath.Join(s.dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	var src io.Reader = r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}

	size, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, s.maxBytes)
	}

	saved := &SavedFile{
		Name:         stored,
		OriginalName: original,
		Size:         size,
	}

	if strings.EqualFold(filepath.Ext(original), ".pdf") {
		pages, err := api.PageCountFile(path)
		if err != nil {
			_ = os.Remove(path)
			return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
		}
		saved.PageCount = pages
	}

	return saved, nil
}

// Path returns the absolute path for a stored file name.
// The name is validated against path traversal.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", err
	}
	return path, nil
}

// Open opens a stored file for reading.
func (s *Store) Open(name string) (*os.File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes a stored file. Deleting a missing file is not an error.
func (s *Store) Delete(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid file name: %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SanitizeName strips directories and replaces unsafe characters in a
// client-provided file name.
func SanitizeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == ".." {
		return "upload"
	}
	return base
}
