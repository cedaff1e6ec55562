// Package fileaccess wraps primitive file operations behind boundary
// validation.
//
// Every operation validates its path against the pathbound.Boundary before
// touching the filesystem and maps low-level failures into OpError so
// callers can report the operation, the path, and the cause.
package fileaccess

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fjordworks/xcodemcp/internal/pathbound"
)

// ErrMissingFile marks a write to a non-existent file without create
// permission.
var ErrMissingFile = errors.New("file does not exist")

// ErrNotDirectory marks a list operation on a non-directory.
var ErrNotDirectory = errors.New("not a directory")

// OpError reports a filesystem primitive that failed after passing
// boundary validation.
type OpError struct {
	// Op is the operation name: "read", "write", "mkdir", or "list".
	Op string
	// Path is the normalized path the operation targeted.
	Path string
	// Err is the underlying cause.
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("file operation %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// FileContent is the result of a successful read.
type FileContent struct {
	Content  string `json:"content"`
	MimeType string `json:"mime_type"`
}

// Accessor performs boundary-checked file operations.
type Accessor struct {
	boundary *pathbound.Boundary
	logger   *zap.Logger
}

// New creates an Accessor. A nil logger disables logging.
func New(boundary *pathbound.Boundary, logger *zap.Logger) *Accessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accessor{boundary: boundary, logger: logger}
}

// ReadFile returns the content of path with a MIME type derived from its
// extension.
func (a *Accessor) ReadFile(path string) (*FileContent, error) {
	norm, err := a.boundary.ValidateForReading(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(norm)
	if err != nil {
		return nil, &OpError{Op: "read", Path: norm, Err: err}
	}

	a.logger.Debug("read file", zap.String("path", norm), zap.Int("bytes", len(data)))
	return &FileContent{
		Content:  string(data),
		MimeType: mimeTypeFor(norm),
	}, nil
}

// WriteFile replaces the content of path. When the target does not exist
// it is only created if createIfMissing is set; missing parent directories
// are created alongside it. Writes are whole-file overwrites.
func (a *Accessor) WriteFile(path, content string, createIfMissing bool) error {
	norm, err := a.boundary.ValidateForWriting(path)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(norm); statErr != nil {
		if !os.IsNotExist(statErr) {
			return &OpError{Op: "write", Path: norm, Err: statErr}
		}
		if !createIfMissing {
			return &OpError{Op: "write", Path: norm, Err: ErrMissingFile}
		}
		if mkErr := os.MkdirAll(filepath.Dir(norm), 0o755); mkErr != nil {
			return &OpError{Op: "mkdir", Path: filepath.Dir(norm), Err: mkErr}
		}
	}

	if err := os.WriteFile(norm, []byte(content), 0o644); err != nil {
		return &OpError{Op: "write", Path: norm, Err: err}
	}

	a.logger.Debug("wrote file", zap.String("path", norm), zap.Int("bytes", len(content)))
	return nil
}

// ListDirectory returns one entry per child of path, "d <abs>" for
// subdirectories and "f <abs>" for everything else.
func (a *Accessor) ListDirectory(path string) ([]string, error) {
	norm, err := a.boundary.ValidateForReading(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(norm)
	if err != nil {
		return nil, &OpError{Op: "list", Path: norm, Err: err}
	}
	if !info.IsDir() {
		return nil, &OpError{Op: "list", Path: norm, Err: ErrNotDirectory}
	}

	entries, err := os.ReadDir(norm)
	if err != nil {
		return nil, &OpError{Op: "list", Path: norm, Err: err}
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		tag := "f"
		if entry.IsDir() {
			tag = "d"
		}
		out = append(out, fmt.Sprintf("%s %s", tag, filepath.Join(norm, entry.Name())))
	}
	return out, nil
}
