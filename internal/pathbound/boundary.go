// Package pathbound decides which filesystem paths the server may touch.
//
// A Boundary holds the set of roots access is granted under: the active
// project root, the configured projects base directory, and the process
// working directory. The first two grant read and write; the process
// working directory grants read only.
package pathbound

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrAccessDenied is the sentinel wrapped by every AccessError.
var ErrAccessDenied = errors.New("path outside allowed boundaries")

// AccessError reports a path rejected by boundary validation.
type AccessError struct {
	// Path is the normalized path that was rejected.
	Path string
	// Write is true when write access was requested.
	Write bool
}

func (e *AccessError) Error() string {
	access := "reading"
	if e.Write {
		access = "writing"
	}
	return fmt.Sprintf("access denied: %s is outside the allowed boundaries for %s", e.Path, access)
}

func (e *AccessError) Unwrap() error { return ErrAccessDenied }

// Boundary holds the granted roots and answers admissibility queries.
// All methods are safe for concurrent use.
type Boundary struct {
	mu sync.RWMutex

	// processDir is the server's working directory at construction time.
	// It is always granted, read-only.
	processDir string

	// baseDir is the configured projects base directory, read-write.
	// Empty until SetProjectsBaseDir is called.
	baseDir string

	// projectRoot is the parent directory of the active project bundle,
	// read-write. Empty until SetActiveProject is called.
	projectRoot string
}

// New creates a Boundary anchored at processDir. An empty processDir uses
// the current working directory.
func New(processDir string) (*Boundary, error) {
	if processDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		processDir = wd
	}
	abs, err := filepath.Abs(processDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve process directory: %w", err)
	}
	return &Boundary{processDir: filepath.Clean(abs)}, nil
}

// ProcessDir returns the read-only process root.
func (b *Boundary) ProcessDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.processDir
}

// ProjectsBaseDir returns the configured base directory, or "" if unset.
func (b *Boundary) ProjectsBaseDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.baseDir
}

// ActiveProjectRoot returns the active project's parent directory, or ""
// if no project is set.
func (b *Boundary) ActiveProjectRoot() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.projectRoot
}

// SetProjectsBaseDir grants read-write access under dir.
func (b *Boundary) SetProjectsBaseDir(dir string) {
	norm := b.Normalize(dir)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.baseDir = norm
}

// SetActiveProject grants read-write access under the parent directory of
// the given project bundle path.
func (b *Boundary) SetActiveProject(projectPath string) {
	root := filepath.Dir(b.Normalize(projectPath))
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projectRoot = root
}

// IsPathAllowed reports whether path falls under a root granted for the
// requested access level. The process root counts only for reads, unless
// it happens to coincide with a read-write root.
func (b *Boundary) IsPathAllowed(path string, forWrite bool) bool {
	norm := b.Normalize(path)

	b.mu.RLock()
	defer b.mu.RUnlock()

	if underRoot(norm, b.projectRoot) || underRoot(norm, b.baseDir) {
		return true
	}
	if !forWrite && underRoot(norm, b.processDir) {
		return true
	}
	return false
}

// ValidateForReading normalizes path and returns it if read access is
// granted, or an AccessError otherwise.
func (b *Boundary) ValidateForReading(path string) (string, error) {
	norm := b.Normalize(path)
	if !b.IsPathAllowed(norm, false) {
		return "", &AccessError{Path: norm, Write: false}
	}
	return norm, nil
}

// ValidateForWriting normalizes path and returns it if write access is
// granted, or an AccessError otherwise.
func (b *Boundary) ValidateForWriting(path string) (string, error) {
	norm := b.Normalize(path)
	if !b.IsPathAllowed(norm, true) {
		return "", &AccessError{Path: norm, Write: true}
	}
	return norm, nil
}

// underRoot reports whether path equals root or sits below it. The trailing
// separator stops a sibling like /a/ProjX from matching root /a/Proj.
func underRoot(path, root string) bool {
	if root == "" {
		return false
	}
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
