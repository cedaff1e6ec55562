// Package dirstate tracks the server's notion of a current directory.
//
// The current directory is deliberately decoupled from the operating
// process's own working directory: tools resolve relative paths against it,
// and push/pop operations give callers scoped directory changes without
// touching the process state.
package dirstate

import (
	"path/filepath"
	"sync"

	"github.com/fjordworks/xcodemcp/internal/pathbound"
)

// State holds the current directory and the LIFO stack of prior values.
// All methods are safe for concurrent use.
type State struct {
	mu       sync.RWMutex
	boundary *pathbound.Boundary
	current  string
	stack    []string
}

// New creates a State with no current directory set.
func New(boundary *pathbound.Boundary) *State {
	return &State{boundary: boundary}
}

// SetActiveDirectory normalizes path and makes it the current directory.
// Paths outside the granted boundaries are rejected with an AccessError.
func (s *State) SetActiveDirectory(path string) error {
	norm := s.boundary.Normalize(path)
	if !s.boundary.IsPathAllowed(norm, false) {
		return &pathbound.AccessError{Path: norm}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = norm
	return nil
}

// ActiveDirectory returns the current directory. When none has been set it
// falls back to the active project root, then to the process working
// directory. It never fails.
func (s *State) ActiveDirectory() string {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current != "" {
		return current
	}
	if root := s.boundary.ActiveProjectRoot(); root != "" {
		return root
	}
	return s.boundary.ProcessDir()
}

// PushDirectory saves the current directory on the stack and switches to
// path. The switch is boundary-validated; an unset current directory is
// simply not pushed.
func (s *State) PushDirectory(path string) error {
	norm := s.boundary.Normalize(path)
	if !s.boundary.IsPathAllowed(norm, false) {
		return &pathbound.AccessError{Path: norm}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != "" {
		s.stack = append(s.stack, s.current)
	}
	s.current = norm
	return nil
}

// PopDirectory restores the most recently pushed directory and returns it.
// The empty stack is a benign base case: ok is false and the current
// directory is left unchanged. Entries were validated at push time, so the
// restore skips re-validation; a directory removed from disk since then
// must not block returning to it.
func (s *State) PopDirectory() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.stack) == 0 {
		return "", false
	}
	last := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.current = last
	return last, true
}

// Stack returns a copy of the saved directories, oldest first.
func (s *State) Stack() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.stack))
	copy(out, s.stack)
	return out
}

// ResolvePath resolves a caller-supplied path: absolute input is just
// normalized, relative input is joined onto the current directory first.
func (s *State) ResolvePath(path string) string {
	if path == "" {
		return s.ActiveDirectory()
	}
	if filepath.IsAbs(path) || path[0] == '~' || path[0] == '$' {
		return s.boundary.Normalize(path)
	}
	return s.boundary.Normalize(filepath.Join(s.ActiveDirectory(), path))
}
