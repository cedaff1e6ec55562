// Package project detects and owns the active project.
//
// The active project is the single container all project-relative tools
// operate on: a standalone .xcodeproj, a .xcworkspace referencing member
// projects, or a directory made a package by its Package.swift manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Container suffixes and manifest names the IDE uses on disk.
const (
	workspaceSuffix = ".xcworkspace"
	projectSuffix   = ".xcodeproj"
	packageManifest = "Package.swift"

	// innerWorkspaceData is the IDE's bookkeeping workspace nested inside
	// every project bundle. A path pointing at it denotes the enclosing
	// project, not a real workspace.
	innerWorkspaceData = "project.xcworkspace"
)

// Sentinel errors.
var (
	// ErrNoProject means no active project could be established.
	ErrNoProject = errors.New("no active project")

	// ErrNotAProject means a path is not a recognized project container.
	ErrNotAProject = errors.New("not a recognized project container")
)

// Kind classifies a project container.
type Kind string

const (
	KindStandalone Kind = "standalone"
	KindWorkspace  Kind = "workspace"
	KindPackage    Kind = "package"
)

// ActiveProject describes the currently designated project container.
// Instances are created and owned by the Resolver; other components read
// them through Resolver accessors and never mutate them.
type ActiveProject struct {
	// Path is the normalized container path.
	Path string `json:"path"`
	// Name is the container's base name without its suffix.
	Name string `json:"name"`
	// Kind says whether this is a standalone project, a workspace, or a
	// package-manifest directory.
	Kind Kind `json:"kind"`
	// AssociatedProjectPath is the first member project of a workspace,
	// when one could be parsed. Empty for other kinds.
	AssociatedProjectPath string `json:"associated_project_path,omitempty"`
	// PackageManifestPath is the Package.swift path for package kind.
	PackageManifestPath string `json:"package_manifest_path,omitempty"`
}

// StripInnerWorkspace rewrites a path denoting the bookkeeping workspace
// nested inside a project bundle to the enclosing project bundle. All other
// paths pass through unchanged. Applied once where external paths enter the
// resolver, so a standalone project detected through its inner workspace is
// not misclassified as a workspace.
func StripInnerWorkspace(path string) string {
	if filepath.Base(path) == innerWorkspaceData {
		parent := filepath.Dir(path)
		if strings.HasSuffix(parent, projectSuffix) {
			return parent
		}
	}
	return path
}

// Classify determines the Kind of a container path. Anything that is not a
// workspace bundle, a project bundle, or a directory holding a package
// manifest fails with ErrNotAProject.
func Classify(path string) (Kind, error) {
	switch {
	case strings.HasSuffix(path, workspaceSuffix):
		return KindWorkspace, nil
	case strings.HasSuffix(path, projectSuffix):
		return KindStandalone, nil
	}
	if _, err := os.Stat(filepath.Join(path, packageManifest)); err == nil {
		return KindPackage, nil
	}
	return "", fmt.Errorf("%w: %s is neither a %s, a %s, nor a directory containing %s",
		ErrNotAProject, path, workspaceSuffix, projectSuffix, packageManifest)
}

// containerName derives the display name of a container from its path.
func containerName(path string, kind Kind) string {
	base := filepath.Base(path)
	switch kind {
	case KindWorkspace:
		return strings.TrimSuffix(base, workspaceSuffix)
	case KindStandalone:
		return strings.TrimSuffix(base, projectSuffix)
	default:
		return base
	}
}

// isContainerPath reports whether path looks like a project container by
// suffix alone, without touching the filesystem.
func isContainerPath(path string) bool {
	return strings.HasSuffix(path, workspaceSuffix) || strings.HasSuffix(path, projectSuffix)
}
