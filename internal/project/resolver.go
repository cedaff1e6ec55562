package project

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fjordworks/xcodemcp/internal/dirstate"
	"github.com/fjordworks/xcodemcp/internal/pathbound"
)

// Querier is the foreground-IDE collaborator the resolver detects through.
type Querier interface {
	// FrontmostDocumentPath returns the IDE's frontmost workspace document
	// path, or "" when no document is open.
	FrontmostDocumentPath(ctx context.Context) (string, error)

	// RecentDocumentPaths returns project container paths from the IDE's
	// recent-documents store, most recent first.
	RecentDocumentPaths(ctx context.Context) ([]string, error)
}

// resolverState tracks how the active project was established.
type resolverState int

const (
	stateUnset resolverState = iota
	stateDetected
	stateExplicit
)

// Resolver owns the active project and keeps the path boundary and the
// directory state in sync with it.
//
// Mutating calls (Detect, SetExplicit, SetProjectsBaseDir) are serialized
// by an internal mutex, so the triad of side effects (active project,
// boundary root, current directory) is applied atomically with respect to
// other resolver calls.
type Resolver struct {
	mu       sync.RWMutex
	boundary *pathbound.Boundary
	dirs     *dirstate.State
	querier  Querier
	logger   *zap.Logger

	state  resolverState
	active *ActiveProject
}

// NewResolver creates a Resolver. querier may be nil, in which case the
// IDE-backed detection tiers are skipped. A nil logger disables logging.
func NewResolver(boundary *pathbound.Boundary, dirs *dirstate.State, querier Querier, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		boundary: boundary,
		dirs:     dirs,
		querier:  querier,
		logger:   logger,
	}
}

// Active returns the active project, running detection only when none is
// set yet. An explicitly set project always wins until process restart.
func (r *Resolver) Active(ctx context.Context) (*ActiveProject, error) {
	r.mu.RLock()
	active := r.active
	r.mu.RUnlock()

	if active != nil {
		return active, nil
	}
	return r.Detect(ctx)
}

// Current returns the active project without triggering detection, or nil.
func (r *Resolver) Current() *ActiveProject {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// SetExplicit designates path as the active project, overriding any
// detected one. The same synchronization side effects as detection apply.
func (r *Resolver) SetExplicit(ctx context.Context, path string) (*ActiveProject, error) {
	active, err := r.buildProject(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = stateExplicit
	r.apply(active)
	return active, nil
}

// detectStrategy is one fallible detection tier: it returns a candidate
// container path, or "" to skip to the next tier. Tier errors are logged
// and treated as skips, never propagated.
type detectStrategy struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// Detect attempts the detection tiers in order and applies the first
// candidate that classifies as a project container. When every tier comes
// up empty it fails with ErrNoProject and the state stays unset; callers
// treat that as "no active project", not a fatal condition. A project set
// explicitly is returned untouched.
func (r *Resolver) Detect(ctx context.Context) (*ActiveProject, error) {
	r.mu.RLock()
	if r.state == stateExplicit {
		active := r.active
		r.mu.RUnlock()
		return active, nil
	}
	r.mu.RUnlock()

	strategies := []detectStrategy{
		{name: "frontmost document", run: r.detectFrontmost},
		{name: "newest container under base dir", run: r.detectNewestContainer},
		{name: "recent documents", run: r.detectRecentDocument},
	}

	for _, strategy := range strategies {
		candidate, err := strategy.run(ctx)
		if err != nil {
			r.logger.Debug("detection tier failed",
				zap.String("tier", strategy.name), zap.Error(err))
			continue
		}
		if candidate == "" {
			continue
		}

		active, err := r.buildProject(candidate)
		if err != nil {
			r.logger.Debug("detection candidate rejected",
				zap.String("tier", strategy.name),
				zap.String("candidate", candidate), zap.Error(err))
			continue
		}

		r.mu.Lock()
		r.state = stateDetected
		r.apply(active)
		r.mu.Unlock()

		r.logger.Info("active project detected",
			zap.String("tier", strategy.name),
			zap.String("path", active.Path),
			zap.String("kind", string(active.Kind)))
		return active, nil
	}

	return nil, fmt.Errorf("%w: all detection tiers exhausted", ErrNoProject)
}

// SetProjectsBaseDir reconfigures the boundary's base directory and
// re-runs detection. A detection failure leaves any previously detected
// project in place.
func (r *Resolver) SetProjectsBaseDir(ctx context.Context, dir string) {
	r.boundary.SetProjectsBaseDir(dir)
	if _, err := r.Detect(ctx); err != nil {
		r.logger.Debug("detection after base dir change found nothing", zap.Error(err))
	}
}

// buildProject normalizes and classifies a candidate path into an
// ActiveProject. The inner-workspace rewrite happens here, the single
// point where external paths enter the resolver.
func (r *Resolver) buildProject(path string) (*ActiveProject, error) {
	norm := StripInnerWorkspace(r.boundary.Normalize(path))
	kind, err := Classify(norm)
	if err != nil {
		return nil, err
	}

	active := &ActiveProject{
		Path: norm,
		Name: containerName(norm, kind),
		Kind: kind,
	}
	switch kind {
	case KindWorkspace:
		// Best effort: an unparsable manifest is not fatal here.
		if members, err := ParseWorkspaceDocument(norm); err == nil && len(members) > 0 {
			active.AssociatedProjectPath = members[0]
		}
	case KindPackage:
		active.PackageManifestPath = filepath.Join(norm, packageManifest)
	}
	return active, nil
}

// apply performs the synchronization side effects in their fixed order:
// store the project, update the boundary root, move the current directory.
// Caller holds r.mu.
func (r *Resolver) apply(active *ActiveProject) {
	r.active = active
	r.boundary.SetActiveProject(active.Path)
	if err := r.dirs.SetActiveDirectory(filepath.Dir(active.Path)); err != nil {
		r.logger.Warn("failed to move current directory to project root",
			zap.String("path", active.Path), zap.Error(err))
	}
}

// warnIfOutsideBase logs when an IDE-reported path falls outside the
// configured base directory. The path is still accepted: the IDE is
// authoritative about what the user is working on.
func (r *Resolver) warnIfOutsideBase(path string) {
	base := r.boundary.ProjectsBaseDir()
	if base == "" {
		return
	}
	if !r.boundary.IsPathAllowed(path, false) {
		r.logger.Warn("detected project is outside the configured base directory",
			zap.String("path", path), zap.String("base_dir", base))
	}
}

// detectFrontmost is tier 1: the IDE's frontmost workspace document.
func (r *Resolver) detectFrontmost(ctx context.Context) (string, error) {
	if r.querier == nil {
		return "", nil
	}
	path, err := r.querier.FrontmostDocumentPath(ctx)
	if err != nil {
		return "", err
	}
	if path != "" {
		r.warnIfOutsideBase(path)
	}
	return path, nil
}

// detectNewestContainer is tier 2: the most recently modified project
// container under the configured base directory. Ties keep the first
// container encountered in walk order.
func (r *Resolver) detectNewestContainer(ctx context.Context) (string, error) {
	base := r.boundary.ProjectsBaseDir()
	if base == "" {
		return "", nil
	}

	var best string
	var bestTime time.Time
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		if d.IsDir() && isContainerPath(p) {
			if info, ierr := d.Info(); ierr == nil && info.ModTime().After(bestTime) {
				best = p
				bestTime = info.ModTime()
			}
			// Container bundles are leaves for this walk.
			return fs.SkipDir
		}
		if !d.IsDir() && d.Name() == packageManifest {
			if info, ierr := d.Info(); ierr == nil && info.ModTime().After(bestTime) {
				best = filepath.Dir(p)
				bestTime = info.ModTime()
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to enumerate %s: %w", base, err)
	}
	return best, nil
}

// detectRecentDocument is tier 3: the first path in the IDE's
// recent-documents store.
func (r *Resolver) detectRecentDocument(ctx context.Context) (string, error) {
	if r.querier == nil {
		return "", nil
	}
	paths, err := r.querier.RecentDocumentPaths(ctx)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", nil
	}
	r.warnIfOutsideBase(paths[0])
	return paths[0], nil
}
