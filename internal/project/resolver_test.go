package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fjordworks/xcodemcp/internal/dirstate"
	"github.com/fjordworks/xcodemcp/internal/pathbound"
)

// fakeQuerier is a canned IDE collaborator.
type fakeQuerier struct {
	frontmost    string
	frontmostErr error
	recents      []string
	recentsErr   error
}

func (f *fakeQuerier) FrontmostDocumentPath(ctx context.Context) (string, error) {
	return f.frontmost, f.frontmostErr
}

func (f *fakeQuerier) RecentDocumentPaths(ctx context.Context) ([]string, error) {
	return f.recents, f.recentsErr
}

func newTestResolver(t *testing.T, processDir string, q Querier) (*Resolver, *pathbound.Boundary, *dirstate.State, *observer.ObservedLogs) {
	t.Helper()
	b, err := pathbound.New(processDir)
	if err != nil {
		t.Fatal(err)
	}
	dirs := dirstate.New(b)
	core, logs := observer.New(zap.DebugLevel)
	return NewResolver(b, dirs, q, zap.New(core)), b, dirs, logs
}

func TestDetectTierFrontmost(t *testing.T) {
	q := &fakeQuerier{frontmost: "/p/App.xcworkspace"}
	r, b, dirs, _ := newTestResolver(t, "/work", q)

	active, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if active.Path != "/p/App.xcworkspace" {
		t.Errorf("Path = %q", active.Path)
	}
	if active.Kind != KindWorkspace {
		t.Errorf("Kind = %v, want workspace", active.Kind)
	}
	if active.Name != "App" {
		t.Errorf("Name = %q, want App", active.Name)
	}

	// Side effects: boundary root and current directory follow the project.
	if got := b.ActiveProjectRoot(); got != "/p" {
		t.Errorf("ActiveProjectRoot = %q, want /p", got)
	}
	if got := dirs.ActiveDirectory(); got != "/p" {
		t.Errorf("ActiveDirectory = %q, want /p", got)
	}
}

func TestDetectInnerWorkspaceRewrite(t *testing.T) {
	q := &fakeQuerier{frontmost: "/p/App.xcodeproj/project.xcworkspace"}
	r, _, _, _ := newTestResolver(t, "/work", q)

	active, err := r.Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if active.Path != "/p/App.xcodeproj" {
		t.Errorf("Path = %q, want rewritten /p/App.xcodeproj", active.Path)
	}
	if active.Kind != KindStandalone {
		t.Errorf("Kind = %v, want standalone: inner workspace must not classify as workspace", active.Kind)
	}
}

func TestDetectTierNewestContainer(t *testing.T) {
	base := t.TempDir()
	older := filepath.Join(base, "Old", "Old.xcodeproj")
	newer := filepath.Join(base, "New", "New.xcodeproj")
	for _, d := range []string{older, newer} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t1 := time.Now().Add(-2 * time.Hour)
	t2 := time.Now().Add(-1 * time.Hour)
	if err := os.Chtimes(older, t1, t1); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, t2, t2); err != nil {
		t.Fatal(err)
	}

	// No IDE collaborator: tier 1 and 3 are skipped.
	r, b, _, _ := newTestResolver(t, base, nil)
	b.SetProjectsBaseDir(base)

	active, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if active.Path != newer {
		t.Errorf("Path = %q, want most recently modified %q", active.Path, newer)
	}
}

func TestDetectTierNewestContainerFindsPackage(t *testing.T) {
	base := t.TempDir()
	pkg := filepath.Join(base, "mytool")
	if err := os.MkdirAll(pkg, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pkg, "Package.swift"), []byte("// swift-tools-version:5.9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, b, _, _ := newTestResolver(t, base, nil)
	b.SetProjectsBaseDir(base)

	active, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if active.Kind != KindPackage {
		t.Errorf("Kind = %v, want package", active.Kind)
	}
	if want := filepath.Join(pkg, "Package.swift"); active.PackageManifestPath != want {
		t.Errorf("PackageManifestPath = %q, want %q", active.PackageManifestPath, want)
	}
}

func TestDetectTierRecents(t *testing.T) {
	q := &fakeQuerier{
		frontmostErr: errors.New("osascript: Xcode is not running"),
		recents:      []string{"/p/Recent.xcodeproj", "/p/Older.xcodeproj"},
	}
	r, _, _, logs := newTestResolver(t, "/work", q)

	active, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if active.Path != "/p/Recent.xcodeproj" {
		t.Errorf("Path = %q, want first recent entry", active.Path)
	}

	// The tier 1 failure must have been logged, not propagated.
	if logs.FilterMessage("detection tier failed").Len() == 0 {
		t.Error("expected a log entry for the failed tier")
	}
}

func TestDetectExhaustion(t *testing.T) {
	r, _, _, _ := newTestResolver(t, "/work", nil)

	_, err := r.Detect(context.Background())
	if !errors.Is(err, ErrNoProject) {
		t.Errorf("Detect error = %v, want ErrNoProject", err)
	}
	if r.Current() != nil {
		t.Error("failed detection must leave the active project unset")
	}
}

func TestDetectOutsideBaseDirWarns(t *testing.T) {
	q := &fakeQuerier{frontmost: "/elsewhere/App.xcodeproj"}
	r, b, _, logs := newTestResolver(t, "/work", q)
	b.SetProjectsBaseDir("/projects")

	active, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	// Accepted despite being outside the base directory.
	if active.Path != "/elsewhere/App.xcodeproj" {
		t.Errorf("Path = %q", active.Path)
	}
	if logs.FilterMessage("detected project is outside the configured base directory").Len() == 0 {
		t.Error("expected out-of-boundary warning")
	}
}

func TestSetExplicit(t *testing.T) {
	r, b, dirs, _ := newTestResolver(t, "/work", &fakeQuerier{frontmost: "/p/Detected.xcodeproj"})

	active, err := r.SetExplicit(context.Background(), "/q/Chosen.xcodeproj")
	if err != nil {
		t.Fatalf("SetExplicit: %v", err)
	}
	if active.Path != "/q/Chosen.xcodeproj" {
		t.Errorf("Path = %q", active.Path)
	}
	if got := b.ActiveProjectRoot(); got != "/q" {
		t.Errorf("ActiveProjectRoot = %q, want /q", got)
	}
	if got := dirs.ActiveDirectory(); got != "/q" {
		t.Errorf("ActiveDirectory = %q, want /q", got)
	}

	// Explicit assignment wins over detection until restart.
	again, err := r.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect after SetExplicit: %v", err)
	}
	if again.Path != "/q/Chosen.xcodeproj" {
		t.Errorf("Detect returned %q, want the explicit project", again.Path)
	}
}

func TestSetExplicitRejectsUnrecognized(t *testing.T) {
	r, _, _, _ := newTestResolver(t, "/work", nil)

	_, err := r.SetExplicit(context.Background(), "/p/notes.txt")
	if !errors.Is(err, ErrNotAProject) {
		t.Errorf("SetExplicit error = %v, want ErrNotAProject", err)
	}
}

func TestActiveTriggersDetectOnlyWhenUnset(t *testing.T) {
	q := &fakeQuerier{frontmost: "/p/App.xcodeproj"}
	r, _, _, _ := newTestResolver(t, "/work", q)

	first, err := r.Active(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// A changed frontmost document must not displace the existing project.
	q.frontmost = "/p/Other.xcodeproj"
	second, err := r.Active(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second.Path != first.Path {
		t.Errorf("Active re-detected: %q then %q", first.Path, second.Path)
	}
}

func TestSetProjectsBaseDirRedetects(t *testing.T) {
	base := t.TempDir()
	proj := filepath.Join(base, "App.xcodeproj")
	if err := os.Mkdir(proj, 0o755); err != nil {
		t.Fatal(err)
	}

	r, _, _, _ := newTestResolver(t, base, nil)
	r.SetProjectsBaseDir(context.Background(), base)

	active := r.Current()
	if active == nil {
		t.Fatal("expected detection after base dir change")
	}
	if active.Path != proj {
		t.Errorf("Path = %q, want %q", active.Path, proj)
	}
}

func TestDetectWorkspaceAssociatedProject(t *testing.T) {
	dir := t.TempDir()
	ws := writeWorkspace(t, dir, `<Workspace version = "1.0">
   <FileRef location = "group:Lib/Lib.xcodeproj"/>
</Workspace>
`)

	q := &fakeQuerier{frontmost: ws}
	r, _, _, _ := newTestResolver(t, dir, q)

	active, err := r.Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "Lib/Lib.xcodeproj"); active.AssociatedProjectPath != want {
		t.Errorf("AssociatedProjectPath = %q, want %q", active.AssociatedProjectPath, want)
	}
}
