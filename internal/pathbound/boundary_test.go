package pathbound

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestBoundary(t *testing.T, processDir string) *Boundary {
	t.Helper()
	b, err := New(processDir)
	if err != nil {
		t.Fatalf("New(%q) error: %v", processDir, err)
	}
	return b
}

func TestExpand(t *testing.T) {
	b := newTestBoundary(t, "/work")
	t.Setenv("XCODEMCP_TEST_DIR", "/opt/projects")
	t.Setenv("XCODEMCP_TEST_EMPTY", "")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "absolute path untouched",
			in:   "/usr/local/bin",
			want: "/usr/local/bin",
		},
		{
			name: "relative path resolved against process dir",
			in:   "src/main.swift",
			want: "/work/src/main.swift",
		},
		{
			name: "tilde prefix",
			in:   "~/Projects",
			want: home + "/Projects",
		},
		{
			name: "braced variable",
			in:   "${XCODEMCP_TEST_DIR}/App",
			want: "/opt/projects/App",
		},
		{
			name: "bare variable",
			in:   "$XCODEMCP_TEST_DIR/App",
			want: "/opt/projects/App",
		},
		{
			name: "unset variable becomes empty",
			in:   "/root$XCODEMCP_TEST_UNSET/x",
			want: "/root/x",
		},
		{
			name: "set-but-empty variable",
			in:   "/root${XCODEMCP_TEST_EMPTY}/x",
			want: "/root/x",
		},
		{
			name: "malformed reference kept literal",
			in:   "/tmp/${unterminated",
			want: "/tmp/${unterminated",
		},
		{
			name: "lone dollar kept literal",
			in:   "/tmp/a$",
			want: "/tmp/a$",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Expand(tt.in); got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	b := newTestBoundary(t, "/work")

	inputs := []string{
		"",
		"/a/b/../c",
		"./relative/./path",
		"/a//b///c",
		"~/Projects/App",
		"/p/App.xcodeproj/../App/main.swift",
	}
	for _, in := range inputs {
		once := b.Normalize(in)
		if twice := b.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeEmptyString(t *testing.T) {
	b := newTestBoundary(t, "/work")
	if got := b.Normalize(""); got != "" {
		t.Errorf("Normalize(\"\") = %q, want empty", got)
	}
}

func TestIsPathAllowed(t *testing.T) {
	b := newTestBoundary(t, "/process/cwd")
	b.SetProjectsBaseDir("/projects")
	b.SetActiveProject("/p/App.xcodeproj")

	tests := []struct {
		name     string
		path     string
		forWrite bool
		want     bool
	}{
		{"project root itself readable", "/p", false, true},
		{"project root itself writable", "/p", true, true},
		{"inside project root", "/p/App/main.swift", true, true},
		{"inside base dir", "/projects/Other/file.txt", true, true},
		{"process dir read", "/process/cwd/notes.txt", false, true},
		{"process dir write denied", "/process/cwd/notes.txt", true, false},
		{"sibling sharing prefix rejected", "/projectsX/file.txt", false, false},
		{"outside everything", "/etc/passwd", false, false},
		{"traversal back inside accepted", "/p/App.xcodeproj/../App/main.swift", true, true},
		{"traversal escaping rejected", "/projects/../etc/passwd", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.IsPathAllowed(tt.path, tt.forWrite); got != tt.want {
				t.Errorf("IsPathAllowed(%q, forWrite=%v) = %v, want %v", tt.path, tt.forWrite, got, tt.want)
			}
		})
	}
}

func TestBoundaryMonotonicity(t *testing.T) {
	b := newTestBoundary(t, "/process/cwd")
	b.SetProjectsBaseDir("/a/Proj")

	suffixes := []string{"", "file.txt", "deep/nested/dir/x.swift"}
	for _, suffix := range suffixes {
		p := filepath.Join("/a/Proj", suffix)
		if !b.IsPathAllowed(p, false) {
			t.Errorf("IsPathAllowed(%q) = false, want true", p)
		}
	}

	if b.IsPathAllowed("/a/ProjX", false) {
		t.Error("sibling /a/ProjX admitted by root /a/Proj")
	}
	if b.IsPathAllowed("/a/ProjOther/file", false) {
		t.Error("sibling subtree /a/ProjOther admitted by root /a/Proj")
	}
}

func TestValidateForWriting(t *testing.T) {
	b := newTestBoundary(t, "/process/cwd")
	b.SetActiveProject("/p/App.xcodeproj")

	// Path traverses out of the bundle and back under the project root.
	got, err := b.ValidateForWriting("/p/App.xcodeproj/../App/main.swift")
	if err != nil {
		t.Fatalf("ValidateForWriting error: %v", err)
	}
	if want := "/p/App/main.swift"; got != want {
		t.Errorf("ValidateForWriting = %q, want %q", got, want)
	}
}

func TestValidateForWritingDenied(t *testing.T) {
	b := newTestBoundary(t, "/process/cwd")
	b.SetActiveProject("/p/App.xcodeproj")
	b.SetProjectsBaseDir("/projects")

	_, err := b.ValidateForWriting("/etc/passwd")
	if err == nil {
		t.Fatal("expected error for /etc/passwd")
	}
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("error not wrapping ErrAccessDenied: %v", err)
	}

	var accessErr *AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("error is not an AccessError: %v", err)
	}
	if accessErr.Path != "/etc/passwd" {
		t.Errorf("AccessError.Path = %q, want /etc/passwd", accessErr.Path)
	}
	if !accessErr.Write {
		t.Error("AccessError.Write = false, want true")
	}
}

func TestProcessRootReadOnly(t *testing.T) {
	b := newTestBoundary(t, "/process/cwd")

	if _, err := b.ValidateForReading("/process/cwd/file"); err != nil {
		t.Errorf("read under process dir rejected: %v", err)
	}
	if _, err := b.ValidateForWriting("/process/cwd/file"); err == nil {
		t.Error("write under process dir accepted, want rejection")
	}
}

func TestProcessRootCoincidingWithBaseDir(t *testing.T) {
	b := newTestBoundary(t, "/projects")
	b.SetProjectsBaseDir("/projects")

	if !b.IsPathAllowed("/projects/App/file.swift", true) {
		t.Error("write denied although process dir coincides with base dir")
	}
}
