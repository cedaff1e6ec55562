package xcode

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// frontmostDocumentScript asks the running IDE for the path of the
// workspace document in its frontmost window.
const frontmostDocumentScript = `tell application "Xcode" to get path of active workspace document`

// recentsDomain is the preference domain holding the IDE's recent
// workspace documents.
const recentsDomain = "com.apple.dt.Xcode"

// recentDocPattern pulls project container paths out of the raw defaults
// dump. The store is an NSArray plist rendering, so paths show up as
// quoted or bare absolute strings ending in a container suffix.
var recentDocPattern = regexp.MustCompile(`(/[^"\n]+?\.(?:xcworkspace|xcodeproj))`)

// Scripting queries the running IDE via AppleScript and the defaults
// preference store.
type Scripting struct {
	runner Runner
}

// NewScripting creates a Scripting client backed by runner.
func NewScripting(runner Runner) *Scripting {
	return &Scripting{runner: runner}
}

// FrontmostDocumentPath returns the on-disk path of the IDE's frontmost
// workspace document, or "" when the IDE has no document open.
func (s *Scripting) FrontmostDocumentPath(ctx context.Context) (string, error) {
	out, err := s.runner.Run(ctx, "osascript", "-e", frontmostDocumentScript)
	if err != nil {
		return "", fmt.Errorf("frontmost document query failed: %w", err)
	}

	path := strings.TrimSpace(out)
	if path == "" || path == "missing value" {
		return "", nil
	}
	return path, nil
}

// RecentDocumentPaths reads the IDE's recent-documents preference store and
// returns every project container path found in it, most recent first.
func (s *Scripting) RecentDocumentPaths(ctx context.Context) ([]string, error) {
	out, err := s.runner.Run(ctx, "defaults", "read", recentsDomain, "IDERecentWorkspaceDocuments")
	if err != nil {
		return nil, fmt.Errorf("recent documents query failed: %w", err)
	}

	matches := recentDocPattern.FindAllString(out, -1)
	seen := make(map[string]struct{}, len(matches))
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		paths = append(paths, m)
	}
	return paths, nil
}
