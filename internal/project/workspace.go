package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// workspaceDataFile is the XML manifest inside a workspace bundle that
// lists member projects.
const workspaceDataFile = "contents.xcworkspacedata"

// memberExtractors are the textual shapes the IDE has emitted over the
// years for the same semantic member reference. The manifest format has
// several historically-accreted serializations, so a single pattern is not
// enough; each extractor is independent and their results are unioned.
var memberExtractors = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{
		name:    "location attribute with equals",
		pattern: regexp.MustCompile(`location\s*=\s*"group:([^"]+)"`),
	},
	{
		name:    "location attribute without equals",
		pattern: regexp.MustCompile(`location\s+"group:([^"]+)"`),
	},
	{
		name:    "self-closing FileRef element",
		pattern: regexp.MustCompile(`<FileRef[^>]*location\s*=\s*"group:([^"]+)"[^>]*/>`),
	},
	{
		name:    "open-close FileRef element",
		pattern: regexp.MustCompile(`<FileRef[^>]*location\s*=\s*"group:([^"]+)"[^>]*>\s*</FileRef>`),
	},
}

// ParseWorkspaceDocument reads a workspace bundle's manifest and returns
// the member project paths it references, resolved against the workspace's
// own directory, deduplicated, in first-seen order. References in shapes
// none of the extractors recognize are silently ignored.
func ParseWorkspaceDocument(workspacePath string) ([]string, error) {
	dataPath := filepath.Join(workspacePath, workspaceDataFile)
	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace manifest %s: %w", dataPath, err)
	}

	workspaceDir := filepath.Dir(workspacePath)
	doc := string(raw)

	seen := make(map[string]struct{})
	var members []string
	for _, extractor := range memberExtractors {
		for _, match := range extractor.pattern.FindAllStringSubmatch(doc, -1) {
			ref := match[1]
			abs := ref
			if !filepath.IsAbs(ref) {
				abs = filepath.Join(workspaceDir, ref)
			}
			abs = filepath.Clean(abs)
			if _, ok := seen[abs]; ok {
				continue
			}
			seen[abs] = struct{}{}
			members = append(members, abs)
		}
	}
	return members, nil
}
