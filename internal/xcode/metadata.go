package xcode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ProjectInfo is the metadata xcodebuild reports for a project container.
type ProjectInfo struct {
	Targets        []string `json:"targets"`
	Configurations []string `json:"configurations"`
	Schemes        []string `json:"schemes"`
}

// Metadata queries xcodebuild for project structure.
type Metadata struct {
	runner Runner
}

// NewMetadata creates a Metadata client backed by runner.
func NewMetadata(runner Runner) *Metadata {
	return &Metadata{runner: runner}
}

// listOutput mirrors the JSON shape of `xcodebuild -list -json`. Workspaces
// report only a scheme list; projects additionally report targets and
// configurations.
type listOutput struct {
	Project *struct {
		Targets        []string `json:"targets"`
		Configurations []string `json:"configurations"`
		Schemes        []string `json:"schemes"`
	} `json:"project"`
	Workspace *struct {
		Schemes []string `json:"schemes"`
	} `json:"workspace"`
}

// ProjectInfo runs `xcodebuild -list -json` against the given container
// path and parses the result. isWorkspace selects the -workspace flag over
// -project.
func (m *Metadata) ProjectInfo(ctx context.Context, containerPath string, isWorkspace bool) (*ProjectInfo, error) {
	flag := "-project"
	if isWorkspace {
		flag = "-workspace"
	}

	out, err := m.runner.Run(ctx, "xcodebuild", "-list", "-json", flag, containerPath)
	if err != nil {
		return nil, fmt.Errorf("xcodebuild -list failed for %s: %w", containerPath, err)
	}

	// xcodebuild occasionally prefixes the JSON with warnings.
	start := strings.Index(out, "{")
	if start < 0 {
		return nil, fmt.Errorf("xcodebuild -list produced no JSON for %s", containerPath)
	}

	var parsed listOutput
	if err := json.Unmarshal([]byte(out[start:]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse xcodebuild -list output for %s: %w", containerPath, err)
	}

	info := &ProjectInfo{}
	switch {
	case parsed.Project != nil:
		info.Targets = parsed.Project.Targets
		info.Configurations = parsed.Project.Configurations
		info.Schemes = parsed.Project.Schemes
	case parsed.Workspace != nil:
		info.Schemes = parsed.Workspace.Schemes
	default:
		return nil, fmt.Errorf("xcodebuild -list reported neither project nor workspace for %s", containerPath)
	}
	return info, nil
}
