package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fjordworks/xcodemcp/internal/project"
)

// ===== PROJECT TOOLS =====

type projectOutput struct {
	Path                  string `json:"path" jsonschema:"Container path"`
	Name                  string `json:"name" jsonschema:"Project name"`
	Kind                  string `json:"kind" jsonschema:"Container kind: standalone, workspace, or package"`
	AssociatedProjectPath string `json:"associated_project_path,omitempty" jsonschema:"First member project of a workspace"`
	PackageManifestPath   string `json:"package_manifest_path,omitempty" jsonschema:"Package.swift path for package kind"`
}

func toProjectOutput(p *project.ActiveProject) projectOutput {
	return projectOutput{
		Path:                  p.Path,
		Name:                  p.Name,
		Kind:                  string(p.Kind),
		AssociatedProjectPath: p.AssociatedProjectPath,
		PackageManifestPath:   p.PackageManifestPath,
	}
}

func projectResult(p *project.ActiveProject) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Active project: %s (%s) at %s", p.Name, p.Kind, p.Path)},
		},
	}
}

type setActiveProjectInput struct {
	Path string `json:"path" jsonschema:"required,Project container path: .xcodeproj, .xcworkspace, or a directory containing Package.swift"`
}

type listWorkspaceProjectsInput struct {
	WorkspacePath string `json:"workspace_path,omitempty" jsonschema:"Workspace bundle to parse; defaults to the active project when it is a workspace"`
}

type listWorkspaceProjectsOutput struct {
	WorkspacePath string   `json:"workspace_path" jsonschema:"The workspace that was parsed"`
	Projects      []string `json:"projects" jsonschema:"Member project paths, first-seen order"`
}

type projectInfoInput struct {
	Path string `json:"path,omitempty" jsonschema:"Container to inspect; defaults to the active project"`
}

type projectInfoOutput struct {
	Targets        []string `json:"targets" jsonschema:"Build targets"`
	Configurations []string `json:"configurations" jsonschema:"Build configurations"`
	Schemes        []string `json:"schemes" jsonschema:"Shared schemes"`
}

type setProjectsBaseDirInput struct {
	Path string `json:"path" jsonschema:"required,Directory under which projects live; grants read-write access and re-triggers detection"`
}

type setProjectsBaseDirOutput struct {
	Path          string `json:"path" jsonschema:"Normalized base directory"`
	ActiveProject string `json:"active_project,omitempty" jsonschema:"Project detected under the new base directory, if any"`
}

func (s *Server) registerProjectTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "detect_project",
		Description: "Detect the active project from the IDE and the projects base directory",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, projectOutput, error) {
		ctx, done := s.instrument(ctx, "detect_project")
		var toolErr error
		defer func() { done(toolErr) }()

		active, err := s.resolver.Detect(ctx)
		if err != nil {
			toolErr = err
			return nil, projectOutput{}, err
		}
		return projectResult(active), toProjectOutput(active), nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "active_project",
		Description: "Get the active project, detecting one if none is set",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, projectOutput, error) {
		ctx, done := s.instrument(ctx, "active_project")
		var toolErr error
		defer func() { done(toolErr) }()

		active, err := s.resolver.Active(ctx)
		if err != nil {
			if errors.Is(err, project.ErrNoProject) {
				return &mcp.CallToolResult{
					Content: []mcp.Content{
						&mcp.TextContent{Text: "No active project. Set one with set_active_project."},
					},
				}, projectOutput{}, nil
			}
			toolErr = err
			return nil, projectOutput{}, err
		}
		return projectResult(active), toProjectOutput(active), nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_active_project",
		Description: "Explicitly set the active project, overriding detection",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setActiveProjectInput) (*mcp.CallToolResult, projectOutput, error) {
		ctx, done := s.instrument(ctx, "set_active_project")
		var toolErr error
		defer func() { done(toolErr) }()

		active, err := s.resolver.SetExplicit(ctx, args.Path)
		if err != nil {
			toolErr = err
			return nil, projectOutput{}, err
		}

		s.logger.Info(ctx, "active project set explicitly",
			zap.String("path", active.Path), zap.String("kind", string(active.Kind)))
		return projectResult(active), toProjectOutput(active), nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_workspace_projects",
		Description: "List the member projects referenced by a workspace",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listWorkspaceProjectsInput) (*mcp.CallToolResult, listWorkspaceProjectsOutput, error) {
		ctx, done := s.instrument(ctx, "list_workspace_projects")
		var toolErr error
		defer func() { done(toolErr) }()

		wsPath := args.WorkspacePath
		if wsPath == "" {
			active, err := s.resolver.Active(ctx)
			if err != nil {
				toolErr = err
				return nil, listWorkspaceProjectsOutput{}, err
			}
			if active.Kind != project.KindWorkspace {
				toolErr = fmt.Errorf("active project %s is not a workspace", active.Path)
				return nil, listWorkspaceProjectsOutput{}, toolErr
			}
			wsPath = active.Path
		} else {
			var err error
			wsPath, err = s.boundary.ValidateForReading(s.dirs.ResolvePath(wsPath))
			if err != nil {
				toolErr = err
				return nil, listWorkspaceProjectsOutput{}, err
			}
		}

		members, err := project.ParseWorkspaceDocument(wsPath)
		if err != nil {
			toolErr = err
			return nil, listWorkspaceProjectsOutput{}, err
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: strings.Join(members, "\n")},
			},
		}, listWorkspaceProjectsOutput{WorkspacePath: wsPath, Projects: members}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "project_info",
		Description: "Report targets, configurations, and schemes for a project container",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args projectInfoInput) (*mcp.CallToolResult, projectInfoOutput, error) {
		ctx, done := s.instrument(ctx, "project_info")
		var toolErr error
		defer func() { done(toolErr) }()

		if s.metadata == nil {
			toolErr = fmt.Errorf("project metadata collaborator is not available")
			return nil, projectInfoOutput{}, toolErr
		}

		path := args.Path
		kind := project.Kind("")
		if path == "" {
			active, err := s.resolver.Active(ctx)
			if err != nil {
				toolErr = err
				return nil, projectInfoOutput{}, err
			}
			path = active.Path
			kind = active.Kind
		} else {
			var err error
			path, err = s.boundary.ValidateForReading(s.dirs.ResolvePath(path))
			if err != nil {
				toolErr = err
				return nil, projectInfoOutput{}, err
			}
			if kind, err = project.Classify(path); err != nil {
				toolErr = err
				return nil, projectInfoOutput{}, err
			}
		}

		info, err := s.metadata.ProjectInfo(ctx, path, kind == project.KindWorkspace)
		if err != nil {
			toolErr = err
			return nil, projectInfoOutput{}, err
		}

		out := projectInfoOutput{
			Targets:        info.Targets,
			Configurations: info.Configurations,
			Schemes:        info.Schemes,
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf(
					"Targets: %s\nConfigurations: %s\nSchemes: %s",
					strings.Join(out.Targets, ", "),
					strings.Join(out.Configurations, ", "),
					strings.Join(out.Schemes, ", "))},
			},
		}, out, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_projects_base_dir",
		Description: "Change the projects base directory and re-run project detection",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setProjectsBaseDirInput) (*mcp.CallToolResult, setProjectsBaseDirOutput, error) {
		ctx, done := s.instrument(ctx, "set_projects_base_dir")
		defer func() { done(nil) }()

		s.resolver.SetProjectsBaseDir(ctx, args.Path)

		out := setProjectsBaseDirOutput{Path: s.boundary.ProjectsBaseDir()}
		text := "Projects base directory: " + out.Path
		if active := s.resolver.Current(); active != nil {
			out.ActiveProject = active.Path
			text += "\nActive project: " + active.Path
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: text},
			},
		}, out, nil
	})
}
