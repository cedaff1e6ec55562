package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// ===== DIRECTORY TOOLS =====

type setActiveDirectoryInput struct {
	Path string `json:"path" jsonschema:"required,Directory to make current; relative paths resolve against the current active directory"`
}

type activeDirectoryOutput struct {
	Path string `json:"path" jsonschema:"The active directory"`
}

type pushDirectoryInput struct {
	Path string `json:"path" jsonschema:"required,Directory to switch to; the previous active directory is saved on the stack"`
}

type popDirectoryOutput struct {
	Path  string `json:"path,omitempty" jsonschema:"The directory restored from the stack"`
	Empty bool   `json:"empty" jsonschema:"True when the stack was empty and nothing changed"`
}

type directoryStackOutput struct {
	Current string   `json:"current" jsonschema:"The active directory"`
	Stack   []string `json:"stack" jsonschema:"Saved directories, oldest first"`
}

type resolvePathInput struct {
	Path string `json:"path" jsonschema:"required,Path to resolve against the active directory"`
}

type resolvePathOutput struct {
	Path string `json:"path" jsonschema:"Normalized absolute path"`
}

func (s *Server) registerDirectoryTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_active_directory",
		Description: "Set the active directory relative paths resolve against",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setActiveDirectoryInput) (*mcp.CallToolResult, activeDirectoryOutput, error) {
		ctx, done := s.instrument(ctx, "set_active_directory")
		var toolErr error
		defer func() { done(toolErr) }()

		path := s.dirs.ResolvePath(args.Path)
		if err := s.dirs.SetActiveDirectory(path); err != nil {
			toolErr = err
			return nil, activeDirectoryOutput{}, err
		}

		s.logger.Info(ctx, "active directory changed", zap.String("path", path))
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Active directory: " + path},
			},
		}, activeDirectoryOutput{Path: path}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "active_directory",
		Description: "Get the active directory",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, activeDirectoryOutput, error) {
		_, done := s.instrument(ctx, "active_directory")
		defer func() { done(nil) }()

		path := s.dirs.ActiveDirectory()
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: path},
			},
		}, activeDirectoryOutput{Path: path}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "push_directory",
		Description: "Switch directory, saving the previous one on a stack",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args pushDirectoryInput) (*mcp.CallToolResult, activeDirectoryOutput, error) {
		ctx, done := s.instrument(ctx, "push_directory")
		var toolErr error
		defer func() { done(toolErr) }()

		path := s.dirs.ResolvePath(args.Path)
		if err := s.dirs.PushDirectory(path); err != nil {
			toolErr = err
			return nil, activeDirectoryOutput{}, err
		}

		s.logger.Info(ctx, "directory pushed", zap.String("path", path))
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Active directory: " + path},
			},
		}, activeDirectoryOutput{Path: path}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "pop_directory",
		Description: "Return to the most recently pushed directory",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, popDirectoryOutput, error) {
		ctx, done := s.instrument(ctx, "pop_directory")
		defer func() { done(nil) }()

		path, ok := s.dirs.PopDirectory()
		if !ok {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{Text: "Directory stack is empty"},
				},
			}, popDirectoryOutput{Empty: true}, nil
		}

		s.logger.Info(ctx, "directory popped", zap.String("path", path))
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Active directory: " + path},
			},
		}, popDirectoryOutput{Path: path}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "directory_stack",
		Description: "Show the active directory and the saved directory stack",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, directoryStackOutput, error) {
		_, done := s.instrument(ctx, "directory_stack")
		defer func() { done(nil) }()

		out := directoryStackOutput{
			Current: s.dirs.ActiveDirectory(),
			Stack:   s.dirs.Stack(),
		}
		text := fmt.Sprintf("Current: %s", out.Current)
		if len(out.Stack) > 0 {
			text += "\nStack:\n  " + strings.Join(out.Stack, "\n  ")
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: text},
			},
		}, out, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "resolve_path",
		Description: "Resolve a path against the active directory without touching it",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args resolvePathInput) (*mcp.CallToolResult, resolvePathOutput, error) {
		_, done := s.instrument(ctx, "resolve_path")
		defer func() { done(nil) }()

		path := s.dirs.ResolvePath(args.Path)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: path},
			},
		}, resolvePathOutput{Path: path}, nil
	})
}
