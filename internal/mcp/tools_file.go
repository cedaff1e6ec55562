package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fjordworks/xcodemcp/internal/logging"
)

// instrument sets up per-call correlation and metrics. The returned done
// func records the invocation outcome.
func (s *Server) instrument(ctx context.Context, tool string) (context.Context, func(error)) {
	ctx = logging.WithRequestID(ctx, uuid.New().String())
	ctx = logging.WithTool(ctx, tool)

	start := time.Now()
	s.metrics.IncrementActive(ctx, tool)

	return ctx, func(err error) {
		s.metrics.DecrementActive(ctx, tool)
		s.metrics.RecordInvocation(ctx, tool, time.Since(start), err)
		if err != nil {
			s.logger.Debug(ctx, "tool call failed", zap.Error(err))
		}
	}
}

// ===== FILE TOOLS =====

type readFileInput struct {
	Path string `json:"path" jsonschema:"required,Path to read; relative paths resolve against the active directory"`
}

type readFileOutput struct {
	Path     string `json:"path" jsonschema:"Normalized absolute path"`
	Content  string `json:"content" jsonschema:"File content"`
	MimeType string `json:"mime_type" jsonschema:"MIME type derived from the file extension"`
}

type writeFileInput struct {
	Path            string `json:"path" jsonschema:"required,Path to write; relative paths resolve against the active directory"`
	Content         string `json:"content" jsonschema:"required,Full new file content (whole-file overwrite)"`
	CreateIfMissing bool   `json:"create_if_missing,omitempty" jsonschema:"Create the file and missing parent directories when the target does not exist"`
}

type writeFileOutput struct {
	Path  string `json:"path" jsonschema:"Normalized absolute path written"`
	Bytes int    `json:"bytes" jsonschema:"Number of bytes written"`
}

type listDirectoryInput struct {
	Path string `json:"path,omitempty" jsonschema:"Directory to list; defaults to the active directory"`
}

type listDirectoryOutput struct {
	Path    string   `json:"path" jsonschema:"Normalized absolute path listed"`
	Entries []string `json:"entries" jsonschema:"One entry per child: 'd <path>' for directories and 'f <path>' for files"`
	Count   int      `json:"count" jsonschema:"Number of entries"`
}

func (s *Server) registerFileTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "read_file",
		Description: "Read a file inside the allowed boundaries",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args readFileInput) (*mcp.CallToolResult, readFileOutput, error) {
		ctx, done := s.instrument(ctx, "read_file")
		var toolErr error
		defer func() { done(toolErr) }()

		path := s.dirs.ResolvePath(args.Path)
		fc, err := s.files.ReadFile(path)
		if err != nil {
			toolErr = err
			return nil, readFileOutput{}, err
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fc.Content},
			},
		}, readFileOutput{Path: path, Content: fc.Content, MimeType: fc.MimeType}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "write_file",
		Description: "Write a file inside the allowed boundaries (whole-file overwrite)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args writeFileInput) (*mcp.CallToolResult, writeFileOutput, error) {
		ctx, done := s.instrument(ctx, "write_file")
		var toolErr error
		defer func() { done(toolErr) }()

		path := s.dirs.ResolvePath(args.Path)
		if err := s.files.WriteFile(path, args.Content, args.CreateIfMissing); err != nil {
			toolErr = err
			return nil, writeFileOutput{}, err
		}

		s.logger.Info(ctx, "file written", zap.String("path", path), zap.Int("bytes", len(args.Content)))
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Wrote %d bytes to %s", len(args.Content), path)},
			},
		}, writeFileOutput{Path: path, Bytes: len(args.Content)}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_directory",
		Description: "List a directory inside the allowed boundaries",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listDirectoryInput) (*mcp.CallToolResult, listDirectoryOutput, error) {
		ctx, done := s.instrument(ctx, "list_directory")
		var toolErr error
		defer func() { done(toolErr) }()

		path := s.dirs.ResolvePath(args.Path)
		entries, err := s.files.ListDirectory(path)
		if err != nil {
			toolErr = err
			return nil, listDirectoryOutput{}, err
		}

		text := ""
		for _, e := range entries {
			text += e + "\n"
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: text},
			},
		}, listDirectoryOutput{Path: path, Entries: entries, Count: len(entries)}, nil
	})
}
