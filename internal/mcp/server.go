// Package mcp exposes the boundary-checked filesystem and project tools
// over the Model Context Protocol.
//
// Every tool routes its path arguments through the pathbound validation
// layer before the filesystem is touched; project-relative tools read the
// active project through the resolver. The server speaks the stdio
// transport, so stdout belongs to the protocol and all logs go to stderr.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fjordworks/xcodemcp/internal/dirstate"
	"github.com/fjordworks/xcodemcp/internal/fileaccess"
	"github.com/fjordworks/xcodemcp/internal/logging"
	"github.com/fjordworks/xcodemcp/internal/pathbound"
	"github.com/fjordworks/xcodemcp/internal/project"
	"github.com/fjordworks/xcodemcp/internal/xcode"
)

// MetadataProvider reports project structure for a container path.
// *xcode.Metadata is the production implementation.
type MetadataProvider interface {
	ProjectInfo(ctx context.Context, containerPath string, isWorkspace bool) (*xcode.ProjectInfo, error)
}

// Server wires the core components into MCP tools.
type Server struct {
	mcp      *mcp.Server
	boundary *pathbound.Boundary
	files    *fileaccess.Accessor
	dirs     *dirstate.State
	resolver *project.Resolver
	metadata MetadataProvider
	metrics  *Metrics
	logger   *logging.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "xcodemcp").
	Name string

	// Version is the server version (default: "dev").
	Version string

	// Logger for structured logging.
	Logger *logging.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "xcodemcp",
		Version: "dev",
		Logger:  logging.NewNop(),
	}
}

// NewServer creates the MCP server and registers every tool.
func NewServer(
	cfg *Config,
	boundary *pathbound.Boundary,
	files *fileaccess.Accessor,
	dirs *dirstate.State,
	resolver *project.Resolver,
	metadata MetadataProvider,
) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if boundary == nil {
		return nil, fmt.Errorf("path boundary is required")
	}
	if files == nil {
		return nil, fmt.Errorf("file accessor is required")
	}
	if dirs == nil {
		return nil, fmt.Errorf("directory state is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("project resolver is required")
	}
	// metadata is optional: without it the project_info tool reports an
	// unavailable collaborator instead of project structure.

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		boundary: boundary,
		files:    files,
		dirs:     dirs,
		resolver: resolver,
		metadata: metadata,
		metrics:  NewMetrics(cfg.Logger.Zap()),
		logger:   cfg.Logger,
	}

	s.registerFileTools()
	s.registerDirectoryTools()
	s.registerProjectTools()

	return s, nil
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
