// Xcodemcp is an MCP stdio server that lets an agent work on Xcode
// projects without escaping operator-defined filesystem boundaries.
//
// Usage:
//
//	# Start the server (stdio transport; stdout carries the protocol)
//	xcodemcp
//
//	# Use a specific config file
//	xcodemcp -config /path/to/config.yaml
//
// Configuration is loaded from ~/.config/xcodemcp/config.yaml with
// XCODEMCP_* environment overrides. See internal/config for details.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fjordworks/xcodemcp/internal/config"
	"github.com/fjordworks/xcodemcp/internal/dirstate"
	"github.com/fjordworks/xcodemcp/internal/fileaccess"
	"github.com/fjordworks/xcodemcp/internal/logging"
	"github.com/fjordworks/xcodemcp/internal/mcp"
	"github.com/fjordworks/xcodemcp/internal/pathbound"
	"github.com/fjordworks/xcodemcp/internal/project"
	"github.com/fjordworks/xcodemcp/internal/xcode"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/xcodemcp/config.yaml)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("xcodemcp %s (%s)\n", version, gitCommit)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// run wires the component stack and serves MCP until ctx is cancelled:
//  1. Load and validate configuration
//  2. Initialize the logger (stderr; stdout belongs to the protocol)
//  3. Build the boundary, directory state, file accessor, and resolver
//  4. Attempt initial project detection (non-fatal when nothing is found)
//  5. Serve MCP over stdio
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	boundary, err := pathbound.New("")
	if err != nil {
		return fmt.Errorf("failed to create path boundary: %w", err)
	}
	if cfg.ProjectsBaseDir != "" {
		boundary.SetProjectsBaseDir(cfg.ProjectsBaseDir)
	}

	dirs := dirstate.New(boundary)
	files := fileaccess.New(boundary, logger.Zap())

	runner := xcode.ExecRunner{}
	scripting := xcode.NewScripting(runner)
	metadata := xcode.NewMetadata(runner)

	resolver := project.NewResolver(boundary, dirs, scripting, logger.Zap())

	logger.Info(ctx, "starting xcodemcp",
		zap.String("version", version),
		zap.String("base_dir", boundary.ProjectsBaseDir()),
		zap.String("process_dir", boundary.ProcessDir()))

	// Detection failure at startup is expected when no project is around;
	// the active project stays unset until a tool call supplies one.
	if active, err := resolver.Detect(ctx); err != nil {
		logger.Info(ctx, "no active project at startup", zap.Error(err))
	} else {
		logger.Info(ctx, "active project",
			zap.String("path", active.Path), zap.String("kind", string(active.Kind)))
	}

	server, err := mcp.NewServer(&mcp.Config{
		Name:    cfg.Server.Name,
		Version: version,
		Logger:  logger,
	}, boundary, files, dirs, resolver, metadata)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info(ctx, "server shutdown complete")
	return nil
}
