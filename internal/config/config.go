// Package config provides configuration loading for xcodemcp.
//
// Configuration is read once at startup from a YAML file, then overridden
// by XCODEMCP_* environment variables. The projects base directory is the
// one setting the boundary core consumes; it can be changed later through
// the set_projects_base_dir tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the complete xcodemcp configuration.
type Config struct {
	// ProjectsBaseDir is the directory project detection scans and under
	// which read-write access is granted. Empty disables the base-dir
	// boundary root and detection tier 2.
	ProjectsBaseDir string `koanf:"projects_base_dir"`

	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig identifies the MCP server implementation.
type ServerConfig struct {
	Name    string `koanf:"name"`
	Version string `koanf:"version"`
}

// LoggingConfig mirrors logging.Config; kept separate so this package does
// not depend on the logging package.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// NewDefaultConfig returns the hardcoded defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "xcodemcp",
			Version: "dev",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("server name cannot be empty")
	}
	if c.ProjectsBaseDir != "" && !filepath.IsAbs(c.ProjectsBaseDir) {
		// Tilde-prefixed values are expanded by the boundary at startup.
		if c.ProjectsBaseDir[0] != '~' && c.ProjectsBaseDir[0] != '$' {
			return fmt.Errorf("projects_base_dir must be absolute, got %q", c.ProjectsBaseDir)
		}
	}
	return nil
}

// DefaultConfigPath returns ~/.config/xcodemcp/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "xcodemcp", "config.yaml"), nil
}
