// Package main implements the xcproj CLI for inspecting project detection
// and boundary decisions without going through an MCP client.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fjordworks/xcodemcp/internal/dirstate"
	"github.com/fjordworks/xcodemcp/internal/pathbound"
	"github.com/fjordworks/xcodemcp/internal/project"
	"github.com/fjordworks/xcodemcp/internal/xcode"
)

var (
	// baseDir mirrors the server's projects_base_dir setting.
	baseDir string
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "xcproj",
	Short: "Inspect xcodemcp project detection and path boundaries",
	Long: `xcproj runs the xcodemcp detection and boundary core directly,
outside the MCP server, for debugging and scripting.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "projects base directory")
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(validateCmd)
}

// newCore builds a boundary/resolver pair the way the server does.
func newCore() (*pathbound.Boundary, *project.Resolver, error) {
	boundary, err := pathbound.New("")
	if err != nil {
		return nil, nil, err
	}
	if baseDir != "" {
		boundary.SetProjectsBaseDir(baseDir)
	}
	dirs := dirstate.New(boundary)
	scripting := xcode.NewScripting(xcode.ExecRunner{})
	return boundary, project.NewResolver(boundary, dirs, scripting, nil), nil
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the active project",
	Long: `Run the three-tier project detection: frontmost IDE document,
newest container under the base directory, then recent documents.

Examples:
  xcproj detect
  xcproj detect --base-dir ~/Projects`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, resolver, err := newCore()
		if err != nil {
			return err
		}
		active, err := resolver.Detect(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\t%s\n", active.Kind, active.Name, active.Path)
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <path>",
	Short: "Classify a path as a project container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		boundary, _, err := newCore()
		if err != nil {
			return err
		}
		path := project.StripInnerWorkspace(boundary.Normalize(args[0]))
		kind, err := project.Classify(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", kind, path)
		return nil
	},
}

var membersCmd = &cobra.Command{
	Use:   "members <workspace>",
	Short: "List the member projects of a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		boundary, _, err := newCore()
		if err != nil {
			return err
		}
		members, err := project.ParseWorkspaceDocument(boundary.Normalize(args[0]))
		if err != nil {
			return err
		}
		if len(members) > 0 {
			fmt.Println(strings.Join(members, "\n"))
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check whether a path falls inside the allowed boundaries",
	Long: `Check a path against the boundary roots. Detection runs first so
the active project root is granted, matching server behavior.

Examples:
  xcproj validate --base-dir ~/Projects ~/Projects/App/main.swift
  xcproj validate --write /tmp/out.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		boundary, resolver, err := newCore()
		if err != nil {
			return err
		}
		// Best effort: no project just means fewer granted roots.
		_, _ = resolver.Detect(cmd.Context())

		forWrite, _ := cmd.Flags().GetBool("write")
		var norm string
		if forWrite {
			norm, err = boundary.ValidateForWriting(args[0])
		} else {
			norm, err = boundary.ValidateForReading(args[0])
		}
		if err != nil {
			return err
		}
		fmt.Printf("allowed\t%s\n", norm)
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("write", false, "check write access instead of read")
}
