// Package xcode talks to the native toolchain: AppleScript queries against
// the running IDE, the recent-documents preference store, and xcodebuild
// project metadata.
//
// All commands go through the Runner interface so the callers can be tested
// without a macOS host.
package xcode

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandError reports an external command that exited with failure. It
// carries the invoked command line and the captured diagnostic output.
type CommandError struct {
	Cmd    string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("command %q failed: %v: %s", e.Cmd, e.Err, strings.TrimSpace(e.Output))
	}
	return fmt.Sprintf("command %q failed: %v", e.Cmd, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes the command and returns combined stdout/stderr. Failures
// are wrapped in a CommandError carrying the captured output.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &CommandError{
			Cmd:    strings.Join(append([]string{name}, args...), " "),
			Output: string(out),
			Err:    err,
		}
	}
	return string(out), nil
}
