// Package gitcli executes git commands through the system CLI with bounded
// runtimes and structured results.
package gitcli

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/devvault/cockpit/internal/shared/logger"
)

// Exit codes used for failures that never reached the command itself.
const (
	// ExitTimeout marks a command that was forcibly terminated.
	ExitTimeout = -1
	// ExitLaunchError marks a command that failed to launch or whose
	// output could not be captured.
	ExitLaunchError = -2
)

// GitResult is the structured outcome of one command invocation. Failures
// are encoded here; the runner never returns an error value.
type GitResult struct {
	ExitCode int    `json:"exitCode"`
	Output   string `json:"output"`
	Error    string `json:"error"`
}

// Success reports whether the command exited cleanly.
func (r *GitResult) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner runs an external command with a working directory and timeout.
type CommandRunner interface {
	// Run executes cmd in dir ("" = inherit the current directory),
	// waiting up to timeout. Stdout and stderr are merged. On timeout the
	// process is killed and the result carries ExitTimeout with error
	// "timeout"; launch and capture failures carry ExitLaunchError.
	Run(ctx context.Context, dir string, timeout time.Duration, cmd ...string) *GitResult
}

// DefaultCommandRunner runs commands via os/exec.
type DefaultCommandRunner struct {
	logger logger.Interface
}

// NewDefaultCommandRunner creates a new DefaultCommandRunner.
func NewDefaultCommandRunner(log logger.Interface) *DefaultCommandRunner {
	return &DefaultCommandRunner{logger: log}
}

func (r *DefaultCommandRunner) Run(ctx context.Context, dir string, timeout time.Duration, cmd ...string) *GitResult {
	if len(cmd) == 0 {
		return &GitResult{ExitCode: ExitLaunchError, Error: "empty command"}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	command := exec.CommandContext(runCtx, cmd[0], cmd[1:]...)
	if dir != "" {
		command.Dir = dir
	}

	var combined bytes.Buffer
	command.Stdout = &combined
	command.Stderr = &combined

	if err := command.Start(); err != nil {
		r.logger.Errorw("command launch failed", "cmd", cmd[0], "error", err)
		return &GitResult{ExitCode: ExitLaunchError, Error: err.Error()}
	}

	err := command.Wait()
	output := strings.TrimRight(combined.String(), "\n")

	// CommandContext kills the child when the deadline passes, so no
	// orphaned process outlives this call.
	if runCtx.Err() == context.DeadlineExceeded {
		return &GitResult{ExitCode: ExitTimeout, Output: output, Error: "timeout"}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &GitResult{ExitCode: exitErr.ExitCode(), Output: output, Error: output}
		}
		r.logger.Errorw("command wait failed", "cmd", cmd[0], "error", err)
		return &GitResult{ExitCode: ExitLaunchError, Output: output, Error: err.Error()}
	}

	return &GitResult{ExitCode: 0, Output: output}
}
