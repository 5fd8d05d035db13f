package gitcli

import (
	"context"
	"strconv"
	"time"

	"github.com/devvault/cockpit/internal/shared/logger"
)

// GitService wraps the system git CLI for the operations the cockpit needs.
// It deliberately avoids a git object-model library; results come back as
// GitResult and callers decide how to react.
type GitService struct {
	runner CommandRunner
	logger logger.Interface
}

// NewGitService creates a new GitService.
func NewGitService(runner CommandRunner, log logger.Interface) *GitService {
	return &GitService{runner: runner, logger: log}
}

// Clone clones uri into targetDir.
func (s *GitService) Clone(ctx context.Context, uri, targetDir string, timeout time.Duration) *GitResult {
	s.logger.Infow("cloning repository", "uri", uri, "target", targetDir)
	return s.runner.Run(ctx, "", timeout, "git", "clone", uri, targetDir)
}

// Status returns porcelain status for repoDir.
func (s *GitService) Status(ctx context.Context, repoDir string, timeout time.Duration) *GitResult {
	return s.runner.Run(ctx, repoDir, timeout, "git", "status", "--porcelain")
}

// Commit stages everything and commits with the given message. A failed
// add short-circuits the commit.
func (s *GitService) Commit(ctx context.Context, repoDir, message string, timeout time.Duration) *GitResult {
	add := s.runner.Run(ctx, repoDir, timeout, "git", "add", "-A")
	if !add.Success() {
		return &GitResult{ExitCode: add.ExitCode, Output: add.Output, Error: "add failed: " + add.Error}
	}
	return s.runner.Run(ctx, repoDir, timeout, "git", "commit", "-m", message)
}

// Branches lists all branches of repoDir.
func (s *GitService) Branches(ctx context.Context, repoDir string, timeout time.Duration) *GitResult {
	return s.runner.Run(ctx, repoDir, timeout, "git", "branch", "-a")
}

// Log returns up to maxEntries one-line log entries.
func (s *GitService) Log(ctx context.Context, repoDir string, maxEntries int, timeout time.Duration) *GitResult {
	return s.runner.Run(ctx, repoDir, timeout, "git", "log", "--oneline", "-n", strconv.Itoa(maxEntries))
}

// Run exposes the generic runner for higher-level operations such as
// identity configuration.
func (s *GitService) Run(ctx context.Context, repoDir string, timeout time.Duration, cmd ...string) *GitResult {
	return s.runner.Run(ctx, repoDir, timeout, cmd...)
}
