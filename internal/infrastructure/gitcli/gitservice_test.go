package gitcli

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devvault/cockpit/internal/shared/logger"
)

type scriptedRunner struct {
	results map[string]*GitResult
	calls   [][]string
}

func (r *scriptedRunner) Run(_ context.Context, _ string, _ time.Duration, cmd ...string) *GitResult {
	r.calls = append(r.calls, cmd)
	if res, ok := r.results[strings.Join(cmd, " ")]; ok {
		return res
	}
	return &GitResult{ExitCode: 0}
}

func newScriptedService(results map[string]*GitResult) (*GitService, *scriptedRunner) {
	runner := &scriptedRunner{results: results}
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewGitService(runner, log), runner
}

func TestGitService_CommandComposition(t *testing.T) {
	svc, runner := newScriptedService(nil)
	ctx := context.Background()

	svc.Clone(ctx, "https://github.test/acme/repo.git", "/tmp/repo", time.Minute)
	svc.Status(ctx, "/tmp/repo", time.Second)
	svc.Branches(ctx, "/tmp/repo", time.Second)
	svc.Log(ctx, "/tmp/repo", 5, time.Second)

	require.Len(t, runner.calls, 4)
	assert.Equal(t, []string{"git", "clone", "https://github.test/acme/repo.git", "/tmp/repo"}, runner.calls[0])
	assert.Equal(t, []string{"git", "status", "--porcelain"}, runner.calls[1])
	assert.Equal(t, []string{"git", "branch", "-a"}, runner.calls[2])
	assert.Equal(t, []string{"git", "log", "--oneline", "-n", "5"}, runner.calls[3])
}

func TestGitService_Commit(t *testing.T) {
	t.Run("add then commit", func(t *testing.T) {
		svc, runner := newScriptedService(nil)

		result := svc.Commit(context.Background(), "/tmp/repo", "initial", time.Second)

		assert.True(t, result.Success())
		require.Len(t, runner.calls, 2)
		assert.Equal(t, []string{"git", "add", "-A"}, runner.calls[0])
		assert.Equal(t, []string{"git", "commit", "-m", "initial"}, runner.calls[1])
	})

	t.Run("failed add short-circuits", func(t *testing.T) {
		svc, runner := newScriptedService(map[string]*GitResult{
			"git add -A": {ExitCode: 128, Error: "not a git repository"},
		})

		result := svc.Commit(context.Background(), "/tmp/nowhere", "msg", time.Second)

		assert.Equal(t, 128, result.ExitCode)
		assert.Contains(t, result.Error, "add failed")
		require.Len(t, runner.calls, 1, "commit must not run after a failed add")
	})
}
