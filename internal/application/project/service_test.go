package project

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devvault/cockpit/internal/infrastructure/gitcli"
	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
	"github.com/devvault/cockpit/internal/shared/config"
	"github.com/devvault/cockpit/internal/shared/errors"
	"github.com/devvault/cockpit/internal/shared/logger"
)

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[uint]*models.ProjectModel
	nextID   uint
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uint]*models.ProjectModel)}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *models.ProjectModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	project.ID = r.nextID
	project.CreatedAt = time.Now()
	copied := *project
	r.projects[project.ID] = &copied
	return nil
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id uint) (*models.ProjectModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, errors.NewNotFoundError("project not found")
	}
	copied := *project
	return &copied, nil
}

func (r *fakeProjectRepo) FindAll(_ context.Context) ([]*models.ProjectModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.ProjectModel, 0, len(r.projects))
	for id := uint(1); id <= r.nextID; id++ {
		if p, ok := r.projects[id]; ok {
			copied := *p
			all = append(all, &copied)
		}
	}
	return all, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *models.ProjectModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *project
	r.projects[project.ID] = &copied
	return nil
}

func (r *fakeProjectRepo) get(id uint) *models.ProjectModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.projects[id]; ok {
		copied := *p
		return &copied
	}
	return nil
}

type fakeGit struct {
	mu         sync.Mutex
	cloneRes   *gitcli.GitResult
	runRes     map[string]*gitcli.GitResult
	cloneCalls []string
	runCalls   [][]string
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		cloneRes: &gitcli.GitResult{ExitCode: 0, Output: "Cloning into 'repo'..."},
		runRes:   make(map[string]*gitcli.GitResult),
	}
}

func (g *fakeGit) Clone(_ context.Context, uri, targetDir string, _ time.Duration) *gitcli.GitResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cloneCalls = append(g.cloneCalls, uri+" -> "+targetDir)
	return g.cloneRes
}

func (g *fakeGit) Run(_ context.Context, _ string, _ time.Duration, cmd ...string) *gitcli.GitResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.runCalls = append(g.runCalls, cmd)
	if res, ok := g.runRes[strings.Join(cmd, " ")]; ok {
		return res
	}
	return &gitcli.GitResult{ExitCode: 0}
}

func newTestService(t *testing.T) (*Service, *fakeProjectRepo, *fakeGit, config.WorkspaceConfig) {
	t.Helper()
	repo := newFakeProjectRepo()
	git := newFakeGit()
	workspace := config.WorkspaceConfig{Root: t.TempDir()}
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(repo, git, workspace, log), repo, git, workspace
}

func TestService_CreateAndGet(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreateCommand{Name: "cockpit", Tags: "go,infra"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cockpit", got.Name)

	_, err = svc.Get(context.Background(), 999)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestService_Create_RequiresName(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateCommand{})
	assert.True(t, errors.IsValidationError(err))
}

func TestService_List(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateCommand{Name: "one"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateCommand{Name: "two"})
	require.NoError(t, err)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_ImportFromGit_Success(t *testing.T) {
	svc, repo, git, workspace := newTestService(t)

	dto, err := svc.ImportFromGit(context.Background(), CreateCommand{Name: "imported"}, "https://github.test/acme/repo.git")
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusPending, dto.ImportStatus)

	require.Eventually(t, func() bool {
		return repo.get(dto.ID).ImportStatus == models.ImportStatusSuccess
	}, 3*time.Second, 10*time.Millisecond)

	stored := repo.get(dto.ID)
	assert.Equal(t, "Cloned successfully", stored.ImportMessage)
	assert.NotNil(t, stored.ImportStartedAt)
	assert.NotNil(t, stored.ImportFinishedAt)
	assert.Contains(t, stored.ImportLog, "Cloning")

	require.Len(t, git.cloneCalls, 1)
	assert.Contains(t, git.cloneCalls[0], workspace.ProjectDir(dto.ID))
}

func TestService_ImportFromGit_CloneFailure(t *testing.T) {
	svc, repo, git, _ := newTestService(t)
	git.cloneRes = &gitcli.GitResult{ExitCode: 128, Error: "fatal: repository not found"}

	dto, err := svc.ImportFromGit(context.Background(), CreateCommand{Name: "broken"}, "https://github.test/acme/missing.git")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return repo.get(dto.ID).ImportStatus == models.ImportStatusFailed
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, "fatal: repository not found", repo.get(dto.ID).ImportMessage)

	status, err := svc.ImportStatus(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusFailed, status.Status)
}

func TestService_ImportFromGit_Validation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.ImportFromGit(context.Background(), CreateCommand{Name: "x"}, "")
	assert.True(t, errors.IsValidationError(err))

	_, err = svc.ImportFromGit(context.Background(), CreateCommand{}, "https://github.test/acme/repo.git")
	assert.True(t, errors.IsValidationError(err))
}

func TestService_SetIdentity_RepoPresent(t *testing.T) {
	svc, repo, git, workspace := newTestService(t)

	created, err := svc.Create(context.Background(), CreateCommand{Name: "p"})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(workspace.ProjectDir(created.ID), 0o755))

	msg, err := svc.SetIdentity(context.Background(), created.ID, "Jan Novak", "jan@example.com")
	require.NoError(t, err)
	assert.Equal(t, "project git identity set", msg)

	stored := repo.get(created.ID)
	assert.Equal(t, "Jan Novak", stored.GitUserName)
	assert.Equal(t, "jan@example.com", stored.GitUserEmail)

	require.Len(t, git.runCalls, 2)
	assert.Equal(t, []string{"git", "config", "user.name", "Jan Novak"}, git.runCalls[0])
	assert.Equal(t, []string{"git", "config", "user.email", "jan@example.com"}, git.runCalls[1])
}

func TestService_SetIdentity_RepoAbsent(t *testing.T) {
	svc, repo, git, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreateCommand{Name: "p"})
	require.NoError(t, err)

	msg, err := svc.SetIdentity(context.Background(), created.ID, "Jan", "jan@example.com")
	require.NoError(t, err)
	assert.Equal(t, "identity saved (repo not present)", msg)
	assert.Empty(t, git.runCalls, "git config must not run without a working copy")
	assert.Equal(t, "Jan", repo.get(created.ID).GitUserName)
}

func TestService_SetIdentity_GitConfigFailure(t *testing.T) {
	svc, _, git, workspace := newTestService(t)

	created, err := svc.Create(context.Background(), CreateCommand{Name: "p"})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(workspace.ProjectDir(created.ID)), 0o755))
	git.runRes["git config user.email bad"] = &gitcli.GitResult{ExitCode: 1, Error: "invalid email"}

	_, err = svc.SetIdentity(context.Background(), created.ID, "Jan", "bad")
	require.Error(t, err)
	assert.True(t, errors.IsInternalError(err))
}

func TestService_SetIdentity_Validation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.SetIdentity(context.Background(), 1, "", "a@b.c")
	assert.True(t, errors.IsValidationError(err))

	_, err = svc.SetIdentity(context.Background(), 99, "Jan", "a@b.c")
	assert.True(t, errors.IsNotFoundError(err))
}
