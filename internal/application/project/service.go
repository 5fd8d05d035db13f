// Package project manages workspace projects: creation, git import, and the
// local git identity configuration that backs the cockpit settings panel.
package project

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/devvault/cockpit/internal/infrastructure/gitcli"
	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
	"github.com/devvault/cockpit/internal/shared/config"
	"github.com/devvault/cockpit/internal/shared/errors"
	"github.com/devvault/cockpit/internal/shared/goroutine"
	"github.com/devvault/cockpit/internal/shared/logger"
)

const (
	cloneTimeout    = 5 * time.Minute
	identityTimeout = 10 * time.Second
)

// Repository persists workspace projects.
type Repository interface {
	Create(ctx context.Context, project *models.ProjectModel) error
	FindByID(ctx context.Context, id uint) (*models.ProjectModel, error)
	FindAll(ctx context.Context) ([]*models.ProjectModel, error)
	Update(ctx context.Context, project *models.ProjectModel) error
}

// GitExecutor runs git commands for clone and identity configuration.
type GitExecutor interface {
	Clone(ctx context.Context, uri, targetDir string, timeout time.Duration) *gitcli.GitResult
	Run(ctx context.Context, repoDir string, timeout time.Duration, cmd ...string) *gitcli.GitResult
}

// ProjectDTO is the public view of a project.
type ProjectDTO struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Tags          string    `json:"tags"`
	ImportStatus  string    `json:"importStatus,omitempty"`
	ImportMessage string    `json:"importMessage,omitempty"`
	GitUserName   string    `json:"gitUserName,omitempty"`
	GitUserEmail  string    `json:"gitUserEmail,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ImportStatusDTO reports the progress of an async git import.
type ImportStatusDTO struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreateCommand carries the fields for creating a project.
type CreateCommand struct {
	Name        string
	Description string
	Tags        string
}

// Service implements project use cases.
type Service struct {
	repo      Repository
	git       GitExecutor
	workspace config.WorkspaceConfig
	logger    logger.Interface
}

// NewService creates a new project Service.
func NewService(repo Repository, git GitExecutor, workspace config.WorkspaceConfig, log logger.Interface) *Service {
	return &Service{
		repo:      repo,
		git:       git,
		workspace: workspace,
		logger:    log,
	}
}

func toDTO(m *models.ProjectModel) *ProjectDTO {
	return &ProjectDTO{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Tags:          m.Tags,
		ImportStatus:  m.ImportStatus,
		ImportMessage: m.ImportMessage,
		GitUserName:   m.GitUserName,
		GitUserEmail:  m.GitUserEmail,
		CreatedAt:     m.CreatedAt,
	}
}

// Create persists a new project.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*ProjectDTO, error) {
	if cmd.Name == "" {
		return nil, errors.NewValidationError("name is required")
	}

	model := &models.ProjectModel{
		Name:        cmd.Name,
		Description: cmd.Description,
		Tags:        cmd.Tags,
	}
	if err := s.repo.Create(ctx, model); err != nil {
		s.logger.Errorw("failed to create project", "error", err)
		return nil, errors.NewInternalError("failed to create project")
	}
	return toDTO(model), nil
}

// Get returns a project by id.
func (s *Service) Get(ctx context.Context, id uint) (*ProjectDTO, error) {
	model, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(model), nil
}

// List returns all projects.
func (s *Service) List(ctx context.Context) ([]*ProjectDTO, error) {
	projects, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list projects")
	}
	dtos := make([]*ProjectDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, toDTO(p))
	}
	return dtos, nil
}

// ImportFromGit saves the project with PENDING status and clones the
// repository asynchronously into the project workspace directory.
func (s *Service) ImportFromGit(ctx context.Context, cmd CreateCommand, gitURI string) (*ProjectDTO, error) {
	if cmd.Name == "" || gitURI == "" {
		return nil, errors.NewValidationError("name and gitUri are required")
	}

	model := &models.ProjectModel{
		Name:          cmd.Name,
		Description:   cmd.Description,
		Tags:          cmd.Tags,
		ImportStatus:  models.ImportStatusPending,
		ImportMessage: "Queued",
	}
	if err := s.repo.Create(ctx, model); err != nil {
		s.logger.Errorw("failed to create project for import", "error", err)
		return nil, errors.NewInternalError("failed to create project")
	}

	target := s.workspace.ProjectDir(model.ID)
	if err := os.MkdirAll(target, 0o755); err != nil {
		s.logger.Warnw("could not create project workspace dir", "dir", target, "error", err)
	}

	projectID := model.ID
	goroutine.SafeGo(s.logger, fmt.Sprintf("project-import-%d", projectID), func() {
		s.runImport(projectID, gitURI, target)
	})

	return toDTO(model), nil
}

func (s *Service) runImport(projectID uint, gitURI, target string) {
	ctx := context.Background()

	model, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		s.logger.Errorw("import: project vanished", "project_id", projectID, "error", err)
		return
	}

	now := time.Now()
	model.ImportStatus = models.ImportStatusRunning
	model.ImportMessage = "Cloning..."
	model.ImportStartedAt = &now
	if err := s.repo.Update(ctx, model); err != nil {
		s.logger.Errorw("import: failed to mark project running", "project_id", projectID, "error", err)
		return
	}

	result := s.git.Clone(ctx, gitURI, target, cloneTimeout)

	finished := time.Now()
	model.ImportFinishedAt = &finished
	if result.Output != "" {
		model.ImportLog = result.Output
	} else {
		model.ImportLog = result.Error
	}
	if result.Success() {
		model.ImportStatus = models.ImportStatusSuccess
		model.ImportMessage = "Cloned successfully"
	} else {
		model.ImportStatus = models.ImportStatusFailed
		model.ImportMessage = result.Error
	}

	if err := s.repo.Update(ctx, model); err != nil {
		s.logger.Errorw("import: failed to record result", "project_id", projectID, "error", err)
	}
}

// ImportStatus returns the import progress for a project.
func (s *Service) ImportStatus(ctx context.Context, id uint) (*ImportStatusDTO, error) {
	model, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ImportStatusDTO{
		Status:  model.ImportStatus,
		Message: model.ImportMessage,
	}, nil
}

// SetIdentity persists the git author identity on the project and, when a
// local working copy exists, applies it with `git config` in that directory.
func (s *Service) SetIdentity(ctx context.Context, id uint, name, email string) (string, error) {
	if name == "" || email == "" {
		return "", errors.NewValidationError("name and email required")
	}

	model, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	model.GitUserName = name
	model.GitUserEmail = email
	if err := s.repo.Update(ctx, model); err != nil {
		s.logger.Errorw("failed to save project identity", "project_id", id, "error", err)
		return "", errors.NewInternalError("failed to save identity")
	}

	repoDir := s.workspace.ProjectDir(id)
	if _, statErr := os.Stat(repoDir); statErr != nil {
		return "identity saved (repo not present)", nil
	}

	nameResult := s.git.Run(ctx, repoDir, identityTimeout, "git", "config", "user.name", name)
	emailResult := s.git.Run(ctx, repoDir, identityTimeout, "git", "config", "user.email", email)
	if nameResult.Success() && emailResult.Success() {
		return "project git identity set", nil
	}

	return "", errors.NewInternalError("failed to set identity",
		fmt.Sprintf("%s %s", nameResult.Error, emailResult.Error))
}
