package handlers

import (
	"context"

	"github.com/devvault/cockpit/internal/application/git"
	"github.com/devvault/cockpit/internal/application/project"
)

// GitService is the connection broker surface the HTTP layer needs.
type GitService interface {
	Authorize(ctx context.Context, projectID uint) (*git.AuthorizationDTO, error)
	HandleCallback(ctx context.Context, projectID uint, code, state string) (*git.ConnectionDTO, error)
	ConnectionForProject(ctx context.Context, projectID uint) (*git.ConnectionDTO, error)
	PurgeExpiredStates(ctx context.Context) (int64, error)
}

// ProjectService is the project management surface the HTTP layer needs.
type ProjectService interface {
	Create(ctx context.Context, cmd project.CreateCommand) (*project.ProjectDTO, error)
	Get(ctx context.Context, id uint) (*project.ProjectDTO, error)
	List(ctx context.Context) ([]*project.ProjectDTO, error)
	ImportFromGit(ctx context.Context, cmd project.CreateCommand, gitURI string) (*project.ProjectDTO, error)
	ImportStatus(ctx context.Context, id uint) (*project.ImportStatusDTO, error)
	SetIdentity(ctx context.Context, id uint, name, email string) (string, error)
}
