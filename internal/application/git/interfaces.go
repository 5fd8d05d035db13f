package git

import (
	"context"
	"time"

	"github.com/devvault/cockpit/internal/infrastructure/github"
	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
)

// StateRepository persists single-use OAuth CSRF states.
type StateRepository interface {
	Create(ctx context.Context, state *models.OAuthStateModel) error
	FindByState(ctx context.Context, state string) (*models.OAuthStateModel, error)
	DeleteByState(ctx context.Context, state string) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ConnectionRepository persists project/provider connections and scope rows.
type ConnectionRepository interface {
	Upsert(ctx context.Context, conn *models.GitConnectionModel) error
	FindByProjectID(ctx context.Context, projectID uint) (*models.GitConnectionModel, error)
	FindAll(ctx context.Context) ([]*models.GitConnectionModel, error)
	UpdateToken(ctx context.Context, connectionID uint, token string) error
	ReplaceScopes(ctx context.Context, connectionID uint, scopes []string) error
}

// ProviderClient performs the provider side of the authorization-code flow.
type ProviderClient interface {
	BuildAuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) string
	FetchUserAndScopes(ctx context.Context, accessToken string) github.UserInfo
}

// TokenVault protects access tokens at rest.
type TokenVault interface {
	Encrypt(plain string) (string, error)
	Decrypt(envelope string) (string, error)
	IsEnabled() bool
}
