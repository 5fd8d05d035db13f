// Package git implements the GitHub connection broker: the OAuth
// authorize/callback protocol, CSRF state lifecycle, and the batch jobs
// operating on stored connections.
package git

import (
	"context"

	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
	"github.com/devvault/cockpit/internal/shared/errors"
	"github.com/devvault/cockpit/internal/shared/logger"
	"github.com/devvault/cockpit/internal/shared/utils/scopeutil"
)

// AuthorizationDTO is the response to an authorize request.
type AuthorizationDTO struct {
	AuthorizeURL string `json:"authorizeUrl"`
	State        string `json:"state"`
}

// ConnectionDTO carries the public fields of a connection. The access token,
// raw or encrypted, is never exposed.
type ConnectionDTO struct {
	ID            uint   `json:"id"`
	ProjectID     uint   `json:"projectId"`
	ProviderUser  string `json:"providerUser"`
	ProviderEmail string `json:"providerEmail"`
	Scopes        string `json:"scopes"`
}

// Service orchestrates the authorize/callback protocol. The callback is a
// strict linear pipeline with no retries; every stage failure aborts the
// request with its own status.
type Service struct {
	states *StateManager
	conns  ConnectionRepository
	client ProviderClient
	vault  TokenVault
	logger logger.Interface
}

// NewService creates a new connection broker Service.
func NewService(
	states *StateManager,
	conns ConnectionRepository,
	client ProviderClient,
	vault TokenVault,
	log logger.Interface,
) *Service {
	return &Service{
		states: states,
		conns:  conns,
		client: client,
		vault:  vault,
		logger: log,
	}
}

// Authorize issues a CSRF state for the project and builds the provider
// authorization URL. Nothing is persisted beyond the state record.
func (s *Service) Authorize(ctx context.Context, projectID uint) (*AuthorizationDTO, error) {
	state, err := s.states.Issue(ctx, projectID)
	if err != nil {
		s.logger.Errorw("failed to issue oauth state", "project_id", projectID, "error", err)
		return nil, errors.NewInternalError("failed to issue authorization state")
	}

	return &AuthorizationDTO{
		AuthorizeURL: s.client.BuildAuthorizeURL(state),
		State:        state,
	}, nil
}

// HandleCallback consumes the provider redirect: validates the CSRF state,
// exchanges the code, fetches identity and scopes best-effort, encrypts the
// token when the vault is enabled, and persists the connection.
func (s *Service) HandleCallback(ctx context.Context, projectID uint, code, state string) (*ConnectionDTO, error) {
	if state == "" {
		return nil, errors.NewValidationError("missing state")
	}

	if err := s.states.ValidateAndConsume(ctx, state, projectID); err != nil {
		switch err {
		case ErrStateNotFound:
			return nil, errors.NewForbiddenError("invalid or expired state")
		case ErrStateExpired:
			return nil, errors.NewForbiddenError("state expired")
		case ErrProjectMismatch:
			return nil, errors.NewForbiddenError("state does not match project")
		default:
			s.logger.Errorw("state validation failed", "error", err)
			return nil, errors.NewInternalError("failed to validate state")
		}
	}

	token := s.client.ExchangeCode(ctx, code)
	if token == "" {
		return nil, errors.NewBadGatewayError("failed to exchange code for token")
	}

	// Identity fetch is best-effort: a failure leaves the fields blank
	// rather than aborting the connection.
	info := s.client.FetchUserAndScopes(ctx, token)

	toStore := token
	if s.vault.IsEnabled() {
		encrypted, err := s.vault.Encrypt(token)
		if err != nil {
			s.logger.Errorw("failed to encrypt access token", "error", err)
			return nil, errors.NewInternalError("failed to protect access token")
		}
		toStore = encrypted
	}

	conn := &models.GitConnectionModel{
		ProjectID:     projectID,
		ProviderUser:  info.ProviderUser,
		ProviderEmail: info.ProviderEmail,
		AccessToken:   toStore,
		Scopes:        info.Scopes,
	}
	if err := s.conns.Upsert(ctx, conn); err != nil {
		s.logger.Errorw("failed to persist git connection", "project_id", projectID, "error", err)
		return nil, errors.NewInternalError("failed to save connection")
	}

	// Scope rows are secondary to the connection record; a failure here is
	// logged but does not fail the callback.
	if err := s.conns.ReplaceScopes(ctx, conn.ID, scopeutil.Normalize(info.Scopes)); err != nil {
		s.logger.Warnw("failed to persist normalized scopes",
			"connection_id", conn.ID,
			"error", err,
		)
	}

	return &ConnectionDTO{
		ID:            conn.ID,
		ProjectID:     conn.ProjectID,
		ProviderUser:  conn.ProviderUser,
		ProviderEmail: conn.ProviderEmail,
		Scopes:        conn.Scopes,
	}, nil
}

// ConnectionForProject returns the public view of a project's connection,
// or nil when the project has none.
func (s *Service) ConnectionForProject(ctx context.Context, projectID uint) (*ConnectionDTO, error) {
	conn, err := s.conns.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load connection")
	}
	if conn == nil {
		return nil, nil
	}
	return &ConnectionDTO{
		ID:            conn.ID,
		ProjectID:     conn.ProjectID,
		ProviderUser:  conn.ProviderUser,
		ProviderEmail: conn.ProviderEmail,
		Scopes:        conn.Scopes,
	}, nil
}

// DecryptedToken resolves the usable access token for a connection,
// unwrapping the vault envelope when encryption is enabled.
func (s *Service) DecryptedToken(conn *models.GitConnectionModel) (string, error) {
	if conn == nil {
		return "", nil
	}
	if s.vault.IsEnabled() && conn.AccessToken != "" {
		return s.vault.Decrypt(conn.AccessToken)
	}
	return conn.AccessToken, nil
}

// PurgeExpiredStates exposes the shared purge for the admin trigger.
func (s *Service) PurgeExpiredStates(ctx context.Context) (int64, error) {
	return s.states.PurgeExpired(ctx)
}
