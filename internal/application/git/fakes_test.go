package git

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/devvault/cockpit/internal/infrastructure/github"
	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
	"github.com/devvault/cockpit/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeStateRepo struct {
	records map[string]*models.OAuthStateModel
	nextID  uint

	createErr error
	deleteErr error
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{records: make(map[string]*models.OAuthStateModel)}
}

func (r *fakeStateRepo) Create(_ context.Context, state *models.OAuthStateModel) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	state.ID = r.nextID
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now()
	}
	copied := *state
	r.records[state.State] = &copied
	return nil
}

func (r *fakeStateRepo) FindByState(_ context.Context, state string) (*models.OAuthStateModel, error) {
	record, ok := r.records[state]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (r *fakeStateRepo) DeleteByState(_ context.Context, state string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.records, state)
	return nil
}

func (r *fakeStateRepo) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for state, record := range r.records {
		if record.CreatedAt.Before(cutoff) {
			delete(r.records, state)
			deleted++
		}
	}
	return deleted, nil
}

type fakeConnRepo struct {
	conns  map[uint]*models.GitConnectionModel
	scopes map[uint][]string
	nextID uint

	upsertErr        error
	replaceScopesErr error
	updateTokenErr   error
	findAllErr       error
}

func newFakeConnRepo() *fakeConnRepo {
	return &fakeConnRepo{
		conns:  make(map[uint]*models.GitConnectionModel),
		scopes: make(map[uint][]string),
	}
}

func (r *fakeConnRepo) Upsert(_ context.Context, conn *models.GitConnectionModel) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	for id, existing := range r.conns {
		if existing.ProjectID == conn.ProjectID {
			conn.ID = id
			conn.CreatedAt = existing.CreatedAt
			copied := *conn
			r.conns[id] = &copied
			return nil
		}
	}
	r.nextID++
	conn.ID = r.nextID
	copied := *conn
	r.conns[conn.ID] = &copied
	return nil
}

func (r *fakeConnRepo) FindByProjectID(_ context.Context, projectID uint) (*models.GitConnectionModel, error) {
	for _, conn := range r.conns {
		if conn.ProjectID == projectID {
			copied := *conn
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeConnRepo) FindAll(_ context.Context) ([]*models.GitConnectionModel, error) {
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	all := make([]*models.GitConnectionModel, 0, len(r.conns))
	for id := uint(1); id <= r.nextID; id++ {
		if conn, ok := r.conns[id]; ok {
			copied := *conn
			all = append(all, &copied)
		}
	}
	return all, nil
}

func (r *fakeConnRepo) UpdateToken(_ context.Context, connectionID uint, token string) error {
	if r.updateTokenErr != nil {
		return r.updateTokenErr
	}
	conn, ok := r.conns[connectionID]
	if !ok {
		return errors.New("connection not found")
	}
	conn.AccessToken = token
	return nil
}

func (r *fakeConnRepo) ReplaceScopes(_ context.Context, connectionID uint, scopes []string) error {
	if r.replaceScopesErr != nil {
		return r.replaceScopesErr
	}
	r.scopes[connectionID] = append([]string(nil), scopes...)
	return nil
}

type fakeProviderClient struct {
	token string
	info  github.UserInfo

	lastCode string
}

func (c *fakeProviderClient) BuildAuthorizeURL(state string) string {
	return "https://github.test/login/oauth/authorize?state=" + state
}

func (c *fakeProviderClient) ExchangeCode(_ context.Context, code string) string {
	c.lastCode = code
	return c.token
}

func (c *fakeProviderClient) FetchUserAndScopes(_ context.Context, _ string) github.UserInfo {
	return c.info
}

// fakeVault prefixes instead of encrypting so tests can see through it.
type fakeVault struct {
	enabled    bool
	encryptErr error
}

func (v *fakeVault) IsEnabled() bool { return v.enabled }

func (v *fakeVault) Encrypt(plain string) (string, error) {
	if v.encryptErr != nil {
		return "", v.encryptErr
	}
	if !v.enabled {
		return plain, nil
	}
	return "enc:" + plain, nil
}

func (v *fakeVault) Decrypt(envelope string) (string, error) {
	if !v.enabled {
		return envelope, nil
	}
	if !strings.HasPrefix(envelope, "enc:") {
		return "", errors.New("decryption failed")
	}
	return strings.TrimPrefix(envelope, "enc:"), nil
}
