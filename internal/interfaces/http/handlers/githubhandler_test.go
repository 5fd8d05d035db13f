package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devvault/cockpit/internal/application/git"
	"github.com/devvault/cockpit/internal/interfaces/http/handlers/testutil"
	"github.com/devvault/cockpit/internal/shared/errors"
)

type mockGitService struct {
	authorizeResult *git.AuthorizationDTO
	authorizeErr    error

	callbackResult *git.ConnectionDTO
	callbackErr    error
	callbackCode   string
	callbackState  string

	connectionResult *git.ConnectionDTO
	connectionErr    error

	purgeResult int64
	purgeErr    error
}

func (m *mockGitService) Authorize(_ context.Context, _ uint) (*git.AuthorizationDTO, error) {
	return m.authorizeResult, m.authorizeErr
}

func (m *mockGitService) HandleCallback(_ context.Context, _ uint, code, state string) (*git.ConnectionDTO, error) {
	m.callbackCode = code
	m.callbackState = state
	return m.callbackResult, m.callbackErr
}

func (m *mockGitService) ConnectionForProject(_ context.Context, _ uint) (*git.ConnectionDTO, error) {
	return m.connectionResult, m.connectionErr
}

func (m *mockGitService) PurgeExpiredStates(_ context.Context) (int64, error) {
	return m.purgeResult, m.purgeErr
}

func TestGitHubHandler_Authorize(t *testing.T) {
	svc := &mockGitService{
		authorizeResult: &git.AuthorizationDTO{
			AuthorizeURL: "https://github.com/login/oauth/authorize?state=s1",
			State:        "s1",
		},
	}
	h := NewGitHubHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/projects/1/git/github/authorize", nil)
	testutil.SetURLParam(c, "projectID", "1")

	h.Authorize(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var dto git.AuthorizationDTO
	require.NoError(t, json.Unmarshal(resp.Data, &dto))
	assert.Equal(t, "s1", dto.State)
}

func TestGitHubHandler_Authorize_InvalidProjectID(t *testing.T) {
	h := NewGitHubHandler(&mockGitService{})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/projects/abc/git/github/authorize", nil)
	testutil.SetURLParam(c, "projectID", "abc")

	h.Authorize(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGitHubHandler_Callback(t *testing.T) {
	svc := &mockGitService{
		callbackResult: &git.ConnectionDTO{ID: 1, ProjectID: 2, ProviderUser: "octocat"},
	}
	h := NewGitHubHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/projects/2/git/github/callback", nil)
	testutil.SetURLParam(c, "projectID", "2")
	testutil.SetQueryParams(c, map[string]string{"code": "the-code", "state": "the-state"})

	h.Callback(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "the-code", svc.callbackCode)
	assert.Equal(t, "the-state", svc.callbackState)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var dto git.ConnectionDTO
	require.NoError(t, json.Unmarshal(resp.Data, &dto))
	assert.Equal(t, "octocat", dto.ProviderUser)
}

func TestGitHubHandler_Callback_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing state", errors.NewValidationError("missing state"), http.StatusBadRequest},
		{"forbidden state", errors.NewForbiddenError("invalid or expired state"), http.StatusForbidden},
		{"exchange failure", errors.NewBadGatewayError("failed to exchange code for token"), http.StatusBadGateway},
		{"internal failure", errors.NewInternalError("failed to save connection"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewGitHubHandler(&mockGitService{callbackErr: tt.err})

			c, w := testutil.NewTestContext(http.MethodPost, "/api/projects/1/git/github/callback", nil)
			testutil.SetURLParam(c, "projectID", "1")

			h.Callback(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
		})
	}
}

func TestGitHubHandler_GetConnection(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockGitService{connectionResult: &git.ConnectionDTO{ID: 1, ProviderUser: "octocat"}}
		h := NewGitHubHandler(svc)

		c, w := testutil.NewTestContext(http.MethodGet, "/api/projects/1/git/connection", nil)
		testutil.SetURLParam(c, "projectID", "1")

		h.GetConnection(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("absent", func(t *testing.T) {
		h := NewGitHubHandler(&mockGitService{})

		c, w := testutil.NewTestContext(http.MethodGet, "/api/projects/1/git/connection", nil)
		testutil.SetURLParam(c, "projectID", "1")

		h.GetConnection(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminHandler_PurgeOAuthStates(t *testing.T) {
	svc := &mockGitService{purgeResult: 4}
	h := NewAdminHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/oauth/states/purge", nil)

	h.PurgeOAuthStates(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data map[string]int64
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, int64(4), data["deletedCount"])
}

func TestAdminHandler_PurgeOAuthStates_Failure(t *testing.T) {
	h := NewAdminHandler(&mockGitService{purgeErr: assert.AnError})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/oauth/states/purge", nil)

	h.PurgeOAuthStates(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
