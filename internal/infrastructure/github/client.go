// Package github talks to the GitHub OAuth and REST endpoints for the
// connection broker: authorize URL construction, code-for-token exchange,
// and identity/scope discovery.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/devvault/cockpit/internal/shared/config"
	"github.com/devvault/cockpit/internal/shared/logger"
	"github.com/devvault/cockpit/internal/shared/utils/scopeutil"
)

// requestTimeout bounds every provider call. No retries; the caller sees a
// single clean failure.
const requestTimeout = 10 * time.Second

// UserInfo is the provider identity attached to a connection. Scopes is the
// normalized comma-joined form.
type UserInfo struct {
	ProviderUser  string
	ProviderEmail string
	Scopes        string
}

type githubUser struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Client implements the provider side of the OAuth authorization-code flow.
type Client struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
	logger     logger.Interface
}

// NewClient creates a new Client from the GitHub configuration.
func NewClient(cfg config.GitHubConfig, log logger.Interface) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{cfg.Scope},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthorizeURL,
				TokenURL: cfg.TokenURL,
			},
		},
		apiBaseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     log,
	}
}

// BuildAuthorizeURL returns the provider authorization URL embedding the
// client id, redirect URI, requested scope, and CSRF state. Pure string
// construction; no network call.
func (c *Client) BuildAuthorizeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("allow_signup", "true"))
}

// ExchangeCode trades the authorization code for an access token. Returns ""
// on missing client credentials, non-200 response, or transport failure; all
// such cases are logged and collapsed into "exchange failed" for the caller.
func (c *Client) ExchangeCode(ctx context.Context, code string) string {
	if c.oauth.ClientID == "" || c.oauth.ClientSecret == "" {
		c.logger.Warnw("github client id/secret not configured")
		return ""
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		c.logger.Warnw("github token exchange failed", "error", err)
		return ""
	}
	return token.AccessToken
}

// FetchUserAndScopes fetches the provider login, email, and granted scopes
// for a token. Scopes come from the X-OAuth-Scopes response header, falling
// back to X-Accepted-OAuth-Scopes; this order is a fixed contract. Any
// failure yields a zero UserInfo so the callback can proceed best-effort.
func (c *Client) FetchUserAndScopes(ctx context.Context, accessToken string) UserInfo {
	body, header, err := c.get(ctx, c.apiBaseURL+"/user", accessToken)
	if err != nil {
		c.logger.Warnw("github user fetch failed", "error", err)
		return UserInfo{}
	}

	var user githubUser
	if err := json.Unmarshal(body, &user); err != nil {
		c.logger.Warnw("github user response malformed", "error", err)
		return UserInfo{}
	}

	scopesHeader := header.Get("X-OAuth-Scopes")
	if strings.TrimSpace(scopesHeader) == "" {
		scopesHeader = header.Get("X-Accepted-OAuth-Scopes")
	}

	email := user.Email
	if email == "" {
		email = c.fetchFallbackEmail(ctx, accessToken)
	}

	return UserInfo{
		ProviderUser:  user.Login,
		ProviderEmail: email,
		Scopes:        scopeutil.NormalizeCSV(scopesHeader),
	}
}

// fetchFallbackEmail queries /user/emails and picks the primary verified
// address, else the first entry, else "".
func (c *Client) fetchFallbackEmail(ctx context.Context, accessToken string) string {
	body, _, err := c.get(ctx, c.apiBaseURL+"/user/emails", accessToken)
	if err != nil {
		c.logger.Debugw("github emails fetch failed", "error", err)
		return ""
	}

	var emails []githubEmail
	if err := json.Unmarshal(body, &emails); err != nil {
		c.logger.Debugw("github emails response malformed", "error", err)
		return ""
	}

	fallback := ""
	for _, e := range emails {
		if e.Primary && e.Verified && e.Email != "" {
			return e.Email
		}
		if fallback == "" && e.Email != "" {
			fallback = e.Email
		}
	}
	return fallback
}

func (c *Client) get(ctx context.Context, url, accessToken string) ([]byte, http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "token "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return body, resp.Header, nil
}
