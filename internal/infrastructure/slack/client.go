// Package slack implements the identity provider against the Slack
// OAuth v2 API.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hackclub/iplace/internal/core/domain"
	"github.com/hackclub/iplace/internal/core/ports"
)

const (
	defaultBaseURL = "https://slack.com"
	defaultTimeout = 15 * time.Second
)

// Client exchanges OAuth authorization codes for verified Slack
// identities. It implements ports.IdentityProvider.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default Slack endpoint. For tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:      defaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type accessResponse struct {
	OK         bool   `json:"ok"`
	Error      string `json:"error"`
	AuthedUser struct {
		AccessToken string `json:"access_token"`
	} `json:"authed_user"`
}

type identityResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	User  struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Image512 string `json:"image_512"`
		Image192 string `json:"image_192"`
		Image72  string `json:"image_72"`
	} `json:"user"`
}

// ExchangeCode runs the two-step OAuth flow: trade the code for a user
// token, then resolve that token to an identity.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*ports.Identity, error) {
	token, err := c.exchange(ctx, code, redirectURI)
	if err != nil {
		return nil, err
	}
	return c.identity(ctx, token)
}

func (c *Client) exchange(ctx context.Context, code, redirectURI string) (string, error) {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/oauth.v2.access", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var payload accessResponse
	if err := c.call(req, &payload); err != nil {
		return "", err
	}
	if !payload.OK {
		return "", fmt.Errorf("%w: oauth exchange rejected: %s", domain.ErrUpstream, payload.Error)
	}
	if payload.AuthedUser.AccessToken == "" {
		return "", fmt.Errorf("%w: oauth exchange returned no user token", domain.ErrUpstream)
	}
	return payload.AuthedUser.AccessToken, nil
}

func (c *Client) identity(ctx context.Context, token string) (*ports.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users.identity", nil)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var payload identityResponse
	if err := c.call(req, &payload); err != nil {
		return nil, err
	}
	if !payload.OK {
		return nil, fmt.Errorf("%w: identity lookup rejected: %s", domain.ErrUpstream, payload.Error)
	}

	avatar := payload.User.Image512
	if avatar == "" {
		avatar = payload.User.Image192
	}
	if avatar == "" {
		avatar = payload.User.Image72
	}

	return &ports.Identity{
		SlackID: payload.User.ID,
		Name:    payload.User.Name,
		Avatar:  avatar,
	}, nil
}

func (c *Client) call(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstream, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", domain.ErrUpstream, req.URL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domain.ErrUpstream, req.URL.Path, err)
	}
	return nil
}
