// Package strava is a minimal Strava API client covering OAuth2 token
// management, athlete reads and weight updates.
package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/qgriffith/fit-connect/cache"
	"github.com/qgriffith/fit-connect/internal/oauthcb"
)

const (
	AuthBase    = "https://www.strava.com/oauth/authorize"
	TokenURL    = "https://www.strava.com/oauth/token"
	APIBase     = "https://www.strava.com/api/v3"
	RedirectURI = "http://127.0.0.1:8723/cb"

	// Strava wants its scope list comma separated, so it goes through
	// x/oauth2 as a single scope string.
	scopeList = "read,profile:read_all,profile:write"
)

// Client talks to the Strava API.
type Client struct {
	tokenFile string

	http    *http.Client
	apiBase string
	oauth   oauth2.Config

	cache    cache.Cache
	cacheTTL time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API and token requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(raw string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(raw, "/") }
}

// WithTokenURL overrides the OAuth token endpoint.
func WithTokenURL(raw string) Option {
	return func(c *Client) { c.oauth.Endpoint.TokenURL = raw }
}

// WithCache attaches a response cache used for GET requests.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) { c.cache, c.cacheTTL = cc, ttl }
}

// NewClient creates a Strava client. tokenFile is where OAuth tokens are
// persisted between runs.
func NewClient(clientID, clientSecret, tokenFile string, opts ...Option) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("strava client id and secret required")
	}
	c := &Client{
		tokenFile: tokenFile,
		http:      http.DefaultClient,
		apiBase:   APIBase,
		oauth: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  RedirectURI,
			Scopes:       []string{scopeList},
			Endpoint: oauth2.Endpoint{
				AuthURL:  AuthBase,
				TokenURL: TokenURL,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// LoadToken reads the persisted OAuth token from the token file.
func (c *Client) LoadToken() (*oauth2.Token, error) {
	b, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return nil, err
	}
	var t oauth2.Token
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// SaveToken persists the OAuth token to the token file.
func (c *Client) SaveToken(t *oauth2.Token) error {
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.tokenFile, b, 0o600)
}

// EnsureToken returns a usable access token. When the token file exists the
// stored refresh token drives a refresh, otherwise the full authorization
// flow runs.
func (c *Client) EnsureToken(ctx context.Context) (string, error) {
	if _, err := os.Stat(c.tokenFile); err != nil {
		return c.Register(ctx)
	}

	tok, err := c.LoadToken()
	if err != nil {
		return "", fmt.Errorf("load strava token: %w", err)
	}
	if tok.RefreshToken == "" {
		return "", errors.New("strava token file has no refresh token")
	}

	// TokenSource refreshes transparently when the access token expired.
	fresh, err := c.oauth.TokenSource(c.oauthContext(ctx), tok).Token()
	if err != nil {
		return "", fmt.Errorf("refresh strava token: %w", err)
	}
	if fresh.AccessToken != tok.AccessToken {
		if err := c.SaveToken(fresh); err != nil {
			return "", fmt.Errorf("save strava token: %w", err)
		}
	}
	return fresh.AccessToken, nil
}

// Register runs the OAuth2 authorization-code flow with a localhost callback
// server and persists the resulting token.
func (c *Client) Register(ctx context.Context) (string, error) {
	state := uuid.NewString()
	authURL := c.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("approval_prompt", "auto"))

	code, err := oauthcb.WaitForCode(ctx, "127.0.0.1:8723", "/cb", state, authURL)
	if err != nil {
		return "", fmt.Errorf("strava authorization: %w", err)
	}

	tok, err := c.oauth.Exchange(c.oauthContext(ctx), code)
	if err != nil {
		return "", fmt.Errorf("exchange strava code: %w", err)
	}
	if err := c.SaveToken(tok); err != nil {
		return "", fmt.Errorf("save strava token: %w", err)
	}
	return tok.AccessToken, nil
}

// oauthContext makes x/oauth2 use the client's HTTP client.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}
