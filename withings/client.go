// Package withings is a minimal Withings API client covering OAuth2 token
// management and weight measurement retrieval.
package withings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qgriffith/fit-connect/internal/oauthcb"
)

const (
	AuthBase    = "https://account.withings.com/oauth2_user/authorize2"
	TokenURL    = "https://wbsapi.withings.net/v2/oauth2"
	APIBase     = "https://wbsapi.withings.net"
	RedirectURI = "http://127.0.0.1:8724/cb"

	// Scope needed to read body measurements.
	scopeMetrics = "user.metrics"
)

// Client talks to the Withings API.
type Client struct {
	clientID     string
	clientSecret string
	tokenFile    string

	http     *http.Client
	apiBase  string
	authBase string
	tokenURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL overrides the measure API base URL.
func WithBaseURL(raw string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(raw, "/") }
}

// WithTokenURL overrides the token endpoint.
func WithTokenURL(raw string) Option {
	return func(c *Client) { c.tokenURL = raw }
}

// NewClient creates a Withings client. tokenFile is where OAuth tokens are
// persisted between runs.
func NewClient(clientID, clientSecret, tokenFile string, opts ...Option) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("withings client id and secret required")
	}
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenFile:    tokenFile,
		http:         http.DefaultClient,
		apiBase:      APIBase,
		authBase:     AuthBase,
		tokenURL:     TokenURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// LoadTokens reads persisted OAuth tokens from the token file.
func (c *Client) LoadTokens() (*Tokens, error) {
	b, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return nil, err
	}
	var t Tokens
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// SaveTokens persists OAuth tokens to the token file.
func (c *Client) SaveTokens(t *Tokens) error {
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.tokenFile, b, 0o600)
}

// EnsureToken returns a usable access token. When the token file exists the
// stored refresh token is used, otherwise the full authorization flow runs.
func (c *Client) EnsureToken(ctx context.Context) (string, error) {
	if _, err := os.Stat(c.tokenFile); err == nil {
		tok, err := c.LoadTokens()
		if err != nil {
			return "", fmt.Errorf("load withings tokens: %w", err)
		}
		// Still valid for at least 2 minutes, no need to refresh.
		if tok.AccessToken != "" && tok.ExpiresAt-time.Now().Unix() > 120 {
			return tok.AccessToken, nil
		}
		return c.refresh(ctx, tok.RefreshToken)
	}
	return c.authorize(ctx)
}

// refresh exchanges a refresh token for a new access token.
func (c *Client) refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", errors.New("withings token file has no refresh token")
	}
	tok, err := c.requestToken(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	})
	if err != nil {
		return "", fmt.Errorf("refresh withings token: %w", err)
	}
	return tok.AccessToken, nil
}

// authorize runs the OAuth2 authorization-code flow with a localhost
// callback server and persists the resulting tokens.
func (c *Client) authorize(ctx context.Context) (string, error) {
	state := uuid.NewString()

	code, err := oauthcb.WaitForCode(ctx, "127.0.0.1:8724", "/cb", state, c.authorizeURL(state))
	if err != nil {
		return "", fmt.Errorf("withings authorization: %w", err)
	}

	tok, err := c.requestToken(ctx, url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {RedirectURI},
	})
	if err != nil {
		return "", fmt.Errorf("exchange withings code: %w", err)
	}
	return tok.AccessToken, nil
}

func (c *Client) authorizeURL(state string) string {
	q := url.Values{
		"response_type": {"code"},
		"client_id":     {c.clientID},
		"redirect_uri":  {RedirectURI},
		"scope":         {scopeMetrics},
		"state":         {state},
	}
	return c.authBase + "?" + q.Encode()
}

// requestToken performs a token grant. Withings multiplexes grants through a
// single endpoint using an action form field and wraps the OAuth payload in
// a status envelope, so this is a raw form POST rather than x/oauth2.
func (c *Client) requestToken(ctx context.Context, form url.Values) (*Tokens, error) {
	form.Set("action", "requesttoken")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token endpoint: %s: %s", resp.Status, string(b))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tr.Status != 0 {
		return nil, fmt.Errorf("token endpoint returned status %d: %s", tr.Status, tr.Error)
	}

	tok := &Tokens{
		AccessToken:  tr.Body.AccessToken,
		RefreshToken: tr.Body.RefreshToken,
		ExpiresAt:    time.Now().Unix() + tr.Body.ExpiresIn,
		Scope:        tr.Body.Scope,
		TokenType:    tr.Body.TokenType,
	}
	if err := c.SaveTokens(tok); err != nil {
		return nil, fmt.Errorf("save withings tokens: %w", err)
	}
	return tok, nil
}
