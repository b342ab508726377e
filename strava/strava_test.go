package strava

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/qgriffith/fit-connect/cache"
)

func newTestClient(t *testing.T, srvURL string, opts ...Option) *Client {
	t.Helper()
	tokenFile := filepath.Join(t.TempDir(), "config.json")
	opts = append([]Option{WithBaseURL(srvURL), WithTokenURL(srvURL + "/oauth/token")}, opts...)
	c, err := NewClient("cid", "csecret", tokenFile, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "secret", "config.json")
	assert.Error(t, err)
}

func TestGetAthlete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athlete", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id": 42, "username": "qg", "firstname": "Q", "weight": 80.5}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	a, err := c.GetAthlete(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(42), a.ID)
	assert.Equal(t, "qg", a.Username)
	assert.InDelta(t, 80.5, a.Weight, 0.001)
}

func TestGetAthleteStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athletes/42/stats", r.URL.Path)
		fmt.Fprint(w, `{
			"biggest_ride_distance": 120000.5,
			"ytd_run_totals": {"count": 12, "distance": 85000, "moving_time": 30000}
		}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	s, err := c.GetAthleteStats(context.Background(), "tok", 42)
	require.NoError(t, err)
	assert.InDelta(t, 120000.5, s.BiggestRideDistance, 0.001)
	assert.Equal(t, 12, s.YTDRunTotals.Count)
}

func TestUpdateWeight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/athlete", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "80.5", r.Form.Get("weight"))
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	status, err := c.UpdateWeight(context.Background(), "tok", 80.5)
	require.NoError(t, err)
	assert.Equal(t, "200 OK", status)
}

func TestUpdateWeightAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Authorization Error"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	status, err := c.UpdateWeight(context.Background(), "bad", 80.5)
	require.Error(t, err)
	assert.Equal(t, "401 Unauthorized", status)
}

func TestEnsureTokenRefreshesAndPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "new-access", "refresh_token": "new-refresh",
			"token_type": "Bearer", "expires_in": 21600}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, c.SaveToken(&oauth2.Token{
		AccessToken:  "expired",
		RefreshToken: "old-refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	token, err := c.EnsureToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-access", token)

	saved, err := c.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "new-refresh", saved.RefreshToken)
}

func TestEnsureTokenKeepsValidToken(t *testing.T) {
	c := newTestClient(t, "http://unused")
	require.NoError(t, c.SaveToken(&oauth2.Token{
		AccessToken:  "still-good",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}))

	token, err := c.EnsureToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "still-good", token)
}

func TestEnsureTokenRejectsFileWithoutRefreshToken(t *testing.T) {
	c := newTestClient(t, "http://unused")
	require.NoError(t, c.SaveToken(&oauth2.Token{AccessToken: "only-access"}))

	_, err := c.EnsureToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh token")
}

func TestAPIGETUsesCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("ETag", `"v1"`)
		fmt.Fprint(w, `{"id": 42}`)
	}))
	defer srv.Close()

	fc, err := cache.NewFileCacheAt(t.TempDir())
	require.NoError(t, err)

	c := newTestClient(t, srv.URL, WithCache(fc, time.Hour))

	for i := 0; i < 3; i++ {
		a, err := c.GetAthlete(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, int64(42), a.ID)
	}
	assert.Equal(t, int64(1), hits.Load(), "fresh cache entries must not hit the API")
}

func TestAPIGETRevalidatesWithETag(t *testing.T) {
	var sawIfNoneMatch atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			sawIfNoneMatch.Store(true)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		fmt.Fprint(w, `{"id": 42}`)
	}))
	defer srv.Close()

	fc, err := cache.NewFileCacheAt(t.TempDir())
	require.NoError(t, err)

	// A tiny TTL makes every cached read stale so each fetch revalidates.
	c := newTestClient(t, srv.URL, WithCache(fc, time.Nanosecond))

	for i := 0; i < 2; i++ {
		a, err := c.GetAthlete(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, int64(42), a.ID)
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, sawIfNoneMatch.Load(), "second fetch should revalidate with If-None-Match")
}

func TestTokenFileShape(t *testing.T) {
	c := newTestClient(t, "http://unused")
	require.NoError(t, c.SaveToken(&oauth2.Token{
		AccessToken:  "a",
		RefreshToken: "r",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(6 * time.Hour),
	}))

	tok, err := c.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "r", tok.RefreshToken)
	assert.True(t, tok.Valid())
}
