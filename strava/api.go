package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/qgriffith/fit-connect/cache"
)

// apiGET performs a GET against the Strava API, consulting the response
// cache (TTL first, then If-None-Match revalidation) when one is attached.
func (c *Client) apiGET(ctx context.Context, token, path string, params map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if params != nil {
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	var cacheKey string
	if c.cache != nil {
		cacheKey = c.cache.KeyFor(path, params)

		if entry, fresh := c.cache.Read(cacheKey, c.cacheTTL); fresh && len(entry.Body) > 0 {
			return json.Unmarshal(entry.Body, out)
		}
		if etag := c.cache.GetETag(cacheKey); etag != "" {
			req.Header.Set("If-None-Match", etag)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && c.cache != nil {
		if entry, _ := c.cache.Read(cacheKey, 0); entry != nil {
			return json.Unmarshal(entry.Body, out)
		}
		return fmt.Errorf("GET %s: 304 but no cached body", path)
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %s: %s", path, resp.Status, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Write(cacheKey, &cache.Entry{
			ETag: resp.Header.Get("ETag"),
			Body: json.RawMessage(body),
		})
	}
	return json.Unmarshal(body, out)
}

// GetAthlete fetches the authenticated athlete's profile.
func (c *Client) GetAthlete(ctx context.Context, token string) (*Athlete, error) {
	var a Athlete
	if err := c.apiGET(ctx, token, "/athlete", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAthleteStats fetches activity statistics for the given athlete.
func (c *Client) GetAthleteStats(ctx context.Context, token string, athleteID int64) (*AthleteStats, error) {
	var s AthleteStats
	path := fmt.Sprintf("/athletes/%d/stats", athleteID)
	if err := c.apiGET(ctx, token, path, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateWeight sets the athlete's weight in kilograms and returns the HTTP
// status text of the update call.
func (c *Client) UpdateWeight(ctx context.Context, token string, kg float64) (string, error) {
	form := url.Values{"weight": {strconv.FormatFloat(kg, 'f', -1, 64)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.apiBase+"/athlete", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return resp.Status, fmt.Errorf("PUT /athlete: %s: %s", resp.Status, string(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Status, nil
}

// DefaultCacheTTL is how long cached athlete reads stay fresh.
const DefaultCacheTTL = time.Hour
