package withings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Sentinel errors for measurement retrieval.
var (
	ErrNoMeasureGroups = errors.New("no measurement groups in the requested period")
	ErrNoMeasures      = errors.New("measurement group contains no measures")
)

// GetMeasures fetches weight measure groups recorded after lastUpdate.
func (c *Client) GetMeasures(ctx context.Context, token string, lastUpdate int64) (*MeasureResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/measure", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("action", "getmeas")
	q.Set("meastype", strconv.Itoa(MeasTypeWeight))
	q.Set("category", strconv.Itoa(CategoryMeasured))
	q.Set("lastupdate", strconv.FormatInt(lastUpdate, 10))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GET /measure: %s: %s", resp.Status, string(b))
	}

	var mr MeasureResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode measure response: %w", err)
	}
	if mr.Status != 0 {
		return nil, fmt.Errorf("measure endpoint returned status %d: %s", mr.Status, mr.Error)
	}
	return &mr, nil
}

// WeightReading is a single weight measurement with the time it was taken.
type WeightReading struct {
	Measure Measure
	TakenAt time.Time
}

// LatestWeight returns the most recent weight measured since lastUpdate.
func (c *Client) LatestWeight(ctx context.Context, token string, lastUpdate int64) (*WeightReading, error) {
	mr, err := c.GetMeasures(ctx, token, lastUpdate)
	if err != nil {
		return nil, err
	}

	groups := mr.Body.MeasureGroups
	if len(groups) == 0 {
		return nil, ErrNoMeasureGroups
	}
	if len(groups[0].Measures) == 0 {
		return nil, ErrNoMeasures
	}
	return &WeightReading{
		Measure: groups[0].Measures[0],
		TakenAt: time.Unix(groups[0].Date, 0),
	}, nil
}

// DayOffsetUnix returns the unix timestamp for now minus days. One means the
// current day, two the day prior, and so on.
func DayOffsetUnix(days int) int64 {
	return time.Now().AddDate(0, 0, -days).Unix()
}
