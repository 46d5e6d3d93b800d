// Package weather fetches the park weather/crowd snapshot the
// recommendation engine scores against. The upstream feed is best
// effort: fetches have a bounded timeout and any failure falls back to
// the last good snapshot, or a static default, so recommendation
// generation never fails on a slow upstream.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Condition buckets the forecast the way the scoring rules consume it
type Condition string

// Weather conditions
const (
	ConditionSunny  Condition = "sunny"
	ConditionCloudy Condition = "cloudy"
	ConditionRainy  Condition = "rainy"
)

// CrowdLevel buckets park crowding
type CrowdLevel string

// Crowd levels
const (
	CrowdLow      CrowdLevel = "low"
	CrowdModerate CrowdLevel = "moderate"
	CrowdHigh     CrowdLevel = "high"
)

// Snapshot is the weather and crowd state at one moment
type Snapshot struct {
	Condition    Condition  `json:"condition"`
	TemperatureC float64    `json:"temperatureC"`
	CrowdLevel   CrowdLevel `json:"crowdLevel"`
	FetchedAt    time.Time  `json:"fetchedAt"`
}

// IsRainy reports rain
func (s Snapshot) IsRainy() bool { return s.Condition == ConditionRainy }

// IsHot reports heat above the comfort threshold
func (s Snapshot) IsHot() bool { return s.TemperatureC > 32 }

// defaultSnapshot is the static fallback when nothing better is known
var defaultSnapshot = Snapshot{
	Condition:    ConditionSunny,
	TemperatureC: 24,
	CrowdLevel:   CrowdModerate,
}

// staleness bound for reusing the last good snapshot
const snapshotTTL = 30 * time.Minute

// Provider supplies the current snapshot; implementations must not fail
type Provider interface {
	Current(ctx context.Context) Snapshot
}

// Client fetches snapshots from the park-data feed
type Client struct {
	endpoint   string
	httpClient *http.Client

	mu       sync.Mutex
	lastGood *Snapshot
}

// NewClient creates a weather client with a bounded request timeout
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Current returns the freshest snapshot available, degrading to the
// last good fetch and finally to the static default
func (c *Client) Current(ctx context.Context) Snapshot {
	snapshot, err := c.fetch(ctx)
	if err == nil {
		c.mu.Lock()
		c.lastGood = &snapshot
		c.mu.Unlock()
		return snapshot
	}

	log.Warn().Err(err).Msg("Weather fetch failed, using fallback")

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastGood != nil && time.Since(c.lastGood.FetchedAt) < snapshotTTL {
		return *c.lastGood
	}
	return defaultSnapshot
}

func (c *Client) fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("weather fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Snapshot{}, fmt.Errorf("weather feed returned %d: %s", resp.StatusCode, string(body))
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("decode weather payload: %w", err)
	}

	snapshot.FetchedAt = time.Now()
	return snapshot, nil
}

// Static is a fixed-snapshot provider for tests and offline runs
type Static struct {
	Snapshot Snapshot
}

// Current returns the fixed snapshot
func (s Static) Current(_ context.Context) Snapshot {
	return s.Snapshot
}
