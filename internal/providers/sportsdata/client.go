package sportsdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Record is one loosely typed row from a feed. Field names vary between
// feed versions, so rows stay untyped until normalization.
type Record = map[string]interface{}

// ErrRateLimited is returned when the outbound token bucket is empty
var ErrRateLimited = errors.New("sportsdata: outbound rate limit reached")

// APIError is a non-2xx response from the provider
type APIError struct {
	Status int
	URL    string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("SportsDataIO API error: status=%d, body=%s", e.Status, e.Body)
}

// Limiter gates outbound calls
type Limiter interface {
	Allow(ctx context.Context) (bool, error)
}

// Options configures a Client
type Options struct {
	ScoresBaseURL string
	StatsBaseURL  string
	OddsBaseURL   string
	Auth          AuthStrategy
	Limiter       Limiter
	Timeout       time.Duration
	HTTPClient    *http.Client
}

// Client handles SportsDataIO CBB requests
type Client struct {
	httpClient *http.Client
	auth       AuthStrategy
	limiter    Limiter
	scoresBase string
	statsBase  string
	oddsBase   string
	userAgent  string
}

// New creates a new SportsDataIO client
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	auth := opts.Auth
	if auth == nil {
		auth = NoAuth{}
	}

	return &Client{
		httpClient: httpClient,
		auth:       auth,
		limiter:    opts.Limiter,
		scoresBase: strings.TrimRight(opts.ScoresBaseURL, "/"),
		statsBase:  strings.TrimRight(opts.StatsBaseURL, "/"),
		oddsBase:   strings.TrimRight(opts.OddsBaseURL, "/"),
		userAgent:  "Mozilla/5.0 (compatible; CourtsideBot/1.0)",
	}
}

// Teams fetches every CBB team
func (c *Client) Teams(ctx context.Context) ([]Record, error) {
	var out []Record
	err := c.fetch(ctx, c.scoresBase+"/teams", &out)
	return out, err
}

// TeamSchedule fetches one team's games for a season
func (c *Client) TeamSchedule(ctx context.Context, season int, team string) ([]Record, error) {
	var out []Record
	err := c.fetch(ctx, fmt.Sprintf("%s/TeamSchedule/%d/%s", c.scoresBase, season, team), &out)
	return out, err
}

// Players fetches player profiles. An empty team fetches the whole league,
// which is needed to find former players.
func (c *Client) Players(ctx context.Context, team string) ([]Record, error) {
	url := c.scoresBase + "/Players"
	if team != "" {
		url = fmt.Sprintf("%s/Players/%s", c.scoresBase, team)
	}
	var out []Record
	err := c.fetch(ctx, url, &out)
	return out, err
}

// PlayerSeasonStatsByTeam fetches season aggregates for a team's players
func (c *Client) PlayerSeasonStatsByTeam(ctx context.Context, season int, team string) ([]Record, error) {
	var out []Record
	err := c.fetch(ctx, fmt.Sprintf("%s/PlayerSeasonStatsByTeam/%d/%s", c.statsBase, season, team), &out)
	return out, err
}

// TeamSeasonStats fetches season totals for every team
func (c *Client) TeamSeasonStats(ctx context.Context, season int) ([]Record, error) {
	var out []Record
	err := c.fetch(ctx, fmt.Sprintf("%s/TeamSeasonStats/%d", c.scoresBase, season), &out)
	return out, err
}

// ActiveSportsbooks fetches the odds providers the feed carries
func (c *Client) ActiveSportsbooks(ctx context.Context) ([]Record, error) {
	var out []Record
	err := c.fetch(ctx, c.oddsBase+"/ActiveSportsbooks", &out)
	return out, err
}

// AreAnyGamesInProgress reports whether any CBB game is live
func (c *Client) AreAnyGamesInProgress(ctx context.Context) (bool, error) {
	var live bool
	if err := c.fetch(ctx, c.scoresBase+"/AreAnyGamesInProgress", &live); err != nil {
		return false, err
	}
	return live, nil
}

// CurrentSeason returns the provider's current season year. The feed has
// answered with both a bare number and a season object.
func (c *Client) CurrentSeason(ctx context.Context) (int, error) {
	var raw json.RawMessage
	if err := c.fetch(ctx, c.scoresBase+"/CurrentSeason", &raw); err != nil {
		return 0, err
	}

	var year int
	if err := json.Unmarshal(raw, &year); err == nil && year != 0 {
		return year, nil
	}

	var obj struct {
		Season    int `json:"Season"`
		StartYear int `json:"StartYear"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, fmt.Errorf("decoding current season: %w", err)
	}
	if obj.Season != 0 {
		return obj.Season, nil
	}
	if obj.StartYear != 0 {
		return obj.StartYear, nil
	}
	return 0, fmt.Errorf("decoding current season: no season in %s", string(raw))
}

// fetch makes an HTTP GET request and decodes the JSON body into out
func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	if c.limiter != nil {
		ok, err := c.limiter.Allow(ctx)
		if err != nil {
			return fmt.Errorf("checking rate limit: %w", err)
		}
		if !ok {
			return ErrRateLimited
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	c.auth.Apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{Status: resp.StatusCode, URL: url, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
