package ergast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// apiKeyHeader carries the optional API key on upstream requests.
const apiKeyHeader = "X-API-Key"

// Client fetches season data from the Jolpica (Ergast) API.
type Client struct {
	baseURL string
	apiKey  string
	http    *RateLimitedClient
	logger  *logrus.Logger
}

// NewClient creates an API client. The API key is optional; the public
// endpoint works without one.
func NewClient(baseURL string, apiKey string, httpClient *RateLimitedClient, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
		logger:  logger,
	}
}

// DriverStandings fetches the drivers' championship for a season.
func (c *Client) DriverStandings(ctx context.Context, season int) (*Response, error) {
	url := fmt.Sprintf("%s/%d/driverStandings.json", c.baseURL, season)
	return c.get(ctx, "driver standings", url)
}

// ConstructorStandings fetches the constructors' championship for a season.
func (c *Client) ConstructorStandings(ctx context.Context, season int) (*Response, error) {
	url := fmt.Sprintf("%s/%d/constructorStandings.json", c.baseURL, season)
	return c.get(ctx, "constructor standings", url)
}

// SeasonResults fetches every race of a season with classified results.
// The limit covers a full modern season in one page.
func (c *Client) SeasonResults(ctx context.Context, season int) (*Response, error) {
	url := fmt.Sprintf("%s/%d/results.json?limit=1000", c.baseURL, season)
	return c.get(ctx, "season results", url)
}

// SeasonRaces fetches the race calendar of a season without results.
func (c *Client) SeasonRaces(ctx context.Context, season int) (*Response, error) {
	url := fmt.Sprintf("%s/%d.json", c.baseURL, season)
	return c.get(ctx, "season races", url)
}

func (c *Client) get(ctx context.Context, op string, url string) (*Response, error) {
	c.logger.WithFields(logrus.Fields{"op": op, "url": url}).Debug("Fetching from Ergast API")

	var header http.Header
	if c.apiKey != "" {
		header = http.Header{}
		header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Get(ctx, url, header)
	if err != nil {
		return nil, &APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode}
	}

	payload := &Response{}
	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return nil, &APIError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	return payload, nil
}
