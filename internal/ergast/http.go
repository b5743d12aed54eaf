package ergast

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HTTPClientConfig holds configuration for the upstream HTTP client
type HTTPClientConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RateLimit    float64 // requests per second
}

// DefaultHTTPClientConfig returns recommended defaults. Retries are
// off by default: a failed fetch is surfaced to the caller, which
// falls back to the cached snapshot instead of hammering the API.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:      30 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		RateLimit:    4.0,
	}
}

// RateLimitedClient wraps retryablehttp.Client with rate limiting.
// The public Jolpica API throttles aggressively, so every request
// waits on the limiter before going out.
type RateLimitedClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
}

// NewRateLimitedClient creates a new rate-limited HTTP client
func NewRateLimitedClient(cfg HTTPClientConfig, logger *logrus.Logger) *RateLimitedClient {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	retryClient.Logger = logger

	return &RateLimitedClient{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

// Get executes a rate-limited GET request with the given headers.
func (c *RateLimitedClient) Get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	return c.client.Do(req)
}

// Close closes any resources held by the client
func (c *RateLimitedClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			// Retry on network errors
			return true, err
		}

		// Retry on rate limit (429) and server errors
		if resp.StatusCode == 429 || resp.StatusCode == 500 || resp.StatusCode == 502 || resp.StatusCode == 503 || resp.StatusCode == 504 {
			return true, nil
		}

		return false, nil
	}
}
