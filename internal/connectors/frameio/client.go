package frameio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/reelnotes/reelnotes/internal/logger"
)

// sleepFunc suspends for d or until ctx is cancelled. Injectable so
// tests observe backoff waits instead of paying them in wall-clock time.
type sleepFunc func(ctx context.Context, d time.Duration) error

func realSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Client issues single rate-limited requests against the review API.
// Every request pays the fixed inter-request delay; 429 responses are
// retried with exponential backoff and transient failures with a fixed
// delay, both bounded by the configured retry budget.
type Client struct {
	cfg      Config
	http     *http.Client
	throttle *Throttle
	sleep    sleepFunc
}

// NewClient creates a client authenticated with a static bearer token.
// The token is opaque and pre-validated by the caller.
func NewClient(ctx context.Context, token string, cfg Config) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		cfg:      cfg,
		http:     tc,
		throttle: NewThrottle(cfg.RequestDelay),
		sleep:    realSleep,
	}
}

// NewClientWithHTTPClient creates a client with a custom http.Client.
// Used by tests with httptest servers.
func NewClientWithHTTPClient(httpClient *http.Client, cfg Config) *Client {
	return &Client{
		cfg:      cfg,
		http:     httpClient,
		throttle: NewThrottle(cfg.RequestDelay),
		sleep:    realSleep,
	}
}

// SetSleep replaces the sleep function. Test hook.
func (c *Client) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	c.sleep = fn
}

// Get issues a GET request against an API path (e.g. "/v2/teams").
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path)
}

// Do issues a single request under the throttle and retry policy and
// returns the raw response body.
func (c *Client) Do(ctx context.Context, method, path string) (json.RawMessage, error) {
	url := c.cfg.BaseURL + path

	var lastWait time.Duration
	for attempt := 0; ; attempt++ {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, err
		}

		body, status, err := c.attempt(ctx, method, url)
		switch {
		case err == nil && status < 400:
			return body, nil

		case err == nil && status == http.StatusTooManyRequests:
			if attempt >= c.cfg.MaxRetries {
				return nil, &RateLimitError{Attempts: attempt, LastWait: lastWait}
			}
			lastWait = c.backoff(attempt)
			logger.Warn("Rate limited on %s, backing off %s (attempt %d)", path, lastWait, attempt+1)
			if err := c.sleep(ctx, lastWait); err != nil {
				return nil, err
			}

		case err == nil && status >= 500:
			if attempt >= c.cfg.MaxRetries {
				return nil, &APIError{StatusCode: status, URL: url, Body: truncate(body)}
			}
			logger.Warn("Server error %d on %s, retrying (attempt %d)", status, path, attempt+1)
			if err := c.sleep(ctx, c.cfg.RetryDelay); err != nil {
				return nil, err
			}

		case err == nil:
			// Remaining 4xx: not retryable, propagate immediately.
			return nil, &APIError{StatusCode: status, URL: url, Body: truncate(body)}

		default:
			// Network-level failure: transient, fixed-delay retry.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt >= c.cfg.MaxRetries {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
			logger.Warn("Request %s failed (%v), retrying (attempt %d)", path, err, attempt+1)
			if err := c.sleep(ctx, c.cfg.RetryDelay); err != nil {
				return nil, err
			}
		}
	}
}

// attempt performs one HTTP round trip.
func (c *Client) attempt(ctx context.Context, method, url string) (json.RawMessage, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// backoff computes the rate-limit wait for an attempt:
// RetryDelay * RetryMultiplier^attempt.
func (c *Client) backoff(attempt int) time.Duration {
	mult := math.Pow(c.cfg.RetryMultiplier, float64(attempt))
	return time.Duration(float64(c.cfg.RetryDelay) * mult)
}

func truncate(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
