// Package transport is the shared HTTP layer for the Polymarket read APIs.
// It owns the retry contract every collaborator relies on: exponential
// backoff with a capped ceiling, a small bounded retry count, HTTP 429 always
// retried, other non-2xx statuses retried up to the cap and then propagated,
// and per-request timeouts treated as retryable failures.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Doer abstracts *http.Client so tests can inject canned responses.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RetryConfig bounds the retry loop.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig mirrors the upstream rate-limit guidance: a handful of
// attempts, 1s initial backoff, 30s ceiling.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 4,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

func (c RetryConfig) normalize() RetryConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 4
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	return c
}

// Client issues JSON GET requests against one base URL.
type Client struct {
	doer      Doer
	baseURL   string
	userAgent string
	retry     RetryConfig
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewClient creates a transport bound to baseURL. A nil doer falls back to a
// default http.Client with a 30s timeout.
func NewClient(doer Doer, baseURL string) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		doer:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		retry:   DefaultRetryConfig(),
		sleep:   sleepCtx,
	}
}

// SetUserAgent sets the User-Agent header sent with every request.
func (c *Client) SetUserAgent(ua string) { c.userAgent = ua }

// SetRetryConfig overrides the retry bounds.
func (c *Client) SetRetryConfig(cfg RetryConfig) { c.retry = cfg.normalize() }

// GetJSON fetches path with the given query and decodes the response body
// into out. Retryable failures (429, 5xx, timeouts, transport errors) are
// retried with exponential backoff; a 429 never consumes the bounded retry
// budget, only the absolute attempt ceiling.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	cfg := c.retry.normalize()
	// Absolute ceiling so an endless stream of 429s still terminates.
	maxAttempts := cfg.MaxRetries * 3
	if maxAttempts < cfg.MaxRetries+1 {
		maxAttempts = cfg.MaxRetries + 1
	}

	var lastErr error
	failures := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, backoffDelay(cfg, attempt)); err != nil {
				return err
			}
		}

		body, err := c.getOnce(ctx, u)
		if err == nil {
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err

		if errors.Is(err, ErrRateLimitExceeded) {
			continue
		}
		if !retryable(err) {
			return err
		}
		failures++
		if failures > cfg.MaxRetries {
			break
		}
	}
	return fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, truncate(string(body), 256))
	}
	return body, nil
}

// retryable reports whether an attempt failure is worth another try.
// Decode errors and 4xx responses other than 429 are not.
func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrRateLimitExceeded), errors.Is(err, ErrInternalServerError):
		return true
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrNotFound), errors.Is(err, ErrUnauthorized):
		return false
	}
	// Network faults and client-side timeouts.
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "request failed")
}

func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	d := cfg.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= cfg.MaxDelay {
			return cfg.MaxDelay
		}
	}
	if d > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
