package walletscope

import (
	"time"

	"github.com/walletscope/walletscope-go/pkg/data"
	"github.com/walletscope/walletscope-go/pkg/gamma"
	"github.com/walletscope/walletscope-go/pkg/transport"
)

// Option customizes the root client during construction.
type Option func(*Client)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Client) { c.Config = cfg }
}

// WithBaseURLs overrides the service endpoints.
func WithBaseURLs(urls BaseURLs) Option {
	return func(c *Client) { c.Config.BaseURLs = urls }
}

// WithHTTPClient overrides the HTTP client shared by all transports.
func WithHTTPClient(doer transport.Doer) Option {
	return func(c *Client) { c.Config.HTTPClient = doer }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.Config.UserAgent = ua }
}

// WithTimeout overrides the default HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.Config.Timeout = d }
}

// WithRetryConfig overrides the retry policy shared by all transports.
func WithRetryConfig(cfg transport.RetryConfig) Option {
	return func(c *Client) { c.Config.Retry = cfg }
}

// WithData injects a pre-built Data-API client.
func WithData(client data.Client) Option {
	return func(c *Client) { c.Data = client }
}

// WithGamma injects a pre-built Gamma client.
func WithGamma(client gamma.Client) Option {
	return func(c *Client) { c.Gamma = client }
}
