// Package walletscope aggregates the Polymarket read-API clients behind one
// shared configuration. The root client is the entry point for callers that
// want the Data and Gamma services without wiring transports by hand.
package walletscope

import (
	"net/http"

	"github.com/walletscope/walletscope-go/pkg/data"
	"github.com/walletscope/walletscope-go/pkg/gamma"
	"github.com/walletscope/walletscope-go/pkg/transport"
)

// Client aggregates service clients behind a shared configuration.
type Client struct {
	Config Config

	Data  data.Client
	Gamma gamma.Client
}

// NewClient creates a new root client with optional overrides.
func NewClient(opts ...Option) *Client {
	// 1. Initialize with default configuration
	c := &Client{Config: DefaultConfig()}

	// 2. Apply Options (Config overrides)
	for _, opt := range opts {
		opt(c)
	}

	// 3. Ensure a default HTTP client with timeout if none was provided.
	if c.Config.HTTPClient == nil && c.Config.Timeout > 0 {
		c.Config.HTTPClient = &http.Client{Timeout: c.Config.Timeout}
	}

	// 4. Initialize default transports and clients (if not overridden)
	if c.Data == nil {
		c.Data = data.NewClient(c.newTransport(c.Config.BaseURLs.Data))
	}
	if c.Gamma == nil {
		c.Gamma = gamma.NewClient(c.newTransport(c.Config.BaseURLs.Gamma))
	}

	return c
}

func (c *Client) newTransport(baseURL string) *transport.Client {
	t := transport.NewClient(c.Config.HTTPClient, baseURL)
	t.SetUserAgent(c.Config.UserAgent)
	t.SetRetryConfig(c.Config.Retry)
	return t
}
