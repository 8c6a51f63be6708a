// Package gamma provides the client for the Polymarket Gamma API, the
// metadata service the engine uses to learn how markets ended: whether a
// market is closed, which outcome won, or whether resolution was voided.
package gamma

import (
	"context"

	"github.com/walletscope/walletscope-go/pkg/transport"
)

// BaseURL is the production Gamma endpoint.
const BaseURL = "https://gamma-api.polymarket.com"

// Client defines the Gamma surface the engine consumes. It is read-only.
type Client interface {
	// Markets retrieves market metadata matching the request.
	Markets(ctx context.Context, req *MarketsRequest) ([]Market, error)
	// MarketsByConditionIDs retrieves metadata for the given markets,
	// chunking the id list to stay within URL limits.
	MarketsByConditionIDs(ctx context.Context, conditionIDs []string) ([]Market, error)
}

// NewClient creates a Gamma client over the given transport.
func NewClient(t *transport.Client) Client {
	return &clientImpl{transport: t}
}
