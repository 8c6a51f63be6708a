// Package data provides the client for the Polymarket Data API, the
// read-only service exposing per-wallet trade history, live positions, and
// portfolio value. It is the upstream source for everything the analytics
// core computes.
package data

import (
	"context"

	"github.com/walletscope/walletscope-go/pkg/transport"
)

// BaseURL is the production Data-API endpoint.
const BaseURL = "https://data-api.polymarket.com"

// Client defines the Data-API surface the engine consumes.
type Client interface {
	// Health returns the service liveness status.
	Health(ctx context.Context) (HealthResponse, error)

	// Trades returns one page of fills matching the request.
	Trades(ctx context.Context, req *TradesRequest) ([]Trade, error)
	// TradesAll pages through the full fill history for the request.
	TradesAll(ctx context.Context, req *TradesRequest) ([]Trade, error)
	// TradesForWallets fetches the full history for several wallets under
	// the shared rate-limit budget (small fixed concurrency, fixed delay
	// between batches).
	TradesForWallets(ctx context.Context, users []string) (map[string][]Trade, error)

	// Positions returns the live holdings for a wallet.
	Positions(ctx context.Context, req *PositionsRequest) ([]Position, error)

	// Value returns the total live portfolio value for a wallet.
	Value(ctx context.Context, req *ValueRequest) (ValueResponse, error)
}

// NewClient creates a Data-API client over the given transport.
func NewClient(t *transport.Client) Client {
	return &clientImpl{transport: t}
}
