// Package worker runs analytics computations off the caller's thread behind
// a small message protocol: one ANALYZE request in, exactly one success or
// error response out, with a PING/PONG pair for liveness checks. There are
// no partial results and no cancellation; a computation runs to completion
// or fails atomically.
package worker

import "github.com/walletscope/walletscope-go/pkg/analytics"

// Request types.
const (
	TypeAnalyze = "ANALYZE"
	TypePing    = "PING"
	TypePong    = "PONG"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request is one unit of work.
type Request struct {
	Type        string                                    `json:"type"`
	Trades      []analytics.Trade                         `json:"trades,omitempty"`
	Resolutions map[string]analytics.MarketResolutionInfo `json:"resolutions,omitempty"`
}

// Result carries the full analysis plus derived badges.
type Result struct {
	analytics.TradeAnalysis
	Badges []analytics.Badge `json:"badges"`
}

// Response is the single reply to a Request.
type Response struct {
	Type    string  `json:"type,omitempty"`
	Status  string  `json:"status,omitempty"`
	Result  *Result `json:"result,omitempty"`
	Message string  `json:"message,omitempty"`
}
