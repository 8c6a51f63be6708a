package data

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/walletscope/walletscope-go/pkg/analytics"
)

// Trade is the Data-API wire shape of one fill.
type Trade struct {
	ID              string  `json:"id"`
	ProxyWallet     string  `json:"proxyWallet"`
	Side            string  `json:"side"`
	Asset           string  `json:"asset"`
	ConditionID     string  `json:"conditionId"`
	Size            float64 `json:"size"`
	Price           float64 `json:"price"`
	Timestamp       int64   `json:"timestamp"` // unix seconds
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	Outcome         string  `json:"outcome"`
	OutcomeIndex    int     `json:"outcomeIndex"`
	Name            string  `json:"name"`
	Pseudonym       string  `json:"pseudonym"`
	TransactionHash string  `json:"transactionHash"`
	BlockNumber     int64   `json:"blockNumber"`
}

// ToAnalytics converts the wire record into the exact-decimal fill the
// analytics core consumes. Validation happens downstream at the sanitize
// boundary, not here.
func (t Trade) ToAnalytics() analytics.Trade {
	return analytics.Trade{
		ID:              t.ID,
		ConditionID:     t.ConditionID,
		Title:           t.Title,
		Outcome:         t.Outcome,
		Side:            t.Side,
		Size:            decimal.NewFromFloat(t.Size),
		Price:           decimal.NewFromFloat(t.Price),
		Timestamp:       time.Unix(t.Timestamp, 0).UTC(),
		TransactionHash: t.TransactionHash,
		BlockNumber:     t.BlockNumber,
	}
}

// ToAnalyticsTrades converts a page of wire fills.
func ToAnalyticsTrades(trades []Trade) []analytics.Trade {
	out := make([]analytics.Trade, 0, len(trades))
	for _, t := range trades {
		out = append(out, t.ToAnalytics())
	}
	return out
}

// Redemption states reported for live positions.
const (
	PositionActive   = "ACTIVE"
	PositionResolved = "RESOLVED"
	PositionRedeemed = "REDEEMED"
)

// Position is a live holding as the Data-API reports it. It is an external
// collaborator's output and is never derived from the core's trade replay.
type Position struct {
	ProxyWallet      string  `json:"proxyWallet"`
	Asset            string  `json:"asset"`
	ConditionID      string  `json:"conditionId"`
	Size             float64 `json:"size"`
	AvgPrice         float64 `json:"avgPrice"`
	InitialValue     float64 `json:"initialValue"`
	CurrentValue     float64 `json:"currentValue"`
	CashPnL          float64 `json:"cashPnl"`
	PercentPnL       float64 `json:"percentPnl"`
	CurPrice         float64 `json:"curPrice"`
	Redeemable       bool    `json:"redeemable"`
	Title            string  `json:"title"`
	Slug             string  `json:"slug"`
	Outcome          string  `json:"outcome"`
	OutcomeIndex     int     `json:"outcomeIndex"`
	RedemptionStatus string  `json:"redemptionStatus"`
}

// PositionKey returns the (conditionId, outcome) key the analytics core
// groups by.
func (p Position) PositionKey() string {
	return p.ConditionID + "-" + p.Outcome
}

// TradesRequest filters the /trades endpoint.
type TradesRequest struct {
	User      string
	Market    string
	Limit     int
	Offset    int
	TakerOnly bool
}

// PositionsRequest filters the /positions endpoint.
type PositionsRequest struct {
	User   string
	Market string
	Limit  int
	Offset int
}

// ValueRequest queries the total portfolio value of one wallet.
type ValueRequest struct {
	User string
}

// ValueResponse is the /value payload.
type ValueResponse struct {
	User  string `json:"user"`
	Value string `json:"value"`
}

// HealthResponse is the service liveness payload.
type HealthResponse struct {
	Status string `json:"status"`
}
