// Package analytics derives trader-performance statistics from raw
// Polymarket fill histories: realized/resolution P&L, win rate, sector
// specialization, achievement badges, and simulated copy-trading ("ghost")
// portfolios. Every function in this package is pure; all money and share
// arithmetic is done with shopspring decimals so cent-level drift cannot
// compound across thousands of fills.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade side values accepted by the validation boundary.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Trade is a single immutable fill record for one wallet.
type Trade struct {
	ID              string          `json:"id"`
	ConditionID     string          `json:"conditionId"`
	Title           string          `json:"title"`
	Outcome         string          `json:"outcome"`
	Side            string          `json:"side"`
	Size            decimal.Decimal `json:"size"`
	Price           decimal.Decimal `json:"price"`
	Timestamp       time.Time       `json:"timestamp"`
	TransactionHash string          `json:"transactionHash"`
	BlockNumber     int64           `json:"blockNumber"`
}

// Notional returns the USD value of the fill (size × price).
func (t Trade) Notional() decimal.Decimal {
	return t.Size.Mul(t.Price)
}

// PositionKey returns the grouping key for the fill. Positions are always
// tracked per (conditionId, outcome) pair, never per market alone, because
// multi-outcome markets hold independent positions per outcome.
func (t Trade) PositionKey() string {
	return t.ConditionID + "-" + t.Outcome
}

// ResolutionStatus describes how a market ended.
type ResolutionStatus string

const (
	ResolutionResolved   ResolutionStatus = "RESOLVED"
	ResolutionInvalid    ResolutionStatus = "INVALID"
	ResolutionUnresolved ResolutionStatus = "UNRESOLVED"
)

// MarketResolutionInfo is an externally supplied fact about one market.
// When it is absent for a held position, the held shares are excluded from
// win/loss counting rather than guessed at.
type MarketResolutionInfo struct {
	Closed         bool             `json:"isClosed"`
	Status         ResolutionStatus `json:"resolutionStatus"`
	WinningOutcome string           `json:"winningOutcome"`
}

// SectorStats is the per-sector slice of an analysis.
type SectorStats struct {
	Trades  int             `json:"trades"`
	WinRate decimal.Decimal `json:"winRate"`
}

// TradeAnalysis is the aggregate result of replaying a wallet's fills.
type TradeAnalysis struct {
	WinRate      decimal.Decimal `json:"winRate"`
	ProfitFactor decimal.Decimal `json:"profitFactor"`
	TotalVolume  decimal.Decimal `json:"totalVolume"`
	TradeCount   int             `json:"tradeCount"`

	SectorBreakdown map[Sector]SectorStats `json:"sectorBreakdown"`
	Specialty       Sector                 `json:"specialty"`

	// RecentPnL is the all-time net of gross profit minus gross loss. It is
	// intentionally not windowed to the 7-day span of VolumeHistory; see
	// DESIGN.md for the open question behind the name.
	RecentPnL decimal.Decimal `json:"recentPnL"`

	// VolumeHistory holds 7 daily notional buckets, oldest first.
	VolumeHistory []decimal.Decimal `json:"volumeHistory"`
}

// Badge is a categorical achievement tag derived from a TradeAnalysis.
type Badge string

const (
	BadgeWhale      Badge = "Whale"
	BadgeSniper     Badge = "Sniper"
	BadgeHighVolume Badge = "High Volume"
	BadgeHotStreak  Badge = "Hot Streak"
	BadgeSpecialist Badge = "Specialist"
)

// Wallet is a tracked address together with its ghost-mode state. The ghost
// start timestamp is fixed at the moment ghost mode is enabled and retained
// for history after it is disabled.
type Wallet struct {
	Address        string     `json:"address"`
	GhostMode      bool       `json:"ghostMode"`
	GhostStartedAt *time.Time `json:"ghostStartedAt,omitempty"`
}

// GhostPosition is one simulated holding of a ghost portfolio.
type GhostPosition struct {
	ConditionID   string          `json:"conditionId"`
	Title         string          `json:"title"`
	Outcome       string          `json:"outcome"`
	Shares        decimal.Decimal `json:"shares"`
	AvgEntryPrice decimal.Decimal `json:"avgEntryPrice"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	RealizedPnL   decimal.Decimal `json:"realizedPnL"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnL"`
}

// GhostPortfolioSummary is the simulated "what if I copied this trader from
// the moment I enabled ghost mode" ledger.
type GhostPortfolioSummary struct {
	Positions     []GhostPosition `json:"positions"`
	TotalInvested decimal.Decimal `json:"totalInvested"`
	TotalReturns  decimal.Decimal `json:"totalReturns"`
	RealizedPnL   decimal.Decimal `json:"realizedPnL"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnL"`
	TotalPnL      decimal.Decimal `json:"totalPnL"`
	TradeCount    int             `json:"tradeCount"`
}

// TraderStats is the persisted cache entry for one wallet: the full analysis
// plus badges, stamped with the computation time. Staleness is the caller's
// concern (see store.StatsMaxAge).
type TraderStats struct {
	Wallet      string        `json:"wallet"`
	LastUpdated int64         `json:"lastUpdated"` // epoch millis
	Analysis    TradeAnalysis `json:"analysis"`
	Badges      []Badge       `json:"badges"`
}
