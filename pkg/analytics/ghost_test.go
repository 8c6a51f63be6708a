package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func ghostWallet(start time.Time) Wallet {
	return Wallet{Address: "0x1111111111111111111111111111111111111111", GhostMode: true, GhostStartedAt: &start}
}

func TestBuildGhostPortfolioDisabled(t *testing.T) {
	trades := []Trade{fill(SideBuy, "0xabc", "YES", "Will it rain?", "10", "0.5", testNow)}

	got := BuildGhostPortfolio(Wallet{Address: "0x1"}, trades, nil)
	if got.TradeCount != 0 || len(got.Positions) != 0 || !got.TotalPnL.IsZero() {
		t.Fatalf("disabled ghost mode must be empty: %+v", got)
	}

	// Enabled flag without a start timestamp is equally empty.
	got = BuildGhostPortfolio(Wallet{Address: "0x1", GhostMode: true}, trades, nil)
	if got.TradeCount != 0 {
		t.Fatalf("missing start timestamp must be empty: %+v", got)
	}
}

func TestBuildGhostPortfolioFilterBoundary(t *testing.T) {
	start := testNow.Add(-time.Hour)
	atStart := fill(SideBuy, "0xabc", "YES", "Will it rain?", "10", "0.5", start)
	justBefore := fill(SideBuy, "0xabc", "YES", "Will it rain?", "10", "0.5", start.Add(-time.Millisecond))

	got := BuildGhostPortfolio(ghostWallet(start), []Trade{atStart, justBefore}, nil)
	if got.TradeCount != 1 {
		t.Fatalf("exactly the at-start fill should pass the filter, got %d", got.TradeCount)
	}
	if !got.TotalInvested.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("pre-tracking fill leaked into the ledger: invested %s", got.TotalInvested)
	}
}

func TestBuildGhostPortfolioAccounting(t *testing.T) {
	start := testNow.Add(-48 * time.Hour)
	trades := []Trade{
		fill(SideBuy, "0xabc", "YES", "Will it rain?", "10", "0.4", start.Add(time.Hour)),
		fill(SideSell, "0xabc", "YES", "Will it rain?", "4", "0.6", start.Add(2*time.Hour)),
	}
	prices := map[string]decimal.Decimal{
		"0xabc-YES": decimal.RequireFromString("0.7"),
	}

	got := BuildGhostPortfolio(ghostWallet(start), trades, prices)

	if got.TradeCount != 2 {
		t.Fatalf("trade count: got %d want 2", got.TradeCount)
	}
	if !got.TotalInvested.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("invested: got %s want 4", got.TotalInvested)
	}
	if !got.TotalReturns.Equal(decimal.RequireFromString("2.4")) {
		t.Fatalf("returns: got %s want 2.4", got.TotalReturns)
	}
	// Realized: (0.6 - 0.4) × 4 = 0.8.
	if !got.RealizedPnL.Equal(decimal.RequireFromString("0.8")) {
		t.Fatalf("realized: got %s want 0.8", got.RealizedPnL)
	}
	// Unrealized: 6 shares held, (0.7 - 0.4) × 6 = 1.8.
	if !got.UnrealizedPnL.Equal(decimal.RequireFromString("1.8")) {
		t.Fatalf("unrealized: got %s want 1.8", got.UnrealizedPnL)
	}
	if !got.TotalPnL.Equal(decimal.RequireFromString("2.6")) {
		t.Fatalf("total: got %s want 2.6", got.TotalPnL)
	}

	if len(got.Positions) != 1 {
		t.Fatalf("positions: got %d want 1", len(got.Positions))
	}
	pos := got.Positions[0]
	if !pos.Shares.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("shares: got %s want 6", pos.Shares)
	}
	if !pos.AvgEntryPrice.Equal(decimal.RequireFromString("0.4")) {
		t.Fatalf("entry: got %s want 0.4", pos.AvgEntryPrice)
	}
	if !pos.CurrentValue.Equal(decimal.RequireFromString("4.2")) {
		t.Fatalf("value: got %s want 4.2", pos.CurrentValue)
	}
}

func TestBuildGhostPortfolioMissingPriceFallsBack(t *testing.T) {
	start := testNow.Add(-time.Hour)
	trades := []Trade{fill(SideBuy, "0xabc", "YES", "Will it rain?", "10", "0.4", start)}

	got := BuildGhostPortfolio(ghostWallet(start), trades, nil)

	// No live price: mark at entry, so the unrealized swing is exactly zero.
	if !got.UnrealizedPnL.IsZero() {
		t.Fatalf("unrealized should be zero without a live price, got %s", got.UnrealizedPnL)
	}
	if !got.Positions[0].CurrentPrice.Equal(decimal.RequireFromString("0.4")) {
		t.Fatalf("current price should fall back to entry, got %s", got.Positions[0].CurrentPrice)
	}
}

func TestBuildGhostPortfolioClosedPositionStaysVisible(t *testing.T) {
	start := testNow.Add(-24 * time.Hour)
	trades := []Trade{
		fill(SideBuy, "0xabc", "YES", "Will it rain?", "10", "0.4", start.Add(time.Hour)),
		fill(SideSell, "0xabc", "YES", "Will it rain?", "10", "0.9", start.Add(2*time.Hour)),
	}

	got := BuildGhostPortfolio(ghostWallet(start), trades, nil)
	if len(got.Positions) != 1 {
		t.Fatalf("fully closed positions remain in history: got %d positions", len(got.Positions))
	}
	pos := got.Positions[0]
	if !pos.Shares.IsZero() {
		t.Fatalf("closed position shares: got %s want 0", pos.Shares)
	}
	if !pos.RealizedPnL.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("realized: got %s want 5", pos.RealizedPnL)
	}
}
