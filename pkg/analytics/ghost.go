package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BuildGhostPortfolio replays the subset of a trader's fills at or after the
// wallet's ghost start timestamp through per-position accounting, producing
// the simulated copy-trading ledger. currentPrices maps position keys
// (conditionId-outcome) to live prices; positions without a live price fall
// back to their average entry price so an untracked price contributes zero
// unrealized swing. The inclusive timestamp filter is the core correctness
// guarantee: fills from before tracking began never leak into the simulation.
func BuildGhostPortfolio(wallet Wallet, trades []Trade, currentPrices map[string]decimal.Decimal) GhostPortfolioSummary {
	if !wallet.GhostMode || wallet.GhostStartedAt == nil {
		return emptyGhostSummary()
	}

	filtered := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if !t.Timestamp.Before(*wallet.GhostStartedAt) {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return emptyGhostSummary()
	}

	summary := emptyGhostSummary()
	summary.TradeCount = len(filtered)

	groups := GroupTrades(filtered)
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := groups[key]

		buyShares, buyValue := decimal.Zero, decimal.Zero
		sellShares, sellValue := decimal.Zero, decimal.Zero
		for _, t := range group {
			if t.Side == SideBuy {
				buyShares = buyShares.Add(t.Size)
				buyValue = buyValue.Add(t.Notional())
			} else {
				sellShares = sellShares.Add(t.Size)
				sellValue = sellValue.Add(t.Notional())
			}
		}

		avgEntryPrice := decimal.Zero
		if buyShares.GreaterThan(decimal.Zero) {
			avgEntryPrice = buyValue.Div(buyShares)
		}
		summary.TotalInvested = summary.TotalInvested.Add(buyValue)
		summary.TotalReturns = summary.TotalReturns.Add(sellValue)

		realized := decimal.Zero
		if buyShares.GreaterThan(decimal.Zero) && sellShares.GreaterThan(decimal.Zero) {
			avgSellPrice := sellValue.Div(sellShares)
			closed := decimal.Min(buyShares, sellShares)
			realized = avgSellPrice.Sub(avgEntryPrice).Mul(closed)
			summary.RealizedPnL = summary.RealizedPnL.Add(realized)
		}

		remaining := buyShares.Sub(sellShares)
		hasRemaining := remaining.GreaterThan(decimal.Zero)
		if !hasRemaining && sellShares.IsZero() {
			// Zero-size artifacts with no activity on either side are not
			// positions.
			continue
		}

		currentPrice := avgEntryPrice
		if p, ok := currentPrices[key]; ok {
			currentPrice = p
		}

		currentValue, unrealized := decimal.Zero, decimal.Zero
		if hasRemaining {
			currentValue = remaining.Mul(currentPrice)
			unrealized = currentValue.Sub(remaining.Mul(avgEntryPrice))
			summary.UnrealizedPnL = summary.UnrealizedPnL.Add(unrealized)
		} else {
			remaining = decimal.Zero
		}

		summary.Positions = append(summary.Positions, GhostPosition{
			ConditionID:   group[0].ConditionID,
			Title:         group[0].Title,
			Outcome:       group[0].Outcome,
			Shares:        remaining,
			AvgEntryPrice: avgEntryPrice,
			CurrentPrice:  currentPrice,
			CurrentValue:  currentValue,
			RealizedPnL:   realized,
			UnrealizedPnL: unrealized,
		})
	}

	summary.TotalPnL = summary.RealizedPnL.Add(summary.UnrealizedPnL)
	return summary
}

func emptyGhostSummary() GhostPortfolioSummary {
	return GhostPortfolioSummary{
		Positions:     []GhostPosition{},
		TotalInvested: decimal.Zero,
		TotalReturns:  decimal.Zero,
		RealizedPnL:   decimal.Zero,
		UnrealizedPnL: decimal.Zero,
		TotalPnL:      decimal.Zero,
	}
}
