package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// VolumeHistoryDays is the span of the daily volume series.
const VolumeHistoryDays = 7

var (
	hundred = decimal.NewFromInt(100)

	// profitFactorCap is the sentinel returned when a trader has gross
	// profit but no recorded losses yet.
	profitFactorCap = decimal.NewFromInt(10)
)

// Analyze replays a wallet's fills into an aggregate TradeAnalysis.
// Resolutions may be nil; held positions without resolution facts are
// excluded from win/loss counting rather than guessed at. The call is pure:
// identical inputs produce identical output, and it never fails. An empty
// fill list yields EmptyAnalysis().
func Analyze(trades []Trade, resolutions map[string]MarketResolutionInfo) TradeAnalysis {
	return AnalyzeAt(trades, resolutions, time.Now())
}

// AnalyzeAt is Analyze with an explicit reference time for the 7-day volume
// buckets.
func AnalyzeAt(trades []Trade, resolutions map[string]MarketResolutionInfo, now time.Time) TradeAnalysis {
	if len(trades) == 0 {
		return EmptyAnalysis()
	}

	var (
		wins, losses int
		grossProfit  = decimal.Zero
		grossLoss    = decimal.Zero
		totalVolume  = decimal.Zero
		bySector     = make(map[Sector]*sectorAccumulator, len(Sectors()))
	)
	for _, s := range Sectors() {
		bySector[s] = &sectorAccumulator{volume: decimal.Zero}
	}

	record := func(sector Sector, pnl decimal.Decimal) {
		acc := bySector[sector]
		if pnl.GreaterThan(decimal.Zero) {
			wins++
			acc.wins++
			grossProfit = grossProfit.Add(pnl)
			return
		}
		// Breaking even is not profitable; pnl == 0 counts as a loss.
		losses++
		acc.losses++
		grossLoss = grossLoss.Add(pnl.Abs())
	}

	for _, group := range GroupTrades(trades) {
		sector := ClassifySector(group[0].Title)
		outcome := group[0].Outcome
		conditionID := group[0].ConditionID

		buyShares, buyValue := decimal.Zero, decimal.Zero
		sellShares, sellValue := decimal.Zero, decimal.Zero
		for _, t := range group {
			notional := t.Notional()
			totalVolume = totalVolume.Add(notional)
			bySector[sector].volume = bySector[sector].volume.Add(notional)
			if t.Side == SideBuy {
				buyShares = buyShares.Add(t.Size)
				buyValue = buyValue.Add(notional)
			} else {
				sellShares = sellShares.Add(t.Size)
				sellValue = sellValue.Add(notional)
			}
		}

		var avgBuyPrice decimal.Decimal
		if buyShares.GreaterThan(decimal.Zero) {
			avgBuyPrice = buyValue.Div(buyShares)
		}

		if buyShares.GreaterThan(decimal.Zero) && sellShares.GreaterThan(decimal.Zero) {
			avgSellPrice := sellValue.Div(sellShares)
			closedShares := decimal.Min(buyShares, sellShares)
			record(sector, avgSellPrice.Sub(avgBuyPrice).Mul(closedShares))
		}

		remaining := buyShares.Sub(sellShares)
		if remaining.GreaterThan(decimal.Zero) {
			res, ok := resolutions[conditionID]
			switch {
			case ok && res.Closed && res.Status == ResolutionResolved:
				finalPrice := decimal.Zero
				if outcome == res.WinningOutcome {
					finalPrice = decimal.NewFromInt(1)
				}
				record(sector, finalPrice.Sub(avgBuyPrice).Mul(remaining))
			default:
				// Unresolved, unknown, or INVALID: held risk is neither a
				// win nor a loss.
			}
		}
	}

	analysis := TradeAnalysis{
		WinRate:         winRate(wins, losses),
		ProfitFactor:    profitFactor(grossProfit, grossLoss),
		TotalVolume:     totalVolume,
		TradeCount:      len(trades),
		SectorBreakdown: make(map[Sector]SectorStats, len(Sectors())),
		Specialty:       SectorOther,
		RecentPnL:       grossProfit.Sub(grossLoss),
		VolumeHistory:   volumeHistory(trades, now),
	}

	topVolume := decimal.NewFromInt(-1)
	for _, s := range Sectors() {
		acc := bySector[s]
		analysis.SectorBreakdown[s] = SectorStats{
			Trades:  acc.wins + acc.losses,
			WinRate: winRate(acc.wins, acc.losses),
		}
		// Strictly-greater keeps ties on the earliest sector in the fixed
		// precedence order.
		if acc.volume.GreaterThan(topVolume) {
			topVolume = acc.volume
			analysis.Specialty = s
		}
	}

	return analysis
}

// EmptyAnalysis is the defined result for a wallet with no fills: all zeros,
// specialty Other, seven zero volume buckets.
func EmptyAnalysis() TradeAnalysis {
	breakdown := make(map[Sector]SectorStats, len(Sectors()))
	for _, s := range Sectors() {
		breakdown[s] = SectorStats{WinRate: decimal.Zero}
	}
	return TradeAnalysis{
		WinRate:         decimal.Zero,
		ProfitFactor:    decimal.Zero,
		TotalVolume:     decimal.Zero,
		SectorBreakdown: breakdown,
		Specialty:       SectorOther,
		RecentPnL:       decimal.Zero,
		VolumeHistory:   zeroBuckets(),
	}
}

type sectorAccumulator struct {
	wins   int
	losses int
	volume decimal.Decimal
}

// winRate is wins over decided positions as a percentage. A history with no
// decided positions is 0%, not a coin-flip 50%.
func winRate(wins, losses int) decimal.Decimal {
	decided := wins + losses
	if decided == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(wins)).Div(decimal.NewFromInt(int64(decided))).Mul(hundred)
}

func profitFactor(grossProfit, grossLoss decimal.Decimal) decimal.Decimal {
	if grossLoss.GreaterThan(decimal.Zero) {
		return grossProfit.Div(grossLoss)
	}
	if grossProfit.GreaterThan(decimal.Zero) {
		return profitFactorCap
	}
	return decimal.Zero
}

// volumeHistory sums fill notional into seven [now-(i+1)d, now-i*d) day
// windows, oldest first.
func volumeHistory(trades []Trade, now time.Time) []decimal.Decimal {
	buckets := zeroBuckets()
	for _, t := range trades {
		age := now.Sub(t.Timestamp)
		if age < 0 || age >= VolumeHistoryDays*24*time.Hour {
			continue
		}
		daysAgo := int(age / (24 * time.Hour))
		idx := VolumeHistoryDays - 1 - daysAgo
		buckets[idx] = buckets[idx].Add(t.Notional())
	}
	return buckets
}

func zeroBuckets() []decimal.Decimal {
	buckets := make([]decimal.Decimal, VolumeHistoryDays)
	for i := range buckets {
		buckets[i] = decimal.Zero
	}
	return buckets
}
