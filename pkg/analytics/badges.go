package analytics

import "github.com/shopspring/decimal"

var (
	whaleVolume      = decimal.NewFromInt(100000)
	sniperWinRate    = decimal.NewFromInt(65)
	hotStreakWinRate = decimal.NewFromInt(70)
)

const (
	sniperMinTrades     = 10
	highVolumeMinTrades = 50
	hotStreakMinTrades  = 5
	specialistMinTrades = 10
)

// AssignBadges evaluates every badge rule independently against an analysis;
// a trader can earn any combination. TradeCount here is the raw fill count,
// not the decided-position count behind WinRate.
func AssignBadges(analysis TradeAnalysis) []Badge {
	badges := make([]Badge, 0, 5)

	if analysis.TotalVolume.GreaterThanOrEqual(whaleVolume) {
		badges = append(badges, BadgeWhale)
	}
	if analysis.WinRate.GreaterThanOrEqual(sniperWinRate) && analysis.TradeCount >= sniperMinTrades {
		badges = append(badges, BadgeSniper)
	}
	if analysis.TradeCount >= highVolumeMinTrades {
		badges = append(badges, BadgeHighVolume)
	}
	if analysis.WinRate.GreaterThanOrEqual(hotStreakWinRate) && analysis.TradeCount >= hotStreakMinTrades {
		badges = append(badges, BadgeHotStreak)
	}
	if analysis.SectorBreakdown[analysis.Specialty].Trades >= specialistMinTrades {
		badges = append(badges, BadgeSpecialist)
	}

	return badges
}
